package location

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aliasadad-hash/Journeyman/internal/httpclient"
)

const sampleSearchBody = `[
  {
    "name": "Lisbon",
    "type": "city",
    "class": "place",
    "lat": "38.7077507",
    "lon": "-9.1365919",
    "address": {"city": "Lisbon", "state": "", "country": "Portugal"}
  },
  {
    "name": "Lisbon",
    "type": "administrative",
    "class": "boundary",
    "lat": "38.7",
    "lon": "-9.1",
    "address": {"city": "Lisbon", "state": "", "country": "Portugal"}
  },
  {
    "name": "Lisbon Falls",
    "type": "waterfall",
    "class": "natural",
    "lat": "-24.9",
    "lon": "30.8",
    "address": {"state": "Mpumalanga", "country": "South Africa"}
  }
]`

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) *Geocoder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewWithBaseURL(httpclient.New(httpclient.DefaultConfig()), srv.URL)
}

func TestSearchCitiesFiltersAndDedupes(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("User-Agent header required by nominatim")
		}
		w.Write([]byte(sampleSearchBody))
	})

	cities, err := g.SearchCities(context.Background(), "lisbon")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	// Duplicate Lisbon entries collapse, the waterfall is filtered out.
	if len(cities) != 1 {
		t.Fatalf("expected 1 city, got %d: %+v", len(cities), cities)
	}
	c := cities[0]
	if c.DisplayName != "Lisbon, Portugal" || c.Country != "Portugal" {
		t.Fatalf("unexpected city: %+v", c)
	}
	if c.Latitude == 0 || c.Longitude == 0 {
		t.Fatal("coordinates not parsed")
	}
}

func TestSearchCitiesRejectsShortQuery(t *testing.T) {
	g := NewWithBaseURL(httpclient.New(httpclient.DefaultConfig()), "http://unused")
	if _, err := g.SearchCities(context.Background(), "ny"); err == nil {
		t.Fatal("expected error for query under 3 characters")
	}
}

func TestReverseBuildsDisplayName(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"address": {"town": "Sintra", "state": "Lisbon", "country": "Portugal"}}`))
	})

	city, err := g.Reverse(context.Background(), 38.8, -9.39)
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if city.DisplayName != "Sintra, Lisbon, Portugal" {
		t.Fatalf("unexpected display name %q", city.DisplayName)
	}
	if city.Latitude != 38.8 || city.Longitude != -9.39 {
		t.Fatal("input coordinates should be echoed back")
	}
}

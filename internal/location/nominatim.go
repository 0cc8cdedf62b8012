package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aliasadad-hash/Journeyman/internal/apperr"
	"github.com/aliasadad-hash/Journeyman/internal/httpclient"
)

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org"
	userAgent      = "Journeyman-Dating-App/2.0"
)

// City is a geocoded place suggestion.
type City struct {
	DisplayName string  `json:"display_name"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Country     string  `json:"country"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

type nominatimAddress struct {
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	State        string `json:"state"`
	Country      string `json:"country"`
}

type nominatimPlace struct {
	Name    string           `json:"name"`
	Type    string           `json:"type"`
	Class   string           `json:"class"`
	Lat     string           `json:"lat"`
	Lon     string           `json:"lon"`
	Address nominatimAddress `json:"address"`
}

// Geocoder queries the OpenStreetMap Nominatim API. No key required,
// but the service expects a descriptive User-Agent.
type Geocoder struct {
	http    *httpclient.Client
	baseURL string
}

func New(http *httpclient.Client) *Geocoder {
	return &Geocoder{http: http, baseURL: defaultBaseURL}
}

func NewWithBaseURL(http *httpclient.Client, baseURL string) *Geocoder {
	return &Geocoder{http: http, baseURL: baseURL}
}

// SearchCities returns deduplicated city suggestions for a free-text
// query of at least three characters.
func (g *Geocoder) SearchCities(ctx context.Context, query string) ([]City, error) {
	if len(query) < 3 {
		return nil, fmt.Errorf("%w: query must be at least 3 characters", apperr.ErrBadRequest)
	}
	params := url.Values{
		"q":              {query},
		"format":         {"json"},
		"addressdetails": {"1"},
		"limit":          {"15"},
		"type":           {"city"},
		"dedupe":         {"1"},
	}
	var places []nominatimPlace
	if err := g.get(ctx, "/search", params, &places); err != nil {
		return nil, err
	}

	cities := make([]City, 0, len(places))
	seen := map[string]bool{}
	for _, p := range places {
		if !isSettlement(p) {
			continue
		}
		name := firstNonEmpty(p.Address.City, p.Address.Town, p.Address.Village, p.Address.Municipality, p.Name)
		if name == "" {
			continue
		}
		display := joinParts(name, p.Address.State, p.Address.Country)
		key := strings.ToLower(display)
		if seen[key] {
			continue
		}
		seen[key] = true

		lat, _ := strconv.ParseFloat(p.Lat, 64)
		lon, _ := strconv.ParseFloat(p.Lon, 64)
		cities = append(cities, City{
			DisplayName: display,
			City:        name,
			State:       p.Address.State,
			Country:     p.Address.Country,
			Latitude:    lat,
			Longitude:   lon,
		})
	}
	return cities, nil
}

// Reverse resolves coordinates to the nearest city.
func (g *Geocoder) Reverse(ctx context.Context, lat, lon float64) (*City, error) {
	params := url.Values{
		"lat":            {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":            {strconv.FormatFloat(lon, 'f', -1, 64)},
		"format":         {"json"},
		"addressdetails": {"1"},
	}
	var place nominatimPlace
	if err := g.get(ctx, "/reverse", params, &place); err != nil {
		return nil, err
	}

	name := firstNonEmpty(place.Address.City, place.Address.Town, place.Address.Village, place.Address.Municipality)
	return &City{
		DisplayName: joinParts(name, place.Address.State, place.Address.Country),
		City:        name,
		State:       place.Address.State,
		Country:     place.Address.Country,
		Latitude:    lat,
		Longitude:   lon,
	}, nil
}

func (g *Geocoder) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequest(http.MethodGet, g.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: nominatim: %v", apperr.ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: nominatim status %d", apperr.ErrUpstream, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: nominatim decode: %v", apperr.ErrUpstream, err)
	}
	return nil
}

func isSettlement(p nominatimPlace) bool {
	if p.Class == "place" || p.Class == "boundary" {
		return true
	}
	switch p.Type {
	case "city", "town", "village", "municipality", "administrative":
		return true
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func joinParts(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

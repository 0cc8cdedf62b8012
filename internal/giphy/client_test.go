package giphy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aliasadad-hash/Journeyman/internal/httpclient"
)

const sampleSearchBody = `{
  "data": [
    {
      "id": "abc123",
      "title": "happy dance",
      "url": "https://giphy.com/gifs/abc123",
      "images": {
        "fixed_width": {"url": "https://media.giphy.com/fw.gif", "width": "200", "height": "150"},
        "fixed_width_small": {"url": "https://media.giphy.com/fws.gif", "width": "100", "height": "75"},
        "original": {"url": "https://media.giphy.com/orig.gif", "width": "480", "height": "360"}
      }
    },
    {
      "id": "def456",
      "title": "",
      "url": "https://giphy.com/gifs/def456",
      "images": {
        "fixed_width": {"url": "https://media.giphy.com/fw2.gif", "width": "200", "height": "112"},
        "fixed_width_small": {"url": "https://media.giphy.com/fws2.gif", "width": "100", "height": "56"},
        "original": {"url": "https://media.giphy.com/orig2.gif", "width": "480", "height": "270"}
      }
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewWithBaseURL(httpclient.New(httpclient.DefaultConfig()), "test-key", srv.URL)
}

func TestSearchFlattensImageVariants(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gifs/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("q")
		if r.URL.Query().Get("rating") != "pg-13" {
			t.Error("rating filter missing")
		}
		w.Write([]byte(sampleSearchBody))
	})

	gifs, err := c.Search(context.Background(), "dance", 20)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if gotQuery != "dance" {
		t.Fatalf("query not forwarded, got %q", gotQuery)
	}
	if len(gifs) != 2 {
		t.Fatalf("expected 2 gifs, got %d", len(gifs))
	}
	first := gifs[0]
	if first.ID != "abc123" || first.PreviewURL != "https://media.giphy.com/fws.gif" ||
		first.OriginalURL != "https://media.giphy.com/orig.gif" || first.Width != "200" {
		t.Fatalf("unexpected flattening: %+v", first)
	}
	if gifs[1].Title != "GIF" {
		t.Fatalf("empty title should default to GIF, got %q", gifs[1].Title)
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	c := NewWithBaseURL(httpclient.New(httpclient.DefaultConfig()), "test-key", "http://unused")
	if _, err := c.Search(context.Background(), "", 20); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestTrendingUsesTrendingPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gifs/trending" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"data": []}`))
	})

	gifs, err := c.Trending(context.Background(), 0)
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if len(gifs) != 0 {
		t.Fatalf("expected empty result, got %d", len(gifs))
	}
}

package giphy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aliasadad-hash/Journeyman/internal/apperr"
	"github.com/aliasadad-hash/Journeyman/internal/httpclient"
)

const defaultBaseURL = "https://api.giphy.com/v1"

// Gif is the flattened shape returned to clients.
type Gif struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	PreviewURL  string `json:"preview_url"`
	OriginalURL string `json:"original_url"`
	Width       string `json:"width,omitempty"`
	Height      string `json:"height,omitempty"`
}

type apiImage struct {
	URL    string `json:"url"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

type apiGif struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Images struct {
		FixedWidth      apiImage `json:"fixed_width"`
		FixedWidthSmall apiImage `json:"fixed_width_small"`
		Original        apiImage `json:"original"`
	} `json:"images"`
}

type apiResponse struct {
	Data []apiGif `json:"data"`
}

type Client struct {
	http    *httpclient.Client
	apiKey  string
	baseURL string
}

func New(http *httpclient.Client, apiKey string) *Client {
	return &Client{http: http, apiKey: apiKey, baseURL: defaultBaseURL}
}

// NewWithBaseURL is used by tests to point at a local server.
func NewWithBaseURL(http *httpclient.Client, apiKey, baseURL string) *Client {
	return &Client{http: http, apiKey: apiKey, baseURL: baseURL}
}

func (c *Client) Search(ctx context.Context, query string, limit int) ([]Gif, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", apperr.ErrBadRequest)
	}
	params := url.Values{
		"api_key": {c.apiKey},
		"q":       {query},
		"limit":   {strconv.Itoa(clampLimit(limit))},
		"rating":  {"pg-13"},
	}
	return c.fetch(ctx, "/gifs/search", params)
}

func (c *Client) Trending(ctx context.Context, limit int) ([]Gif, error) {
	params := url.Values{
		"api_key": {c.apiKey},
		"limit":   {strconv.Itoa(clampLimit(limit))},
		"rating":  {"pg-13"},
	}
	return c.fetch(ctx, "/gifs/trending", params)
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values) ([]Gif, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: giphy: %v", apperr.ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: giphy status %d", apperr.ErrUpstream, resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: giphy decode: %v", apperr.ErrUpstream, err)
	}

	gifs := make([]Gif, 0, len(body.Data))
	for _, item := range body.Data {
		title := item.Title
		if title == "" {
			title = "GIF"
		}
		gifs = append(gifs, Gif{
			ID:          item.ID,
			Title:       title,
			URL:         item.URL,
			PreviewURL:  item.Images.FixedWidthSmall.URL,
			OriginalURL: item.Images.Original.URL,
			Width:       item.Images.FixedWidth.Width,
			Height:      item.Images.FixedWidth.Height,
		})
	}
	return gifs, nil
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 20
	}
	if limit > 50 {
		return 50
	}
	return limit
}

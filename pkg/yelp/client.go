// Package yelp is a client for the Yelp Fusion business search endpoint,
// used as the fallback geo provider.
package yelp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.yelp.com/v3"

// Client performs Yelp Fusion operations.
type Client interface {
	Search(ctx context.Context, params SearchParams) (*SearchResponse, error)
}

// SearchParams are the query parameters for business search.
type SearchParams struct {
	Term         string
	Latitude     float64
	Longitude    float64
	RadiusMeters int
	Limit        int
}

// SearchResponse is the business search response.
type SearchResponse struct {
	Businesses []Business `json:"businesses"`
}

// Business is a single business record.
type Business struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	Location    Location    `json:"location"`
	Phone       string      `json:"phone"`
	Rating      float64     `json:"rating"`
}

// Coordinates holds a business's position. Pointers distinguish absent
// coordinates from zero values; records without both are dropped upstream.
type Coordinates struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Location holds the address lines.
type Location struct {
	DisplayAddress []string `json:"display_address"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Yelp Fusion client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	q := url.Values{
		"term":      {params.Term},
		"latitude":  {fmt.Sprintf("%g", params.Latitude)},
		"longitude": {fmt.Sprintf("%g", params.Longitude)},
		"radius":    {fmt.Sprintf("%d", params.RadiusMeters)},
		"limit":     {fmt.Sprintf("%d", params.Limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/businesses/search?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "yelp: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "yelp: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "yelp: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("yelp: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result SearchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "yelp: unmarshal response")
	}

	return &result, nil
}

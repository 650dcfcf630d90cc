// Package gpatents implements the external-index acquisition adapter against
// the public Google Patents search endpoint. Fast and unauthenticated, but a
// third-party index, not the registry of record.
package gpatents

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultEndpoint is the public query endpoint.
const DefaultEndpoint = "https://patents.google.com/xhr/query"

// envelope mirrors the endpoint's clustered response shape. Only the fields
// the normalizer consumes are declared; everything else is ignored.
type envelope struct {
	Results struct {
		TotalNumResults int       `json:"total_num_results"`
		Cluster         []cluster `json:"cluster"`
	} `json:"results"`
}

type cluster struct {
	Result []clusterEntry `json:"result"`
}

type clusterEntry struct {
	Rank   int         `json:"rank"`
	Patent patentEntry `json:"patent"`
}

type patentEntry struct {
	PublicationNumber string `json:"publication_number"`
	ApplicationNumber string `json:"application_number"`
	Title             string `json:"title"`
	Snippet           string `json:"snippet"`
	Inventor          string `json:"inventor"`
	Assignee          string `json:"assignee"`
	FilingDate        string `json:"filing_date"`
	GrantDate         string `json:"grant_date"`
	PublicationDate   string `json:"publication_date"`
	PDF               string `json:"pdf"`
}

// Client issues one search GET against the index.
type Client struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
}

// NewClient builds a Client; empty endpoint takes the default.
func NewClient(endpoint, userAgent string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint:   endpoint,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Search runs one query and decodes the clustered envelope. The endpoint
// nests the actual search expression URL-encoded inside the url parameter.
func (c *Client) Search(ctx context.Context, text string, limit int) (envelope, error) {
	var env envelope

	inner := url.Values{}
	inner.Set("q", text)
	inner.Set("num", strconv.Itoa(limit))

	params := url.Values{}
	params.Set("url", inner.Encode())
	params.Set("exp", "")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return env, fmt.Errorf("build index request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return env, fmt.Errorf("index request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return env, fmt.Errorf("index returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return env, fmt.Errorf("decode index envelope: %w", err)
	}
	return env, nil
}

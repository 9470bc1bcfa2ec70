package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"movieetl/internal/services"
)

// DefaultBaseURL is the public OMDb endpoint.
const DefaultBaseURL = "http://www.omdbapi.com/"

// Movie is the subset of the OMDb title payload the loader consumes. Every
// field is string typed and may hold the "N/A" sentinel.
type Movie struct {
	Response  string `json:"Response"`
	Error     string `json:"Error"`
	Title     string `json:"Title"`
	Year      string `json:"Year"`
	IMDbID    string `json:"imdbID"`
	Director  string `json:"Director"`
	Plot      string `json:"Plot"`
	BoxOffice string `json:"BoxOffice"`
	Runtime   string `json:"Runtime"`
}

// Looker is the lookup surface consumed by enrichment.
type Looker interface {
	Lookup(ctx context.Context, title string, year int) (*Movie, error)
}

// Client provides access to the OMDb API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Looker = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the HTTP client timeout for each request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			clone := *c.httpClient
			clone.Timeout = timeout
			c.httpClient = &clone
		}
	}
}

// New creates an OMDb client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("omdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse omdb url: %w", err)
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Lookup fetches a movie by exact title. A year of zero or less is omitted
// from the query.
func (c *Client) Lookup(ctx context.Context, title string, year int) (*Movie, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse omdb url: %w", err)
	}
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("t", title)
	params.Set("type", "movie")
	params.Set("r", "json")
	if year > 0 {
		params.Set("y", strconv.Itoa(year))
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, services.Wrap(services.ErrEnrichmentUnavailable, "omdb", "lookup",
			fmt.Sprintf("execute request (latency=%v)", latency), redact(err, c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrEnrichmentUnavailable, "omdb", "lookup",
			fmt.Sprintf("omdb returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	var payload Movie
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrEnrichmentUnavailable, "omdb", "lookup", "decode omdb response", err)
	}
	if !strings.EqualFold(strings.TrimSpace(payload.Response), "True") {
		msg := strings.TrimSpace(payload.Error)
		if msg == "" {
			msg = "no match"
		}
		return nil, services.Wrap(services.ErrNotFound, "omdb", "lookup", msg, nil)
	}
	return &payload, nil
}

// redact strips the api key from transport errors, which embed the request URL.
func redact(err error, apiKey string) error {
	if err == nil || apiKey == "" {
		return err
	}
	msg := err.Error()
	if !strings.Contains(msg, apiKey) {
		return err
	}
	return errors.New(strings.ReplaceAll(msg, apiKey, "REDACTED"))
}

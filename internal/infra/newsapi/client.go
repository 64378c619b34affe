// Package newsapi is the HTTP client for the NewsData-style upstream source.
// It fetches a single page of latest articles per call and translates the
// upstream's error envelope into the ingest package's error taxonomy.
package newsapi

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"newshub/internal/usecase/ingest"
)

const (
	// DefaultEndpoint is the upstream latest-news endpoint.
	DefaultEndpoint = "https://newsdata.io/api/1/news"
	// DefaultTimeout bounds one fetch request.
	DefaultTimeout = 30 * time.Second

	// unsupportedFilterCode is the upstream error code treated as benign.
	unsupportedFilterCode = "UnsupportedFilter"

	// maxErrorBody caps how much of an error response body is kept for
	// diagnostics.
	maxErrorBody = 4 << 10
)

// Config holds client settings.
type Config struct {
	APIKey   string
	Endpoint string        // defaults to DefaultEndpoint
	Timeout  time.Duration // defaults to DefaultTimeout
}

// Client fetches records from the upstream news API.
type Client struct {
	http     *http.Client
	endpoint string
	apiKey   string
}

// NewClient creates a client with a pooled HTTP transport enforcing TLS 1.2+.
func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
			},
		},
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
	}
}

// envelope is the upstream response shape. Results is either a record array
// or, when Status is "error", an apiError object.
type envelope struct {
	Status  string          `json:"status"`
	Results json.RawMessage `json:"results"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FetchLatest issues one request for the upstream's default first page. No
// pagination parameters are sent; the single page cap is deliberate.
//
// An "UnsupportedFilter" error envelope yields ingest.ErrUnsupportedFilter.
// Non-2xx responses and malformed bodies are returned as errors carrying the
// upstream status and a body excerpt for diagnostics.
func (c *Client) FetchLatest(ctx context.Context) ([]ingest.Record, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request latest news: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("upstream returned status %d: %s", resp.StatusCode, string(body))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if env.Status == "error" {
		var apiErr apiError
		if err := json.Unmarshal(env.Results, &apiErr); err != nil {
			return nil, fmt.Errorf("upstream error with undecodable detail: %s", string(env.Results))
		}
		if apiErr.Code == unsupportedFilterCode {
			return nil, fmt.Errorf("%w: %s", ingest.ErrUnsupportedFilter, apiErr.Message)
		}
		return nil, fmt.Errorf("upstream error %s: %s", apiErr.Code, apiErr.Message)
	}

	var records []ingest.Record
	if len(env.Results) > 0 {
		if err := json.Unmarshal(env.Results, &records); err != nil {
			return nil, fmt.Errorf("decode results: %w", err)
		}
	}
	return records, nil
}

// Package pokeapi fetches and decodes Pokemon documents in the PokeAPI v2
// format.
package pokeapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/pokelookup/pkg/metrics"
)

const (
	// DefaultBaseURL is the public PokeAPI v2 endpoint.
	DefaultBaseURL = "https://pokeapi.co/api/v2"
	// DefaultTimeout bounds a single document request.
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent identifies the client to the upstream API.
	DefaultUserAgent = "pokelookup/1.0"

	maxDocumentBytes = 4 << 20
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the API root. Trailing slashes are stripped.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			c.baseURL = base
		}
	}
}

// WithTimeout sets the per-request timeout. It applies to a client given
// through WithHTTPClient too, whichever option comes first.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. Without WithTimeout
// the client's own timeout is kept; the caller's client is never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// Client downloads raw Pokemon documents.
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	http      *http.Client
}

// NewClient creates a Client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		http:      &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 && c.http.Timeout != c.timeout {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// BaseURL returns the API root in use.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchPokemon returns the raw JSON document for one pokedex number.
func (c *Client) FetchPokemon(ctx context.Context, id int) ([]byte, error) {
	start := time.Now()
	doc, err := c.fetch(ctx, id)
	metrics.RecordFetch(time.Since(start), err)
	return doc, err
}

func (c *Client) fetch(ctx context.Context, id int) ([]byte, error) {
	url := c.baseURL + "/pokemon/" + strconv.Itoa(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for #%d: %w", id, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch #%d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDocumentBytes))
		return nil, &StatusError{ID: id, Code: resp.StatusCode}
	}

	doc, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("read #%d: %w", id, err)
	}
	return doc, nil
}

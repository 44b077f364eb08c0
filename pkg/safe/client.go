package safe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every request made by a SafeClient
const DefaultTimeout = 30 * time.Second

// ErrNotFound is returned when the service answers 404
var ErrNotFound = errors.New("not found")

// StatusError is returned for any other non-200 answer
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d, body: %s", e.StatusCode, e.Body)
}

// SafeClient talks to the Safe Transaction Service of one chain
type SafeClient struct {
	serviceURL string
	apiKey     string
	httpClient *http.Client
}

// Option configures a SafeClient
type Option func(*SafeClient)

// WithBaseURL replaces the per-chain service URL
func WithBaseURL(url string) Option {
	return func(c *SafeClient) {
		if url != "" {
			c.serviceURL = strings.TrimRight(url, "/")
		}
	}
}

// WithAPIKey sends key as a bearer token
func WithAPIKey(key string) Option {
	return func(c *SafeClient) {
		c.apiKey = key
	}
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *SafeClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewSafeClient creates a client for chainID. The chain must have a known
// service URL unless WithBaseURL is given.
func NewSafeClient(chainID uint64, opts ...Option) (*SafeClient, error) {
	c := &SafeClient{
		serviceURL: TransactionServiceURLs[chainID],
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.serviceURL == "" {
		return nil, fmt.Errorf("unsupported chain ID: %d", chainID)
	}
	return c, nil
}

// ServiceURL returns the base URL requests are sent to
func (c *SafeClient) ServiceURL() string {
	return c.serviceURL
}

func (c *SafeClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serviceURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

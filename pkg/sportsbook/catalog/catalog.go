// Package catalog fetches the bookmaker's market catalog and gates
// placement on markets the resolver can actually settle.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/oddsforge/sportsbook/pkg/sportsbook/market"
)

// Market is one catalog entry.
type Market struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ErrUnsupportedMarket is returned when a market has no resolution
// handler. Accepting such a bet would leave it permanently unresolved.
type ErrUnsupportedMarket struct {
	Name string
}

func (e *ErrUnsupportedMarket) Error() string {
	return fmt.Sprintf("market has no settlement handler: %q", e.Name)
}

// Check validates a market name at placement time against the
// resolver's handler families.
func Check(name string) error {
	if !market.IsSupported(name) {
		return &ErrUnsupportedMarket{Name: name}
	}
	return nil
}

// Client fetches the market catalog from the odds feed.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter

	mu      sync.RWMutex
	byID    map[int]Market
	fetched time.Time
}

const catalogCacheTTL = time.Hour

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithAPIKey sets the feed API key header value.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// NewClient creates a new catalog client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(5), 5),
		byID:       make(map[int]Market),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListMarkets fetches the catalog, serving a cached copy when fresh.
func (c *Client) ListMarkets(ctx context.Context) ([]Market, error) {
	c.mu.RLock()
	if len(c.byID) > 0 && time.Since(c.fetched) < catalogCacheTTL {
		markets := make([]Market, 0, len(c.byID))
		for _, m := range c.byID {
			markets = append(markets, m)
		}
		c.mu.RUnlock()
		return markets, nil
	}
	c.mu.RUnlock()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/odds/bets", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-apisports-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("feed error %d: %s", resp.StatusCode, string(body))
	}

	var envelope struct {
		Response []Market `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	c.mu.Lock()
	c.byID = make(map[int]Market, len(envelope.Response))
	for _, m := range envelope.Response {
		c.byID[m.ID] = m
	}
	c.fetched = time.Now()
	c.mu.Unlock()

	return envelope.Response, nil
}

// MarketName resolves a catalog id to its market name.
func (c *Client) MarketName(id int) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.byID[id]
	return m.Name, ok
}

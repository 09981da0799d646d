package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the sports data feed base URL.
	DefaultBaseURL = "https://v3.football.api-sports.io"

	// Feed plan rate limits.
	defaultRateLimit = 5.0 // requests per second
	defaultBurst     = 5

	// Finished fixtures do not change; cache entries live this long so a
	// settlement retry loop does not re-fetch the same match every run.
	contextCacheTTL = 10 * time.Minute
)

// Client fetches fixture settlement snapshots from the upstream sports
// data feed and assembles them into Contexts.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter

	mu    sync.RWMutex
	cache map[int]cacheEntry
}

type cacheEntry struct {
	ctx     *Context
	fetched time.Time
}

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

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRateLimit sets custom rate limiting.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient creates a new fixture data client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
		cache:   make(map[int]cacheEntry),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// --- Feed wire types ---

type feedEnvelope struct {
	Response json.RawMessage `json:"response"`
}

type feedFixture struct {
	Fixture struct {
		ID     int `json:"id"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	Teams struct {
		Home Team `json:"home"`
		Away Team `json:"away"`
	} `json:"teams"`
	Goals Period `json:"goals"`
	Score Score  `json:"score"`
}

type feedEvent struct {
	Time struct {
		Elapsed int  `json:"elapsed"`
		Extra   *int `json:"extra"`
	} `json:"time"`
	Team   Team `json:"team"`
	Player struct {
		Name string `json:"name"`
	} `json:"player"`
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

type feedTeamStatistics struct {
	Team       Team `json:"team"`
	Statistics []struct {
		Type  string `json:"type"`
		Value any    `json:"value"`
	} `json:"statistics"`
}

// FetchContext fetches a fixture and assembles its settlement Context.
// Events and statistics are fetched only when requested; skipped
// enrichments leave the corresponding Context field nil so the resolver
// can tell "not fetched" from "empty".
func (c *Client) FetchContext(ctx context.Context, fixtureID int, withEvents, withStats bool) (*Context, error) {
	if fc := c.cached(fixtureID, withEvents, withStats); fc != nil {
		return fc, nil
	}

	params := url.Values{}
	params.Set("id", strconv.Itoa(fixtureID))

	var fixtures []feedFixture
	if err := c.get(ctx, "/fixtures", params, &fixtures); err != nil {
		return nil, err
	}
	if len(fixtures) == 0 {
		return nil, fmt.Errorf("fixture not found: %d", fixtureID)
	}

	raw := fixtures[0]
	fc := &Context{
		ID:     raw.Fixture.ID,
		Status: raw.Fixture.Status.Short,
		Home:   raw.Teams.Home,
		Away:   raw.Teams.Away,
		Goals:  raw.Goals,
		Score:  raw.Score,
	}

	if withEvents {
		events, err := c.fetchEvents(ctx, fixtureID)
		if err != nil {
			return nil, err
		}
		fc.Events = events
	}

	if withStats {
		stats, err := c.fetchStatistics(ctx, fixtureID)
		if err != nil {
			return nil, err
		}
		fc.Statistics = stats
	}

	c.store(fc)
	return fc, nil
}

func (c *Client) fetchEvents(ctx context.Context, fixtureID int) ([]Event, error) {
	params := url.Values{}
	params.Set("fixture", strconv.Itoa(fixtureID))

	var raw []feedEvent
	if err := c.get(ctx, "/fixtures/events", params, &raw); err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(raw))
	for _, ev := range raw {
		extra := 0
		if ev.Time.Extra != nil {
			extra = *ev.Time.Extra
		}
		events = append(events, Event{
			Kind:   ClassifyEvent(ev.Type, ev.Detail),
			Minute: ev.Time.Elapsed,
			Extra:  extra,
			TeamID: ev.Team.ID,
			Player: ev.Player.Name,
		})
	}
	return events, nil
}

func (c *Client) fetchStatistics(ctx context.Context, fixtureID int) ([]TeamStatistics, error) {
	params := url.Values{}
	params.Set("fixture", strconv.Itoa(fixtureID))

	var raw []feedTeamStatistics
	if err := c.get(ctx, "/fixtures/statistics", params, &raw); err != nil {
		return nil, err
	}

	stats := make([]TeamStatistics, 0, len(raw))
	for _, ts := range raw {
		out := TeamStatistics{Team: ts.Team}
		for _, s := range ts.Statistics {
			out.Stats = append(out.Stats, Stat{
				Type:  s.Type,
				Value: ParseStatValue(s.Value),
			})
		}
		stats = append(stats, out)
	}
	return stats, nil
}

// cached returns a fresh cache entry that carries at least the requested
// enrichments.
func (c *Client) cached(fixtureID int, withEvents, withStats bool) *Context {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.cache[fixtureID]
	if !ok || time.Since(entry.fetched) > contextCacheTTL {
		return nil
	}
	if withEvents && !entry.ctx.HasEvents() {
		return nil
	}
	if withStats && !entry.ctx.HasStatistics() {
		return nil
	}
	return entry.ctx
}

func (c *Client) store(fc *Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[fc.ID] = cacheEntry{ctx: fc, fetched: time.Now()}
}

// get performs a GET request with rate limiting and unwraps the feed's
// response envelope.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	// Build URL
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	// Create request
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-apisports-key", c.apiKey)
	}

	// Execute request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	// Check status
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("feed error %d: %s", resp.StatusCode, string(body))
	}

	var envelope feedEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal(envelope.Response, result); err != nil {
		return fmt.Errorf("decode response payload: %w", err)
	}

	return nil
}

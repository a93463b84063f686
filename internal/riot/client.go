// Package riot provides a rate-limited client for the Riot match-v5 API.
// 429 responses surface as ErrRateLimited so the enclosing scheduler can
// back off; other failures surface as non-retryable ProviderErrors.
package riot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// Rate limits for dev key (conservative values to stay under the caps)
	requestsPerSecond = 15 // Actual: 20
	requestsPer2Min   = 90 // Actual: 100
)

// regionalHosts maps a platform region to its routing host.
var regionalHosts = map[string]string{
	"na":   "https://americas.api.riotgames.com",
	"br":   "https://americas.api.riotgames.com",
	"lan":  "https://americas.api.riotgames.com",
	"las":  "https://americas.api.riotgames.com",
	"euw":  "https://europe.api.riotgames.com",
	"eune": "https://europe.api.riotgames.com",
	"tr":   "https://europe.api.riotgames.com",
	"ru":   "https://europe.api.riotgames.com",
	"kr":   "https://asia.api.riotgames.com",
	"jp":   "https://asia.api.riotgames.com",
	"oce":  "https://sea.api.riotgames.com",
}

const defaultHost = "https://americas.api.riotgames.com"

// Client is a rate-limited Riot API client.
type Client struct {
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger

	// Overrides the regional host when set (tests point this at httptest).
	baseURL string

	// Sliding-window rate limiting
	mu          sync.Mutex
	shortWindow []time.Time // requests in the last second
	longWindow  []time.Time // requests in the last 2 minutes
}

// NewClient creates a new Riot API client.
func NewClient(apiKey string, logger *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("riot api key not set")
	}
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:      logger.Named("riot"),
		shortWindow: make([]time.Time, 0),
		longWindow:  make([]time.Time, 0),
	}, nil
}

// SetBaseURL overrides the regional routing host. Used in tests.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

func (c *Client) hostFor(region string) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	// Accept platform ids like na1/euw1 as well as bare region names.
	region = strings.TrimRight(strings.ToLower(region), "0123456789")
	if host, ok := regionalHosts[region]; ok {
		return host
	}
	return defaultHost
}

// waitForRateLimit blocks until another request is allowed under both windows.
func (c *Client) waitForRateLimit(ctx context.Context) error {
	for {
		c.mu.Lock()
		now := time.Now()

		oneSecondAgo := now.Add(-1 * time.Second)
		twoMinutesAgo := now.Add(-2 * time.Minute)

		newShort := c.shortWindow[:0]
		for _, t := range c.shortWindow {
			if t.After(oneSecondAgo) {
				newShort = append(newShort, t)
			}
		}
		c.shortWindow = newShort

		newLong := c.longWindow[:0]
		for _, t := range c.longWindow {
			if t.After(twoMinutesAgo) {
				newLong = append(newLong, t)
			}
		}
		c.longWindow = newLong

		var waitTime time.Duration
		if len(c.shortWindow) >= requestsPerSecond {
			waitTime = c.shortWindow[0].Add(time.Second).Sub(now) + 100*time.Millisecond
		} else if len(c.longWindow) >= requestsPer2Min {
			waitTime = c.longWindow[0].Add(2*time.Minute).Sub(now) + 100*time.Millisecond
		}

		if waitTime > 0 {
			c.mu.Unlock()
			c.logger.Debug("local rate limit hit, waiting", zap.Duration("wait", waitTime))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitTime):
				continue
			}
		}

		c.shortWindow = append(c.shortWindow, time.Now())
		c.longWindow = append(c.longWindow, time.Now())
		c.mu.Unlock()
		return nil
	}
}

// doRequest makes a rate-limited GET, decodes the JSON body into result, and
// returns the unmodified body bytes so callers can persist the artifact
// verbatim rather than a re-marshal of the decoded subset.
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) ([]byte, error) {
	if err := c.waitForRateLimit(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		if err := json.Unmarshal(body, result); err != nil {
			return nil, err
		}
		return body, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		// Retry-After is advisory; the scheduler owns the backoff.
		retryAfter := resp.Header.Get("Retry-After")
		c.logger.Warn("rate limited by provider", zap.String("retry_after", retryAfter))
		return nil, ErrRateLimited

	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound

	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
}

// GetMatchDetails fetches match details, or nil with ErrNotFound when the
// match does not exist.
func (c *Client) GetMatchDetails(ctx context.Context, matchID, region string) (*MatchResponse, error) {
	url := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.hostFor(region), matchID)

	var match MatchResponse
	raw, err := c.doRequest(ctx, url, &match)
	if err != nil {
		return nil, err
	}
	match.Raw = raw
	return &match, nil
}

// GetTimeline fetches the per-minute event timeline for a match.
func (c *Client) GetTimeline(ctx context.Context, matchID, region string) (*TimelineResponse, error) {
	url := fmt.Sprintf("%s/lol/match/v5/matches/%s/timeline", c.hostFor(region), matchID)

	var timeline TimelineResponse
	raw, err := c.doRequest(ctx, url, &timeline)
	if err != nil {
		return nil, err
	}
	timeline.Raw = raw
	return &timeline, nil
}

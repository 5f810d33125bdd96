// Package wiki is a rate-limited client for the MediaWiki action API,
// covering the two lookups the explorer needs: best-matching title for a
// free-text query, and the outbound links of a title.
package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/gyaneshwarpardhi/topicexplorer/internal/config"
)

const (
	// BaseURL is the English Wikipedia action API endpoint.
	BaseURL = "https://en.wikipedia.org/w/api.php"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxLinkPages caps how many continuation pages of links are read.
	DefaultMaxLinkPages = 4

	maxBodyBytes = 8 << 20
)

// Client looks up titles and links. It is safe for concurrent use.
type Client struct {
	httpClient   *http.Client
	limiter      *rate.Limiter
	breaker      *gobreaker.CircuitBreaker
	baseURL      string
	userAgent    string
	maxLinkPages int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom API endpoint (for testing).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRateLimit sets the client-side request rate.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithMaxLinkPages caps link continuation.
func WithMaxLinkPages(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxLinkPages = n
		}
	}
}

// WithBreaker replaces the circuit breaker settings.
func WithBreaker(conf config.BreakerConf) Option {
	return func(c *Client) {
		c.breaker = newBreaker(conf)
	}
}

// New creates a client for the English Wikipedia API.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		limiter:      rate.NewLimiter(rate.Limit(5), 2),
		baseURL:      BaseURL,
		userAgent:    "topicexplorer/1.0",
		maxLinkPages: DefaultMaxLinkPages,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = newBreaker(config.Default().Wiki.Breaker)
	}
	return c
}

// NewFromConfig creates a client from the wiki config section.
func NewFromConfig(conf config.WikiConf) *Client {
	return New(
		WithHTTPClient(&http.Client{Timeout: time.Duration(conf.TimeoutMs) * time.Millisecond}),
		WithBaseURL(conf.BaseURL),
		WithUserAgent(conf.UserAgent),
		WithRateLimit(conf.RateLimit, conf.Burst),
		WithMaxLinkPages(conf.MaxLinkPages),
		WithBreaker(conf.Breaker),
	)
}

func newBreaker(conf config.BreakerConf) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "wiki",
		MaxRequests: conf.MaxRequests,
		Interval:    time.Duration(conf.IntervalMs) * time.Millisecond,
		Timeout:     time.Duration(conf.TimeoutMs) * time.Millisecond,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < conf.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= conf.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !isServerFault(err)
		},
	})
}

// BreakerState returns the circuit breaker state name.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// Search returns the title of the best match for query.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"format":   {"json"},
		"srsearch": {query},
		"srlimit":  {"1"},
		"srprop":   {"snippet"},
	}
	body, err := c.get(ctx, params)
	if err != nil {
		return "", err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: parsing search results: %v", ErrInvalidResponse, err)
	}
	if resp.Error != nil {
		return "", &APIError{StatusCode: http.StatusOK, Code: resp.Error.Code, Message: resp.Error.Info}
	}
	if len(resp.Query.Search) == 0 || resp.Query.Search[0].Title == "" {
		return "", fmt.Errorf("%w: %q", ErrNoMatch, query)
	}
	return resp.Query.Search[0].Title, nil
}

// Links returns the titles linked from the article title, in API order.
// An article without links yields an empty, non-nil slice.
func (c *Client) Links(ctx context.Context, title string) ([]string, error) {
	links := []string{}
	cont := ""
	for page := 0; page < c.maxLinkPages; page++ {
		params := url.Values{
			"action":    {"query"},
			"format":    {"json"},
			"titles":    {title},
			"prop":      {"links"},
			"pllimit":   {"max"},
			"redirects": {"1"},
		}
		if cont != "" {
			params.Set("plcontinue", cont)
		}
		body, err := c.get(ctx, params)
		if err != nil {
			return nil, err
		}

		var resp linksResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("%w: parsing links: %v", ErrInvalidResponse, err)
		}
		if resp.Error != nil {
			return nil, &APIError{StatusCode: http.StatusOK, Code: resp.Error.Code, Message: resp.Error.Info}
		}
		if len(resp.Query.Pages) == 0 {
			return nil, fmt.Errorf("%w: no pages for %q", ErrInvalidResponse, title)
		}

		for _, p := range sortedPages(resp.Query.Pages) {
			if p.Missing != nil || p.Invalid != nil {
				return nil, fmt.Errorf("%w: %q", ErrNotFound, title)
			}
			for _, l := range p.Links {
				links = append(links, l.Title)
			}
		}

		cont = resp.Continue.PLContinue
		if cont == "" {
			break
		}
	}
	return links, nil
}

// sortedPages returns the pages ordered by key so results are deterministic.
func sortedPages(pages map[string]linksPage) []linksPage {
	keys := make([]string, 0, len(pages))
	for k := range pages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]linksPage, 0, len(keys))
	for _, k := range keys {
		out = append(out, pages[k])
	}
	return out
}

// get performs one rate-limited, breaker-guarded GET and returns the body.
func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, params)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}
	return result.([]byte), nil
}

func (c *Client) fetch(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: reading body: %v", ErrNetwork, err)
	}
	return body, nil
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}
	return nil
}

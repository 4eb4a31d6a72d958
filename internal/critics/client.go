package critics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"questlog/internal/logging"
	"questlog/internal/matching"
	"questlog/internal/services"
)

// Candidate is one aggregator search result.
type Candidate struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	TopCriticScore *float64 `json:"topCriticScore,omitempty"`
}

// Score returns the candidate's score truncated to an integer, or nil when
// the aggregator has none. The aggregator reports -1 for unscored games.
func (c Candidate) Score() *int {
	return normalizeScore(c.TopCriticScore)
}

type detailResponse struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	TopCriticScore *float64 `json:"topCriticScore"`
}

// Source is the aggregator surface used by enrichment.
type Source interface {
	Search(ctx context.Context, title string) ([]Candidate, error)
	Score(ctx context.Context, id int64) (*int, error)
	Lookup(ctx context.Context, title string) (*int, error)
}

// Client talks to the aggregator API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger
}

var _ Source = (*Client)(nil)

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

// WithBackoff sets the initial retry delay; each retry doubles it.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.backoff = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "critics")
	}
}

// New creates an aggregator client limited to rps requests per second.
func New(baseURL string, rps, maxRetries int, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("critics base url required")
	}
	if rps <= 0 {
		return nil, errors.New("critics requests per second must be positive")
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	client := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "questlog",
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
		backoff:    time.Second,
		logger:     logging.NewComponentLogger(nil, "critics"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Search returns aggregator candidates for title.
func (c *Client) Search(ctx context.Context, title string) ([]Candidate, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title must not be empty")
	}
	u := fmt.Sprintf("%s/game/search?criteria=%s", c.baseURL, url.QueryEscape(title))
	var res []Candidate
	if err := c.get(ctx, "search", u, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// Score returns the top-critic score for an aggregator id.
func (c *Client) Score(ctx context.Context, id int64) (*int, error) {
	u := c.baseURL + "/game/" + strconv.FormatInt(id, 10)
	var res detailResponse
	if err := c.get(ctx, "score", u, &res); err != nil {
		return nil, err
	}
	return normalizeScore(res.TopCriticScore), nil
}

// Lookup searches for title, picks the best candidate, and returns its score.
// A nil score with a nil error means no candidate matched or it is unscored.
func (c *Client) Lookup(ctx context.Context, title string) (*int, error) {
	results, err := c.Search(ctx, title)
	if err != nil {
		return nil, err
	}
	candidates := make([]matching.Candidate, 0, min(len(results), matching.MaxCandidates))
	for _, r := range results {
		candidates = append(candidates, matching.Candidate{ID: r.ID, Name: r.Name, PreScore: r.Score()})
	}
	best, ok := matching.SelectBest(c.logger, title, candidates)
	if !ok {
		c.logger.Debug("no aggregator candidate matched", logging.String("title", title))
		return nil, nil
	}
	if best.PreScore != nil {
		return best.PreScore, nil
	}
	return c.Score(ctx, best.ID)
}

func (c *Client) get(ctx context.Context, operation, u string, target any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoff * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		body, status, err := c.do(ctx, u)
		if err != nil {
			lastErr = err
			continue
		}
		if status != http.StatusOK {
			if status == http.StatusTooManyRequests || status >= 500 {
				lastErr = fmt.Errorf("unexpected status code: %d", status)
				continue
			}
			if status == http.StatusNotFound {
				return services.Wrap(services.ErrNotFound, "critics", operation, "not found", nil)
			}
			return services.Wrap(services.ErrTransient, "critics", operation, fmt.Sprintf("unexpected status code: %d", status), nil)
		}

		trimmed := bytes.TrimSpace(body)
		if len(trimmed) == 0 || (trimmed[0] != '[' && trimmed[0] != '{') {
			return services.Wrap(services.ErrConnectionBlocked, "critics", operation, "response is not JSON", nil)
		}
		if err := json.Unmarshal(trimmed, target); err != nil {
			return services.Wrap(services.ErrConnectionBlocked, "critics", operation, "decode response", err)
		}
		return nil
	}
	return services.Wrap(services.ErrTransient, "critics", operation, fmt.Sprintf("after %d retries", c.maxRetries), lastErr)
}

func (c *Client) do(ctx context.Context, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func normalizeScore(value *float64) *int {
	if value == nil || *value < 0 || math.IsNaN(*value) {
		return nil
	}
	score := int(math.Trunc(*value))
	return &score
}

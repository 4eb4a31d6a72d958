package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"questlog/internal/logging"
	"questlog/internal/services"
)

const searchLimit = 10

const gameFields = "name,summary,cover.url,first_release_date,aggregated_rating,rating," +
	"genres.name,platforms.name,involved_companies.company.name,involved_companies.developer," +
	"involved_companies.publisher,age_ratings.category,age_ratings.rating,game_type,version_parent," +
	"dlcs.name,dlcs.game_type,dlcs.cover.url,dlcs.first_release_date"

// Searcher defines the catalog operations used by enrichment.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Record, error)
	Details(ctx context.Context, id int64) (*Record, error)
}

// Client provides access to the catalog API.
type Client struct {
	clientID   string
	baseURL    string
	tokens     TokenProvider
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Searcher = (*Client)(nil)

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

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "catalog")
	}
}

// New creates a catalog client.
func New(clientID, baseURL string, tokens TokenProvider, opts ...Option) (*Client, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, errors.New("catalog client id required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("catalog base url required")
	}
	if tokens == nil {
		return nil, errors.New("catalog token provider required")
	}
	client := &Client{
		clientID:   clientID,
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logging.NewComponentLogger(nil, "catalog"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Search returns up to ten catalog records matching query.
func (c *Client) Search(ctx context.Context, query string) ([]Record, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	body := fmt.Sprintf("search %s; fields %s; limit %d;", strconv.Quote(query), gameFields, searchLimit)
	games, err := c.query(ctx, "search", body)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(games))
	for _, g := range games {
		records = append(records, g.toRecord())
	}
	return records, nil
}

// Details fetches a single record by catalog id.
func (c *Client) Details(ctx context.Context, id int64) (*Record, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid catalog id %d", id)
	}
	body := fmt.Sprintf("fields %s; where id = %d;", gameFields, id)
	games, err := c.query(ctx, "details", body)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "catalog", "details", fmt.Sprintf("game %d not found", id), nil)
	}
	rec := games[0].toRecord()
	return &rec, nil
}

func (c *Client) query(ctx context.Context, operation, body string) ([]gameDTO, error) {
	resp, latency, err := c.post(ctx, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		c.logger.Debug("catalog token rejected; refreshing", logging.String("operation", operation))
		c.tokens.Invalidate()
		resp, latency, err = c.post(ctx, body)
		if err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		marker := services.ErrTransient
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			marker = services.ErrConfiguration
		}
		return nil, services.Wrap(marker, "catalog", operation, fmt.Sprintf("catalog returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "catalog", operation, "read response", err)
	}
	if !looksLikeJSON(resp.Header.Get("Content-Type"), payload) {
		return nil, services.Wrap(services.ErrConnectionBlocked, "catalog", operation, "response is not JSON", nil)
	}

	var games []gameDTO
	if err := json.Unmarshal(payload, &games); err != nil {
		return nil, services.Wrap(services.ErrConnectionBlocked, "catalog", operation, "decode response", err)
	}
	c.logger.Debug("catalog query complete",
		logging.String("operation", operation),
		logging.Int("results", len(games)),
		logging.Duration("latency", latency))
	return games, nil
}

func (c *Client) post(ctx context.Context, body string) (*http.Response, time.Duration, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, 0, services.Wrap(services.ErrConfiguration, "catalog", "token", "obtain access token", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/games", bytes.NewBufferString(body))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "text/plain")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, latency, services.Wrap(services.ErrTransient, "catalog", "request", fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	return resp, latency, nil
}

// looksLikeJSON rejects HTML or other pages injected by proxies and captive portals.
func looksLikeJSON(contentType string, body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return false
	}
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return false
	}
	return trimmed[0] == '[' || trimmed[0] == '{'
}

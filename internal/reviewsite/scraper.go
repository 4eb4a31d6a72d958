// Package reviewsite scrapes press and user scores from a review site's game
// pages.
//
// Score nodes are located with prioritized CSS selector lists. The first
// selector that matches any node wins; later selectors only cover older page
// layouts. A matched node whose text is not a score (for example "tbd")
// yields no score rather than falling through to the next selector.
package reviewsite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"questlog/internal/logging"
	"questlog/internal/scores"
	"questlog/internal/services"
	"questlog/internal/textutil"
)

// Scraper fetches review pages and extracts scores.
type Scraper struct {
	baseURL        string
	userAgent      string
	pressSelectors []string
	userSelectors  []string
	httpClient     *http.Client
	logger         *slog.Logger
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Scraper) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scraper) {
		s.logger = logging.NewComponentLogger(logger, "reviewsite")
	}
}

// New creates a scraper. Both selector lists must be non-empty.
func New(baseURL, userAgent string, pressSelectors, userSelectors []string, opts ...Option) (*Scraper, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("review site base url required")
	}
	if len(pressSelectors) == 0 || len(userSelectors) == 0 {
		return nil, errors.New("review site selectors required")
	}
	s := &Scraper{
		baseURL:        baseURL,
		userAgent:      strings.TrimSpace(userAgent),
		pressSelectors: append([]string(nil), pressSelectors...),
		userSelectors:  append([]string(nil), userSelectors...),
		httpClient:     &http.Client{Timeout: 20 * time.Second},
		logger:         logging.NewComponentLogger(nil, "reviewsite"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// PageURL returns the review page location for title.
func (s *Scraper) PageURL(title string) (string, error) {
	slug := textutil.Slug(title)
	if slug == "" {
		return "", services.Wrap(services.ErrValidation, "reviewsite", "slug", fmt.Sprintf("title %q has no slug", title), nil)
	}
	return s.baseURL + "/game/" + slug + "/", nil
}

// Scrape fetches the review page for title and extracts both scores.
func (s *Scraper) Scrape(ctx context.Context, title string) (scores.ScrapeResult, error) {
	pageURL, err := s.PageURL(title)
	if err != nil {
		return scores.ScrapeResult{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return scores.ScrapeResult{}, fmt.Errorf("build request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept", "text/html")

	requestStart := time.Now()
	resp, err := s.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return scores.ScrapeResult{}, services.Wrap(services.ErrTransient, "reviewsite", "fetch", fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return scores.ScrapeResult{}, services.Wrap(services.ErrNotFound, "reviewsite", "fetch", pageURL, nil)
	case resp.StatusCode != http.StatusOK:
		return scores.ScrapeResult{}, services.Wrap(services.ErrTransient, "reviewsite", "fetch", fmt.Sprintf("review site returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	result, err := s.Parse(resp.Body)
	if err != nil {
		return scores.ScrapeResult{}, err
	}
	s.logger.Debug("review page scraped",
		logging.String("url", pageURL),
		logging.Bool("press_found", result.Press != nil),
		logging.Bool("user_found", result.User != nil),
		logging.Duration("latency", latency))
	return result, nil
}

// Parse extracts scores from an HTML document. The user score is rescaled to
// 0-100.
func (s *Scraper) Parse(r io.Reader) (scores.ScrapeResult, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return scores.ScrapeResult{}, services.Wrap(services.ErrTransient, "reviewsite", "parse", "read document", err)
	}
	var result scores.ScrapeResult
	if text, ok := firstMatch(doc, s.pressSelectors); ok {
		if v, ok := scores.Parse(text); ok {
			result.Press = &v
		}
	}
	if text, ok := firstMatch(doc, s.userSelectors); ok {
		if v, ok := scores.ParseUser(text); ok {
			result.User = &v
		}
	}
	return result, nil
}

func firstMatch(doc *goquery.Document, selectors []string) (string, bool) {
	for _, selector := range selectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		return strings.TrimSpace(sel.First().Text()), true
	}
	return "", false
}

package enrichment

import (
	"fmt"
	"log/slog"
	"net/http"

	"questlog/internal/catalog"
	"questlog/internal/config"
	"questlog/internal/critics"
	"questlog/internal/reviewsite"
)

// NewFromConfig builds an Enricher with every source configured from cfg.
// Catalog credentials must be present.
func NewFromConfig(cfg *config.Config, store Store, logger *slog.Logger) (*Enricher, error) {
	if err := cfg.ValidateCatalog(); err != nil {
		return nil, err
	}
	httpClient := &http.Client{Timeout: cfg.CatalogTimeout()}

	tokens, err := catalog.NewTokenSource(cfg.Catalog.ClientID, cfg.Catalog.ClientSecret, cfg.Catalog.TokenURL,
		catalog.WithTokenHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("catalog token source: %w", err)
	}
	cat, err := catalog.New(cfg.Catalog.ClientID, cfg.Catalog.BaseURL, tokens,
		catalog.WithHTTPClient(httpClient),
		catalog.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("catalog client: %w", err)
	}
	press, err := critics.New(cfg.Critics.BaseURL, cfg.Critics.RequestsPerSecond, cfg.Critics.MaxRetries,
		critics.WithUserAgent(cfg.ReviewSite.UserAgent),
		critics.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("critics client: %w", err)
	}
	reviews, err := reviewsite.New(cfg.ReviewSite.BaseURL, cfg.ReviewSite.UserAgent,
		cfg.ReviewSite.PressSelectors, cfg.ReviewSite.UserSelectors,
		reviewsite.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("review site scraper: %w", err)
	}

	return New(cat, press, reviews, store,
		WithLogger(logger),
		WithConcurrency(cfg.Enrichment.Concurrency),
		WithGameTimeout(cfg.EnrichmentTimeout()),
		WithLockPath(cfg.EnrichLockPath()),
	), nil
}

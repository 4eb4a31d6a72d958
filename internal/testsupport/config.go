package testsupport

import (
	"path/filepath"
	"testing"

	"questlog/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Catalog credentials are filled with placeholders so catalog validation passes.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.BackupDir = filepath.Join(base, "backups")
	cfgVal.Catalog.ClientID = "test-client"
	cfgVal.Catalog.ClientSecret = "test-secret"
	cfgVal.Critics.RequestsPerSecond = 50
	cfgVal.Critics.MaxRetries = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCatalogURLs points the catalog API and token endpoint at test servers.
func WithCatalogURLs(baseURL, tokenURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.BaseURL = baseURL
		b.cfg.Catalog.TokenURL = tokenURL
	}
}

// WithCriticsURL points the press-score aggregator at a test server.
func WithCriticsURL(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Critics.BaseURL = baseURL
	}
}

// WithReviewSiteURL points the review-site scraper at a test server.
func WithReviewSiteURL(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.ReviewSite.BaseURL = baseURL
	}
}

// WithoutCatalogCredentials clears the catalog credentials.
func WithoutCatalogCredentials() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.ClientID = ""
		b.cfg.Catalog.ClientSecret = ""
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}

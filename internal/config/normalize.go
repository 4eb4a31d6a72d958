package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCatalog()
	c.normalizeCritics()
	c.normalizeReviewSite()
	c.normalizeEnrichment()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.BackupDir) == "" {
		c.Paths.BackupDir = defaultBackupDir
	}
	if c.Paths.BackupDir, err = expandPath(c.Paths.BackupDir); err != nil {
		return fmt.Errorf("paths.backup_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	c.Catalog.ClientID = strings.TrimSpace(c.Catalog.ClientID)
	if c.Catalog.ClientID == "" {
		if value, ok := os.LookupEnv("IGDB_CLIENT_ID"); ok {
			c.Catalog.ClientID = strings.TrimSpace(value)
		}
	}
	c.Catalog.ClientSecret = strings.TrimSpace(c.Catalog.ClientSecret)
	if c.Catalog.ClientSecret == "" {
		if value, ok := os.LookupEnv("IGDB_CLIENT_SECRET"); ok {
			c.Catalog.ClientSecret = strings.TrimSpace(value)
		}
	}
	c.Catalog.BaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.BaseURL), "/")
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = defaultCatalogBaseURL
	}
	c.Catalog.TokenURL = strings.TrimSpace(c.Catalog.TokenURL)
	if c.Catalog.TokenURL == "" {
		c.Catalog.TokenURL = defaultCatalogTokenURL
	}
	if c.Catalog.TimeoutSeconds <= 0 {
		c.Catalog.TimeoutSeconds = defaultCatalogTimeout
	}
}

func (c *Config) normalizeCritics() {
	c.Critics.BaseURL = strings.TrimRight(strings.TrimSpace(c.Critics.BaseURL), "/")
	if c.Critics.BaseURL == "" {
		c.Critics.BaseURL = defaultCriticsBaseURL
	}
	if c.Critics.RequestsPerSecond <= 0 {
		c.Critics.RequestsPerSecond = defaultCriticsRPS
	}
	if c.Critics.MaxRetries < 0 {
		c.Critics.MaxRetries = 0
	}
}

func (c *Config) normalizeReviewSite() {
	c.ReviewSite.BaseURL = strings.TrimRight(strings.TrimSpace(c.ReviewSite.BaseURL), "/")
	if c.ReviewSite.BaseURL == "" {
		c.ReviewSite.BaseURL = defaultReviewSiteBaseURL
	}
	c.ReviewSite.UserAgent = strings.TrimSpace(c.ReviewSite.UserAgent)
	if c.ReviewSite.UserAgent == "" {
		c.ReviewSite.UserAgent = defaultReviewSiteUserAgent
	}
	c.ReviewSite.PressSelectors = cleanSelectors(c.ReviewSite.PressSelectors, defaultPressSelectors)
	c.ReviewSite.UserSelectors = cleanSelectors(c.ReviewSite.UserSelectors, defaultUserSelectors)
}

// cleanSelectors trims and dedupes while keeping priority order.
func cleanSelectors(values, fallback []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}

func (c *Config) normalizeEnrichment() {
	if c.Enrichment.Concurrency <= 0 {
		c.Enrichment.Concurrency = defaultEnrichmentConcurrency
	}
	if c.Enrichment.RequestTimeout <= 0 {
		c.Enrichment.RequestTimeout = defaultEnrichmentTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

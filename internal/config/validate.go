package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateURLs(); err != nil {
		return err
	}
	if err := c.validateEnrichment(); err != nil {
		return err
	}
	return c.validateLogging()
}

// ValidateCatalog reports whether catalog credentials are present. Commands that
// only read the local library skip this check.
func (c *Config) ValidateCatalog() error {
	if c.Catalog.ClientID == "" || c.Catalog.ClientSecret == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/questlog/config.toml"
		}
		return fmt.Errorf("catalog.client_id and catalog.client_secret are required. Set IGDB_CLIENT_ID/IGDB_CLIENT_SECRET or edit %s (create with 'questlog config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateURLs() error {
	for key, value := range map[string]string{
		"catalog.base_url":     c.Catalog.BaseURL,
		"catalog.token_url":    c.Catalog.TokenURL,
		"critics.base_url":     c.Critics.BaseURL,
		"review_site.base_url": c.ReviewSite.BaseURL,
	} {
		parsed, err := url.Parse(value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", key, value)
		}
	}
	return nil
}

func (c *Config) validateEnrichment() error {
	if c.Enrichment.Concurrency > 32 {
		return errors.New("enrichment.concurrency must be at most 32")
	}
	if c.Critics.RequestsPerSecond > 50 {
		return errors.New("critics.requests_per_second must be at most 50")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

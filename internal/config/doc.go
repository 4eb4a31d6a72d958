// Package config loads, normalizes, and validates questlog configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// IGDB_CLIENT_ID and IGDB_CLIENT_SECRET. The Config type centralizes the
// library location, external metadata endpoints, scraping selectors, and
// enrichment limits so the CLI resolves everything in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

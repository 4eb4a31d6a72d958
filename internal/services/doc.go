// Package services defines shared utilities consumed by the metadata clients,
// the enrichment pipeline, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp game IDs, stage names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so failures carry a
//     classifiable cause.
//   - ClassifySearchError, which turns transport failures from interactive
//     searches into blocked, certificate, or generic classes.
package services

// Package enrichment fills owned games with catalog metadata and review
// scores.
//
// One game's catalog detail fetch, aggregator lookup and review-page scrape run
// concurrently and fail independently: a failed source leaves its fields
// empty. EnrichAll fans out across games under a bounded worker limit and an
// exclusive file lock so two processes never enrich the same library at once.
package enrichment

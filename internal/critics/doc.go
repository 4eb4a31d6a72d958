// Package critics queries the press-score aggregator.
//
// Search returns candidate games with an optional top-critic score; Score
// fetches the score for one aggregator id. Lookup combines both with title
// matching and skips the detail call when the chosen candidate already
// carries a score. Requests share a rate limiter and retry on 429 and 5xx
// responses with exponential backoff.
package critics

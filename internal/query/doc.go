// Package query turns the owned collection into the filtered, sorted and
// grouped view shown by list surfaces.
//
// Run is a pure function of (collection, search text, filters, sort mode).
// Engine wraps it for callers that hold the three inputs as mutable state and
// want a fresh view pushed to subscribers every time one of them changes.
package query

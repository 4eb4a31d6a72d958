// Package matching picks the catalog or aggregator search result that best
// corresponds to a user-entered title.
//
// Matching is deliberately simple: both titles are reduced to comparison keys,
// a candidate is accepted only when one key contains the other, and the
// candidate whose key length is closest to the target wins. Merchandise and
// add-on results (soundtracks, guides, season passes) are filtered out unless
// the target itself asks for them.
package matching

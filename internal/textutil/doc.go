// Package textutil canonicalizes free-text titles.
//
// Normalize produces the comparison key used by candidate matching and the
// slug used to build review-site URLs. FoldAccents exposes the accent and case
// folding step on its own for substring search over the library.
package textutil

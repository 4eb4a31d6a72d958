// Command questlog manages a local game library: it adds owned games, fills
// them with catalog metadata and review scores, and lists them through the
// filter, sort and group pipeline of internal/query.
package main

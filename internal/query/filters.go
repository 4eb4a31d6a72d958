package query

import (
	"slices"
	"strings"

	"questlog/internal/library"
)

// Filters holds the active value set of every facet. Facets combine
// conjunctively; values inside one facet combine disjunctively. An empty
// facet does not filter.
type Filters struct {
	Platforms   []string
	Genres      []string
	Statuses    []library.Status
	Developers  []string
	Publishers  []string
	AgeRatings  []string
	Metacritic  []string
	Years       []int
	Tiers       []string
	HourBuckets []string
}

// Empty reports whether no facet has an active value.
func (f Filters) Empty() bool {
	return len(f.Platforms) == 0 &&
		len(f.Genres) == 0 &&
		len(f.Statuses) == 0 &&
		len(f.Developers) == 0 &&
		len(f.Publishers) == 0 &&
		len(f.AgeRatings) == 0 &&
		len(f.Metacritic) == 0 &&
		len(f.Years) == 0 &&
		len(f.Tiers) == 0 &&
		len(f.HourBuckets) == 0
}

// Clone returns a deep copy so callers can keep mutating their own slices.
func (f Filters) Clone() Filters {
	return Filters{
		Platforms:   slices.Clone(f.Platforms),
		Genres:      slices.Clone(f.Genres),
		Statuses:    slices.Clone(f.Statuses),
		Developers:  slices.Clone(f.Developers),
		Publishers:  slices.Clone(f.Publishers),
		AgeRatings:  slices.Clone(f.AgeRatings),
		Metacritic:  slices.Clone(f.Metacritic),
		Years:       slices.Clone(f.Years),
		Tiers:       slices.Clone(f.Tiers),
		HourBuckets: slices.Clone(f.HourBuckets),
	}
}

// Match reports whether a game passes every active facet.
func (f Filters) Match(g library.Game) bool {
	if len(f.Platforms) > 0 && !anyEqualFold(f.Platforms, g.Platform) {
		return false
	}
	if len(f.Genres) > 0 && !anyOverlap(f.Genres, g.Genres()) {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, g.Status) {
		return false
	}
	if len(f.Developers) > 0 && !anyOverlap(f.Developers, g.Developers()) {
		return false
	}
	if len(f.Publishers) > 0 && !anyOverlap(f.Publishers, g.Publishers()) {
		return false
	}
	if len(f.AgeRatings) > 0 && !anyOverlap(f.AgeRatings, g.AgeRatingTags()) {
		return false
	}
	if len(f.Metacritic) > 0 && !slices.Contains(f.Metacritic, MetacriticBucket(g.CriticScore)) {
		return false
	}
	if len(f.Years) > 0 && !slices.Contains(f.Years, g.ReleaseYear()) {
		return false
	}
	if len(f.Tiers) > 0 && !slices.Contains(f.Tiers, gameTier(g)) {
		return false
	}
	if len(f.HourBuckets) > 0 && !slices.ContainsFunc(f.HourBuckets, func(label string) bool {
		return matchesHourBucket(label, g.HoursPlayed)
	}) {
		return false
	}
	return true
}

func anyEqualFold(active []string, value string) bool {
	value = strings.TrimSpace(value)
	for _, a := range active {
		if strings.EqualFold(strings.TrimSpace(a), value) {
			return true
		}
	}
	return false
}

func anyOverlap(active, values []string) bool {
	for _, v := range values {
		if anyEqualFold(active, v) {
			return true
		}
	}
	return false
}

package query

import (
	"cmp"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"questlog/internal/library"
	"questlog/internal/textutil"
)

// SortMode selects both the ordering and the grouping facet of a view.
type SortMode int

const (
	SortTitle SortMode = iota
	SortPlatform
	SortStatus
	SortTier
	SortHours
)

var sortModeNames = map[SortMode]string{
	SortTitle:    "TITLE",
	SortPlatform: "PLATFORM",
	SortStatus:   "STATUS",
	SortTier:     "TIER",
	SortHours:    "HOURS",
}

// SortModes lists every mode in declaration order.
func SortModes() []SortMode {
	return []SortMode{SortTitle, SortPlatform, SortStatus, SortTier, SortHours}
}

func (m SortMode) String() string {
	if name, ok := sortModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("SortMode(%d)", int(m))
}

// ParseSortMode resolves a mode name case-insensitively.
func ParseSortMode(value string) (SortMode, error) {
	value = strings.TrimSpace(value)
	for _, mode := range SortModes() {
		if strings.EqualFold(mode.String(), value) {
			return mode, nil
		}
	}
	return SortTitle, fmt.Errorf("unknown sort mode %q", value)
}

// sortGames orders games in place. Ties fall back to title, then local id,
// so the output never depends on input order.
func sortGames(games []library.Game, mode SortMode) {
	sort.SliceStable(games, func(i, j int) bool {
		a, b := games[i], games[j]
		if c := comparePrimary(a, b, mode); c != 0 {
			return c < 0
		}
		if c := compareTitles(a.Title, b.Title); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
}

func comparePrimary(a, b library.Game, mode SortMode) int {
	switch mode {
	case SortPlatform:
		return cmp.Compare(strings.ToLower(a.Platform), strings.ToLower(b.Platform))
	case SortStatus:
		return compareStatus(a.Status, b.Status)
	case SortTier:
		return compareRatingDesc(a.Rating, b.Rating)
	case SortHours:
		return cmp.Compare(b.HoursPlayed, a.HoursPlayed)
	default:
		return 0
	}
}

func compareTitles(a, b string) int {
	if c := cmp.Compare(textutil.FoldAccents(a), textutil.FoldAccents(b)); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

// compareStatus puts Playing first; remaining statuses order by name.
func compareStatus(a, b library.Status) int {
	aPlaying, bPlaying := a == library.StatusPlaying, b == library.StatusPlaying
	switch {
	case aPlaying && !bPlaying:
		return -1
	case bPlaying && !aPlaying:
		return 1
	}
	return cmp.Compare(a, b)
}

func compareRatingDesc(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return cmp.Compare(*b, *a)
}

// groupLabel returns the group a game falls into for the given mode.
func groupLabel(g library.Game, mode SortMode) string {
	switch mode {
	case SortPlatform:
		return g.Platform
	case SortStatus:
		return string(g.Status)
	case SortTier:
		return gameTier(g)
	case SortHours:
		return HourBucket(g.HoursPlayed)
	default:
		return titleInitial(g.Title)
	}
}

// titleInitial is the uppercased first letter of the accent-folded title, or
// "#" when the title does not start with a letter.
func titleInitial(title string) string {
	folded := textutil.FoldAccents(strings.TrimSpace(title))
	r, _ := utf8.DecodeRuneInString(folded)
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return "#"
	}
	return string(unicode.ToUpper(r))
}

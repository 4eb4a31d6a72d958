package library

import (
	"strings"
	"time"
)

// Status is the user's progress on a game.
type Status string

const (
	StatusBacklog   Status = "Backlog"
	StatusPlaying   Status = "Playing"
	StatusCompleted Status = "Completed"
)

var allStatuses = []Status{StatusBacklog, StatusPlaying, StatusCompleted}

// AllStatuses returns every status in display order.
func AllStatuses() []Status {
	return append([]Status(nil), allStatuses...)
}

// ParseStatus resolves a status name case-insensitively.
func ParseStatus(value string) (Status, bool) {
	value = strings.TrimSpace(value)
	for _, status := range allStatuses {
		if strings.EqualFold(string(status), value) {
			return status, true
		}
	}
	return "", false
}

// ListSeparator joins multi-valued text fields such as genre and developer.
const ListSeparator = ", "

// Game is an owned game entry.
type Game struct {
	ID          int64      `json:"id"`
	ExternalID  int64      `json:"external_id" validate:"gte=0"`
	Title       string     `json:"title" validate:"required,max=300"`
	Platform    string     `json:"platform" validate:"required,max=100"`
	Status      Status     `json:"status" validate:"required,oneof=Backlog Playing Completed"`
	Rating      *int       `json:"rating,omitempty" validate:"omitempty,gte=0,lte=10"`
	HoursPlayed float64    `json:"hours_played" validate:"gte=0"`
	CoverURL    string     `json:"cover_url,omitempty" validate:"omitempty,url"`
	Description string     `json:"description,omitempty"`
	Genre       string     `json:"genre,omitempty"`
	Developer   string     `json:"developer,omitempty"`
	Publisher   string     `json:"publisher,omitempty"`
	AgeRatings  string     `json:"age_ratings,omitempty"`
	CriticScore *int       `json:"critic_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	UserScore   *int       `json:"user_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	DLCNames    []string   `json:"dlc_names,omitempty"`
	EnrichedAt  *time.Time `json:"enriched_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Genres splits the joined genre field.
func (g Game) Genres() []string { return SplitList(g.Genre) }

// Developers splits the joined developer field.
func (g Game) Developers() []string { return SplitList(g.Developer) }

// Publishers splits the joined publisher field.
func (g Game) Publishers() []string { return SplitList(g.Publisher) }

// AgeRatingTags splits the joined age-rating field.
func (g Game) AgeRatingTags() []string { return SplitList(g.AgeRatings) }

// ReleaseYear returns the release year, or 0 when unknown.
func (g Game) ReleaseYear() int {
	if g.ReleaseDate == nil {
		return 0
	}
	return g.ReleaseDate.Year()
}

// Enrichment is the merged metadata produced for one game. Empty fields leave
// the stored value untouched.
type Enrichment struct {
	ExternalID  int64
	CoverURL    string
	Description string
	Genre       string
	Developer   string
	Publisher   string
	AgeRatings  string
	CriticScore *int
	UserScore   *int
	ReleaseDate *time.Time
	DLCNames    []string
}

// OwnedDLC records that the user owns a DLC of a parent game.
type OwnedDLC struct {
	ParentExternalID int64     `json:"parent_external_id" validate:"gt=0"`
	NameKey          string    `json:"name_key" validate:"required"`
	Name             string    `json:"name" validate:"required"`
	CreatedAt        time.Time `json:"created_at"`
}

// JoinList joins non-empty values with ListSeparator.
func JoinList(values []string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, ListSeparator)
}

// companySuffixes are legal-form tails that follow a comma inside a single
// company name, as in "Square Enix Co., Ltd.".
var companySuffixes = map[string]struct{}{
	"ltd": {}, "ltd.": {}, "inc": {}, "inc.": {}, "llc": {}, "co.": {},
	"corp.": {}, "s.a.": {}, "s.l.": {}, "gmbh": {}, "l.p.": {},
}

// SplitList reverses JoinList. Only ListSeparator splits, and a part that is
// a bare legal suffix is glued back onto the name before it.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ListSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, suffix := companySuffixes[strings.ToLower(p)]; suffix && len(out) > 0 {
			out[len(out)-1] += ListSeparator + p
			continue
		}
		out = append(out, p)
	}
	return out
}

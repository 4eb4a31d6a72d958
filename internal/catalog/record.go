package catalog

import (
	"math"
	"time"
)

// AgeRating carries the raw identifiers of one age-rating entry.
type AgeRating struct {
	Organization *int
	Category     *int
}

// Record is a game entry as returned by the catalog.
type Record struct {
	ID            int64
	Name          string
	Summary       string
	CoverURL      string
	ReleaseDate   *time.Time
	PressScore    *int
	UserScore     *int
	Genres        []string
	Platforms     []string
	Developers    []string
	Publishers    []string
	AgeRatings    []AgeRating
	GameType      int
	VersionParent *int64
	DLCs          []Record
}

type namedDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type coverDTO struct {
	URL string `json:"url"`
}

type companyDTO struct {
	Company   namedDTO `json:"company"`
	Developer bool     `json:"developer"`
	Publisher bool     `json:"publisher"`
}

type ageRatingDTO struct {
	Category *int `json:"category"`
	Rating   *int `json:"rating"`
}

type gameDTO struct {
	ID                int64          `json:"id"`
	Name              string         `json:"name"`
	Summary           string         `json:"summary"`
	Cover             *coverDTO      `json:"cover"`
	FirstReleaseDate  *int64         `json:"first_release_date"`
	AggregatedRating  *float64       `json:"aggregated_rating"`
	Rating            *float64       `json:"rating"`
	Genres            []namedDTO     `json:"genres"`
	Platforms         []namedDTO     `json:"platforms"`
	InvolvedCompanies []companyDTO   `json:"involved_companies"`
	AgeRatings        []ageRatingDTO `json:"age_ratings"`
	GameType          int            `json:"game_type"`
	VersionParent     *int64         `json:"version_parent"`
	DLCs              []gameDTO      `json:"dlcs"`
}

func (g gameDTO) toRecord() Record {
	rec := Record{
		ID:            g.ID,
		Name:          g.Name,
		Summary:       g.Summary,
		GameType:      g.GameType,
		VersionParent: g.VersionParent,
		Genres:        names(g.Genres),
		Platforms:     names(g.Platforms),
		PressScore:    truncScore(g.AggregatedRating),
		UserScore:     truncScore(g.Rating),
	}
	if g.Cover != nil {
		rec.CoverURL = normalizeImageURL(g.Cover.URL)
	}
	if g.FirstReleaseDate != nil {
		released := time.Unix(*g.FirstReleaseDate, 0).UTC()
		rec.ReleaseDate = &released
	}
	for _, c := range g.InvolvedCompanies {
		if c.Company.Name == "" {
			continue
		}
		if c.Developer {
			rec.Developers = append(rec.Developers, c.Company.Name)
		}
		if c.Publisher {
			rec.Publishers = append(rec.Publishers, c.Company.Name)
		}
	}
	for _, r := range g.AgeRatings {
		rec.AgeRatings = append(rec.AgeRatings, AgeRating{Organization: r.Category, Category: r.Rating})
	}
	for _, dlc := range g.DLCs {
		rec.DLCs = append(rec.DLCs, dlc.toRecord())
	}
	return rec
}

func names(values []namedDTO) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v.Name != "" {
			out = append(out, v.Name)
		}
	}
	return out
}

func truncScore(value *float64) *int {
	if value == nil || math.IsNaN(*value) {
		return nil
	}
	score := int(math.Trunc(*value))
	return &score
}

// normalizeImageURL turns protocol-relative image links into https URLs.
func normalizeImageURL(raw string) string {
	if len(raw) > 2 && raw[:2] == "//" {
		return "https:" + raw
	}
	return raw
}

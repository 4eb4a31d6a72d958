package query

import "questlog/internal/library"

// Tier labels derived from the personal 0-10 rating.
const (
	TierSPlus   = "S+"
	TierS       = "S"
	TierA       = "A"
	TierB       = "B"
	TierC       = "C"
	TierD       = "D"
	TierF       = "F"
	TierUnrated = "Sin Puntuación"
)

// tierByRating is sparse on purpose: ratings missing from the table are F.
var tierByRating = map[int]string{
	10: TierSPlus,
	9:  TierS,
	8:  TierA,
	7:  TierB,
	5:  TierC,
	3:  TierD,
}

// Tiers lists tier labels from best to worst.
func Tiers() []string {
	return []string{TierSPlus, TierS, TierA, TierB, TierC, TierD, TierF, TierUnrated}
}

// Tier maps a personal rating to its tier label.
func Tier(rating *int) string {
	if rating == nil {
		return TierUnrated
	}
	if label, ok := tierByRating[*rating]; ok {
		return label
	}
	return TierF
}

// Hour bucket labels.
const (
	HoursNotStarted = "Sin empezar"
	HoursUnderOne   = "Menos de 1 hora"
	HoursOne        = "+1 hora"
	HoursTen        = "+10 horas"
	HoursTwentyFive = "+25 horas"
	HoursFifty      = "+50 horas"
	HoursHundred    = "+100 horas"
)

type hourThreshold struct {
	label string
	min   float64
}

// hourThresholds is ordered from the largest threshold down.
var hourThresholds = []hourThreshold{
	{HoursHundred, 100},
	{HoursFifty, 50},
	{HoursTwentyFive, 25},
	{HoursTen, 10},
	{HoursOne, 1},
}

// HourBuckets lists hour bucket labels from fewest to most hours.
func HourBuckets() []string {
	return []string{HoursNotStarted, HoursUnderOne, HoursOne, HoursTen, HoursTwentyFive, HoursFifty, HoursHundred}
}

// HourBucket assigns exactly one bucket to an hour count; the largest
// satisfied threshold wins.
func HourBucket(hours float64) string {
	if hours <= 0 {
		return HoursNotStarted
	}
	for _, th := range hourThresholds {
		if hours >= th.min {
			return th.label
		}
	}
	return HoursUnderOne
}

// matchesHourBucket applies filter semantics: threshold buckets pass every
// game at or above their minimum, the not-started bucket needs exactly zero.
func matchesHourBucket(label string, hours float64) bool {
	switch label {
	case HoursNotStarted:
		return hours == 0
	case HoursUnderOne:
		return hours > 0 && hours < 1
	}
	for _, th := range hourThresholds {
		if th.label == label {
			return hours >= th.min
		}
	}
	return false
}

// Metacritic bucket labels for the press score.
const (
	MetacriticGreat  = "90+"
	MetacriticGood   = "75-89"
	MetacriticMixed  = "50-74"
	MetacriticOthers = "Otros"
)

// MetacriticBuckets lists press-score buckets from best to worst.
func MetacriticBuckets() []string {
	return []string{MetacriticGreat, MetacriticGood, MetacriticMixed, MetacriticOthers}
}

// MetacriticBucket places a press score in its range. A missing score or one
// under 50 lands in the catch-all bucket.
func MetacriticBucket(score *int) string {
	switch {
	case score == nil:
		return MetacriticOthers
	case *score >= 90:
		return MetacriticGreat
	case *score >= 75:
		return MetacriticGood
	case *score >= 50:
		return MetacriticMixed
	default:
		return MetacriticOthers
	}
}

func gameTier(g library.Game) string { return Tier(g.Rating) }

package matching

import (
	"log/slog"
	"strings"

	"questlog/internal/logging"
	"questlog/internal/textutil"
)

// MaxCandidates bounds how many results of a single search call are scanned.
const MaxCandidates = 10

// SpamTokens mark results that are merchandise or add-ons rather than games.
var SpamTokens = []string{
	"soundtrack",
	"ost",
	"artbook",
	"guide",
	"walkthrough",
	"dlc",
	"upgrade",
	"season pass",
}

// Candidate is one search result offered for matching.
type Candidate struct {
	ID       int64
	Name     string
	PreScore *int
}

// MatchCandidate is the accepted candidate with its length-difference score.
type MatchCandidate struct {
	ID       int64
	Name     string
	Score    int
	PreScore *int
}

// SelectBest returns the candidate that best matches target. Only the first
// MaxCandidates entries are considered. Among accepted candidates the smallest
// length difference wins; ties keep the earliest candidate.
func SelectBest(logger *slog.Logger, target string, candidates []Candidate) (MatchCandidate, bool) {
	if logger == nil {
		logger = logging.NewNop()
	}
	key := textutil.Key(target)
	if key == "" {
		return MatchCandidate{}, false
	}
	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}

	var (
		best  MatchCandidate
		found bool
	)
	for idx, cand := range candidates {
		candKey := textutil.Key(cand.Name)
		if token, spam := spamToken(key, candKey); spam {
			logger.Debug("candidate rejected",
				logging.Int("candidate_index", idx),
				logging.String("name", cand.Name),
				logging.String("reason", "spam token"),
				logging.String("token", token))
			continue
		}
		if candKey == "" || !containsEither(key, candKey) {
			logger.Debug("candidate rejected",
				logging.Int("candidate_index", idx),
				logging.String("name", cand.Name),
				logging.String("reason", "no containment"))
			continue
		}
		score := abs(len(key) - len(candKey))
		logger.Debug("candidate accepted",
			logging.Int("candidate_index", idx),
			logging.Int64("candidate_id", cand.ID),
			logging.String("name", cand.Name),
			logging.Int("score", score))
		if !found || score < best.Score {
			best = MatchCandidate{ID: cand.ID, Name: cand.Name, Score: score, PreScore: cand.PreScore}
			found = true
		}
	}

	if found {
		logger.Debug("best match selected",
			logging.Args(append(logging.DecisionAttrs("candidate_match", best.Name, "smallest length difference"),
				logging.String("target", target),
				logging.Int("score", best.Score))...)...)
	} else {
		logger.Debug("no candidate matched",
			logging.String("target", target),
			logging.Int("candidates", len(candidates)))
	}
	return best, found
}

// spamToken returns the first spam token contained in candKey but not in key.
// Tokens match anywhere in the key, so plurals and compounds are caught too.
func spamToken(key, candKey string) (string, bool) {
	for _, token := range SpamTokens {
		if strings.Contains(candKey, token) && !strings.Contains(key, token) {
			return token, true
		}
	}
	return "", false
}

func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

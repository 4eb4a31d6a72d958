package enrichment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"questlog/internal/agerating"
	"questlog/internal/catalog"
	"questlog/internal/library"
	"questlog/internal/logging"
	"questlog/internal/matching"
	"questlog/internal/scores"
	"questlog/internal/services"
)

// ReviewSource scrapes press and user scores for a title.
type ReviewSource interface {
	Scrape(ctx context.Context, title string) (scores.ScrapeResult, error)
}

// PressSource looks up the aggregator press score for a title.
type PressSource interface {
	Lookup(ctx context.Context, title string) (*int, error)
}

// Store persists enrichment results.
type Store interface {
	ApplyEnrichment(ctx context.Context, id int64, e library.Enrichment) (*library.Game, error)
}

// Enricher coordinates the metadata sources.
type Enricher struct {
	catalog     catalog.Searcher
	press       PressSource
	reviews     ReviewSource
	store       Store
	logger      *slog.Logger
	concurrency int
	timeout     time.Duration
	lockPath    string
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enricher) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithConcurrency bounds how many games EnrichAll processes at once.
func WithConcurrency(n int) Option {
	return func(e *Enricher) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithGameTimeout bounds the time spent enriching one game.
func WithGameTimeout(d time.Duration) Option {
	return func(e *Enricher) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLockPath enables the exclusive run lock for EnrichAll.
func WithLockPath(path string) Option {
	return func(e *Enricher) {
		e.lockPath = strings.TrimSpace(path)
	}
}

// New builds an Enricher. Any source may be nil, in which case its fields are
// never filled.
func New(cat catalog.Searcher, press PressSource, reviews ReviewSource, store Store, opts ...Option) *Enricher {
	e := &Enricher{
		catalog:     cat,
		press:       press,
		reviews:     reviews,
		store:       store,
		logger:      logging.NewNop(),
		concurrency: 4,
		timeout:     30 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "enrichment")
	return e
}

// SearchError is returned by Search when the catalog call fails. Failure
// tells the presentation layer which message to show.
type SearchError struct {
	Failure services.SearchFailure
	Err     error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Failure.Message(), e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// SearchResult is one interactive search hit with its display role.
type SearchResult struct {
	Record     catalog.Record
	Resolution catalog.Resolution
	BestMatch  bool
}

// Search runs an interactive catalog search. The best match, if any, is
// moved to the front and flagged.
func (e *Enricher) Search(ctx context.Context, title string) ([]SearchResult, error) {
	if e.catalog == nil {
		return nil, services.Wrap(services.ErrConfiguration, "enrichment", "search", "catalog not configured", nil)
	}
	records, err := e.catalog.Search(ctx, title)
	if err != nil {
		failure := services.ClassifySearchError(err)
		logging.WarnWithContext(logging.WithContext(ctx, e.logger), "catalog search failed", "catalog_search_failed",
			logging.String(logging.FieldErrorHint, failure.Message()),
			logging.String("title", title),
			logging.Error(err),
		)
		return nil, &SearchError{Failure: failure, Err: err}
	}

	results := make([]SearchResult, 0, len(records))
	for _, rec := range records {
		results = append(results, SearchResult{Record: rec, Resolution: catalog.Resolve(rec, false)})
	}
	if best, ok := matching.SelectBest(e.logger, title, recordCandidates(records)); ok {
		for i := range results {
			if results[i].Record.ID == best.ID {
				results[i].BestMatch = true
				picked := results[i]
				copy(results[1:i+1], results[:i])
				results[0] = picked
				break
			}
		}
	}
	return results, nil
}

func recordCandidates(records []catalog.Record) []matching.Candidate {
	candidates := make([]matching.Candidate, 0, len(records))
	for _, rec := range records {
		candidates = append(candidates, matching.Candidate{ID: rec.ID, Name: rec.Name, PreScore: rec.PressScore})
	}
	return candidates
}

// Enrich gathers metadata for one game. Source failures are logged and leave
// their fields empty. The returned error is non-nil when ctx ends, except
// when the per-game budget set by EnrichAll runs out after at least one
// source answered; the partial result is returned then.
func (e *Enricher) Enrich(ctx context.Context, game library.Game) (library.Enrichment, error) {
	ctx = services.WithGameID(ctx, game.ID)
	logger := logging.WithContext(ctx, e.logger)

	externalID := game.ExternalID
	if externalID == 0 {
		externalID = e.resolveExternalID(ctx, logger, game.Title)
	}

	var (
		mu      sync.Mutex
		record  *catalog.Record
		press   *int
		scraped scores.ScrapeResult
	)

	g, gctx := errgroup.WithContext(ctx)
	if e.catalog != nil && externalID > 0 {
		g.Go(func() error {
			rec, err := e.catalog.Details(gctx, externalID)
			if err != nil {
				logging.WarnWithContext(logger, "catalog details unavailable", "catalog_details_failed",
					logging.String(logging.FieldImpact, "game keeps basic fields"),
					logging.Int64("external_id", externalID),
					logging.Error(err),
				)
				return nil
			}
			mu.Lock()
			record = rec
			mu.Unlock()
			return nil
		})
	}
	if e.press != nil {
		g.Go(func() error {
			score, err := e.press.Lookup(gctx, game.Title)
			if err != nil {
				logger.Warn("press score lookup failed",
					logging.String(logging.FieldEventType, "press_lookup_failed"),
					logging.Error(err),
				)
				return nil
			}
			mu.Lock()
			press = score
			mu.Unlock()
			return nil
		})
	}
	if e.reviews != nil {
		g.Go(func() error {
			result, err := e.reviews.Scrape(gctx, game.Title)
			if err != nil {
				logger.Warn("review scrape failed",
					logging.String(logging.FieldEventType, "review_scrape_failed"),
					logging.Error(err),
				)
				return nil
			}
			mu.Lock()
			scraped = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		// A spent per-game budget keeps whatever the faster sources returned.
		// Any other cancellation, or a budget that yielded nothing, fails.
		if !errors.Is(context.Cause(ctx), errGameBudget) || (record == nil && press == nil && scraped.Press == nil && scraped.User == nil) {
			return library.Enrichment{}, err
		}
		logging.WarnWithContext(logger, "enrichment budget exhausted; keeping partial result", "enrichment_partial",
			logging.String(logging.FieldImpact, "slow sources leave their fields unchanged"),
			logging.Bool("catalog", record != nil),
		)
	}

	out := Merge(record, press, scraped)
	if out.ExternalID == 0 {
		out.ExternalID = externalID
	}
	logger.Debug("game enriched",
		logging.Bool("catalog", record != nil),
		logging.Bool("press_score", out.CriticScore != nil),
		logging.Bool("user_score", out.UserScore != nil),
		logging.Int("dlcs", len(out.DLCNames)),
	)
	return out, nil
}

func (e *Enricher) resolveExternalID(ctx context.Context, logger *slog.Logger, title string) int64 {
	if e.catalog == nil {
		return 0
	}
	records, err := e.catalog.Search(ctx, title)
	if err != nil {
		logger.Warn("catalog search failed during enrichment",
			logging.String(logging.FieldEventType, "catalog_search_failed"),
			logging.String(logging.FieldErrorHint, services.ClassifySearchError(err).Message()),
			logging.Error(err),
		)
		return 0
	}
	best, ok := matching.SelectBest(logger, title, recordCandidates(records))
	if !ok {
		return 0
	}
	return best.ID
}

// Merge combines source results into one enrichment. Press score precedence
// is review site, then aggregator, then catalog. User score prefers the
// review site over the catalog.
func Merge(record *catalog.Record, press *int, scraped scores.ScrapeResult) library.Enrichment {
	var out library.Enrichment
	if record != nil {
		out.ExternalID = record.ID
		out.CoverURL = record.CoverURL
		out.Description = record.Summary
		out.Genre = library.JoinList(record.Genres)
		out.Developer = library.JoinList(record.Developers)
		out.Publisher = library.JoinList(record.Publishers)
		out.AgeRatings = library.JoinList(AgeRatingTags(record.AgeRatings))
		out.ReleaseDate = record.ReleaseDate
		for _, link := range catalog.LinkDLCs(*record) {
			out.DLCNames = append(out.DLCNames, link.Name)
		}
	}

	switch {
	case scraped.Press != nil:
		out.CriticScore = scraped.Press
	case press != nil:
		out.CriticScore = press
	case record != nil:
		out.CriticScore = record.PressScore
	}
	switch {
	case scraped.User != nil:
		out.UserScore = scraped.User
	case record != nil:
		out.UserScore = record.UserScore
	}
	return out
}

// AgeRatingTags classifies raw age-rating entries into display tags,
// dropping unknown and duplicate entries.
func AgeRatingTags(ratings []catalog.AgeRating) []string {
	tags := make([]string, 0, len(ratings))
	seen := make(map[string]struct{}, len(ratings))
	for _, r := range ratings {
		tag := agerating.Tag(agerating.Classify(r.Organization, r.Category))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

package enrichment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"questlog/internal/library"
	"questlog/internal/logging"
	"questlog/internal/services"
)

// ErrRunInProgress reports that another process holds the enrichment lock.
var ErrRunInProgress = errors.New("another enrichment run is in progress")

// errGameBudget is the cancellation cause of the per-game deadline.
var errGameBudget = errors.New("per-game enrichment budget exhausted")

// Summary reports the outcome of EnrichAll.
type Summary struct {
	RunID    string
	Total    int
	Enriched int
	Failed   int
	Elapsed  time.Duration
}

// EnrichAll enriches games and stores the results. A game that fails to
// enrich or persist is logged and counted; it never stops the others. The
// returned error is non-nil only when the run could not start or ctx ended.
func (e *Enricher) EnrichAll(ctx context.Context, games []library.Game) (Summary, error) {
	summary := Summary{RunID: uuid.NewString(), Total: len(games)}
	if e.store == nil {
		return summary, services.Wrap(services.ErrConfiguration, "enrichment", "run", "store not configured", nil)
	}

	unlock, err := e.acquireLock()
	if err != nil {
		return summary, err
	}
	defer unlock()

	ctx = services.WithCorrelationID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, e.logger)
	logger.Info("enrichment run started",
		logging.Int("games", len(games)),
		logging.Int("concurrency", e.concurrency),
	)

	start := time.Now()
	var enriched, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for _, game := range games {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := e.enrichOne(gctx, game); err != nil {
				failed.Add(1)
				if errors.Is(err, context.Canceled) && ctx.Err() != nil {
					return nil
				}
				logging.WarnWithContext(logging.WithContext(services.WithGameID(gctx, game.ID), e.logger),
					"game enrichment failed", "game_enrichment_failed",
					logging.String("title", game.Title),
					logging.Error(err),
				)
				return nil
			}
			enriched.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	summary.Enriched = int(enriched.Load())
	summary.Failed = int(failed.Load())
	summary.Elapsed = time.Since(start)
	logger.Info("enrichment run finished",
		logging.Int("enriched", summary.Enriched),
		logging.Int("failed", summary.Failed),
		logging.Duration("elapsed", summary.Elapsed),
	)
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (e *Enricher) enrichOne(ctx context.Context, game library.Game) error {
	gameCtx, cancel := context.WithTimeoutCause(ctx, e.timeout, errGameBudget)
	defer cancel()

	result, err := e.Enrich(gameCtx, game)
	if err != nil {
		return err
	}
	if _, err := e.store.ApplyEnrichment(ctx, game.ID, result); err != nil {
		return fmt.Errorf("store enrichment: %w", err)
	}
	return nil
}

func (e *Enricher) acquireLock() (func(), error) {
	if e.lockPath == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(e.lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(e.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire enrichment lock: %w", err)
	}
	if !ok {
		return nil, ErrRunInProgress
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			e.logger.Warn("release enrichment lock failed", logging.Error(err))
		}
	}, nil
}

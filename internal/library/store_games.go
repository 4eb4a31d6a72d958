package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"questlog/internal/services"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const insertGameSQL = `INSERT INTO games (
    external_id, title, platform, status, rating, hours_played, cover_url, description,
    genre, developer, publisher, age_ratings, critic_score, user_score, release_date,
    dlc_names_json, enriched_at, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func insertGame(ctx context.Context, db execer, game *Game) (int64, error) {
	res, err := db.ExecContext(ctx, insertGameSQL,
		game.ExternalID,
		game.Title,
		game.Platform,
		game.Status,
		nullableInt(game.Rating),
		game.HoursPlayed,
		nullableString(game.CoverURL),
		nullableString(game.Description),
		nullableString(game.Genre),
		nullableString(game.Developer),
		nullableString(game.Publisher),
		nullableString(game.AgeRatings),
		nullableInt(game.CriticScore),
		nullableInt(game.UserScore),
		nullableTime(game.ReleaseDate),
		nullableJSON(game.DLCNames),
		nullableTime(game.EnrichedAt),
		game.CreatedAt.UTC().Format(time.RFC3339Nano),
		game.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Add inserts a new game and returns the stored copy.
func (s *Store) Add(ctx context.Context, game Game) (*Game, error) {
	game.Title = strings.TrimSpace(game.Title)
	game.Platform = strings.TrimSpace(game.Platform)
	if game.Status == "" {
		game.Status = StatusBacklog
	}
	if err := Validate(&game); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	game.CreatedAt = now
	game.UpdatedAt = now

	var id int64
	err := retryOnBusy(ensureContext(ctx), func() error {
		var insertErr error
		id, insertErr = insertGame(ctx, s.db, &game)
		return insertErr
	})
	if err != nil {
		return nil, fmt.Errorf("insert game: %w", err)
	}
	return s.Get(ctx, id)
}

// Get fetches a game by local identifier. A missing game returns nil, nil.
func (s *Store) Get(ctx context.Context, id int64) (*Game, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = ?`, id)
	game, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	return game, nil
}

// FindByExternal returns the first game with the given catalog id on platform.
func (s *Store) FindByExternal(ctx context.Context, externalID int64, platform string) (*Game, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE external_id = ? AND platform = ? ORDER BY id LIMIT 1`,
		externalID, platform,
	)
	game, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by external id: %w", err)
	}
	return game, nil
}

// Update persists user edits and enrichment fields of an existing game.
func (s *Store) Update(ctx context.Context, game *Game) error {
	if game == nil {
		return errors.New("game is nil")
	}
	if err := Validate(game); err != nil {
		return err
	}
	game.UpdatedAt = time.Now().UTC()
	res, err := s.execWithRetry(ctx,
		`UPDATE games
         SET external_id = ?, title = ?, platform = ?, status = ?, rating = ?, hours_played = ?,
             cover_url = ?, description = ?, genre = ?, developer = ?, publisher = ?, age_ratings = ?,
             critic_score = ?, user_score = ?, release_date = ?, dlc_names_json = ?, enriched_at = ?,
             updated_at = ?
         WHERE id = ?`,
		game.ExternalID,
		game.Title,
		game.Platform,
		game.Status,
		nullableInt(game.Rating),
		game.HoursPlayed,
		nullableString(game.CoverURL),
		nullableString(game.Description),
		nullableString(game.Genre),
		nullableString(game.Developer),
		nullableString(game.Publisher),
		nullableString(game.AgeRatings),
		nullableInt(game.CriticScore),
		nullableInt(game.UserScore),
		nullableTime(game.ReleaseDate),
		nullableJSON(game.DLCNames),
		nullableTime(game.EnrichedAt),
		game.UpdatedAt.Format(time.RFC3339Nano),
		game.ID,
	)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return services.Wrap(services.ErrNotFound, "library", "update", fmt.Sprintf("game %d", game.ID), nil)
	}
	return nil
}

// ApplyEnrichment merges enrichment results into a stored game. Empty fields
// in e keep the stored values, so a partially failed enrichment never erases
// data.
func (s *Store) ApplyEnrichment(ctx context.Context, id int64, e Enrichment) (*Game, error) {
	game, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, services.Wrap(services.ErrNotFound, "library", "enrich", fmt.Sprintf("game %d", id), nil)
	}
	if e.ExternalID > 0 && game.ExternalID == 0 {
		game.ExternalID = e.ExternalID
	}
	setString(&game.CoverURL, e.CoverURL)
	setString(&game.Description, e.Description)
	setString(&game.Genre, e.Genre)
	setString(&game.Developer, e.Developer)
	setString(&game.Publisher, e.Publisher)
	setString(&game.AgeRatings, e.AgeRatings)
	if e.CriticScore != nil {
		game.CriticScore = e.CriticScore
	}
	if e.UserScore != nil {
		game.UserScore = e.UserScore
	}
	if e.ReleaseDate != nil {
		game.ReleaseDate = e.ReleaseDate
	}
	if len(e.DLCNames) > 0 {
		game.DLCNames = append([]string(nil), e.DLCNames...)
	}
	now := time.Now().UTC()
	game.EnrichedAt = &now
	if err := s.Update(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

func setString(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}

// List returns every game ordered by local id.
func (s *Store) List(ctx context.Context) ([]Game, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+gameColumns+` FROM games ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *game)
	}
	return games, rows.Err()
}

// ListUnenriched returns games that have never been enriched.
func (s *Store) ListUnenriched(ctx context.Context) ([]Game, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+gameColumns+` FROM games WHERE enriched_at IS NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list unenriched games: %w", err)
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *game)
	}
	return games, rows.Err()
}

// Remove deletes a game by identifier.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete game: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

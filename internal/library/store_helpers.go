package library

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

const gameColumns = "id, external_id, title, platform, status, rating, hours_played, cover_url, description, genre, developer, publisher, age_ratings, critic_score, user_score, release_date, dlc_names_json, enriched_at, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(scanner rowScanner) (*Game, error) {
	var (
		game        Game
		status      string
		rating      sql.NullInt64
		coverURL    sql.NullString
		description sql.NullString
		genre       sql.NullString
		developer   sql.NullString
		publisher   sql.NullString
		ageRatings  sql.NullString
		criticScore sql.NullInt64
		userScore   sql.NullInt64
		releaseRaw  sql.NullString
		dlcJSON     sql.NullString
		enrichedRaw sql.NullString
		createdRaw  sql.NullString
		updatedRaw  sql.NullString
	)

	if err := scanner.Scan(
		&game.ID,
		&game.ExternalID,
		&game.Title,
		&game.Platform,
		&status,
		&rating,
		&game.HoursPlayed,
		&coverURL,
		&description,
		&genre,
		&developer,
		&publisher,
		&ageRatings,
		&criticScore,
		&userScore,
		&releaseRaw,
		&dlcJSON,
		&enrichedRaw,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	game.Status = Status(status)
	game.Rating = intPtr(rating)
	game.CoverURL = coverURL.String
	game.Description = description.String
	game.Genre = genre.String
	game.Developer = developer.String
	game.Publisher = publisher.String
	game.AgeRatings = ageRatings.String
	game.CriticScore = intPtr(criticScore)
	game.UserScore = intPtr(userScore)
	game.ReleaseDate = timePtr(releaseRaw)
	game.EnrichedAt = timePtr(enrichedRaw)
	if dlcJSON.Valid && dlcJSON.String != "" {
		_ = json.Unmarshal([]byte(dlcJSON.String), &game.DLCNames)
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		game.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		game.UpdatedAt = updated
	}
	return &game, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func nullableJSON(values []string) any {
	if len(values) == 0 {
		return nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return string(data)
}

func intPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}

func timePtr(value sql.NullString) *time.Time {
	if !value.Valid {
		return nil
	}
	t, err := parseTimeString(value.String)
	if err != nil {
		return nil
	}
	return &t
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

package testsupport

import (
	"context"
	"testing"

	"questlog/internal/config"
	"questlog/internal/library"
)

// MustOpenStore opens a library.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddGame inserts a backlog game for tests using the provided store.
func AddGame(t testing.TB, store *library.Store, title, platform string, externalID int64) *library.Game {
	t.Helper()

	game, err := store.Add(context.Background(), library.Game{
		ExternalID: externalID,
		Title:      title,
		Platform:   platform,
		Status:     library.StatusBacklog,
	})
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return game
}

package library_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"questlog/internal/library"
	"questlog/internal/services"
	"questlog/internal/testsupport"
)

func TestExportThenMergeIntoEmptyLibrary(t *testing.T) {
	ctx := context.Background()
	source := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	hades := testsupport.AddGame(t, source, "Hades", "PC", 113112)
	hades.Status = library.StatusCompleted
	hades.Rating = intp(9)
	if err := source.Update(ctx, hades); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	testsupport.AddGame(t, source, "Hades", "Switch", 113112)
	testsupport.AddGame(t, source, "Homebrew Demo", "PC", 0)
	if err := source.SetDLCOwned(ctx, 113112, "Soundtrack", true); err != nil {
		t.Fatalf("SetDLCOwned failed: %v", err)
	}

	var buf bytes.Buffer
	exported, err := source.Export(ctx, &buf)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if exported.FormatVersion != library.BackupFormatVersion || exported.ID == "" {
		t.Fatalf("unexpected backup header %#v", exported)
	}

	doc, err := library.DecodeBackup(&buf)
	if err != nil {
		t.Fatalf("DecodeBackup failed: %v", err)
	}
	if doc.ID != exported.ID || len(doc.Games) != 3 {
		t.Fatalf("decoded backup mismatch: %#v", doc)
	}

	target := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	result, err := target.MergeBackup(ctx, doc)
	if err != nil {
		t.Fatalf("MergeBackup failed: %v", err)
	}
	if result.Inserted != 3 || result.Skipped != 0 || result.DLCsInserted != 1 {
		t.Fatalf("unexpected merge result %#v", result)
	}

	restored, err := target.FindByExternal(ctx, 113112, "PC")
	if err != nil {
		t.Fatalf("FindByExternal failed: %v", err)
	}
	if restored == nil || restored.Status != library.StatusCompleted || restored.Rating == nil || *restored.Rating != 9 {
		t.Fatalf("restored game lost user fields: %#v", restored)
	}

	// A second merge of the same document is a no-op.
	again, err := target.MergeBackup(ctx, doc)
	if err != nil {
		t.Fatalf("second MergeBackup failed: %v", err)
	}
	if again.Inserted != 0 || again.Skipped != 3 || again.DLCsInserted != 0 {
		t.Fatalf("expected idempotent merge, got %#v", again)
	}
}

func TestMergeSkipsExistingPairs(t *testing.T) {
	ctx := context.Background()
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	existing := testsupport.AddGame(t, store, "Celeste", "Switch", 26226)

	doc := &library.Backup{
		FormatVersion: library.BackupFormatVersion,
		ID:            "6f1c1c9e-3f38-4a53-9a3a-0d1d6f1f7a11",
		Games: []library.Game{
			{ExternalID: 26226, Title: "Celeste (renamed)", Platform: "Switch", Status: library.StatusPlaying},
			{ExternalID: 26226, Title: "Celeste", Platform: "PC", Status: library.StatusBacklog},
		},
	}
	result, err := store.MergeBackup(ctx, doc)
	if err != nil {
		t.Fatalf("MergeBackup failed: %v", err)
	}
	if result.Inserted != 1 || result.Skipped != 1 {
		t.Fatalf("unexpected merge result %#v", result)
	}

	kept, err := store.Get(ctx, existing.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if kept.Title != "Celeste" || kept.Status != library.StatusBacklog {
		t.Fatalf("existing game was modified: %#v", kept)
	}
}

func TestDecodeBackupRejectsMalformedDocuments(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", "<html>nope</html>"},
		{"wrong version", `{"format_version": 7, "id": "6f1c1c9e-3f38-4a53-9a3a-0d1d6f1f7a11", "games": []}`},
		{"missing id", `{"format_version": 1, "games": []}`},
		{"bad game", `{"format_version": 1, "id": "6f1c1c9e-3f38-4a53-9a3a-0d1d6f1f7a11", "games": [{"title": "", "platform": "PC"}]}`},
		{"bad rating", `{"format_version": 1, "id": "6f1c1c9e-3f38-4a53-9a3a-0d1d6f1f7a11", "games": [{"title": "Hades", "platform": "PC", "rating": 12}]}`},
		{"bad dlc key", `{"format_version": 1, "id": "6f1c1c9e-3f38-4a53-9a3a-0d1d6f1f7a11", "games": [], "owned_dlcs": [{"parent_external_id": 1, "name_key": "x", "name": "Soundtrack"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := library.DecodeBackup(strings.NewReader(tc.body))
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestDecodeBackupDefaultsMissingStatus(t *testing.T) {
	body := `{"format_version": 1, "id": "6f1c1c9e-3f38-4a53-9a3a-0d1d6f1f7a11", "games": [{"title": "Hades", "platform": "PC"}]}`
	doc, err := library.DecodeBackup(strings.NewReader(body))
	if err != nil {
		t.Fatalf("DecodeBackup failed: %v", err)
	}
	if doc.Games[0].Status != library.StatusBacklog {
		t.Fatalf("expected Backlog default, got %q", doc.Games[0].Status)
	}
}

package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"questlog/internal/services"
	"questlog/internal/textutil"
)

// BackupFormatVersion is the version written by Export and accepted by
// DecodeBackup.
const BackupFormatVersion = 1

// Backup is the portable JSON form of the library.
type Backup struct {
	FormatVersion int        `json:"format_version" validate:"eq=1"`
	ID            string     `json:"id" validate:"required,uuid"`
	ExportedAt    time.Time  `json:"exported_at"`
	Games         []Game     `json:"games" validate:"dive"`
	OwnedDLCs     []OwnedDLC `json:"owned_dlcs" validate:"dive"`
}

// MergeResult reports what MergeBackup changed.
type MergeResult struct {
	Inserted     int
	Skipped      int
	DLCsInserted int
}

// Export writes the whole library as a backup document.
func (s *Store) Export(ctx context.Context, w io.Writer) (*Backup, error) {
	games, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	dlcs, err := s.AllOwnedDLCs(ctx)
	if err != nil {
		return nil, err
	}
	doc := &Backup{
		FormatVersion: BackupFormatVersion,
		ID:            uuid.NewString(),
		ExportedAt:    time.Now().UTC(),
		Games:         games,
		OwnedDLCs:     dlcs,
	}
	if doc.Games == nil {
		doc.Games = []Game{}
	}
	if doc.OwnedDLCs == nil {
		doc.OwnedDLCs = []OwnedDLC{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return doc, nil
}

// DecodeBackup parses and validates a backup document without touching any
// store.
func DecodeBackup(r io.Reader) (*Backup, error) {
	var doc Backup
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, services.Wrap(services.ErrValidation, "library", "decode backup", "malformed backup", err)
	}
	for i := range doc.Games {
		if doc.Games[i].Status == "" {
			doc.Games[i].Status = StatusBacklog
		}
	}
	if err := validationError("backup", validate.Struct(doc)); err != nil {
		return nil, err
	}
	for i := range doc.OwnedDLCs {
		if key := textutil.Key(doc.OwnedDLCs[i].Name); key != doc.OwnedDLCs[i].NameKey {
			return nil, services.Wrap(services.ErrValidation, "library", "decode backup",
				fmt.Sprintf("owned dlc %q has name key %q, want %q", doc.OwnedDLCs[i].Name, doc.OwnedDLCs[i].NameKey, key), nil)
		}
	}
	return &doc, nil
}

// MergeBackup inserts every game whose (external_id, platform) pair is not
// already in the library. Games without a catalog id match on title and
// platform instead. The merge runs in one transaction.
func (s *Store) MergeBackup(ctx context.Context, doc *Backup) (MergeResult, error) {
	if doc == nil {
		return MergeResult{}, services.Wrap(services.ErrValidation, "library", "merge backup", "backup is nil", nil)
	}
	var result MergeResult
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result = MergeResult{}
		for i := range doc.Games {
			game := doc.Games[i]
			exists, err := gameExists(ctx, tx, &game)
			if err != nil {
				return err
			}
			if exists {
				result.Skipped++
				continue
			}
			if game.CreatedAt.IsZero() {
				game.CreatedAt = time.Now().UTC()
			}
			if game.UpdatedAt.IsZero() {
				game.UpdatedAt = game.CreatedAt
			}
			if _, err := insertGame(ctx, tx, &game); err != nil {
				return fmt.Errorf("insert %q: %w", game.Title, err)
			}
			result.Inserted++
		}
		for _, dlc := range doc.OwnedDLCs {
			created := dlc.CreatedAt
			if created.IsZero() {
				created = time.Now().UTC()
			}
			res, err := tx.ExecContext(ctx,
				`INSERT INTO owned_dlcs (parent_external_id, dlc_name_key, dlc_name, created_at)
                 VALUES (?, ?, ?, ?)
                 ON CONFLICT (parent_external_id, dlc_name_key) DO NOTHING`,
				dlc.ParentExternalID, dlc.NameKey, dlc.Name, created.UTC().Format(time.RFC3339Nano),
			)
			if err != nil {
				return fmt.Errorf("insert owned dlc %q: %w", dlc.Name, err)
			}
			if n, err := res.RowsAffected(); err == nil {
				result.DLCsInserted += int(n)
			}
		}
		return nil
	})
	if err != nil {
		return MergeResult{}, fmt.Errorf("merge backup: %w", err)
	}
	return result, nil
}

func gameExists(ctx context.Context, tx *sql.Tx, game *Game) (bool, error) {
	var (
		count int
		err   error
	)
	if game.ExternalID > 0 {
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM games WHERE external_id = ? AND platform = ?`,
			game.ExternalID, game.Platform,
		).Scan(&count)
	} else {
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM games WHERE external_id = 0 AND lower(title) = ? AND platform = ?`,
			strings.ToLower(strings.TrimSpace(game.Title)), game.Platform,
		).Scan(&count)
	}
	if err != nil {
		return false, fmt.Errorf("check existing game: %w", err)
	}
	return count > 0, nil
}

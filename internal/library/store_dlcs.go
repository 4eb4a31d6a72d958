package library

import (
	"context"
	"fmt"
	"strings"
	"time"

	"questlog/internal/textutil"
)

// SetDLCOwned marks or clears ownership of a DLC under a parent game. The DLC
// is identified by its name key, so renamed listings that normalize to the
// same key share one flag.
func (s *Store) SetDLCOwned(ctx context.Context, parentExternalID int64, name string, owned bool) error {
	name = strings.TrimSpace(name)
	key := textutil.Key(name)
	dlc := OwnedDLC{ParentExternalID: parentExternalID, NameKey: key, Name: name}
	if err := validationError("dlc", validate.Struct(dlc)); err != nil {
		return err
	}
	if !owned {
		if _, err := s.execWithRetry(ctx,
			`DELETE FROM owned_dlcs WHERE parent_external_id = ? AND dlc_name_key = ?`,
			parentExternalID, key,
		); err != nil {
			return fmt.Errorf("clear dlc ownership: %w", err)
		}
		return nil
	}
	if _, err := s.execWithRetry(ctx,
		`INSERT INTO owned_dlcs (parent_external_id, dlc_name_key, dlc_name, created_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT (parent_external_id, dlc_name_key) DO UPDATE SET dlc_name = excluded.dlc_name`,
		parentExternalID, key, name, time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("set dlc ownership: %w", err)
	}
	return nil
}

// OwnedDLCs returns the owned DLCs of a parent game ordered by name.
func (s *Store) OwnedDLCs(ctx context.Context, parentExternalID int64) ([]OwnedDLC, error) {
	return s.queryOwnedDLCs(ctx,
		`SELECT parent_external_id, dlc_name_key, dlc_name, created_at FROM owned_dlcs
         WHERE parent_external_id = ? ORDER BY dlc_name_key`, parentExternalID)
}

// AllOwnedDLCs returns every owned-DLC flag.
func (s *Store) AllOwnedDLCs(ctx context.Context) ([]OwnedDLC, error) {
	return s.queryOwnedDLCs(ctx,
		`SELECT parent_external_id, dlc_name_key, dlc_name, created_at FROM owned_dlcs
         ORDER BY parent_external_id, dlc_name_key`)
}

func (s *Store) queryOwnedDLCs(ctx context.Context, query string, args ...any) ([]OwnedDLC, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query owned dlcs: %w", err)
	}
	defer rows.Close()

	var out []OwnedDLC
	for rows.Next() {
		var (
			dlc        OwnedDLC
			createdRaw string
		)
		if err := rows.Scan(&dlc.ParentExternalID, &dlc.NameKey, &dlc.Name, &createdRaw); err != nil {
			return nil, err
		}
		if created, err := parseTimeString(createdRaw); err == nil {
			dlc.CreatedAt = created
		}
		out = append(out, dlc)
	}
	return out, rows.Err()
}

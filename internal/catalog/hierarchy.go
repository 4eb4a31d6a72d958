package catalog

import "questlog/internal/textutil"

// Role is the display role of a catalog record.
type Role string

const (
	RoleMain           Role = "MAIN"
	RoleDLC            Role = "DLC"
	RoleEditionVariant Role = "EDITION_VARIANT"
)

// Resolution is the outcome of Resolve. Variant is tracked separately from
// Role because a record can display as a main game and still be an alternate
// release of another record.
type Resolution struct {
	Role    Role
	Variant bool
}

// Resolve classifies rec. embeddedIn reports whether rec was found inside
// another record's DLC list.
//
//   - embedded, or a non-zero game type without a version parent: DLC
//   - version parent with embedded DLCs: MAIN, Variant=true
//   - version parent without DLCs: EDITION_VARIANT, Variant=true
//   - otherwise: MAIN
func Resolve(rec Record, embeddedIn bool) Resolution {
	if embeddedIn {
		return Resolution{Role: RoleDLC}
	}
	if rec.VersionParent != nil {
		if len(rec.DLCs) > 0 {
			return Resolution{Role: RoleMain, Variant: true}
		}
		return Resolution{Role: RoleEditionVariant, Variant: true}
	}
	if rec.GameType != 0 {
		return Resolution{Role: RoleDLC}
	}
	return Resolution{Role: RoleMain}
}

// DLCLink ties an embedded DLC entry to its parent record. Owned-DLC state is
// keyed by (NameKey, ParentID).
type DLCLink struct {
	ParentID int64
	DLCID    int64
	Name     string
	NameKey  string
}

// LinkDLCs links each embedded DLC of a main-role parent. Entries whose names
// normalize to the same key are linked once, keeping the first.
func LinkDLCs(parent Record) []DLCLink {
	if Resolve(parent, false).Role != RoleMain || len(parent.DLCs) == 0 {
		return nil
	}
	links := make([]DLCLink, 0, len(parent.DLCs))
	seen := make(map[string]struct{}, len(parent.DLCs))
	for _, dlc := range parent.DLCs {
		key := textutil.Key(dlc.Name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		links = append(links, DLCLink{
			ParentID: parent.ID,
			DLCID:    dlc.ID,
			Name:     dlc.Name,
			NameKey:  key,
		})
	}
	return links
}

package store

import (
	"context"

	"github.com/plurapay/planviz/pkg/layout"
)

// Group is a user-defined cluster of plain definition nodes.
type Group struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// Record is the persisted layout state for one graph instance: which
// graph shape it was saved against, the user's node position overrides,
// and their groups. Last write wins; records are never merged.
type Record struct {
	Signature   string                     `json:"signature"`
	Positions   map[string]layout.Position `json:"positions"`
	Groups      []Group                    `json:"groups"`
	LastUpdated int64                      `json:"last_updated"`
}

// LayoutStore persists one Record per graph instance id.
type LayoutStore interface {
	// Load returns the stored record for instanceID, or nil if none
	// exists. Corrupt records are treated as absent, not as errors.
	Load(ctx context.Context, instanceID string) (*Record, error)

	// Save replaces the stored record for instanceID.
	Save(ctx context.Context, instanceID string, rec Record) error

	// Close releases backend resources.
	Close() error
}

// Restore reconciles a loaded record against the live graph. If the
// record is missing or its signature no longer matches, everything is
// discarded and the caller stays on auto-layout defaults. Otherwise
// position overrides for ids no longer in the graph are dropped, and
// groups are pruned to known members (a group left with zero members
// disappears).
func Restore(rec *Record, signature string, known map[string]bool) (map[string]layout.Position, []Group) {
	positions := make(map[string]layout.Position)
	var groups []Group

	if rec == nil || rec.Signature != signature {
		return positions, groups
	}

	for id, pos := range rec.Positions {
		if known[id] {
			positions[id] = pos
		}
	}
	for _, g := range rec.Groups {
		var members []string
		for _, m := range g.Members {
			if known[m] {
				members = append(members, m)
			}
		}
		if len(members) == 0 {
			continue
		}
		groups = append(groups, Group{ID: g.ID, Name: g.Name, Members: members})
	}
	return positions, groups
}

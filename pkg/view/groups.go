package view

import (
	"fmt"
	"strings"

	"github.com/plurapay/planviz/pkg/graph"
	"github.com/plurapay/planviz/pkg/layout"
	"github.com/plurapay/planviz/pkg/store"
)

// Group capsule geometry.
const (
	GroupPadding   = 24.0
	MinGroupWidth  = 120.0
	MinGroupHeight = 80.0
)

// GroupSet maintains the user-defined clusters for one graph instance.
// A node belongs to at most one group at a time.
type GroupSet struct {
	groups []store.Group
}

// NewGroupSet wraps restored groups. The slice is taken over.
func NewGroupSet(groups []store.Group) *GroupSet {
	return &GroupSet{groups: groups}
}

// List returns the groups in creation order.
func (s *GroupSet) List() []store.Group {
	return s.groups
}

// Get returns the group with the given id.
func (s *GroupSet) Get(id string) (store.Group, bool) {
	for _, g := range s.groups {
		if g.ID == id {
			return g, true
		}
	}
	return store.Group{}, false
}

// IsGroup reports whether id names a group.
func (s *GroupSet) IsGroup(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// MemberOf returns the id of the group containing nodeID, if any.
func (s *GroupSet) MemberOf(nodeID string) (string, bool) {
	for _, g := range s.groups {
		for _, m := range g.Members {
			if m == nodeID {
				return g.ID, true
			}
		}
	}
	return "", false
}

// Create makes a new group from the eligible subset of selected: plain
// definition nodes that are not sinks, not group ids, and not already
// grouped. Fewer than two survivors makes the whole operation a no-op.
// The fresh id is G{n} for the smallest n that collides with nothing.
func (s *GroupSet) Create(selected []string, g *graph.Graph) (store.Group, bool) {
	var members []string
	for _, id := range selected {
		n, ok := g.Nodes[id]
		if !ok || n.Kind != graph.KindDefinition {
			continue
		}
		if s.IsGroup(id) {
			continue
		}
		if _, grouped := s.MemberOf(id); grouped {
			continue
		}
		members = append(members, id)
	}
	if len(members) < 2 {
		return store.Group{}, false
	}

	var id string
	for n := 1; ; n++ {
		id = fmt.Sprintf("G%d", n)
		if !g.Has(id) && !s.IsGroup(id) {
			break
		}
	}

	grp := store.Group{
		ID:      id,
		Name:    "Group " + strings.TrimPrefix(id, "G"),
		Members: members,
	}
	s.groups = append(s.groups, grp)
	return grp, true
}

// Ungroup removes the group; its members keep their absolute positions
// and become independently selectable again.
func (s *GroupSet) Ungroup(id string) bool {
	for i, g := range s.groups {
		if g.ID == id {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveMember drops one node from a group. The group survives even with
// a single remaining member; only an empty group is pruned.
func (s *GroupSet) RemoveMember(groupID, nodeID string) {
	for i := range s.groups {
		if s.groups[i].ID != groupID {
			continue
		}
		members := s.groups[i].Members[:0]
		for _, m := range s.groups[i].Members {
			if m != nodeID {
				members = append(members, m)
			}
		}
		s.groups[i].Members = members
		if len(members) == 0 {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)
		}
		return
	}
}

// Rename replaces the display name. Empty input keeps the prior name.
func (s *GroupSet) Rename(groupID, name string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	for i := range s.groups {
		if s.groups[i].ID == groupID {
			s.groups[i].Name = name
			return
		}
	}
}

// Bounds computes the capsule rectangle for a group from its live member
// positions: each member contributes its position plus/minus half of the
// scaled-down footprint, the whole box is padded, and a minimum size
// floor keeps sparse groups visible.
func (s *GroupSet) Bounds(grp store.Group, positions map[string]layout.Position) Rect {
	halfW := graph.NodeWidth * MemberScale / 2
	halfH := graph.NodeHeight * MemberScale / 2

	var r Rect
	first := true
	for _, m := range grp.Members {
		p, ok := positions[m]
		if !ok {
			continue
		}
		if first {
			r = Rect{MinX: p.X - halfW, MinY: p.Y - halfH, MaxX: p.X + halfW, MaxY: p.Y + halfH}
			first = false
			continue
		}
		if p.X-halfW < r.MinX {
			r.MinX = p.X - halfW
		}
		if p.X+halfW > r.MaxX {
			r.MaxX = p.X + halfW
		}
		if p.Y-halfH < r.MinY {
			r.MinY = p.Y - halfH
		}
		if p.Y+halfH > r.MaxY {
			r.MaxY = p.Y + halfH
		}
	}
	if first {
		return Rect{}
	}

	r.MinX -= GroupPadding
	r.MinY -= GroupPadding
	r.MaxX += GroupPadding
	r.MaxY += GroupPadding

	if w := r.Width(); w < MinGroupWidth {
		pad := (MinGroupWidth - w) / 2
		r.MinX -= pad
		r.MaxX += pad
	}
	if h := r.Height(); h < MinGroupHeight {
		pad := (MinGroupHeight - h) / 2
		r.MinY -= pad
		r.MaxY += pad
	}
	return r
}

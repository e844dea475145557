package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plurapay/planviz/pkg/graph"
	"github.com/plurapay/planviz/pkg/layout"
	"github.com/plurapay/planviz/pkg/plan"
	"github.com/plurapay/planviz/pkg/store"
)

func groupTestGraph() *graph.Graph {
	return graph.Build(plan.Plan{
		Definitions: []plan.Definition{
			{ValueID: "PV"},
			{ValueID: "QV"},
			{ValueID: "GV", Parameters: []plan.Parameter{{ID: "formula", Value: "PV"}}},
		},
		Ranks:   []plan.Rank{{Requirement: plan.RankRequirement{GroupVolumeKey: "GV"}}},
		Bonuses: []plan.BonusDefinition{{ID: "B1", VolumeKey: "PV"}},
	})
}

func TestGroupSet_Create(t *testing.T) {
	g := groupTestGraph()
	s := NewGroupSet(nil)

	grp, ok := s.Create([]string{"PV", "QV"}, g)
	require.True(t, ok)
	assert.Equal(t, "G1", grp.ID)
	assert.Equal(t, "Group 1", grp.Name)
	assert.Equal(t, []string{"PV", "QV"}, grp.Members)

	gid, ok := s.MemberOf("PV")
	assert.True(t, ok)
	assert.Equal(t, "G1", gid)
}

func TestGroupSet_CreateFiltersIneligible(t *testing.T) {
	g := groupTestGraph()
	s := NewGroupSet(nil)

	// Sinks and unknown ids never make it into a group.
	_, ok := s.Create([]string{"PV", "B1", graph.RankNodeID, "missing"}, g)
	assert.False(t, ok, "one surviving definition is not enough")

	grp, ok := s.Create([]string{"PV", "QV", "B1"}, g)
	require.True(t, ok)
	assert.Equal(t, []string{"PV", "QV"}, grp.Members)

	// Already-grouped nodes are skipped on the next create.
	_, ok = s.Create([]string{"PV", "GV"}, g)
	assert.False(t, ok)
}

func TestGroupSet_IDAllocation(t *testing.T) {
	g := groupTestGraph()
	s := NewGroupSet([]store.Group{{ID: "G1", Name: "Group 1", Members: []string{"QV"}}})

	// G1 is taken, so the next fresh id is G2.
	grp, ok := s.Create([]string{"PV", "GV"}, g)
	require.True(t, ok)
	assert.Equal(t, "G2", grp.ID)

	// Freed ids become reusable.
	require.True(t, s.Ungroup("G1"))
	require.True(t, s.Ungroup("G2"))
	grp, ok = s.Create([]string{"PV", "QV"}, g)
	require.True(t, ok)
	assert.Equal(t, "G1", grp.ID)
}

func TestGroupSet_Ungroup(t *testing.T) {
	g := groupTestGraph()
	s := NewGroupSet(nil)
	grp, _ := s.Create([]string{"PV", "QV"}, g)

	assert.True(t, s.Ungroup(grp.ID))
	assert.False(t, s.IsGroup(grp.ID))
	_, ok := s.MemberOf("PV")
	assert.False(t, ok)

	assert.False(t, s.Ungroup("G9"))
}

func TestGroupSet_RemoveMember(t *testing.T) {
	g := groupTestGraph()
	s := NewGroupSet(nil)
	grp, _ := s.Create([]string{"PV", "QV"}, g)

	// A group survives down to one member.
	s.RemoveMember(grp.ID, "PV")
	got, ok := s.Get(grp.ID)
	require.True(t, ok)
	assert.Equal(t, []string{"QV"}, got.Members)

	// Removing the last member prunes the group.
	s.RemoveMember(grp.ID, "QV")
	assert.False(t, s.IsGroup(grp.ID))
}

func TestGroupSet_Rename(t *testing.T) {
	g := groupTestGraph()
	s := NewGroupSet(nil)
	grp, _ := s.Create([]string{"PV", "QV"}, g)

	s.Rename(grp.ID, "Volumes")
	got, _ := s.Get(grp.ID)
	assert.Equal(t, "Volumes", got.Name)

	// Blank input keeps the prior name.
	s.Rename(grp.ID, "   ")
	got, _ = s.Get(grp.ID)
	assert.Equal(t, "Volumes", got.Name)
}

func TestGroupSet_Bounds(t *testing.T) {
	s := NewGroupSet(nil)
	grp := store.Group{ID: "G1", Members: []string{"A", "B"}}
	positions := map[string]layout.Position{
		"A": {X: 0, Y: 0},
		"B": {X: 400, Y: 200},
	}

	r := s.Bounds(grp, positions)

	halfW := graph.NodeWidth * MemberScale / 2
	halfH := graph.NodeHeight * MemberScale / 2
	assert.Equal(t, -halfW-GroupPadding, r.MinX)
	assert.Equal(t, -halfH-GroupPadding, r.MinY)
	assert.Equal(t, 400+halfW+GroupPadding, r.MaxX)
	assert.Equal(t, 200+halfH+GroupPadding, r.MaxY)
}

func TestGroupSet_BoundsMinimumFloor(t *testing.T) {
	s := NewGroupSet(nil)
	grp := store.Group{ID: "G1", Members: []string{"A"}}
	positions := map[string]layout.Position{"A": {X: 100, Y: 100}}

	r := s.Bounds(grp, positions)

	assert.GreaterOrEqual(t, r.Width(), MinGroupWidth)
	assert.GreaterOrEqual(t, r.Height(), MinGroupHeight)
	// The capsule stays centered on its lone member.
	assert.InDelta(t, 100.0, (r.MinX+r.MaxX)/2, 1e-9)
	assert.InDelta(t, 100.0, (r.MinY+r.MaxY)/2, 1e-9)
}

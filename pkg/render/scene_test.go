package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plurapay/planviz/pkg/graph"
	"github.com/plurapay/planviz/pkg/layout"
	"github.com/plurapay/planviz/pkg/plan"
	"github.com/plurapay/planviz/pkg/view"
)

func sceneMachine() *view.Machine {
	g := graph.Build(plan.Plan{
		Definitions: []plan.Definition{
			{ValueID: "PV", Name: "Personal Volume"},
			{ValueID: "QV", Name: "Qualifying Volume"},
			{ValueID: "GV", Name: "Group Volume", Parameters: []plan.Parameter{
				{ID: "formula", Value: "PV + QV"},
			}},
		},
		Bonuses: []plan.BonusDefinition{{ID: "B1", Name: "Fast Start", VolumeKey: "GV"}},
	})
	vp := view.NewViewport(800, 600)
	return view.NewMachine(g, vp, view.NewGroupSet(nil), layout.Compute(g))
}

func zoomOut(m *view.Machine, scale float64) {
	m.Viewport.W = m.Viewport.ScreenW() / scale
	m.Viewport.H = m.Viewport.ScreenH() / scale
}

func TestBuildScene_FullDetail(t *testing.T) {
	m := sceneMachine()
	scene := BuildScene(m)

	require.Len(t, scene.Nodes, 4)
	require.Len(t, scene.Edges, 3)
	assert.Empty(t, scene.Capsules)
	assert.Nil(t, scene.Lasso)
	assert.Equal(t, 1.0, scene.Scale)

	for _, n := range scene.Nodes {
		assert.False(t, n.Compact)
		assert.False(t, n.Dimmed, "nothing dims while nothing is selected")
	}
	// Full-detail cards carry the display name.
	assert.Equal(t, "Personal Volume", scene.Nodes[0].Title)
}

func TestBuildScene_CompactCardsUseIdentifier(t *testing.T) {
	m := sceneMachine()
	zoomOut(m, 0.5)

	scene := BuildScene(m)
	require.NotEmpty(t, scene.Nodes)
	for _, n := range scene.Nodes {
		assert.True(t, n.Compact)
		assert.GreaterOrEqual(t, n.FontSize, view.MinFontSize)
		assert.LessOrEqual(t, n.FontSize, view.MaxFontSize)
	}
	assert.Equal(t, "PV", scene.Nodes[0].Title)
}

func TestBuildScene_CollapsedGroup(t *testing.T) {
	m := sceneMachine()
	m.Select("PV")
	mSelectAlso(m, "QV")
	require.True(t, m.CreateGroup())
	m.ClearSelection()

	zoomOut(m, 0.2)
	scene := BuildScene(m)

	require.Len(t, scene.Capsules, 1)
	assert.True(t, scene.Capsules[0].Collapsed)
	assert.Equal(t, "Group 1 (2)", scene.Capsules[0].Label)

	// Hidden members leave only GV and the bonus as cards.
	ids := make([]string, 0, len(scene.Nodes))
	for _, n := range scene.Nodes {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []string{"GV", "B1"}, ids)
}

func TestBuildScene_EdgesRerouteToCapsule(t *testing.T) {
	m := sceneMachine()
	m.Select("PV")
	mSelectAlso(m, "QV")
	require.True(t, m.CreateGroup())
	m.ClearSelection()

	zoomOut(m, 0.2)
	scene := BuildScene(m)

	grp, _ := m.Groups.Get("G1")
	rect := m.Groups.Bounds(grp, m.Positions)
	cx := (rect.MinX + rect.MaxX) / 2
	cy := (rect.MinY + rect.MaxY) / 2

	// PV->GV and QV->GV both start at the capsule center now.
	count := 0
	for _, e := range scene.Edges {
		if e.Head == "GV" {
			assert.Equal(t, cx, e.FromX)
			assert.Equal(t, cy, e.FromY)
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestBuildScene_EdgeInsideCapsuleSuppressed(t *testing.T) {
	g := graph.Build(plan.Plan{
		Definitions: []plan.Definition{
			{ValueID: "A"},
			{ValueID: "B", Parameters: []plan.Parameter{{ID: "formula", Value: "A"}}},
		},
	})
	vp := view.NewViewport(800, 600)
	m := view.NewMachine(g, vp, view.NewGroupSet(nil), layout.Compute(g))
	m.Select("A")
	mSelectAlso(m, "B")
	require.True(t, m.CreateGroup())
	m.ClearSelection()

	zoomOut(m, 0.2)
	scene := BuildScene(m)
	assert.Empty(t, scene.Edges, "an edge with both ends in one capsule draws nothing")
}

func TestBuildScene_ParallelEdgesMerge(t *testing.T) {
	g := graph.NewGraph()
	g.Nodes["A"] = &graph.Node{ID: "A", Kind: graph.KindDefinition}
	g.Nodes["B"] = &graph.Node{ID: "B", Kind: graph.KindDefinition}
	g.Order = []string{"A", "B"}
	g.Edges = []graph.Edge{
		{Tail: "A", Head: "B", Label: graph.LabelFormula},
		{Tail: "A", Head: "B", Label: "amount"},
		{Tail: "B", Head: "A", Label: "back"},
	}
	vp := view.NewViewport(800, 600)
	positions := map[string]layout.Position{
		"A": {X: 100, Y: 100},
		"B": {X: 300, Y: 100},
	}
	m := view.NewMachine(g, vp, view.NewGroupSet(nil), positions)

	scene := BuildScene(m)

	require.Len(t, scene.Edges, 1, "parallel and opposing edges merge into one line")
	e := scene.Edges[0]
	assert.ElementsMatch(t, []string{graph.LabelFormula, "amount", "back"}, e.Labels)
	// Direction follows the first underlying edge.
	assert.Equal(t, "A", e.Tail)
	assert.Equal(t, "B", e.Head)
}

func TestBuildScene_SingleSelectionDims(t *testing.T) {
	m := sceneMachine()
	m.Select("GV")

	scene := BuildScene(m)

	dimmed := make(map[string]bool)
	for _, n := range scene.Nodes {
		dimmed[n.ID] = n.Dimmed
	}
	// GV itself plus its direct neighbors stay bright.
	assert.False(t, dimmed["GV"])
	assert.False(t, dimmed["PV"])
	assert.False(t, dimmed["QV"])
	assert.False(t, dimmed["B1"])

	for _, e := range scene.Edges {
		assert.False(t, e.Dimmed, "every edge here touches GV")
	}
}

func TestBuildScene_UnrelatedNodesDim(t *testing.T) {
	m := sceneMachine()
	m.Select("PV")

	scene := BuildScene(m)

	dimmed := make(map[string]bool)
	for _, n := range scene.Nodes {
		dimmed[n.ID] = n.Dimmed
	}
	assert.False(t, dimmed["PV"])
	assert.False(t, dimmed["GV"], "GV reads PV")
	assert.True(t, dimmed["QV"], "QV has no edge to PV")
	assert.True(t, dimmed["B1"])
}

func TestBuildScene_MultiSelectionDoesNotDim(t *testing.T) {
	m := sceneMachine()
	m.Select("PV")
	mSelectAlso(m, "QV")

	scene := BuildScene(m)
	for _, n := range scene.Nodes {
		assert.False(t, n.Dimmed)
	}
}

func TestContentBounds(t *testing.T) {
	positions := map[string]layout.Position{
		"A": {X: 100, Y: 50},
		"B": {X: 300, Y: 250},
	}
	r := ContentBounds(positions)
	assert.Equal(t, 100-graph.NodeWidth/2, r.MinX)
	assert.Equal(t, 50-graph.NodeHeight/2, r.MinY)
	assert.Equal(t, 300+graph.NodeWidth/2, r.MaxX)
	assert.Equal(t, 250+graph.NodeHeight/2, r.MaxY)

	empty := ContentBounds(nil)
	assert.Equal(t, view.Rect{MaxX: 1, MaxY: 1}, empty)
}

// mSelectAlso extends the selection the way a modifier click would.
func mSelectAlso(m *view.Machine, id string) {
	p := m.Positions[id]
	sx, sy := m.Viewport.ToScreen(p.X, p.Y)
	m.PointerDown(sx, sy, view.Modifiers{Shift: true})
	m.PointerUp(sx, sy)
}

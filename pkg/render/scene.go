// Package render turns graph, layout, and interaction state into a
// backend-agnostic draw list. It decides visibility, level of detail,
// rerouting, and dimming; it never touches a screen itself.
package render

import (
	"fmt"

	"github.com/plurapay/planviz/pkg/graph"
	"github.com/plurapay/planviz/pkg/layout"
	"github.com/plurapay/planviz/pkg/view"
)

// NodeCard is one node ready to draw, in logical coordinates.
type NodeCard struct {
	ID       string
	Kind     graph.NodeKind
	X, Y     float64 // center
	W, H     float64 // scale-adjusted footprint
	Title    string
	Compact  bool
	FontSize float64
	Selected bool
	Dimmed   bool
}

// Capsule is a group boundary, expanded or collapsed.
type Capsule struct {
	ID        string
	Label     string
	Rect      view.Rect
	Collapsed bool
	Selected  bool
	Dimmed    bool
}

// EdgeLine is one visual edge. Parallel labeled edges between the same
// pair collapse into a single line carrying every label; the arrowhead
// points at the head of the first underlying edge.
type EdgeLine struct {
	Tail, Head             string // original node ids
	FromX, FromY, ToX, ToY float64
	Labels                 []string
	Dimmed                 bool
}

// Scene is everything the display backend needs for one frame.
type Scene struct {
	Nodes    []NodeCard
	Capsules []Capsule
	Edges    []EdgeLine
	Scale    float64
	Lasso    *view.Rect
}

// BuildScene assembles the draw list for the current machine state.
func BuildScene(m *view.Machine) Scene {
	g := m.Graph
	scale := m.Viewport.Scale()
	compact := view.CompactNodes(scale)
	collapsed := view.CollapseGroups(scale)

	bright := brightSet(m)

	scene := Scene{Scale: scale}
	if lasso, ok := m.Lasso(); ok {
		r := lasso
		scene.Lasso = &r
	}

	// Group capsules.
	groupRects := make(map[string]view.Rect)
	for _, grp := range m.Groups.List() {
		rect := m.Groups.Bounds(grp, m.Positions)
		groupRects[grp.ID] = rect
		label := grp.Name
		if collapsed {
			label = fmt.Sprintf("%s (%d)", grp.Name, len(grp.Members))
		}
		scene.Capsules = append(scene.Capsules, Capsule{
			ID:        grp.ID,
			Label:     label,
			Rect:      rect,
			Collapsed: collapsed,
			Selected:  m.Selected(grp.ID),
			Dimmed:    bright != nil && !bright[grp.ID],
		})
	}

	// Node cards. Members of collapsed groups are hidden entirely.
	for _, id := range g.Order {
		n, ok := g.Nodes[id]
		if !ok {
			continue
		}
		if _, grouped := m.Groups.MemberOf(id); grouped && collapsed {
			continue
		}
		bounds := m.NodeBounds(id)
		p := m.Positions[id]

		title := n.Info.Name
		if title == "" {
			title = n.ID
		}
		card := NodeCard{
			ID:       id,
			Kind:     n.Kind,
			X:        p.X,
			Y:        p.Y,
			W:        bounds.Width(),
			H:        bounds.Height(),
			Title:    title,
			Compact:  compact,
			Selected: m.Selected(id),
			Dimmed:   bright != nil && !bright[id],
		}
		if compact {
			card.Title = n.ID
			card.FontSize = view.FitFontSize(n.ID, bounds.Width())
		}
		scene.Nodes = append(scene.Nodes, card)
	}

	scene.Edges = buildEdges(m, groupRects, collapsed, bright)
	return scene
}

// visualEdge groups parallel labeled edges into one undirected pair.
type visualEdge struct {
	tail, head string
	labels     []string
	bright     bool
}

func buildEdges(m *view.Machine, groupRects map[string]view.Rect, collapsed bool, bright map[string]bool) []EdgeLine {
	// endpoint returns where an edge attaches for a node: the node
	// itself, or its group capsule center once the group collapses.
	endpoint := func(id string) (string, float64, float64) {
		if gid, ok := m.Groups.MemberOf(id); ok && collapsed {
			rect := groupRects[gid]
			return gid, (rect.MinX + rect.MaxX) / 2, (rect.MinY + rect.MaxY) / 2
		}
		p := m.Positions[id]
		return id, p.X, p.Y
	}

	merged := make(map[[2]string]*visualEdge)
	var order [][2]string
	for _, e := range m.Graph.Edges {
		if !m.Graph.Has(e.Tail) || !m.Graph.Has(e.Head) {
			continue
		}
		tailAt, _, _ := endpoint(e.Tail)
		headAt, _, _ := endpoint(e.Head)
		// Both ends inside the same collapsed capsule: nothing to draw.
		if tailAt == headAt {
			continue
		}

		key := [2]string{e.Tail, e.Head}
		if e.Head < e.Tail {
			key = [2]string{e.Head, e.Tail}
		}
		ve, ok := merged[key]
		if !ok {
			ve = &visualEdge{tail: e.Tail, head: e.Head}
			merged[key] = ve
			order = append(order, key)
		}
		ve.labels = append(ve.labels, e.Label)
		if bright != nil && (bright[e.Tail] || bright[e.Head]) && edgeTouchesSelection(m, e) {
			ve.bright = true
		}
	}

	lines := make([]EdgeLine, 0, len(order))
	for _, key := range order {
		ve := merged[key]
		_, fx, fy := endpoint(ve.tail)
		_, tx, ty := endpoint(ve.head)
		lines = append(lines, EdgeLine{
			Tail:   ve.tail,
			Head:   ve.head,
			FromX:  fx,
			FromY:  fy,
			ToX:    tx,
			ToY:    ty,
			Labels: ve.labels,
			Dimmed: bright != nil && !ve.bright,
		})
	}
	return lines
}

// brightSet returns the full-strength ids when exactly one node or group
// is selected: the selection itself plus everything an edge connects it
// to. A nil return means no dimming at all.
func brightSet(m *view.Machine) map[string]bool {
	sel, ok := m.Single()
	if !ok {
		return nil
	}

	core := map[string]bool{sel: true}
	if grp, isGroup := m.Groups.Get(sel); isGroup {
		for _, member := range grp.Members {
			core[member] = true
		}
	}

	bright := make(map[string]bool, len(core))
	for id := range core {
		bright[id] = true
	}
	for _, e := range m.Graph.Edges {
		if core[e.Tail] {
			bright[e.Head] = true
		}
		if core[e.Head] {
			bright[e.Tail] = true
		}
	}
	// A capsule stays bright if any of its members is.
	for _, grp := range m.Groups.List() {
		for _, member := range grp.Members {
			if bright[member] {
				bright[grp.ID] = true
				break
			}
		}
	}
	return bright
}

// edgeTouchesSelection reports whether e is incident to the single
// selection (directly, or through the selected group's members).
func edgeTouchesSelection(m *view.Machine, e graph.Edge) bool {
	sel, ok := m.Single()
	if !ok {
		return false
	}
	if e.Tail == sel || e.Head == sel {
		return true
	}
	if grp, isGroup := m.Groups.Get(sel); isGroup {
		for _, member := range grp.Members {
			if e.Tail == member || e.Head == member {
				return true
			}
		}
	}
	return false
}

// ContentBounds returns the bounding box of every node position, for
// fit-to-content. An empty graph yields a unit box at the origin.
func ContentBounds(positions map[string]layout.Position) view.Rect {
	first := true
	var r view.Rect
	for _, p := range positions {
		if first {
			r = view.Rect{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
			first = false
			continue
		}
		if p.X < r.MinX {
			r.MinX = p.X
		}
		if p.X > r.MaxX {
			r.MaxX = p.X
		}
		if p.Y < r.MinY {
			r.MinY = p.Y
		}
		if p.Y > r.MaxY {
			r.MaxY = p.Y
		}
	}
	if first {
		return view.Rect{MaxX: 1, MaxY: 1}
	}
	r.MinX -= graph.NodeWidth / 2
	r.MaxX += graph.NodeWidth / 2
	r.MinY -= graph.NodeHeight / 2
	r.MaxY += graph.NodeHeight / 2
	return r
}

package view

import (
	"math"

	"github.com/plurapay/planviz/pkg/graph"
	"github.com/plurapay/planviz/pkg/layout"
)

// Phase is the interaction state. Transitions begin on pointer-down and
// end on pointer-up; nothing here is timer-driven.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePanning
	PhaseDragging
	PhaseLassoing
)

// ClickThreshold is the screen-space displacement below which a press and
// release counts as a click rather than a pan or move.
const ClickThreshold = 4.0

// SnapStep snaps drag positions to a half-node-height grid.
const SnapStep = graph.NodeHeight / 2

// Modifiers are the keyboard modifiers active during a pointer event.
type Modifiers struct {
	Alt   bool
	Shift bool
	Ctrl  bool
	Meta  bool
}

// extendsSelection reports whether the click should union into the
// existing selection instead of replacing it.
func (m Modifiers) extendsSelection() bool {
	return m.Shift || m.Ctrl || m.Meta
}

// HitKind classifies what a pointer landed on.
type HitKind int

const (
	HitNone HitKind = iota
	HitNode
	HitGroup
)

// Hit is the result of a hit test.
type Hit struct {
	Kind HitKind
	ID   string
}

// Machine is the interaction state machine for one canvas. It owns the
// current selection and mutates the position map and group set in
// response to pointer, wheel, and key events. It never renders.
type Machine struct {
	Graph     *graph.Graph
	Viewport  *Viewport
	Groups    *GroupSet
	Positions map[string]layout.Position

	// Grid offsets for drag snapping.
	SnapOffsetX float64
	SnapOffsetY float64

	phase     Phase
	selection map[string]bool

	pressX, pressY float64
	lastX, lastY   float64
	moved          bool
	pressHit       Hit
	pressMods      Modifiers

	dragSet        []string
	startPositions map[string]layout.Position
	anchorID       string

	lassoStartX, lassoStartY float64 // logical
	lasso                    Rect

	dirty bool
}

// NewMachine creates an idle machine over the given graph state.
// Positions must hold an entry for every node (auto-layout defaults plus
// any restored overrides).
func NewMachine(g *graph.Graph, vp *Viewport, groups *GroupSet, positions map[string]layout.Position) *Machine {
	return &Machine{
		Graph:     g,
		Viewport:  vp,
		Groups:    groups,
		Positions: positions,
		selection: make(map[string]bool),
	}
}

// Phase returns the current interaction phase.
func (m *Machine) Phase() Phase { return m.phase }

// Lasso returns the live marquee rectangle while lassoing.
func (m *Machine) Lasso() (Rect, bool) {
	return m.lasso, m.phase == PhaseLassoing
}

// Selected reports whether id is selected.
func (m *Machine) Selected(id string) bool { return m.selection[id] }

// Selection returns the selected ids in traversal order, groups last.
func (m *Machine) Selection() []string {
	var out []string
	for _, id := range m.Graph.Order {
		if m.selection[id] {
			out = append(out, id)
		}
	}
	for _, g := range m.Groups.List() {
		if m.selection[g.ID] {
			out = append(out, g.ID)
		}
	}
	return out
}

// Single returns the selected id when exactly one thing is selected.
func (m *Machine) Single() (string, bool) {
	if len(m.selection) != 1 {
		return "", false
	}
	for id := range m.selection {
		return id, true
	}
	return "", false
}

// ClearSelection empties the selection.
func (m *Machine) ClearSelection() {
	m.selection = make(map[string]bool)
}

// Select replaces the selection with the single id.
func (m *Machine) Select(id string) {
	m.selection = map[string]bool{id: true}
}

// ConsumeDirty reports whether layout state changed since the last call,
// resetting the flag. The caller persists when it returns true.
func (m *Machine) ConsumeDirty() bool {
	d := m.dirty
	m.dirty = false
	return d
}

// MarkDirty flags layout state as changed (used by group operations
// driven from outside the pointer flow, e.g. inspector renames).
func (m *Machine) MarkDirty() { m.dirty = true }

// NodeBounds returns the scale-adjusted logical bounding box of a node:
// members of an expanded group occupy a reduced footprint.
func (m *Machine) NodeBounds(id string) Rect {
	p := m.Positions[id]
	halfW, halfH := graph.NodeWidth/2, graph.NodeHeight/2
	if _, grouped := m.Groups.MemberOf(id); grouped && !CollapseGroups(m.Viewport.Scale()) {
		halfW *= MemberScale
		halfH *= MemberScale
	}
	return Rect{MinX: p.X - halfW, MinY: p.Y - halfH, MaxX: p.X + halfW, MaxY: p.Y + halfH}
}

// HitTest resolves what lies under the screen point. Nodes are tested
// before group capsules; members of collapsed groups are not hittable.
func (m *Machine) HitTest(sx, sy float64) Hit {
	lx, ly := m.Viewport.ToLogical(sx, sy)
	collapsed := CollapseGroups(m.Viewport.Scale())

	for i := len(m.Graph.Order) - 1; i >= 0; i-- {
		id := m.Graph.Order[i]
		if _, grouped := m.Groups.MemberOf(id); grouped && collapsed {
			continue
		}
		if m.NodeBounds(id).Contains(lx, ly) {
			return Hit{Kind: HitNode, ID: id}
		}
	}
	for _, g := range m.Groups.List() {
		if m.Groups.Bounds(g, m.Positions).Contains(lx, ly) {
			return Hit{Kind: HitGroup, ID: g.ID}
		}
	}
	return Hit{Kind: HitNone}
}

// PointerDown starts a pan, lasso, or drag depending on what was pressed.
func (m *Machine) PointerDown(sx, sy float64, mods Modifiers) {
	m.pressX, m.pressY = sx, sy
	m.lastX, m.lastY = sx, sy
	m.moved = false
	m.pressMods = mods
	m.pressHit = m.HitTest(sx, sy)

	switch m.pressHit.Kind {
	case HitNone:
		if mods.Alt {
			m.lassoStartX, m.lassoStartY = m.Viewport.ToLogical(sx, sy)
			m.lasso = Rect{MinX: m.lassoStartX, MinY: m.lassoStartY, MaxX: m.lassoStartX, MaxY: m.lassoStartY}
			m.phase = PhaseLassoing
		} else {
			m.phase = PhasePanning
		}
	case HitGroup:
		grp, _ := m.Groups.Get(m.pressHit.ID)
		m.beginDrag(append([]string{}, grp.Members...))
	case HitNode:
		id := m.pressHit.ID
		if m.selection[id] && len(m.selection) > 1 {
			var set []string
			for _, sel := range m.Selection() {
				if !m.Groups.IsGroup(sel) {
					set = append(set, sel)
				}
			}
			m.beginDrag(set)
			m.anchorID = id
		} else {
			m.beginDrag([]string{id})
		}
	}
}

func (m *Machine) beginDrag(set []string) {
	if len(set) == 0 {
		m.phase = PhaseIdle
		return
	}
	m.dragSet = set
	m.anchorID = set[0]
	m.startPositions = make(map[string]layout.Position, len(set))
	for _, id := range set {
		m.startPositions[id] = m.Positions[id]
	}
	m.phase = PhaseDragging
}

// PointerMove advances the active pan, drag, or lasso.
func (m *Machine) PointerMove(sx, sy float64) {
	if math.Hypot(sx-m.pressX, sy-m.pressY) > ClickThreshold {
		m.moved = true
	}

	switch m.phase {
	case PhasePanning:
		m.Viewport.Pan(sx-m.lastX, sy-m.lastY)
	case PhaseDragging:
		m.dragTo(sx, sy)
	case PhaseLassoing:
		lx, ly := m.Viewport.ToLogical(sx, sy)
		m.lasso = Rect{
			MinX: math.Min(m.lassoStartX, lx),
			MinY: math.Min(m.lassoStartY, ly),
			MaxX: math.Max(m.lassoStartX, lx),
			MaxY: math.Max(m.lassoStartY, ly),
		}
	}
	m.lastX, m.lastY = sx, sy
}

// dragTo moves the drag set. The anchor's raw position snaps to the grid
// and the snap correction is applied to every member, so relative spacing
// between simultaneously dragged nodes is preserved exactly.
func (m *Machine) dragTo(sx, sy float64) {
	dx := (sx - m.pressX) * m.Viewport.W / m.Viewport.ScreenW()
	dy := (sy - m.pressY) * m.Viewport.H / m.Viewport.ScreenH()

	anchorStart := m.startPositions[m.anchorID]
	snappedX := snap(anchorStart.X+dx, SnapStep, m.SnapOffsetX)
	snappedY := snap(anchorStart.Y+dy, SnapStep, m.SnapOffsetY)
	deltaX := snappedX - anchorStart.X
	deltaY := snappedY - anchorStart.Y

	for _, id := range m.dragSet {
		start := m.startPositions[id]
		m.Positions[id] = layout.Position{X: start.X + deltaX, Y: start.Y + deltaY}
	}
}

// PointerUp completes the gesture. Sub-threshold presses degrade to
// clicks: background clears the selection, nodes and groups select.
func (m *Machine) PointerUp(sx, sy float64) {
	switch m.phase {
	case PhasePanning:
		if !m.moved {
			m.ClearSelection()
		}
	case PhaseDragging:
		if !m.moved {
			// Undo any sub-threshold snap movement.
			for id, start := range m.startPositions {
				m.Positions[id] = start
			}
			m.clickSelect(m.pressHit.ID)
		} else {
			m.dirty = true
		}
	case PhaseLassoing:
		m.lassoSelect()
	}

	m.phase = PhaseIdle
	m.dragSet = nil
	m.startPositions = nil
}

func (m *Machine) clickSelect(id string) {
	if m.pressMods.extendsSelection() {
		if m.selection[id] {
			delete(m.selection, id)
		} else {
			m.selection[id] = true
		}
		return
	}
	m.Select(id)
}

func (m *Machine) lassoSelect() {
	collapsed := CollapseGroups(m.Viewport.Scale())
	hits := make(map[string]bool)
	for _, id := range m.Graph.Order {
		if _, grouped := m.Groups.MemberOf(id); grouped && collapsed {
			continue
		}
		if m.NodeBounds(id).Intersects(m.lasso) {
			hits[id] = true
		}
	}

	if m.pressMods.extendsSelection() {
		for id := range hits {
			m.selection[id] = true
		}
		return
	}
	m.selection = hits
}

// Wheel zooms the viewport anchored on the pointer. No state transition.
func (m *Machine) Wheel(sx, sy, delta float64) {
	m.Viewport.Zoom(sx, sy, delta)
}

// Escape clears the selection from any state.
func (m *Machine) Escape() {
	m.ClearSelection()
}

// CreateGroup groups the current selection. Ineligible selections are a
// no-op. The new group becomes the sole selection.
func (m *Machine) CreateGroup() bool {
	grp, ok := m.Groups.Create(m.Selection(), m.Graph)
	if !ok {
		return false
	}
	m.Select(grp.ID)
	m.dirty = true
	return true
}

// UngroupSelected dissolves the selected group, if the single selection
// is one.
func (m *Machine) UngroupSelected() bool {
	id, ok := m.Single()
	if !ok || !m.Groups.IsGroup(id) {
		return false
	}
	if !m.Groups.Ungroup(id) {
		return false
	}
	m.ClearSelection()
	m.dirty = true
	return true
}

func snap(v, step, offset float64) float64 {
	return offset + math.Round((v-offset)/step)*step
}

package graph

import "github.com/plurapay/planviz/pkg/plan"

// Node dimensions are fixed for every card on the canvas.
const (
	NodeWidth  = 160.0
	NodeHeight = 60.0
)

// RankNodeID is the reserved id of the synthetic sink that summarizes all
// configured ranks. It must never collide with a definition id; the
// resolver gives definitions priority if one does.
const RankNodeID = "Rank"

// NodeKind classifies where a node came from.
type NodeKind string

const (
	KindDefinition NodeKind = "definition"
	KindRank       NodeKind = "rank"
	KindBonus      NodeKind = "bonus"
)

// Edge labels with fixed meanings. Direct-parameter edges carry the
// parameter id as their label instead.
const (
	LabelFormula = "Formula"
	LabelRank    = "rank"
	LabelVolume  = "vol"
	LabelQual    = "q"
)

// Info is the normalized display view of a node, regardless of whether it
// originated from a definition, the rank summary, or a bonus.
type Info struct {
	ValueID     string `json:"value_id"`
	Name        string `json:"name"`
	ComponentID string `json:"component_id"`
	Comment     string `json:"comment"`
}

// Node represents a vertex in the dependency graph. Nodes are rebuilt
// wholesale on every input change; identity is by ID only.
type Node struct {
	ID   string   `json:"id"`
	Kind NodeKind `json:"kind"`
	Info Info     `json:"info"`
}

// Edge is a directed, labeled reference between two nodes. Parallel edges
// between the same pair are legal and kept separate for inspection.
type Edge struct {
	Tail  string `json:"tail"`
	Head  string `json:"head"`
	Label string `json:"label"`
}

// Graph is the derived dependency graph for one compensation plan.
type Graph struct {
	Nodes map[string]*Node `json:"nodes"`
	Edges []Edge           `json:"edges"`

	// Roots are the entry points used for traversal ordering.
	Roots []string `json:"roots"`
	// Order is the deterministic visitation order. It has no semantic
	// meaning beyond stable column ordering in the layout.
	Order []string `json:"order"`

	// Raw inputs retained for the inspector.
	Definitions map[string]plan.Definition      `json:"-"`
	Bonuses     map[string]plan.BonusDefinition `json:"-"`
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes:       make(map[string]*Node),
		Definitions: make(map[string]plan.Definition),
		Bonuses:     make(map[string]plan.BonusDefinition),
	}
}

// Has reports whether id names a known node.
func (g *Graph) Has(id string) bool {
	_, ok := g.Nodes[id]
	return ok
}

// Parents returns the edges pointing into id, in insertion order.
func (g *Graph) Parents(id string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Head == id {
			out = append(out, e)
		}
	}
	return out
}

// Children returns the edges leaving id, in insertion order.
func (g *Graph) Children(id string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Tail == id {
			out = append(out, e)
		}
	}
	return out
}

// OrderIndex returns the traversal position of id, or len(Order) for ids
// that never appeared (keeps them sorted last, stably).
func (g *Graph) OrderIndex(id string) int {
	for i, o := range g.Order {
		if o == id {
			return i
		}
	}
	return len(g.Order)
}

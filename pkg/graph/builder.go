package graph

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/plurapay/planviz/pkg/plan"
)

// formulaParamID marks the parameter whose value is expression text.
const formulaParamID = "formula"

// tokenSplitRE splits formula text into identifier candidates: runs of
// anything that cannot be part of an identifier act as separators.
var tokenSplitRE = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// Build derives the dependency graph for a plan. It is a pure function of
// its input: the same plan always produces the same nodes, edges, roots
// and traversal order. Unresolvable references are dropped silently and
// self-references never survive.
func Build(p plan.Plan) *Graph {
	g := NewGraph()

	hasRanks := len(p.Ranks) > 0
	var extra []string
	if hasRanks {
		extra = append(extra, RankNodeID)
	}
	resolver := NewResolver(p.Definitions, extra...)

	// Definition nodes, first-seen id wins on duplicates.
	var defIDs []string
	for _, d := range p.Definitions {
		if g.Has(d.ValueID) {
			continue
		}
		g.Nodes[d.ValueID] = &Node{
			ID:   d.ValueID,
			Kind: KindDefinition,
			Info: Info{
				ValueID:     d.ValueID,
				Name:        d.Name,
				ComponentID: d.ComponentID,
				Comment:     d.Comment,
			},
		}
		g.Definitions[d.ValueID] = d
		defIDs = append(defIDs, d.ValueID)
	}

	seen := make(map[Edge]bool)
	addEdge := func(tail, head, label string) {
		if tail == head {
			return
		}
		e := Edge{Tail: tail, Head: head, Label: label}
		if seen[e] {
			return
		}
		seen[e] = true
		g.Edges = append(g.Edges, e)
	}

	// Definition -> definition references from parameters.
	for _, id := range defIDs {
		d := g.Definitions[id]
		for _, param := range d.Parameters {
			if strings.EqualFold(param.ID, formulaParamID) {
				for _, token := range tokenSplitRE.Split(param.Value, -1) {
					if parent, ok := resolver.Resolve(token); ok {
						addEdge(parent, id, LabelFormula)
					}
				}
				continue
			}
			for _, candidate := range strings.Split(param.Value, ",") {
				if parent, ok := resolver.Resolve(candidate); ok {
					addEdge(parent, id, param.ID)
				}
			}
		}
	}

	// One synthetic sink summarizes every configured rank.
	if hasRanks {
		if !g.Has(RankNodeID) {
			g.Nodes[RankNodeID] = &Node{
				ID:   RankNodeID,
				Kind: KindRank,
				Info: Info{
					ValueID: RankNodeID,
					Name:    RankNodeID,
					Comment: fmt.Sprintf("%d configured ranks", len(p.Ranks)),
				},
			}
		}
		parentSeen := make(map[string]bool)
		for _, rank := range p.Ranks {
			for _, key := range rank.Keys() {
				parent, ok := resolver.Resolve(key)
				if !ok || parentSeen[parent] {
					continue
				}
				parentSeen[parent] = true
				addEdge(parent, RankNodeID, LabelRank)
			}
		}
	}

	// Bonus sinks. A bonus id that collides with an existing node keeps
	// the existing node; the bonus edges still attach to it.
	var bonusIDs []string
	for _, b := range p.Bonuses {
		if !g.Has(b.ID) {
			g.Nodes[b.ID] = &Node{
				ID:   b.ID,
				Kind: KindBonus,
				Info: Info{
					ValueID: b.ID,
					Name:    b.Name,
					Comment: b.Description,
				},
			}
			bonusIDs = append(bonusIDs, b.ID)
		}
		g.Bonuses[b.ID] = b

		if parent, ok := resolver.Resolve(b.VolumeKey); ok {
			addEdge(parent, b.ID, LabelVolume)
		}
		for _, section := range b.Sections() {
			for _, entry := range section {
				for _, q := range entry.Qualifications {
					if parent, ok := resolver.Resolve(q.Key); ok {
						addEdge(parent, b.ID, LabelQual)
					}
				}
			}
		}
	}

	g.Roots = findRoots(g, defIDs, hasRanks)
	g.Order = traversalOrder(g, defIDs, bonusIDs, hasRanks)

	buildsTotal.Inc()
	nodeCount.Set(float64(len(g.Nodes)))
	edgeCount.Set(float64(len(g.Edges)))

	return g
}

// findRoots returns nodes with in-degree zero over the definition-only
// edge subgraph, considering definitions plus the rank sink. An empty
// result falls back to treating every definition as a root.
func findRoots(g *Graph, defIDs []string, hasRanks bool) []string {
	indeg := make(map[string]int)
	for _, e := range g.Edges {
		tailNode, tailOK := g.Nodes[e.Tail]
		headNode, headOK := g.Nodes[e.Head]
		if !tailOK || !headOK {
			continue
		}
		if tailNode.Kind == KindDefinition && headNode.Kind == KindDefinition {
			indeg[e.Head]++
		}
	}

	candidates := append([]string{}, defIDs...)
	if hasRanks {
		candidates = append(candidates, RankNodeID)
	}

	var roots []string
	for _, id := range candidates {
		if indeg[id] == 0 {
			roots = append(roots, id)
		}
	}
	if len(roots) == 0 {
		roots = append(roots, defIDs...)
	}
	return roots
}

// traversalOrder runs a depth-first walk from the roots, then from any
// still-unvisited definition, rank, or bonus id. The order is purely a
// layout tie-breaker.
func traversalOrder(g *Graph, defIDs, bonusIDs []string, hasRanks bool) []string {
	children := make(map[string][]string)
	for _, e := range g.Edges {
		children[e.Tail] = append(children[e.Tail], e.Head)
	}

	visited := make(map[string]bool)
	var order []string
	var visit func(id string)
	visit = func(id string) {
		if visited[id] || !g.Has(id) {
			return
		}
		visited[id] = true
		order = append(order, id)
		for _, child := range children[id] {
			visit(child)
		}
	}

	for _, id := range g.Roots {
		visit(id)
	}
	for _, id := range defIDs {
		visit(id)
	}
	if hasRanks {
		visit(RankNodeID)
	}
	for _, id := range bonusIDs {
		visit(id)
	}
	return order
}

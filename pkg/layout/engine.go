// Package layout assigns initial coordinates to every node of a plan
// graph. The layering is a longest-path heuristic: a node's layer equals
// the length of its longest dependency chain, which makes the vertical
// placement explainable even though it is not visually optimal. There is
// no edge-crossing minimization.
package layout

import (
	"github.com/plurapay/planviz/pkg/graph"
)

// Spacing constants for the default auto-layout.
const (
	BaseX         = 80.0
	BaseY         = 60.0
	ColumnSpacing = 200.0
	LayerSpacing  = 140.0
)

// Position is a logical-space coordinate. Node positions are centers.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Compute assigns a default position to every node in g. Given the same
// graph it always returns identical positions.
func Compute(g *graph.Graph) map[string]Position {
	positions := make(map[string]Position, len(g.Nodes))

	layers := defLayers(g)

	// Bucket definitions by layer, each bucket ordered by traversal
	// order so columns are stable and readable.
	orderIndex := make(map[string]int, len(g.Order))
	for i, id := range g.Order {
		orderIndex[id] = i
	}
	index := func(id string) int {
		if i, ok := orderIndex[id]; ok {
			return i
		}
		return len(g.Order)
	}

	maxLayer := 0
	for _, l := range layers {
		if l > maxLayer {
			maxLayer = l
		}
	}
	buckets := make([][]string, maxLayer+1)
	for id, l := range layers {
		buckets[l] = append(buckets[l], id)
	}
	for _, bucket := range buckets {
		sortByIndex(bucket, index)
	}

	for layerIdx, bucket := range buckets {
		for col, id := range bucket {
			positions[id] = Position{
				X: BaseX + float64(col)*ColumnSpacing,
				Y: BaseY + float64(layerIdx)*LayerSpacing,
			}
		}
	}

	// Sinks hang one layer below their resolved parents, centered on
	// the parents' average x. The rank sink and each bonus are placed
	// independently of one another, from definition positions only.
	for _, id := range g.Order {
		if n, ok := g.Nodes[id]; ok && n.Kind != graph.KindDefinition {
			positions[id] = sinkPosition(g, id, positions)
		}
	}

	return positions
}

// defLayers computes longest-path layers over definition-only edges.
// Relaxing the full edge list |definitions| times is enough: layers only
// ever increase and are bounded by the longest path length.
func defLayers(g *graph.Graph) map[string]int {
	layers := make(map[string]int)
	var defCount int
	for id, n := range g.Nodes {
		if n.Kind == graph.KindDefinition {
			layers[id] = 0
			defCount++
		}
	}

	for pass := 0; pass < defCount; pass++ {
		changed := false
		for _, e := range g.Edges {
			tail, tailOK := layers[e.Tail]
			head, headOK := layers[e.Head]
			if !tailOK || !headOK {
				continue
			}
			if tail+1 > head {
				layers[e.Head] = tail + 1
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return layers
}

// sinkPosition averages the x of the sink's parents and drops one layer
// below the lowest of them. A sink with no resolved parents falls back to
// the layout origin.
func sinkPosition(g *graph.Graph, id string, positions map[string]Position) Position {
	var sumX, maxY float64
	count := 0
	seen := make(map[string]bool)
	for _, e := range g.Parents(id) {
		if seen[e.Tail] {
			continue
		}
		seen[e.Tail] = true
		if n, ok := g.Nodes[e.Tail]; !ok || n.Kind != graph.KindDefinition {
			continue
		}
		p, ok := positions[e.Tail]
		if !ok {
			continue
		}
		sumX += p.X
		if count == 0 || p.Y > maxY {
			maxY = p.Y
		}
		count++
	}
	if count == 0 {
		return Position{X: BaseX, Y: BaseY}
	}
	return Position{X: sumX / float64(count), Y: maxY + LayerSpacing}
}

// sortByIndex is an insertion sort over the traversal index. Buckets are
// small; stability matters more than speed.
func sortByIndex(ids []string, index func(string) int) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && index(ids[j]) < index(ids[j-1]); j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}

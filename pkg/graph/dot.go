package graph

import (
	"fmt"
	"sort"
	"strings"
)

// DOT renders the graph in Graphviz dot syntax. Output is deterministic:
// nodes sorted by id, edges in the order the builder produced them.
func DOT(g *Graph) string {
	var sb strings.Builder
	sb.WriteString("digraph plan {\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box];\n")

	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		n := g.Nodes[id]
		attrs := fmt.Sprintf("label=%q", n.Info.Name)
		if n.Info.Name == "" {
			attrs = fmt.Sprintf("label=%q", n.ID)
		}
		switch n.Kind {
		case KindRank:
			attrs += ", shape=invhouse"
		case KindBonus:
			attrs += ", shape=house"
		}
		fmt.Fprintf(&sb, "  %q [%s];\n", n.ID, attrs)
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&sb, "  %q -> %q [label=%q];\n", e.Tail, e.Head, e.Label)
	}
	sb.WriteString("}\n")
	return sb.String()
}

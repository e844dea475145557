package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/plurapay/planviz/pkg/graph"
	"github.com/plurapay/planviz/pkg/layout"
	"github.com/plurapay/planviz/pkg/mcp"
	"github.com/plurapay/planviz/pkg/plan"
)

func main() {
	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("planviz: %v", err)
	}

	p, err := plan.LoadFile(cfg.PlanPath)
	if err != nil {
		log.Fatalf("planviz: %v", err)
	}

	g := graph.Build(p)

	if cfg.ServeMCP {
		if err := mcp.NewServer(g).Serve(); err != nil {
			log.Fatalf("planviz: mcp server: %v", err)
		}
		return
	}

	switch cfg.Format {
	case "dot":
		fmt.Print(graph.DOT(g))
	case "json":
		printJSON(g)
	default:
		printText(g)
	}
}

func printJSON(g *graph.Graph) {
	out := struct {
		Signature string                     `json:"signature"`
		Graph     *graph.Graph               `json:"graph"`
		Positions map[string]layout.Position `json:"positions"`
	}{
		Signature: graph.Signature(g),
		Graph:     g,
		Positions: layout.Compute(g),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("planviz: %v", err)
	}
	fmt.Println(string(data))
}

func printText(g *graph.Graph) {
	fmt.Printf("signature: %s\n", graph.Signature(g))
	fmt.Printf("nodes: %d  edges: %d  roots: %v\n\n", len(g.Nodes), len(g.Edges), g.Roots)

	positions := layout.Compute(g)
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		n := g.Nodes[id]
		p := positions[id]
		fmt.Printf("  %-24s %-10s (%.0f, %.0f)\n", n.ID, n.Kind, p.X, p.Y)
	}
	if len(g.Edges) > 0 {
		fmt.Println()
		for _, e := range g.Edges {
			fmt.Printf("  %s -> %s [%s]\n", e.Tail, e.Head, e.Label)
		}
	}
}

package graph

import (
	"encoding/json"
	"sort"
	"strconv"
)

// canonicalForm is the serialized shape the signature is computed over.
// Edge strings drop the per-parameter label: parallel labeled edges
// collapse to a single "tail->head" entry for hashing purposes only.
type canonicalForm struct {
	IDs   []string `json:"ids"`
	Edges []string `json:"edges"`
}

// Signature derives a short content hash of the graph's id set and edge
// set. It is the cache-validity key for persisted layouts: any change to
// the ids or edges changes it, while node positions, groups, selection
// and zoom never do.
func Signature(g *Graph) string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	edgeSet := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		edgeSet[e.Tail+"->"+e.Head] = true
	}
	edges := make([]string, 0, len(edgeSet))
	for s := range edgeSet {
		edges = append(edges, s)
	}
	sort.Strings(edges)

	// Both slices are sorted, so the JSON encoding is stable.
	raw, err := json.Marshal(canonicalForm{IDs: ids, Edges: edges})
	if err != nil {
		// Marshaling two string slices cannot fail.
		return ""
	}
	return hashString(string(raw))
}

// hashString reduces s with a djb2-style rolling hash (seed 5381, shift
// and XOR per character, 32-bit wraparound) and encodes the result in
// base 36. Stability matters here, not collision resistance.
func hashString(s string) string {
	var h uint32 = 5381
	for _, r := range s {
		h = ((h << 5) + h) ^ uint32(r)
	}
	return strconv.FormatUint(uint64(h), 36)
}

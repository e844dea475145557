package graph

import (
	"strings"

	"github.com/plurapay/planviz/pkg/plan"
)

// Resolver canonicalizes loosely-cased textual references to known ids.
// Formulas and qualification rules are typed by hand, so "pv", "PV " and
// "Pv" must all resolve to the definition that declared itself as "PV".
type Resolver struct {
	byLower map[string]string
}

// NewResolver builds a resolver over the given definitions plus optional
// synthetic ids (currently just the rank sink). On a case-insensitive
// collision, definitions win over synthetic ids, and the first-seen
// definition wins over later ones.
func NewResolver(defs []plan.Definition, extra ...string) *Resolver {
	r := &Resolver{byLower: make(map[string]string, len(defs)+len(extra))}
	for _, d := range defs {
		key := strings.ToLower(strings.TrimSpace(d.ValueID))
		if key == "" {
			continue
		}
		if _, exists := r.byLower[key]; !exists {
			r.byLower[key] = d.ValueID
		}
	}
	for _, id := range extra {
		key := strings.ToLower(strings.TrimSpace(id))
		if key == "" {
			continue
		}
		if _, exists := r.byLower[key]; !exists {
			r.byLower[key] = id
		}
	}
	return r
}

// Resolve maps a token to its canonical id. Unknown tokens return
// ok=false; they never create nodes and never error.
func (r *Resolver) Resolve(token string) (string, bool) {
	id, ok := r.byLower[strings.ToLower(strings.TrimSpace(token))]
	return id, ok
}

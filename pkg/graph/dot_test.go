package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDOT(t *testing.T) {
	g := Build(testPlan())
	out := DOT(g)

	assert.Contains(t, out, "digraph plan {")
	assert.Contains(t, out, `"PV" [label="Personal Volume"];`)
	assert.Contains(t, out, `"Rank" [label="Rank", shape=invhouse];`)
	assert.Contains(t, out, `"B1" [label="Fast Start", shape=house];`)
	assert.Contains(t, out, `"PV" -> "GV" [label="Formula"];`)

	assert.Equal(t, out, DOT(Build(testPlan())), "output must be deterministic")
}

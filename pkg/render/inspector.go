package render

import (
	"github.com/plurapay/planviz/pkg/graph"
	"github.com/plurapay/planviz/pkg/plan"
	"github.com/plurapay/planviz/pkg/view"
)

// PanelKind says which inspector layout to show.
type PanelKind int

const (
	PanelGroup PanelKind = iota
	PanelBonus
	PanelNode
)

// Reference is a clickable cross-reference to a related node. Selecting
// it re-focuses the inspector there, so a user can walk the graph.
type Reference struct {
	ID    string
	Label string
}

// BonusSection is one bonus section with its qualification gates.
type BonusSection struct {
	Name    string
	Entries [][]plan.Qualification
}

// Inspector is the detail panel model for a single selected id.
type Inspector struct {
	Kind  PanelKind
	ID    string
	Title string

	// Group panel: editable name plus member list.
	Members []string

	// Bonus panel: read-only breakdown.
	Description string
	VolumeKey   string
	Sections    []BonusSection

	// Node panel.
	Comment     string
	ComponentID string
	Parameters  []plan.Parameter
	Parents     []Reference
	Children    []Reference
}

// BuildInspector returns the inspector for the machine's selection, or
// nil when zero or several things are selected.
func BuildInspector(m *view.Machine) *Inspector {
	sel, ok := m.Single()
	if !ok {
		return nil
	}

	if grp, isGroup := m.Groups.Get(sel); isGroup {
		return &Inspector{
			Kind:    PanelGroup,
			ID:      grp.ID,
			Title:   grp.Name,
			Members: append([]string{}, grp.Members...),
		}
	}

	n, ok := m.Graph.Nodes[sel]
	if !ok {
		return nil
	}

	if b, isBonus := m.Graph.Bonuses[sel]; isBonus && n.Kind == graph.KindBonus {
		return bonusInspector(b)
	}

	insp := &Inspector{
		Kind:        PanelNode,
		ID:          n.ID,
		Title:       n.Info.Name,
		Comment:     n.Info.Comment,
		ComponentID: n.Info.ComponentID,
	}
	if d, ok := m.Graph.Definitions[sel]; ok {
		insp.Parameters = append([]plan.Parameter{}, d.Parameters...)
	}
	for _, e := range m.Graph.Parents(sel) {
		insp.Parents = append(insp.Parents, Reference{ID: e.Tail, Label: e.Label})
	}
	for _, e := range m.Graph.Children(sel) {
		insp.Children = append(insp.Children, Reference{ID: e.Head, Label: e.Label})
	}
	return insp
}

func bonusInspector(b plan.BonusDefinition) *Inspector {
	insp := &Inspector{
		Kind:        PanelBonus,
		ID:          b.ID,
		Title:       b.Name,
		Description: b.Description,
		VolumeKey:   b.VolumeKey,
	}
	names := []string{"Generation", "Rolling", "Binary", "Pool"}
	for i, section := range b.Sections() {
		if len(section) == 0 {
			continue
		}
		bs := BonusSection{Name: names[i]}
		for _, entry := range section {
			bs.Entries = append(bs.Entries, entry.Qualifications)
		}
		insp.Sections = append(insp.Sections, bs)
	}
	return insp
}

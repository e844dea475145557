package plan

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Parameter is a single configuration value attached to a definition.
// Parameters with the id "formula" carry free-form expression text; every
// other parameter value is treated as a comma-separated reference list.
type Parameter struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// Definition represents one computed value in a compensation plan.
// ValueID is the unique key. Matching against it is case-insensitive, but
// the original casing is preserved for display.
type Definition struct {
	ValueID     string      `json:"value_id"`
	Name        string      `json:"name"`
	Comment     string      `json:"comment"`
	ComponentID string      `json:"component_id"`
	Parameters  []Parameter `json:"parameters,omitempty"`
}

// RankRequirement names the volume definitions a rank qualification reads.
// Every field is optional.
type RankRequirement struct {
	GroupVolumeKey    string `json:"group_volume_key,omitempty"`
	LegVolumeKey      string `json:"leg_volume_key,omitempty"`
	QualVolumeKey     string `json:"qual_volume_key,omitempty"`
	PersonalVolumeKey string `json:"personal_volume_key,omitempty"`
}

// Rank represents a single configured rank.
type Rank struct {
	Requirement RankRequirement `json:"requirement"`
}

// Keys returns the requirement volume keys that are present, in a fixed
// field order.
func (r Rank) Keys() []string {
	var keys []string
	for _, k := range []string{
		r.Requirement.GroupVolumeKey,
		r.Requirement.LegVolumeKey,
		r.Requirement.QualVolumeKey,
		r.Requirement.PersonalVolumeKey,
	} {
		if strings.TrimSpace(k) != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Qualification is a key/value gate on a bonus section entry. The key is
// expected to reference a definition id.
type Qualification struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// BonusEntry is one entry inside a bonus section.
type BonusEntry struct {
	Qualifications []Qualification `json:"qualifications,omitempty"`
}

// BonusDefinition represents one configured bonus. Each bonus becomes a
// sink node in the dependency graph.
type BonusDefinition struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Description       string       `json:"description"`
	VolumeKey         string       `json:"volume_key,omitempty"`
	GenerationBonuses []BonusEntry `json:"generation_bonuses,omitempty"`
	RollingBonuses    []BonusEntry `json:"rolling_bonuses,omitempty"`
	BinaryBonuses     []BonusEntry `json:"binary_bonuses,omitempty"`
	PoolBonus         []BonusEntry `json:"pool_bonus,omitempty"`
}

// Sections returns the four bonus section slices in a fixed order.
func (b BonusDefinition) Sections() [][]BonusEntry {
	return [][]BonusEntry{
		b.GenerationBonuses,
		b.RollingBonuses,
		b.BinaryBonuses,
		b.PoolBonus,
	}
}

// Plan is the full input document: definitions, ranks, and bonuses as
// supplied by the data source. Treated as read-only per build pass.
type Plan struct {
	Definitions []Definition      `json:"definitions"`
	Ranks       []Rank            `json:"ranks,omitempty"`
	Bonuses     []BonusDefinition `json:"bonuses,omitempty"`
}

// Normalize drops malformed entries in place: definitions without a
// ValueID and bonuses without an ID. Loosely-typed upstream records are
// rejected here once instead of being defensively re-checked everywhere.
func (p *Plan) Normalize() {
	defs := p.Definitions[:0]
	for _, d := range p.Definitions {
		if strings.TrimSpace(d.ValueID) == "" {
			continue
		}
		defs = append(defs, d)
	}
	p.Definitions = defs

	bonuses := p.Bonuses[:0]
	for _, b := range p.Bonuses {
		if strings.TrimSpace(b.ID) == "" {
			continue
		}
		bonuses = append(bonuses, b)
	}
	p.Bonuses = bonuses
}

// Load decodes a plan document from r and normalizes it.
func Load(r io.Reader) (Plan, error) {
	var p Plan
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Plan{}, fmt.Errorf("failed to decode plan document: %w", err)
	}
	p.Normalize()
	return p, nil
}

// LoadFile reads and decodes a plan document from disk.
func LoadFile(path string) (Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to open plan file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Package enemy provides enemy template definitions, the eligibility
// catalog, and weighted pool selection.
package enemy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template defines a spawnable enemy archetype loaded from YAML or the
// catalog database. Base stats are scaled by Tier at spawn time; the
// template itself is read-only to the combat engine.
type Template struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// StyleID is the cosmetic style, propagated unchanged into loot
	// generation so dropped materials inherit the enemy's look.
	StyleID string `yaml:"style_id"`
	// LocationType restricts the template to matching locations. Empty
	// means the universal pool, eligible everywhere.
	LocationType string `yaml:"location_type"`
	// MinLevel and MaxLevel bound the combat levels this template spawns at.
	MinLevel int `yaml:"min_level"`
	MaxLevel int `yaml:"max_level"`
	// Tier is a pure integer multiplier on the base stats.
	Tier int `yaml:"tier"`
	// SpawnWeight drives weighted selection; 0 excludes the template.
	SpawnWeight int     `yaml:"spawn_weight"`
	BaseHP      int     `yaml:"base_hp"`
	BaseAtk     float64 `yaml:"base_atk"`
	BaseDef     float64 `yaml:"base_def"`
	Accuracy    float64 `yaml:"accuracy"`
}

// ScaledStats returns the template's effective combat stats: HP, attack,
// and defense each multiplied by Tier. Accuracy is not tier-scaled.
//
// Precondition: t must have passed Validate().
// Postcondition: hp >= BaseHP; atk >= BaseAtk; def >= BaseDef.
func (t *Template) ScaledStats() (hp int, atk, def float64) {
	return t.BaseHP * t.Tier, t.BaseAtk * float64(t.Tier), t.BaseDef * float64(t.Tier)
}

// EligibleAt reports whether this template belongs to the pool keyed by the
// given location type at the given combat level. Universal templates (empty
// LocationType) form their own pool under the empty key; the selector falls
// back to that pool when a location pool comes up empty.
func (t *Template) EligibleAt(locationType string, combatLevel int) bool {
	if combatLevel < t.MinLevel || combatLevel > t.MaxLevel {
		return false
	}
	return t.LocationType == locationType
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, level bounds are
// sane, Tier >= 1, SpawnWeight >= 0, BaseHP >= 1, and stats are
// non-negative with Accuracy in [0, 1].
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("enemy template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("enemy template %q: name must not be empty", t.ID)
	}
	if t.MinLevel < 1 {
		return fmt.Errorf("enemy template %q: min_level must be >= 1, got %d", t.ID, t.MinLevel)
	}
	if t.MaxLevel < t.MinLevel {
		return fmt.Errorf("enemy template %q: max_level (%d) must be >= min_level (%d)", t.ID, t.MaxLevel, t.MinLevel)
	}
	if t.Tier < 1 {
		return fmt.Errorf("enemy template %q: tier must be >= 1, got %d", t.ID, t.Tier)
	}
	if t.SpawnWeight < 0 {
		return fmt.Errorf("enemy template %q: spawn_weight must be >= 0, got %d", t.ID, t.SpawnWeight)
	}
	if t.BaseHP < 1 {
		return fmt.Errorf("enemy template %q: base_hp must be >= 1, got %d", t.ID, t.BaseHP)
	}
	if t.BaseAtk < 0 {
		return fmt.Errorf("enemy template %q: base_atk must be >= 0, got %v", t.ID, t.BaseAtk)
	}
	if t.BaseDef < 0 {
		return fmt.Errorf("enemy template %q: base_def must be >= 0, got %v", t.ID, t.BaseDef)
	}
	if t.Accuracy < 0 || t.Accuracy > 1 {
		return fmt.Errorf("enemy template %q: accuracy must be in [0, 1], got %v", t.ID, t.Accuracy)
	}
	return nil
}

// LoadTemplateFromBytes parses a single enemy template from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or
// validate failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading enemy dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

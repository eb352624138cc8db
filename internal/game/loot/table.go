package loot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/dialstrike/internal/game/rng"
)

// GoldDrop defines the range of gold a defeated enemy yields.
type GoldDrop struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// ItemDrop defines a single item entry in a loot table with a drop chance.
type ItemDrop struct {
	ItemID string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
	MinQty int     `yaml:"min_qty"`
	MaxQty int     `yaml:"max_qty"`
}

// MaterialDrop defines a crafting-material entry. Dropped materials are
// stamped with the defeated enemy's style ID.
type MaterialDrop struct {
	MaterialID string  `yaml:"material"`
	Chance     float64 `yaml:"chance"`
	MinQty     int     `yaml:"min_qty"`
	MaxQty     int     `yaml:"max_qty"`
}

// Table defines the possible drops for one enemy type.
type Table struct {
	EnemyTypeID string         `yaml:"enemy_type"`
	Gold        *GoldDrop      `yaml:"gold"`
	XPPerLevel  int            `yaml:"xp_per_level"`
	Items       []ItemDrop     `yaml:"items"`
	Materials   []MaterialDrop `yaml:"materials"`
}

// Validate checks that the loot table satisfies its invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff all drop constraints hold; a table with no
// gold, items, or materials is valid (the enemy drops only XP).
func (t *Table) Validate() error {
	if t.EnemyTypeID == "" {
		return fmt.Errorf("loot table: enemy_type must not be empty")
	}
	if t.XPPerLevel < 0 {
		return fmt.Errorf("loot table %q: xp_per_level must be >= 0, got %d", t.EnemyTypeID, t.XPPerLevel)
	}
	if t.Gold != nil {
		if t.Gold.Min < 0 {
			return fmt.Errorf("loot table %q: gold min must be >= 0, got %d", t.EnemyTypeID, t.Gold.Min)
		}
		if t.Gold.Min > t.Gold.Max {
			return fmt.Errorf("loot table %q: gold min (%d) must be <= max (%d)", t.EnemyTypeID, t.Gold.Min, t.Gold.Max)
		}
	}
	for i, item := range t.Items {
		if err := validateDrop(item.ItemID, item.Chance, item.MinQty, item.MaxQty); err != nil {
			return fmt.Errorf("loot table %q: item[%d]: %w", t.EnemyTypeID, i, err)
		}
	}
	for i, mat := range t.Materials {
		if err := validateDrop(mat.MaterialID, mat.Chance, mat.MinQty, mat.MaxQty); err != nil {
			return fmt.Errorf("loot table %q: material[%d]: %w", t.EnemyTypeID, i, err)
		}
	}
	return nil
}

func validateDrop(id string, chance float64, minQty, maxQty int) error {
	if id == "" {
		return fmt.Errorf("id must not be empty")
	}
	if chance <= 0 || chance > 1.0 {
		return fmt.Errorf("chance must be in (0, 1.0], got %f", chance)
	}
	if minQty < 1 {
		return fmt.Errorf("min_qty must be >= 1, got %d", minQty)
	}
	if minQty > maxQty {
		return fmt.Errorf("min_qty (%d) must be <= max_qty (%d)", minQty, maxQty)
	}
	return nil
}

// LoadTables reads all *.yaml files in dir and returns the parsed tables
// keyed by enemy type ID.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all tables or an error on the first parse or
// validate failure.
func LoadTables(dir string) (map[string]*Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading loot dir %q: %w", dir, err)
	}

	tables := make(map[string]*Table)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		var tbl Table
		if err := yaml.Unmarshal(data, &tbl); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := tbl.Validate(); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		tables[tbl.EnemyTypeID] = &tbl
	}
	return tables, nil
}

// TableGenerator is the table-driven Generator implementation.
type TableGenerator struct {
	tables map[string]*Table
	src    rng.Source
}

// NewTableGenerator creates a TableGenerator over the given tables.
//
// Precondition: every table must have passed Validate(); src must be non-nil.
func NewTableGenerator(tables map[string]*Table, src rng.Source) *TableGenerator {
	return &TableGenerator{tables: tables, src: src}
}

// Generate rolls rewards for the defeated enemy type. An enemy type with no
// table yields an empty Result, not an error — content gaps must not fail a
// completed fight.
//
// Postcondition: Gold is within the table's range; each dropped material
// carries enemyStyleID; XP == XPPerLevel * combatLevel.
func (g *TableGenerator) Generate(_ context.Context, enemyTypeID, enemyStyleID string, combatLevel int) (Result, error) {
	tbl, ok := g.tables[enemyTypeID]
	if !ok {
		return Result{}, nil
	}

	var result Result
	result.XP = tbl.XPPerLevel * combatLevel

	if tbl.Gold != nil && tbl.Gold.Max > 0 {
		spread := tbl.Gold.Max - tbl.Gold.Min
		result.Gold = tbl.Gold.Min
		if spread > 0 {
			result.Gold += g.src.Intn(spread + 1)
		}
	}

	for _, item := range tbl.Items {
		if g.src.Float64() < item.Chance {
			result.Items = append(result.Items, Item{
				ItemDefID:  item.ItemID,
				InstanceID: uuid.New().String(),
				Quantity:   rollQty(item.MinQty, item.MaxQty, g.src),
			})
		}
	}

	for _, mat := range tbl.Materials {
		if g.src.Float64() < mat.Chance {
			result.Materials = append(result.Materials, Material{
				MaterialDefID: mat.MaterialID,
				InstanceID:    uuid.New().String(),
				StyleID:       enemyStyleID,
				Quantity:      rollQty(mat.MinQty, mat.MaxQty, g.src),
			})
		}
	}

	return result, nil
}

func rollQty(minQty, maxQty int, src rng.Source) int {
	qty := minQty
	if spread := maxQty - minQty; spread > 0 {
		qty += src.Intn(spread + 1)
	}
	return qty
}

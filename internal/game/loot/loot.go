// Package loot generates post-combat rewards. The combat engine consumes
// only the Generator interface, invoking it on victory; the table-driven
// implementation here is the stock content pipeline.
package loot

import "context"

// Item represents a single item instance in a loot result.
type Item struct {
	ItemDefID  string
	InstanceID string
	Quantity   int
}

// Material represents a crafting-material drop. StyleID is inherited from
// the defeated enemy so crafted gear keeps the enemy's look.
type Material struct {
	MaterialDefID string
	InstanceID    string
	StyleID       string
	Quantity      int
}

// Result holds the generated rewards from a single victory.
type Result struct {
	Gold      int
	XP        int
	Items     []Item
	Materials []Material
}

// Generator produces rewards for a defeated enemy. enemyStyleID is a plain
// pass-through from the enemy template into material drops.
type Generator interface {
	Generate(ctx context.Context, enemyTypeID, enemyStyleID string, combatLevel int) (Result, error)
}

package enemy

import (
	"context"
	"errors"
	"fmt"

	"github.com/cory-johannsen/dialstrike/internal/game/rng"
)

// ErrNoEligibleEnemies is returned when no template matches the requested
// location type and combat level, even after the universal-pool fallback.
var ErrNoEligibleEnemies = errors.New("no eligible enemies")

// PoolSelector performs weighted-random template selection against a Catalog.
type PoolSelector struct {
	catalog Catalog
	src     rng.Source
}

// NewPoolSelector creates a PoolSelector drawing randomness from src.
//
// Precondition: catalog and src must be non-nil.
func NewPoolSelector(catalog Catalog, src rng.Source) *PoolSelector {
	return &PoolSelector{catalog: catalog, src: src}
}

// Select picks an enemy template for the given location type and combat
// level. The location-specific pool is tried first; when it is empty the
// universal pool (location-type-independent templates) is used instead.
// Selection is weighted by SpawnWeight; a weight of 0 excludes a template.
//
// Never silently defaults: when both pools are empty, or every eligible
// template has weight 0, it fails with ErrNoEligibleEnemies.
//
// Postcondition: Returns a template with SpawnWeight > 0, or an error.
func (s *PoolSelector) Select(ctx context.Context, locationType string, combatLevel int) (*Template, error) {
	pool, err := s.catalog.ListEligible(ctx, locationType, combatLevel)
	if err != nil {
		return nil, fmt.Errorf("listing eligible enemies: %w", err)
	}

	picked := weightedPick(pool, s.src)
	if picked != nil {
		return picked, nil
	}

	// Fall back to the universal pool when the location-specific one is
	// empty or entirely zero-weighted.
	if locationType != "" {
		pool, err = s.catalog.ListEligible(ctx, "", combatLevel)
		if err != nil {
			return nil, fmt.Errorf("listing universal enemies: %w", err)
		}
		if picked = weightedPick(pool, s.src); picked != nil {
			return picked, nil
		}
	}

	return nil, fmt.Errorf("%w: location_type=%q combat_level=%d", ErrNoEligibleEnemies, locationType, combatLevel)
}

// weightedPick draws one template proportionally to SpawnWeight, or nil when
// the pool has no positive total weight.
func weightedPick(pool []*Template, src rng.Source) *Template {
	total := 0
	for _, t := range pool {
		total += t.SpawnWeight
	}
	if total <= 0 {
		return nil
	}

	roll := src.Intn(total)
	for _, t := range pool {
		if roll < t.SpawnWeight {
			return t
		}
		roll -= t.SpawnWeight
	}
	return pool[len(pool)-1]
}

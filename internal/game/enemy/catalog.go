package enemy

import "context"

// Catalog supplies the templates eligible for a location type and combat
// level. Implementations: MemoryCatalog (YAML content dir) and the Postgres
// repository in internal/storage/postgres.
type Catalog interface {
	// ListEligible returns every template in the pool keyed by exactly
	// locationType whose level range covers combatLevel. The universal
	// pool is keyed by the empty location type; callers wanting the
	// universal fallback query it separately.
	ListEligible(ctx context.Context, locationType string, combatLevel int) ([]*Template, error)
}

// MemoryCatalog is an in-memory Catalog built from loaded templates.
type MemoryCatalog struct {
	templates []*Template
}

// NewMemoryCatalog creates a catalog over the given templates.
//
// Precondition: every template must have passed Validate().
func NewMemoryCatalog(templates []*Template) *MemoryCatalog {
	return &MemoryCatalog{templates: templates}
}

// ListEligible returns the eligible templates in load order.
//
// Postcondition: Returns a slice (may be empty) and a nil error.
func (c *MemoryCatalog) ListEligible(_ context.Context, locationType string, combatLevel int) ([]*Template, error) {
	var eligible []*Template
	for _, t := range c.templates {
		if t.EligibleAt(locationType, combatLevel) {
			eligible = append(eligible, t)
		}
	}
	return eligible, nil
}

// Count returns the total number of templates in the catalog.
func (c *MemoryCatalog) Count() int {
	return len(c.templates)
}

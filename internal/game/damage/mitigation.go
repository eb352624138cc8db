package damage

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/dialstrike/internal/game/zone"
)

// MitigationTable maps defend-action zones to the fraction of incoming
// damage they absorb. Values are product-tunable; the structural invariant
// is the strict ordering injure < miss < graze < normal < crit. A negative
// fraction amplifies the incoming hit (the injure backfire).
type MitigationTable struct {
	Injure float64
	Miss   float64
	Graze  float64
	Normal float64
	Crit   float64
}

// DefaultMitigation returns the stock defend tuning: a backfired defend
// takes 150% of the incoming hit, a missed defend absorbs nothing, and
// graze/normal/crit absorb 40/70/90 percent.
func DefaultMitigation() MitigationTable {
	return MitigationTable{Injure: -0.5, Miss: 0, Graze: 0.4, Normal: 0.7, Crit: 0.9}
}

// Validate checks the ordering and range invariants.
//
// Postcondition: Returns nil iff Injure < Miss < Graze < Normal < Crit and
// Crit <= 1 (absorbing more than the whole hit is meaningless).
func (m MitigationTable) Validate() error {
	if !(m.Injure < m.Miss && m.Miss < m.Graze && m.Graze < m.Normal && m.Normal < m.Crit) {
		return fmt.Errorf("mitigation table: fractions must be strictly ordered injure < miss < graze < normal < crit, got %+v", m)
	}
	if m.Crit > 1 {
		return fmt.Errorf("mitigation table: crit fraction must be <= 1, got %v", m.Crit)
	}
	return nil
}

// fraction returns the absorption fraction for z.
func (m MitigationTable) fraction(z zone.Zone) float64 {
	switch z {
	case zone.ZoneInjure:
		return m.Injure
	case zone.ZoneMiss:
		return m.Miss
	case zone.ZoneGraze:
		return m.Graze
	case zone.ZoneNormal:
		return m.Normal
	case zone.ZoneCrit:
		return m.Crit
	default:
		return 0
	}
}

// Mitigate returns the damage the defender actually takes after a defend
// action resolved to zone z against an incoming hit.
//
// Precondition: incoming >= 0; m must have passed Validate().
// Postcondition: Returns >= 0. For fixed incoming, the result is
// non-increasing across injure → miss → graze → normal → crit.
func Mitigate(incoming int, z zone.Zone, m MitigationTable) int {
	taken := int(math.Round(float64(incoming) * (1 - m.fraction(z))))
	if taken < 0 {
		taken = 0
	}
	return taken
}

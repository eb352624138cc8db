// Package damage computes final damage figures from combatant stats and a
// resolved hit zone. All functions are pure except for the crit bonus draw,
// which comes from an injected rng.Source.
package damage

import (
	"math"

	"github.com/cory-johannsen/dialstrike/internal/game/rng"
	"github.com/cory-johannsen/dialstrike/internal/game/zone"
)

// Zone damage multipliers. The crit multiplier is the base 160% plus a
// uniform 0–100% bonus of that base, so the effective crit multiplier is
// uniform in [1.6, 3.2).
const (
	GrazeMultiplier    = 0.6
	NormalMultiplier   = 1.0
	CritBaseMultiplier = 1.6
	CritBonusSpan      = 1.6
)

// Floor is the minimum damage a graze, normal, or crit hit deals.
const Floor = 1

// Result holds the outcome of a single damage computation.
type Result struct {
	Damage   int
	Critical bool
}

// Compute derives the damage for a hit in zone z with the given attack and
// defense stats. Base damage is attackerAtk - defenderDef, scaled by the
// zone multiplier and rounded.
//
// ZoneMiss always yields exactly 0. ZoneGraze, ZoneNormal, and ZoneCrit are
// floored at Floor — a connecting hit always deals at least 1. ZoneInjure is
// scaled at the normal multiplier and floored at 0, not 1: the caller applies
// it to the attacker with the stat roles swapped, and a fully absorbed
// self-hit may deal nothing.
//
// Precondition: src must be non-nil when z == ZoneCrit.
// Postcondition: Result.Damage >= 0; Result.Critical iff z == ZoneCrit.
func Compute(attackerAtk, defenderDef float64, z zone.Zone, src rng.Source) Result {
	if z == zone.ZoneMiss {
		return Result{}
	}

	base := attackerAtk - defenderDef

	var mult float64
	switch z {
	case zone.ZoneGraze:
		mult = GrazeMultiplier
	case zone.ZoneCrit:
		mult = CritBaseMultiplier + src.Float64()*CritBonusSpan
	default: // ZoneNormal and the injure self-hit
		mult = NormalMultiplier
	}

	dmg := int(math.Round(base * mult))
	switch {
	case z == zone.ZoneInjure:
		if dmg < 0 {
			dmg = 0
		}
	case dmg < Floor:
		dmg = Floor
	}

	return Result{Damage: dmg, Critical: z == zone.ZoneCrit}
}

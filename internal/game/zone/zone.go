// Package zone implements the dial hit-zone model: accuracy-derived angular
// bands partitioning the full 360° dial, and resolution of a tap angle into
// one of the five hit zones.
package zone

// Zone is one of the five angular hit categories a tap angle resolves into.
type Zone int

const (
	ZoneInjure Zone = iota
	ZoneMiss
	ZoneGraze
	ZoneNormal
	ZoneCrit
)

// String returns a human-readable zone label.
func (z Zone) String() string {
	switch z {
	case ZoneInjure:
		return "injure"
	case ZoneMiss:
		return "miss"
	case ZoneGraze:
		return "graze"
	case ZoneNormal:
		return "normal"
	case ZoneCrit:
		return "crit"
	default:
		return "unknown"
	}
}

// Resolve maps a tap angle in degrees to the zone whose arc contains it.
// Bands are laid out as contiguous arcs starting at 0° in the fixed order
// injure → miss → graze → normal → crit. Intervals are half-open: a tap
// exactly on a boundary belongs to the zone that starts there. An angle of
// exactly 360 wraps to 0. Total function: every finite in-range input yields
// exactly one zone.
//
// Precondition: angle must be in [0, 360]; bands must satisfy Validate().
// Postcondition: Returns one of the five zones.
func Resolve(angle float64, bands BandSet) Zone {
	if angle >= fullCircle {
		angle -= fullCircle
	}
	if angle < 0 {
		angle = 0
	}

	bound := bands.Injure
	if angle < bound {
		return ZoneInjure
	}
	bound += bands.Miss
	if angle < bound {
		return ZoneMiss
	}
	bound += bands.Graze
	if angle < bound {
		return ZoneGraze
	}
	bound += bands.Normal
	if angle < bound {
		return ZoneNormal
	}
	return ZoneCrit
}

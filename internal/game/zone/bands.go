package zone

import (
	"fmt"
	"math"
)

// fullCircle is the dial's total angular width in degrees.
const fullCircle = 360.0

// sumEpsilon is the tolerance for BandSet.Validate's partition check.
const sumEpsilon = 1e-6

// BandSet holds the five angular widths, in degrees, allocated to each hit
// zone. A valid BandSet partitions the full circle exactly.
type BandSet struct {
	Injure float64
	Miss   float64
	Graze  float64
	Normal float64
	Crit   float64
}

// Band anchor tables. ComputeBands interpolates linearly between the
// accuracy-0 and accuracy-1 anchors per band; each anchor row sums to 360,
// so every interpolated set does too.
var (
	bandsAtZero = BandSet{Injure: 20, Miss: 120, Graze: 60, Normal: 140, Crit: 20}
	bandsAtOne  = BandSet{Injure: 0, Miss: 20, Graze: 60, Normal: 220, Crit: 60}
)

// Total returns the sum of all five band widths.
func (b BandSet) Total() float64 {
	return b.Injure + b.Miss + b.Graze + b.Normal + b.Crit
}

// Validate checks that the band set partitions the circle.
//
// Postcondition: Returns nil iff every width is >= 0 and the widths sum to
// 360 within tolerance.
func (b BandSet) Validate() error {
	for _, w := range []struct {
		name  string
		width float64
	}{
		{"injure", b.Injure},
		{"miss", b.Miss},
		{"graze", b.Graze},
		{"normal", b.Normal},
		{"crit", b.Crit},
	} {
		if w.width < 0 || math.IsNaN(w.width) {
			return fmt.Errorf("band set: %s width must be >= 0, got %v", w.name, w.width)
		}
	}
	if math.Abs(b.Total()-fullCircle) > sumEpsilon {
		return fmt.Errorf("band set: widths must sum to %v, got %v", fullCircle, b.Total())
	}
	return nil
}

// ComputeBands converts a combatant's accuracy stat into the five band
// widths. Higher accuracy shrinks the punishing injure and miss bands and
// grows crit; normal absorbs any floating-point leftover so the set always
// partitions the circle exactly.
//
// Accuracy outside [0, 1] is clamped, not rejected — boundary validation of
// caller input is a transport-layer concern.
//
// Postcondition: Result passes Validate(); for a1 < a2,
// Injure+Miss at a1 >= Injure+Miss at a2 and Crit at a1 <= Crit at a2.
func ComputeBands(accuracy float64) BandSet {
	a := accuracy
	if a < 0 || math.IsNaN(a) {
		a = 0
	}
	if a > 1 {
		a = 1
	}

	b := BandSet{
		Injure: lerp(bandsAtZero.Injure, bandsAtOne.Injure, a),
		Miss:   lerp(bandsAtZero.Miss, bandsAtOne.Miss, a),
		Graze:  lerp(bandsAtZero.Graze, bandsAtOne.Graze, a),
		Crit:   lerp(bandsAtZero.Crit, bandsAtOne.Crit, a),
	}
	// Assign the remainder to normal so rounding error cannot break the
	// partition invariant.
	b.Normal = fullCircle - b.Injure - b.Miss - b.Graze - b.Crit
	return b
}

func lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}

// Package rng provides the core randomness abstraction for the dialstrike
// combat engine. All components that draw random values — crit bonus rolls,
// weighted enemy selection, loot chance rolls — take a Source so tests can
// substitute fixed-sequence or boundary-value sources.
package rng

// Source is the randomness provider for the combat engine.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int

	// Float64 returns a random float64 in [0, 1).
	Float64() float64
}

package wheel

import "math/rand/v2"

// Random is the source of randomness for spins and colour fallbacks.
// Implementations must be safe for concurrent use.
type Random interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n).
	IntN(n int) int
}

type globalRandom struct{}

// DefaultRandom is backed by math/rand/v2's concurrency-safe global generator.
var DefaultRandom Random = globalRandom{}

func (globalRandom) Float64() float64 {
	return rand.Float64() //nolint:gosec // not security sensitive.
}

func (globalRandom) IntN(n int) int {
	return rand.IntN(n) //nolint:gosec // not security sensitive.
}

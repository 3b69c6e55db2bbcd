// Package rng provides the randomness boundary used by every roll in the engine.
// Callers inject a Source so that selection, loot and damage rolls can be
// replayed deterministically in tests.
package rng

import (
	"math/rand"
	"time"
)

// Source is the randomness provider for all rolls.
type Source interface {
	// Intn returns a non-negative random int in [0, n). n must be > 0.
	Intn(n int) int
}

// Rand wraps math/rand.Rand and counts draws.
type Rand struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// New creates a seeded Rand. A zero seed is replaced with the current time.
func New(seed int64) *Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Rand{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Intn returns a random integer in [0, n).
func (r *Rand) Intn(n int) int {
	r.pos++
	return r.src.Intn(n)
}

// Seed returns the seed the generator was created with.
func (r *Rand) Seed() int64 {
	return r.seed
}

// Position returns the number of draws made since creation.
func (r *Rand) Position() int64 {
	return r.pos
}

// Range returns a uniformly distributed integer in [lo, hi]. Reversed bounds are swapped.
func Range(src Source, lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	if lo == hi {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// Roll returns a die result in [1, sides]. Sides below 1 always roll 1.
func Roll(src Source, sides int) int {
	if sides <= 1 {
		return 1
	}
	return src.Intn(sides) + 1
}

// Chance draws in [1, den] and reports whether the draw is <= num.
// A non-positive denominator never succeeds.
func Chance(src Source, num, den int) bool {
	if den <= 0 {
		return false
	}
	return Roll(src, den) <= num
}

// Shuffle permutes n elements in place using swap.
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		swap(i, j)
	}
}

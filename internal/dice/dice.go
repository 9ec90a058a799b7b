// Package dice provides the random source threaded through the simulation.
package dice

import (
	"math/rand/v2"
	"time"
)

// Source is the subset of *rand.Rand the simulation rolls against.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// New returns a seeded source. A zero seed draws one from the clock.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
}

// Chance reports whether a roll with probability p succeeds.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Between returns a uniform int in [lo, hi].
func Between(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.IntN(hi-lo+1)
}

// Spread returns a uniform float in [-half, half].
func Spread(src Source, half float64) float64 {
	return (src.Float64() - 0.5) * 2 * half
}

// Sequence replays fixed rolls in order, wrapping around. It makes
// probabilistic branches reproducible in tests.
type Sequence struct {
	Floats []float64
	Ints   []int

	fi, ii int
}

func (s *Sequence) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.fi%len(s.Floats)]
	s.fi++
	return v
}

func (s *Sequence) IntN(n int) int {
	if len(s.Ints) == 0 || n <= 0 {
		return 0
	}
	v := s.Ints[s.ii%len(s.Ints)]
	s.ii++
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

package finance

import (
	"math/rand"
	"time"
)

// Source supplies the Gaussian jitter applied to monthly revenue growth.
// Injecting it keeps the simulation reproducible under test; production uses
// a time-seeded source, tests use fixed seeds or no jitter at all.
type Source interface {
	Gauss(mean, stddev float64) float64
}

type randSource struct {
	rng *rand.Rand
}

// NewRandSource returns a Source backed by math/rand with the given seed.
func NewRandSource(seed int64) Source {
	return &randSource{rng: rand.New(rand.NewSource(seed))}
}

// NewTimeSource returns a Source seeded from the wall clock.
func NewTimeSource() Source {
	return NewRandSource(time.Now().UnixNano())
}

func (s *randSource) Gauss(mean, stddev float64) float64 {
	return mean + stddev*s.rng.NormFloat64()
}

// ZeroSource produces no jitter. Useful for exact-value assertions.
type ZeroSource struct{}

// Gauss returns the mean unchanged.
func (ZeroSource) Gauss(mean, stddev float64) float64 {
	_ = stddev
	return mean
}

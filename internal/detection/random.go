package detection

import (
	"math/rand/v2"
	"sync"
	"time"
)

// RandomSource is the randomness a MockDetector draws from.
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Float64() float64
	IntN(n int) int
	Perm(n int) []int
}

// lockedSource serializes access to a *rand.Rand, which is not safe for
// concurrent use.
type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomSource returns a goroutine-safe source seeded from the clock.
func NewRandomSource() RandomSource {
	seed := uint64(time.Now().UnixNano())
	return NewSeededSource(seed, seed>>17|0x9e3779b97f4a7c15)
}

// NewSeededSource returns a goroutine-safe deterministic source.
func NewSeededSource(seed1, seed2 uint64) RandomSource {
	return &lockedSource{rnd: rand.New(rand.NewPCG(seed1, seed2))}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.IntN(n)
}

func (s *lockedSource) Perm(n int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Perm(n)
}

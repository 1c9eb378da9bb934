package game

import (
	"crypto/rand"
	"encoding/binary"
)

// Rand is a small xorshift generator. Spawning is the only consumer, so a
// seeded Rand makes whole runs reproducible.
type Rand struct {
	state uint64
}

// NewRand returns a generator for seed; a zero seed is replaced with one read
// from crypto/rand.
func NewRand(seed uint64) *Rand {
	if seed == 0 {
		var b [8]byte
		_, _ = rand.Read(b[:])
		seed = binary.LittleEndian.Uint64(b[:])
	}
	if seed == 0 {
		seed = 1
	}
	return &Rand{state: seed}
}

func (r *Rand) next() uint64 {
	r.state ^= r.state << 13
	r.state ^= r.state >> 7
	r.state ^= r.state << 17
	return r.state
}

// Float64 returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	return float64(r.next()>>11) / (1 << 53)
}

// Range returns a value in [min, max).
func (r *Rand) Range(min, max float64) float64 {
	return min + r.Float64()*(max-min)
}

// Intn returns a value in [0, n). n must be positive.
func (r *Rand) Intn(n int) int {
	return int(r.next() % uint64(n))
}

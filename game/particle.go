package game

import (
	"math"
	"time"
)

// ParticleKind separates explosion debris from laser disintegration dust.
type ParticleKind int

const (
	ParticleExplosion ParticleKind = iota
	ParticleDisintegration
)

// Particle is a decorative, short-lived fragment.
type Particle struct {
	Kind      ParticleKind
	X, Y      float64
	VX, VY    float64
	Size      float64
	CreatedAt time.Duration
}

// Lifetime returns how long particles of this kind live.
func (p *Particle) Lifetime() time.Duration {
	if p.Kind == ParticleDisintegration {
		return DisintegrationParticleLifetime
	}
	return ExplosionParticleLifetime
}

// Fade returns the remaining life as a fraction in [0, 1].
func (p *Particle) Fade(now time.Duration) float64 {
	life := p.Lifetime()
	return Clamp(1-float64(now-p.CreatedAt)/float64(life), 0, 1)
}

// burst emits n particles of kind around (x, y).
func burst(s *State, rng *Rand, kind ParticleKind, x, y float64, n int) {
	for i := 0; i < n; i++ {
		angle := rng.Range(0, 2*math.Pi)
		speed := rng.Range(0.3, 1) * ExplosionParticleSpeed
		if kind == ParticleDisintegration {
			speed *= 0.5
		}
		s.Particles = append(s.Particles, &Particle{
			Kind:      kind,
			X:         x,
			Y:         y,
			VX:        math.Cos(angle) * speed,
			VY:        math.Sin(angle) * speed,
			Size:      rng.Range(1, 3),
			CreatedAt: s.Now,
		})
	}
}

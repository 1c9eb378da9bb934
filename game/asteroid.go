package game

import (
	"math"
	"time"
)

// Point is an outline vertex relative to the asteroid centre.
type Point struct {
	X, Y float64
}

// Asteroid drifts in a straight line and wraps around the field. Hit-testing
// uses Radius only; Outline and Rotation are presentation.
type Asteroid struct {
	ID            int
	X, Y          float64
	VX, VY        float64
	Radius        float64
	Outline       []Point
	Rotation      float64
	Spin          float64
	Health        int
	InitialHealth int
	IsBoss        bool
	LastAttackAt  time.Duration
}

// healthFor returns the base health of an ordinary asteroid of radius r.
func healthFor(r float64) int {
	h := int(math.Round(r / AsteroidRadiusPerHealth))
	if h < 1 {
		h = 1
	}
	return h
}

// outline builds a jagged polygon around radius r.
func outline(rng *Rand, r float64) []Point {
	pts := make([]Point, AsteroidVertices)
	for i := range pts {
		angle := float64(i) / AsteroidVertices * 2 * math.Pi
		dist := r * (1 - AsteroidJaggedness/2 + rng.Float64()*AsteroidJaggedness)
		pts[i] = Point{X: math.Cos(angle) * dist, Y: math.Sin(angle) * dist}
	}
	return pts
}

// newAsteroid creates an ordinary asteroid at (x, y) moving at speed in a
// random direction.
func newAsteroid(s *State, rng *Rand, x, y, radius, speed float64) *Asteroid {
	angle := rng.Range(0, 2*math.Pi)
	h := healthFor(radius)
	return &Asteroid{
		ID:            s.newID(),
		X:             x,
		Y:             y,
		VX:            math.Cos(angle) * speed,
		VY:            math.Sin(angle) * speed,
		Radius:        radius,
		Outline:       outline(rng, radius),
		Rotation:      rng.Range(0, 2*math.Pi),
		Spin:          rng.Range(-AsteroidSpinMax, AsteroidSpinMax),
		Health:        h,
		InitialHealth: h,
	}
}

// newBoss creates a boss asteroid at (x, y).
func newBoss(s *State, rng *Rand, x, y float64) *Asteroid {
	a := newAsteroid(s, rng, x, y, BossRadius, BossSpeed)
	a.IsBoss = true
	a.Health = healthFor(BossRadius) * BossHealthMultiplier
	a.InitialHealth = a.Health
	a.LastAttackAt = s.Now
	return a
}

// edgePoint picks a point on a random edge of the field.
func edgePoint(s *State, rng *Rand) (float64, float64) {
	switch rng.Intn(4) {
	case 0: // left
		return 0, rng.Range(0, s.Height)
	case 1: // right
		return s.Width - 1, rng.Range(0, s.Height)
	case 2: // top
		return rng.Range(0, s.Width), 0
	default: // bottom
		return rng.Range(0, s.Width), s.Height - 1
	}
}

// fragments splits a destroyed asteroid into smaller ones. Small asteroids and
// bosses leave none.
func fragments(s *State, rng *Rand, a *Asteroid) []*Asteroid {
	if a.IsBoss || a.Radius < MinSplitRadius {
		return nil
	}
	r := a.Radius * FragmentRadiusFactor
	speed := math.Hypot(a.VX, a.VY)*FragmentSpeedBoost + AsteroidMinSpeed
	out := make([]*Asteroid, 0, FragmentCount)
	for i := 0; i < FragmentCount; i++ {
		out = append(out, newAsteroid(s, rng, a.X, a.Y, r, speed))
	}
	return out
}

// scoreFor returns the points for destroying a.
func scoreFor(a *Asteroid) int {
	switch {
	case a.IsBoss:
		return ScoreBoss
	case a.Radius < 20:
		return ScoreSmall
	case a.Radius < 35:
		return ScoreMedium
	default:
		return ScoreLarge
	}
}

package game

import "time"

// Game bundles a State with the collaborators that advance it.
type Game struct {
	State    *State
	Spawner  Spawner
	rng      *Rand
	resolver *Resolver
	seed     uint64
}

// New creates a game on a width×height field. A zero seed picks a random one.
func New(width, height float64, seed uint64) *Game {
	g := &Game{seed: seed, State: &State{Width: width, Height: height}}
	g.Reset()
	return g
}

// Reset starts a new run, keeping the field size and seed.
func (g *Game) Reset() {
	var w, h float64
	if g.State != nil {
		w, h = g.State.Width, g.State.Height
	}
	g.State = NewState(w, h)
	g.rng = NewRand(g.seed)
	g.resolver = NewResolver(g.State.Width, g.State.Height)
}

// Update runs one frame: the clock advances by dt, then physics, expiry,
// firing, collisions and spawning run in that order. After game over only
// motion and expiry continue so debris can settle.
func (g *Game) Update(in Input, dt time.Duration) {
	s := g.State
	if dt <= 0 {
		return
	}
	if dt > MaxFrameDelta {
		dt = MaxFrameDelta
	}
	s.Events = s.Events[:0]
	s.Now += dt
	frames := float64(dt) / float64(FrameDuration)

	if s.GameOver {
		in = Input{}
	}
	Step(s, in, frames)
	expire(s)
	if s.GameOver {
		return
	}

	sh := s.Ship
	s.LaserActive = in.Fire && sh.HasPowerUp(PowerLaser, s.Now)
	if in.Fire && !s.LaserActive && sh.canFire(s.Now) {
		fire(s)
	}

	g.resolver.Resolve(s, g.rng)
	if s.GameOver {
		return
	}
	g.Spawner.Spawn(s, g.rng, frames)
}

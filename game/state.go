package game

import (
	"fmt"
	"math"
	"time"
)

// Input is the held-key state sampled once per frame.
type Input struct {
	Thrust bool
	Left   bool
	Right  bool
	Fire   bool
}

// EventKind tags things that happened during a frame, for sound and effects.
type EventKind int

const (
	EventFired EventKind = iota
	EventAsteroidHit
	EventAsteroidDestroyed
	EventBossSpawned
	EventBossDestroyed
	EventBossFired
	EventPowerUpCollected
	EventShieldHit
	EventShieldDepleted
	EventShipDestroyed
	EventLevelUp
)

// Event is one entry of State.Events.
type Event struct {
	Kind EventKind
	X, Y float64
}

// State is everything one run of the game owns. It is only ever mutated from
// the single frame callback.
type State struct {
	Width, Height float64
	Now           time.Duration // game time; does not advance while paused

	Ship        *Ship
	Asteroids   []*Asteroid
	Bullets     []*Bullet
	BossBullets []*BossBullet
	PowerUps    []*PowerUp
	Particles   []*Particle

	Score       int
	Level       int
	Kills       int
	BossCounter int // ordinary destructions since the last boss spawn
	GameOver    bool

	LastLaserTick time.Duration
	LaserActive   bool

	// Events lists what happened in the most recent frame.
	Events []Event

	nextID int
}

// NewState creates a fresh run on a width×height toroidal field with the ship
// at rest in the centre.
func NewState(width, height float64) *State {
	if width <= 0 {
		width = CanvasWidth
	}
	if height <= 0 {
		height = CanvasHeight
	}
	return &State{
		Width:  width,
		Height: height,
		Level:  1,
		Ship:   NewShip(width/2, height/2),
	}
}

func (s *State) newID() int {
	s.nextID++
	return s.nextID
}

func (s *State) emit(kind EventKind, x, y float64) {
	s.Events = append(s.Events, Event{Kind: kind, X: x, Y: y})
}

// BossCount returns the number of live boss asteroids.
func (s *State) BossCount() int {
	n := 0
	for _, a := range s.Asteroids {
		if a.IsBoss {
			n++
		}
	}
	return n
}

// Validate reports the first non-finite position or velocity found. Nothing in
// the simulation produces one; this guards against external mutation.
func (s *State) Validate() error {
	if s.Ship != nil && !finite(s.Ship.X, s.Ship.Y, s.Ship.VX, s.Ship.VY, s.Ship.Rotation) {
		return fmt.Errorf("ship has non-finite state (%v,%v)", s.Ship.X, s.Ship.Y)
	}
	for _, a := range s.Asteroids {
		if !finite(a.X, a.Y, a.VX, a.VY) {
			return fmt.Errorf("asteroid %d has non-finite state (%v,%v)", a.ID, a.X, a.Y)
		}
	}
	for i, b := range s.Bullets {
		if !finite(b.X, b.Y, b.VX, b.VY) {
			return fmt.Errorf("bullet %d has non-finite state", i)
		}
	}
	for i, b := range s.BossBullets {
		if !finite(b.X, b.Y, b.VX, b.VY) {
			return fmt.Errorf("boss bullet %d has non-finite state", i)
		}
	}
	for i, p := range s.PowerUps {
		if !finite(p.X, p.Y, p.VX, p.VY) {
			return fmt.Errorf("power-up %d has non-finite state", i)
		}
	}
	return nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Wrap maps v into [0, size) on a torus.
func Wrap(v, size float64) float64 {
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	if v >= size {
		v -= size
	}
	return v
}

// Distance returns the distance between two points
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// WrapDelta returns the shortest signed offset from a to b on a ring of
// length size.
func WrapDelta(a, b, size float64) float64 {
	d := b - a
	if size <= 0 {
		return d
	}
	d = math.Mod(d, size)
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// WrapDistance is Distance on a width×height field whose edges wrap.
func WrapDistance(x1, y1, x2, y2, width, height float64) float64 {
	return math.Hypot(WrapDelta(x1, x2, width), WrapDelta(y1, y2, height))
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

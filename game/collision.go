package game

import (
	"math"
)

// CheckCollision checks if two circles overlap
func CheckCollision(x1, y1, r1, x2, y2, r2 float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	radSum := r1 + r2
	return dx*dx+dy*dy <= radSum*radSum
}

// segmentCircleIntersect checks if a line segment (x1,y1)-(x2,y2) intersects a circle at (cx,cy) with radius r.
func segmentCircleIntersect(x1, y1, x2, y2, cx, cy, r float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	fx := x1 - cx
	fy := y1 - cy
	a := dx*dx + dy*dy
	if a == 0 {
		return fx*fx+fy*fy <= r*r
	}
	b := 2 * (fx*dx + fy*dy)
	c := fx*fx + fy*fy - r*r
	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return false
	}
	discriminant = math.Sqrt(discriminant)
	t1 := (-b - discriminant) / (2 * a)
	t2 := (-b + discriminant) / (2 * a)
	return (t1 >= 0 && t1 <= 1) || (t2 >= 0 && t2 <= 1) || (t1 <= 0 && t2 >= 1)
}

// Resolver runs the per-frame collision passes. It owns scratch buffers so a
// frame allocates nothing in the broad phase.
type Resolver struct {
	grid          *SpatialGrid
	buf           []int
	width, height float64
}

// NewResolver creates a resolver for a width×height field.
func NewResolver(width, height float64) *Resolver {
	return &Resolver{grid: NewSpatialGrid(width, height), width: width, height: height}
}

// mirrors returns the offsets at which a circle at v also shows on a ring of
// length size. offs[0] is always 0.
func mirrors(v, radius, size float64) (offs [2]float64, n int) {
	n = 1
	switch {
	case v-radius < 0:
		offs[1], n = size, 2
	case v+radius > size:
		offs[1], n = -size, 2
	}
	return
}

// insert adds asteroid idx to the grid, once more per field edge it crosses.
func (r *Resolver) insert(x, y, radius float64, idx int) {
	xo, nx := mirrors(x, radius, r.width)
	yo, ny := mirrors(y, radius, r.height)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			r.grid.InsertCircle(x+xo[i], y+yo[j], radius, idx)
		}
	}
}

// query fills r.buf with candidates near (x, y), looking across field edges.
func (r *Resolver) query(x, y, radius float64) {
	r.buf = r.buf[:0]
	xo, nx := mirrors(x, radius, r.width)
	yo, ny := mirrors(y, radius, r.height)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			r.buf = r.grid.QueryBuf(x+xo[i], y+yo[j], radius, r.buf)
		}
	}
}

// overlap is CheckCollision on the wrapping field.
func (r *Resolver) overlap(x1, y1, r1, x2, y2, r2 float64) bool {
	return CheckCollision(0, 0, r1, WrapDelta(x1, x2, r.width), WrapDelta(y1, y2, r.height), r2)
}

// Resolve applies every collision rule for the current frame: bullets and the
// laser against asteroids, asteroids and boss bullets against the ship, and
// power-up pickup. Destroyed asteroids are replaced by their fragments, up to
// MaxAsteroids.
func (r *Resolver) Resolve(s *State, rng *Rand) {
	r.grid.Clear()
	for i, a := range s.Asteroids {
		r.insert(a.X, a.Y, a.Radius, i)
	}

	r.bullets(s)
	if s.LaserActive {
		r.laser(s, rng)
	}
	r.ship(s)
	r.bossBullets(s)
	r.pickups(s)
	r.reap(s, rng)
}

// bullets hits each bullet against the nearest asteroid it overlaps. A bullet
// is consumed by its first hit, so it never damages two asteroids.
func (r *Resolver) bullets(s *State) {
	kept := s.Bullets[:0]
	for _, b := range s.Bullets {
		r.query(b.X, b.Y, BulletRadius)
		var target *Asteroid
		best := math.MaxFloat64
		for _, idx := range r.buf {
			a := s.Asteroids[idx]
			if a.Health <= 0 {
				continue
			}
			d := WrapDistance(b.X, b.Y, a.X, a.Y, r.width, r.height)
			if d <= a.Radius && d < best {
				best = d
				target = a
			}
		}
		if target == nil {
			kept = append(kept, b)
			continue
		}
		target.Health -= b.Damage
		s.emit(EventAsteroidHit, b.X, b.Y)
	}
	clearTail(s.Bullets, len(kept))
	s.Bullets = kept
}

// laser damages every asteroid crossed by the beam, once per
// LaserDamageInterval of game time regardless of frame rate.
func (r *Resolver) laser(s *State, rng *Rand) {
	if s.Now-s.LastLaserTick < LaserDamageInterval {
		return
	}
	s.LastLaserTick = s.Now
	x1, y1, x2, y2 := LaserBeam(s.Ship)
	for _, a := range s.Asteroids {
		if a.Health <= 0 {
			continue
		}
		if segmentCircleIntersect(x1, y1, x2, y2, a.X, a.Y, a.Radius) {
			a.Health -= LaserDamagePerTick
			burst(s, rng, ParticleDisintegration, a.X, a.Y, DisintegrationParticleCount)
			s.emit(EventAsteroidHit, a.X, a.Y)
		}
	}
}

// LaserBeam returns the beam segment from the ship's nose along its facing.
func LaserBeam(sh *Ship) (x1, y1, x2, y2 float64) {
	x1, y1 = sh.Nose()
	x2 = x1 + math.Cos(sh.Rotation)*LaserRange
	y2 = y1 + math.Sin(sh.Rotation)*LaserRange
	return
}

// ship checks asteroid contact. A shield absorbs the hit and shatters ordinary
// asteroids; without one the contact is lethal.
func (r *Resolver) ship(s *State) {
	sh := s.Ship
	if !sh.Alive {
		return
	}
	r.query(sh.X, sh.Y, sh.Radius)
	for _, idx := range r.buf {
		a := s.Asteroids[idx]
		if a.Health <= 0 || !r.overlap(sh.X, sh.Y, sh.Radius, a.X, a.Y, a.Radius) {
			continue
		}
		dmg := ShieldDamageNormal
		if a.IsBoss {
			dmg = ShieldDamageBoss
		}
		if !r.hitShip(s, dmg, a.ID) {
			return
		}
		if !a.IsBoss {
			a.Health = 0
		}
	}
}

// bossBullets checks boss shots against the ship.
func (r *Resolver) bossBullets(s *State) {
	sh := s.Ship
	kept := s.BossBullets[:0]
	for _, b := range s.BossBullets {
		if sh.Alive && r.overlap(sh.X, sh.Y, sh.Radius, b.X, b.Y, BossBulletRadius) {
			r.hitShip(s, BossBulletDamage, 0)
			continue
		}
		kept = append(kept, b)
	}
	clearTail(s.BossBullets, len(kept))
	s.BossBullets = kept
}

// hitShip routes dmg from source through the shield and reports whether the
// ship survived.
func (r *Resolver) hitShip(s *State, dmg, source int) bool {
	sh := s.Ship
	absorbed, depleted := sh.absorb(dmg, source, s.Now)
	if absorbed {
		s.emit(EventShieldHit, sh.X, sh.Y)
		if depleted {
			s.emit(EventShieldDepleted, sh.X, sh.Y)
		}
		return true
	}
	sh.Alive = false
	sh.VX, sh.VY = 0, 0
	s.GameOver = true
	s.LaserActive = false
	s.emit(EventShipDestroyed, sh.X, sh.Y)
	return false
}

// pickups collects power-ups the ship touches.
func (r *Resolver) pickups(s *State) {
	sh := s.Ship
	if !sh.Alive {
		return
	}
	kept := s.PowerUps[:0]
	for _, p := range s.PowerUps {
		if r.overlap(sh.X, sh.Y, sh.Radius, p.X, p.Y, PowerUpRadius) {
			sh.Activate(p.Type, s.Now)
			s.emit(EventPowerUpCollected, p.X, p.Y)
			continue
		}
		kept = append(kept, p)
	}
	clearTail(s.PowerUps, len(kept))
	s.PowerUps = kept
}

// reap removes destroyed asteroids, awards score, drops power-ups and adds
// fragments while staying under MaxAsteroids.
func (r *Resolver) reap(s *State, rng *Rand) {
	var dead []*Asteroid
	alive := s.Asteroids[:0]
	for _, a := range s.Asteroids {
		if a.Health <= 0 {
			dead = append(dead, a)
			continue
		}
		alive = append(alive, a)
	}
	if len(dead) == 0 {
		return
	}
	clearTail(s.Asteroids, len(alive))
	s.Asteroids = alive

	for _, a := range dead {
		s.Score += scoreFor(a)
		s.Kills++
		if a.IsBoss {
			s.emit(EventBossDestroyed, a.X, a.Y)
			burst(s, rng, ParticleExplosion, a.X, a.Y, ExplosionParticleCount*3)
		} else {
			s.BossCounter++
			s.emit(EventAsteroidDestroyed, a.X, a.Y)
			burst(s, rng, ParticleExplosion, a.X, a.Y, ExplosionParticleCount)
		}
		if rng.Float64() < PowerUpDropChance {
			s.PowerUps = append(s.PowerUps, newPowerUp(a.X, a.Y, rng, s.Now))
		}
		for _, f := range fragments(s, rng, a) {
			if len(s.Asteroids) >= MaxAsteroids {
				break
			}
			s.Asteroids = append(s.Asteroids, f)
		}
	}
}

package game

import (
	"math"
	"testing"
)

func TestCheckCollision(t *testing.T) {
	if !CheckCollision(0, 0, 10, 15, 0, 10) {
		t.Error("expected collision at distance 15 with radii 10+10")
	}
	if !CheckCollision(0, 0, 10, 20, 0, 10) {
		t.Error("touching circles should collide")
	}
	if CheckCollision(0, 0, 10, 25, 0, 10) {
		t.Error("expected no collision at distance 25 with radii 10+10")
	}
}

func TestSegmentCircleIntersect(t *testing.T) {
	// Segment passes through circle
	if !segmentCircleIntersect(0, 0, 100, 0, 50, 0, 10) {
		t.Error("segment through centre should intersect")
	}
	// Segment misses circle
	if segmentCircleIntersect(0, 0, 100, 0, 50, 20, 10) {
		t.Error("segment 20 units away should miss a radius-10 circle")
	}
	// Segment entirely inside circle
	if !segmentCircleIntersect(48, 0, 52, 0, 50, 0, 10) {
		t.Error("segment inside circle should intersect")
	}
	// Circle beyond the segment end
	if segmentCircleIntersect(0, 0, 30, 0, 50, 0, 10) {
		t.Error("circle past the segment end should not intersect")
	}
	// Degenerate segment
	if !segmentCircleIntersect(50, 5, 50, 5, 50, 0, 10) {
		t.Error("point inside circle should intersect")
	}
}

// collisionState returns an empty field with the ship parked far from
// (100, 100), where the tests place their targets.
func collisionState() *State {
	s := NewState(CanvasWidth, CanvasHeight)
	s.Ship.X, s.Ship.Y = 600, 450
	return s
}

func TestBulletDestroysOneHitAsteroid(t *testing.T) {
	s := collisionState()
	s.Asteroids = []*Asteroid{{ID: 1, X: 100, Y: 100, Radius: 15, Health: 1, InitialHealth: 1}}
	s.Bullets = []*Bullet{{X: 105, Y: 100, Damage: BulletDamage}}

	NewResolver(s.Width, s.Height).Resolve(s, NewRand(1))

	if len(s.Bullets) != 0 {
		t.Errorf("bullet should be consumed, %d left", len(s.Bullets))
	}
	if len(s.Asteroids) != 0 {
		t.Errorf("asteroid should be destroyed, %d left", len(s.Asteroids))
	}
	if s.Score != ScoreSmall {
		t.Errorf("expected score %d, got %d", ScoreSmall, s.Score)
	}
	if s.Kills != 1 || s.BossCounter != 1 {
		t.Errorf("expected kills 1 and boss counter 1, got %d and %d", s.Kills, s.BossCounter)
	}
	if len(s.Particles) != ExplosionParticleCount {
		t.Errorf("expected %d explosion particles, got %d", ExplosionParticleCount, len(s.Particles))
	}
}

func TestBulletDamagesNearestOnly(t *testing.T) {
	s := collisionState()
	near := &Asteroid{ID: 1, X: 100, Y: 100, Radius: 30, Health: 3}
	far := &Asteroid{ID: 2, X: 130, Y: 100, Radius: 30, Health: 3}
	s.Asteroids = []*Asteroid{far, near}
	s.Bullets = []*Bullet{{X: 110, Y: 100, Damage: 1}}

	NewResolver(s.Width, s.Height).Resolve(s, NewRand(1))

	if near.Health != 2 {
		t.Errorf("nearest asteroid should take the hit, health %d", near.Health)
	}
	if far.Health != 3 {
		t.Errorf("other asteroid must be untouched, health %d", far.Health)
	}
	if len(s.Bullets) != 0 {
		t.Error("bullet should be consumed by its hit")
	}
}

func TestBulletMissKeepsBullet(t *testing.T) {
	s := collisionState()
	s.Asteroids = []*Asteroid{{ID: 1, X: 100, Y: 100, Radius: 15, Health: 1}}
	s.Bullets = []*Bullet{{X: 200, Y: 200, Damage: 1}}

	NewResolver(s.Width, s.Height).Resolve(s, NewRand(1))

	if len(s.Bullets) != 1 || len(s.Asteroids) != 1 {
		t.Errorf("a miss changes nothing, have %d bullets and %d asteroids", len(s.Bullets), len(s.Asteroids))
	}
}

func TestLargeAsteroidSplits(t *testing.T) {
	s := collisionState()
	s.Asteroids = []*Asteroid{{ID: 1, X: 100, Y: 100, VX: 1, Radius: 40, Health: 1}}
	s.Bullets = []*Bullet{{X: 100, Y: 100, Damage: 1}}

	NewResolver(s.Width, s.Height).Resolve(s, NewRand(3))

	if len(s.Asteroids) != FragmentCount {
		t.Fatalf("expected %d fragments, got %d", FragmentCount, len(s.Asteroids))
	}
	for _, f := range s.Asteroids {
		if math.Abs(f.Radius-40*FragmentRadiusFactor) > 1e-9 {
			t.Errorf("fragment radius %f, want %f", f.Radius, 40*FragmentRadiusFactor)
		}
		if f.IsBoss || f.Health < 1 {
			t.Errorf("fragment should be a live ordinary asteroid: %+v", f)
		}
	}
	if s.Score != ScoreLarge {
		t.Errorf("expected score %d, got %d", ScoreLarge, s.Score)
	}
}

func TestFragmentsRespectAsteroidCap(t *testing.T) {
	s := collisionState()
	for i := 0; i < MaxAsteroids; i++ {
		s.Asteroids = append(s.Asteroids, &Asteroid{ID: i + 1, X: 300 + float64(i), Y: 50, Radius: 15, Health: 5})
	}
	s.Asteroids[0] = &Asteroid{ID: 100, X: 100, Y: 100, Radius: 40, Health: 1}
	s.Bullets = []*Bullet{{X: 100, Y: 100, Damage: 1}}

	NewResolver(s.Width, s.Height).Resolve(s, NewRand(3))

	if len(s.Asteroids) != MaxAsteroids {
		t.Errorf("asteroid count %d should be capped at %d", len(s.Asteroids), MaxAsteroids)
	}
}

func TestShipDiesOnContactWithoutShield(t *testing.T) {
	s := collisionState()
	s.Asteroids = []*Asteroid{{ID: 1, X: s.Ship.X + 10, Y: s.Ship.Y, Radius: 20, Health: 2}}

	NewResolver(s.Width, s.Height).Resolve(s, NewRand(1))

	if !s.GameOver || s.Ship.Alive {
		t.Fatal("unshielded contact must end the game")
	}
	if !hasEvent(s, EventShipDestroyed) {
		t.Error("expected a ship destroyed event")
	}
}

func TestShieldAbsorbsAsteroid(t *testing.T) {
	s := collisionState()
	s.Ship.Activate(PowerShield, s.Now)
	s.Asteroids = []*Asteroid{{ID: 1, X: s.Ship.X + 10, Y: s.Ship.Y, Radius: 20, Health: 2}}

	NewResolver(s.Width, s.Height).Resolve(s, NewRand(1))

	if s.GameOver || !s.Ship.Alive {
		t.Fatal("shielded contact must not end the game")
	}
	if s.Ship.ShieldHealth != ShieldBaseHealth-ShieldDamageNormal {
		t.Errorf("shield health %d, want %d", s.Ship.ShieldHealth, ShieldBaseHealth-ShieldDamageNormal)
	}
	if len(s.Asteroids) != 0 {
		t.Error("an ordinary asteroid touching the shield should break")
	}
	if !s.Ship.RecentlyHit(s.Now) {
		t.Error("ship should be in its post-hit grace window")
	}
}

func TestShieldDoesNotBreakBoss(t *testing.T) {
	s := collisionState()
	s.Ship.Activate(PowerShield, s.Now)
	boss := &Asteroid{ID: 1, X: s.Ship.X + 30, Y: s.Ship.Y, Radius: BossRadius, Health: 50, IsBoss: true}
	s.Asteroids = []*Asteroid{boss}

	NewResolver(s.Width, s.Height).Resolve(s, NewRand(1))

	if s.Ship.ShieldHealth != ShieldBaseHealth-ShieldDamageBoss {
		t.Errorf("shield health %d, want %d", s.Ship.ShieldHealth, ShieldBaseHealth-ShieldDamageBoss)
	}
	if len(s.Asteroids) != 1 || boss.Health != 50 {
		t.Error("boss should survive shield contact undamaged")
	}
}

func TestShieldDepletesThenShipDies(t *testing.T) {
	s := collisionState()
	s.Ship.Activate(PowerShield, s.Now)
	s.Ship.ShieldHealth = ShieldDamageNormal
	r := NewResolver(s.Width, s.Height)

	s.Asteroids = []*Asteroid{{ID: 1, X: s.Ship.X, Y: s.Ship.Y, Radius: 20, Health: 2}}
	r.Resolve(s, NewRand(1))
	if s.GameOver {
		t.Fatal("the depleting hit is still absorbed")
	}
	if s.Ship.ShieldHealth != 0 || s.Ship.HasPowerUp(PowerShield, s.Now) {
		t.Errorf("shield should be depleted, health %d", s.Ship.ShieldHealth)
	}
	if !hasEvent(s, EventShieldDepleted) {
		t.Error("expected a shield depleted event")
	}

	s.Now += ShieldHitCooldown
	s.Events = s.Events[:0]
	s.Asteroids = []*Asteroid{{ID: 2, X: s.Ship.X, Y: s.Ship.Y, Radius: 20, Health: 2}}
	r.Resolve(s, NewRand(1))
	if !s.GameOver {
		t.Error("contact after depletion must be lethal")
	}
}

func TestShieldHitCooldownAbsorbsRepeatContact(t *testing.T) {
	sh := NewShip(0, 0)
	sh.Activate(PowerShield, 0)

	sh.absorb(ShieldDamageBoss, 7, 0)
	sh.absorb(ShieldDamageBoss, 7, ShieldHitCooldown/2)
	if sh.ShieldHealth != ShieldBaseHealth-ShieldDamageBoss {
		t.Errorf("the same asteroid within the cooldown should be free, shield %d", sh.ShieldHealth)
	}
	sh.absorb(ShieldDamageBoss, 7, ShieldHitCooldown)
	if sh.ShieldHealth != 0 {
		t.Errorf("contact after the cooldown should count, shield %d", sh.ShieldHealth)
	}
}

func TestShieldChargesEachSource(t *testing.T) {
	sh := NewShip(0, 0)
	sh.Activate(PowerShield, 0)

	sh.absorb(ShieldDamageNormal, 1, 0)
	sh.absorb(ShieldDamageNormal, 2, 0)
	sh.absorb(BossBulletDamage, 0, 0)
	sh.absorb(BossBulletDamage, 0, 0)
	if sh.ShieldHealth != 0 {
		t.Errorf("distinct hits in one instant should all count, shield %d", sh.ShieldHealth)
	}
	if absorbed, _ := sh.absorb(ShieldDamageNormal, 3, 0); absorbed {
		t.Error("a depleted shield must not absorb")
	}
}

func TestAsteroidSwarmDepletesShield(t *testing.T) {
	s := collisionState()
	s.Ship.Activate(PowerShield, s.Now)
	for i := 0; i < 8; i++ {
		s.Asteroids = append(s.Asteroids, &Asteroid{
			ID: i + 1, X: s.Ship.X + float64(i%3-1)*5, Y: s.Ship.Y + float64(i/3-1)*5,
			Radius: 15, Health: 1, InitialHealth: 1,
		})
	}

	NewResolver(s.Width, s.Height).Resolve(s, NewRand(1))

	if s.Ship.Alive || !s.GameOver {
		t.Fatalf("eight asteroids outweigh a full shield, shield %d", s.Ship.ShieldHealth)
	}
	if !hasEvent(s, EventShieldDepleted) || !hasEvent(s, EventShipDestroyed) {
		t.Error("expected the shield to deplete before the ship was destroyed")
	}
}

func TestBossBulletVolleyDepletesShield(t *testing.T) {
	s := collisionState()
	s.Ship.Activate(PowerShield, s.Now)
	for i := 0; i < 6; i++ {
		s.BossBullets = append(s.BossBullets, &BossBullet{OwnerID: 9, X: s.Ship.X + float64(i), Y: s.Ship.Y})
	}

	NewResolver(s.Width, s.Height).Resolve(s, NewRand(1))

	if !s.GameOver {
		t.Fatalf("six boss bullets outweigh a full shield, shield %d", s.Ship.ShieldHealth)
	}
	if len(s.BossBullets) != 1 {
		t.Errorf("only the bullet after the lethal one should stay in flight, %d left", len(s.BossBullets))
	}
}

func TestShipCollidesAcrossEdge(t *testing.T) {
	s := collisionState()
	s.Ship.X, s.Ship.Y = 3, 300
	s.Asteroids = []*Asteroid{{ID: 1, X: CanvasWidth - 3, Y: 300, Radius: 30, Health: 2}}

	NewResolver(s.Width, s.Height).Resolve(s, NewRand(1))

	if s.Ship.Alive {
		t.Error("an asteroid just across the edge should hit the ship")
	}
}

func TestAsteroidAcrossEdgeFoundFromFarSide(t *testing.T) {
	s := collisionState()
	s.Ship.X, s.Ship.Y = CanvasWidth-30, 300
	s.Asteroids = []*Asteroid{{ID: 1, X: 5, Y: 300, Radius: 30, Health: 2}}

	NewResolver(s.Width, s.Height).Resolve(s, NewRand(1))

	if s.Ship.Alive {
		t.Error("an asteroid straddling the left edge should hit a ship near the right edge")
	}
}

func TestBulletHitsAcrossCorner(t *testing.T) {
	s := collisionState()
	s.Asteroids = []*Asteroid{{ID: 1, X: 4, Y: 4, Radius: 20, Health: 3, InitialHealth: 3}}
	s.Bullets = []*Bullet{{X: CanvasWidth - 4, Y: CanvasHeight - 4, Damage: BulletDamage}}

	NewResolver(s.Width, s.Height).Resolve(s, NewRand(1))

	if len(s.Bullets) != 0 || s.Asteroids[0].Health != 3-BulletDamage {
		t.Errorf("bullet across the corner should hit, bullets %d health %d", len(s.Bullets), s.Asteroids[0].Health)
	}
}

func TestBossBulletHitsShip(t *testing.T) {
	s := collisionState()
	s.Ship.Activate(PowerShield, s.Now)
	s.BossBullets = []*BossBullet{{OwnerID: 9, X: s.Ship.X + 5, Y: s.Ship.Y}}

	NewResolver(s.Width, s.Height).Resolve(s, NewRand(1))

	if len(s.BossBullets) != 0 {
		t.Error("boss bullet should be consumed by the hit")
	}
	if s.Ship.ShieldHealth != ShieldBaseHealth-BossBulletDamage {
		t.Errorf("shield health %d, want %d", s.Ship.ShieldHealth, ShieldBaseHealth-BossBulletDamage)
	}
	if s.GameOver {
		t.Error("shield should have absorbed the boss bullet")
	}
}

func TestLaserDamagesOncePerInterval(t *testing.T) {
	s := collisionState()
	s.Ship.X, s.Ship.Y, s.Ship.Rotation = 100, 300, 0
	a := &Asteroid{ID: 1, X: 300, Y: 300, Radius: 20, Health: 3}
	b := &Asteroid{ID: 2, X: 420, Y: 305, Radius: 20, Health: 3}
	off := &Asteroid{ID: 3, X: 300, Y: 100, Radius: 20, Health: 3}
	s.Asteroids = []*Asteroid{a, b, off}
	s.LaserActive = true
	r := NewResolver(s.Width, s.Height)

	s.Now = LaserDamageInterval
	r.Resolve(s, NewRand(1))
	if a.Health != 2 || b.Health != 2 {
		t.Errorf("laser should damage every asteroid on the beam, health %d and %d", a.Health, b.Health)
	}
	if off.Health != 3 {
		t.Error("asteroid off the beam must not be damaged")
	}
	if len(s.Particles) != 2*DisintegrationParticleCount {
		t.Errorf("expected disintegration particles, got %d", len(s.Particles))
	}

	s.Now += LaserDamageInterval / 2
	r.Resolve(s, NewRand(1))
	if a.Health != 2 {
		t.Errorf("laser damage must wait for the interval, health %d", a.Health)
	}

	s.Now += LaserDamageInterval / 2
	r.Resolve(s, NewRand(1))
	if a.Health != 1 {
		t.Errorf("expected second tick after a full interval, health %d", a.Health)
	}
}

func TestPickupActivatesPowerUp(t *testing.T) {
	s := collisionState()
	s.PowerUps = []*PowerUp{{X: s.Ship.X + 5, Y: s.Ship.Y, Type: PowerRapidFire}}

	NewResolver(s.Width, s.Height).Resolve(s, NewRand(1))

	if len(s.PowerUps) != 0 {
		t.Error("collected power-up should leave the field")
	}
	if !s.Ship.HasPowerUp(PowerRapidFire, s.Now) {
		t.Error("rapid fire should be active")
	}
	if got := s.Ship.Remaining(PowerRapidFire, s.Now); got != PowerUpDuration {
		t.Errorf("remaining %v, want %v", got, PowerUpDuration)
	}
}

func TestBossKillScoresAndDoesNotAdvanceCounter(t *testing.T) {
	s := collisionState()
	s.BossCounter = 4
	s.Asteroids = []*Asteroid{{ID: 1, X: 100, Y: 100, Radius: BossRadius, Health: 1, IsBoss: true}}
	s.Bullets = []*Bullet{{X: 100, Y: 100, Damage: 1}}

	NewResolver(s.Width, s.Height).Resolve(s, NewRand(1))

	if s.Score != ScoreBoss {
		t.Errorf("expected score %d, got %d", ScoreBoss, s.Score)
	}
	if s.BossCounter != 4 {
		t.Errorf("boss kills do not count toward the next boss, counter %d", s.BossCounter)
	}
	if len(s.Asteroids) != 0 {
		t.Error("bosses leave no fragments")
	}
	if !hasEvent(s, EventBossDestroyed) {
		t.Error("expected a boss destroyed event")
	}
}

func hasEvent(s *State, kind EventKind) bool {
	for _, e := range s.Events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

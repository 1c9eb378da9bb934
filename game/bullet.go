package game

import (
	"math"
	"time"
)

// Bullet is a player shot.
type Bullet struct {
	X, Y      float64
	VX, VY    float64
	Damage    int
	CreatedAt time.Duration
}

// BossBullet is a shot fired by a boss asteroid. It outlives its owner.
type BossBullet struct {
	OwnerID   int
	X, Y      float64
	VX, VY    float64
	CreatedAt time.Duration
}

// newBullet creates a bullet leaving the ship's nose at angle, inheriting
// some of the ship's velocity.
func newBullet(sh *Ship, angle float64, now time.Duration) *Bullet {
	x, y := sh.Nose()
	return &Bullet{
		X:         x,
		Y:         y,
		VX:        math.Cos(angle)*BulletSpeed + sh.VX*0.3,
		VY:        math.Sin(angle)*BulletSpeed + sh.VY*0.3,
		Damage:    BulletDamage,
		CreatedAt: now,
	}
}

// fire adds the bullets for one trigger pull. Spread shot fans
// SpreadShotCount bullets around the facing direction.
func fire(s *State) {
	sh := s.Ship
	if sh.HasPowerUp(PowerSpreadShot, s.Now) {
		half := float64(SpreadShotCount-1) / 2
		for i := 0; i < SpreadShotCount; i++ {
			angle := sh.Rotation + (float64(i)-half)*SpreadShotAngle
			s.Bullets = append(s.Bullets, newBullet(sh, angle, s.Now))
		}
	} else {
		s.Bullets = append(s.Bullets, newBullet(sh, sh.Rotation, s.Now))
	}
	sh.LastShotAt = s.Now
	sh.hasShot = true
	s.emit(EventFired, sh.X, sh.Y)
}

// newBossBullet aims a shot from boss a at the point (tx, ty).
func newBossBullet(a *Asteroid, tx, ty float64, now time.Duration) *BossBullet {
	angle := math.Atan2(ty-a.Y, tx-a.X)
	return &BossBullet{
		OwnerID:   a.ID,
		X:         a.X + math.Cos(angle)*a.Radius,
		Y:         a.Y + math.Sin(angle)*a.Radius,
		VX:        math.Cos(angle) * BossBulletSpeed,
		VY:        math.Sin(angle) * BossBulletSpeed,
		CreatedAt: now,
	}
}

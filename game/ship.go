package game

import (
	"math"
	"time"
)

// Ship is the player's craft.
type Ship struct {
	X, Y             float64
	VX, VY           float64
	Rotation         float64 // radians, 0 faces +X
	RotationVelocity float64
	Radius           float64
	Alive            bool
	Thrusting        bool

	ShieldHealth int
	ShieldHitAt  time.Duration
	shieldHit    bool
	contactID    int // asteroid last charged against the shield
	contactAt    time.Duration

	// PowerUps maps each active timed power-up to its expiry (game time).
	// The shield is not timed; it lasts until ShieldHealth reaches zero.
	PowerUps   map[PowerUpType]time.Duration
	LastShotAt time.Duration
	hasShot    bool
}

// NewShip creates a ship at rest facing up.
func NewShip(x, y float64) *Ship {
	return &Ship{
		X:        x,
		Y:        y,
		Rotation: -math.Pi / 2,
		Radius:   ShipCollisionRadius,
		Alive:    true,
		PowerUps: make(map[PowerUpType]time.Duration),
	}
}

// HasPowerUp reports whether t is active at now.
func (sh *Ship) HasPowerUp(t PowerUpType, now time.Duration) bool {
	if t == PowerShield {
		return sh.ShieldHealth > 0
	}
	exp, ok := sh.PowerUps[t]
	return ok && now < exp
}

// Remaining returns how long t stays active, zero when inactive.
func (sh *Ship) Remaining(t PowerUpType, now time.Duration) time.Duration {
	exp, ok := sh.PowerUps[t]
	if !ok || now >= exp {
		return 0
	}
	return exp - now
}

// Activate grants power-up t at now.
func (sh *Ship) Activate(t PowerUpType, now time.Duration) {
	if t == PowerShield {
		sh.ShieldHealth = ShieldBaseHealth
		sh.shieldHit = false
		sh.contactID = 0
		return
	}
	sh.PowerUps[t] = now + PowerUpDuration
}

// expirePowerUps drops timers that ran out.
func (sh *Ship) expirePowerUps(now time.Duration) {
	for t, exp := range sh.PowerUps {
		if now >= exp {
			delete(sh.PowerUps, t)
		}
	}
}

// absorb applies dmg from source to the shield. It returns false when there
// is no shield, meaning the hit is lethal. Source is the ID of the asteroid in
// contact, or 0 for a projectile. Repeat contact with the same asteroid within
// ShieldHitCooldown is free so one overlap is not charged on every frame;
// every other hit is charged in full.
func (sh *Ship) absorb(dmg, source int, now time.Duration) (absorbed, depleted bool) {
	if sh.ShieldHealth <= 0 {
		return false, false
	}
	if source != 0 && source == sh.contactID && now-sh.contactAt < ShieldHitCooldown {
		return true, false
	}
	sh.ShieldHealth -= dmg
	sh.ShieldHitAt = now
	sh.shieldHit = true
	if source != 0 {
		sh.contactID, sh.contactAt = source, now
	}
	if sh.ShieldHealth <= 0 {
		sh.ShieldHealth = 0
		return true, true
	}
	return true, false
}

// RecentlyHit reports whether the shield took a hit within ShieldHitCooldown.
func (sh *Ship) RecentlyHit(now time.Duration) bool {
	return sh.shieldHit && now-sh.ShieldHitAt < ShieldHitCooldown
}

// fireCooldown is the delay between shots given active power-ups.
func (sh *Ship) fireCooldown(now time.Duration) time.Duration {
	if sh.HasPowerUp(PowerRapidFire, now) {
		return RapidFireCooldown
	}
	return FireCooldown
}

// canFire reports whether the gun is off cooldown.
func (sh *Ship) canFire(now time.Duration) bool {
	return sh.Alive && (!sh.hasShot || now-sh.LastShotAt >= sh.fireCooldown(now))
}

// Nose returns the tip of the ship, where bullets and the laser originate.
func (sh *Ship) Nose() (float64, float64) {
	return sh.X + math.Cos(sh.Rotation)*ShipSize*0.75, sh.Y + math.Sin(sh.Rotation)*ShipSize*0.75
}

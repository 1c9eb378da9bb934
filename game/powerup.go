package game

import (
	"math"
	"time"
)

// PowerUpType identifies a pickup.
type PowerUpType int

const (
	PowerSpreadShot PowerUpType = iota
	PowerRapidFire
	PowerShield
	PowerSpeedBoost
	PowerLaser
)

// PowerUpDef holds the presentation data for a power-up type.
type PowerUpDef struct {
	Name   string // wire name
	Label  string
	Symbol rune
}

var PowerUpDefs = [...]PowerUpDef{
	PowerSpreadShot: {Name: "spreadShot", Label: "SPREAD", Symbol: 'S'},
	PowerRapidFire:  {Name: "rapidFire", Label: "RAPID", Symbol: 'R'},
	PowerShield:     {Name: "shield", Label: "SHIELD", Symbol: 'O'},
	PowerSpeedBoost: {Name: "speedBoost", Label: "BOOST", Symbol: 'B'},
	PowerLaser:      {Name: "laser", Label: "LASER", Symbol: 'L'},
}

// PowerUpTypeCount is the number of power-up types.
const PowerUpTypeCount = len(PowerUpDefs)

func (t PowerUpType) String() string {
	if t < 0 || int(t) >= len(PowerUpDefs) {
		return "unknown"
	}
	return PowerUpDefs[t].Name
}

// PowerUp is a pickup floating in the field.
type PowerUp struct {
	X, Y      float64
	VX, VY    float64
	Type      PowerUpType
	CreatedAt time.Duration
}

// newPowerUp drops a random power-up at (x, y) with a slow drift.
func newPowerUp(x, y float64, rng *Rand, now time.Duration) *PowerUp {
	angle := rng.Range(0, 2*math.Pi)
	return &PowerUp{
		X:         x,
		Y:         y,
		VX:        math.Cos(angle) * PowerUpDrift,
		VY:        math.Sin(angle) * PowerUpDrift,
		Type:      PowerUpType(rng.Intn(PowerUpTypeCount)),
		CreatedAt: now,
	}
}

// Remaining returns how long the pickup stays in the field.
func (p *PowerUp) Remaining(now time.Duration) time.Duration {
	left := PowerUpLifetime - (now - p.CreatedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Visible implements the end-of-life blink: during the last PowerUpBlinkTime
// the pickup alternates every 200ms.
func (p *PowerUp) Visible(now time.Duration) bool {
	left := p.Remaining(now)
	if left > PowerUpBlinkTime {
		return true
	}
	return (left/(200*time.Millisecond))%2 == 0
}

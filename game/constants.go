package game

import "time"

// Frame timing. Velocities are expressed in pixels per frame at FrameRate.
const (
	FrameRate     = 60
	FrameDuration = time.Second / FrameRate
	MaxFrameDelta = 4 * FrameDuration // clamp after stalls so nothing tunnels
)

const (
	CanvasWidth  = 800.0
	CanvasHeight = 600.0
)

// Ship
const (
	ShipSize             = 20.0
	ShipCollisionRadius  = 12.0
	ThrustPower          = 0.12
	Friction             = 0.99
	RotationAcceleration = 0.02
	RotationFriction     = 0.85
	MaxRotationSpeed     = 0.09
	SpeedBoostMultiplier = 1.8
)

// Player weapons
const (
	BulletSpeed       = 7.0
	BulletDamage      = 1
	BulletRadius      = 2.0
	BulletLifetime    = 1200 * time.Millisecond
	FireCooldown      = 250 * time.Millisecond
	RapidFireCooldown = 90 * time.Millisecond
	SpreadShotCount   = 3
	SpreadShotAngle   = 0.2 // radians between neighbouring bullets

	LaserRange          = 400.0
	LaserDamagePerTick  = 1
	LaserDamageInterval = 100 * time.Millisecond
)

// Asteroids
const (
	AsteroidMinRadius       = 14.0
	AsteroidBaseMaxRadius   = 34.0
	AsteroidMaxRadiusCap    = 60.0
	AsteroidRadiusPerLevel  = 3.0
	AsteroidMinSpeed        = 0.4
	AsteroidBaseMaxSpeed    = 1.4
	AsteroidSpeedPerLevel   = 0.12
	AsteroidMaxSpeedCap     = 3.0
	AsteroidSpinMax         = 0.03
	AsteroidVertices        = 10
	AsteroidJaggedness      = 0.35
	AsteroidRadiusPerHealth = 12.0

	MinSplitRadius       = 22.0
	FragmentCount        = 2
	FragmentRadiusFactor = 0.55
	FragmentSpeedBoost   = 1.3

	BaseSpawnChance     = 0.01
	SpawnChancePerLevel = 0.004
	MaxSpawnChance      = 0.06
	MaxAsteroids        = 20
	SafeSpawnDistance   = 150.0
	SpawnAttempts       = 8

	DifficultyScoreInterval = 30 * time.Second
)

// Bosses
const (
	MaxBosses            = 1
	BossSpawnInterval    = 15 // ordinary asteroids destroyed per boss
	BossRadius           = 64.0
	BossHealthMultiplier = 10
	BossSpeed            = 0.35
	BossAttackCooldown   = 2 * time.Second
	BossBulletSpeed      = 3.0
	BossBulletRadius     = 4.0
	BossBulletLifetime   = 4 * time.Second
	BossBulletDamage     = 25
)

// Power-ups and shield
const (
	PowerUpDropChance = 0.15
	PowerUpLifetime   = 10 * time.Second
	PowerUpBlinkTime  = 3 * time.Second
	PowerUpDuration   = 8 * time.Second
	PowerUpRadius     = 10.0
	PowerUpDrift      = 0.3

	ShieldBaseHealth   = 100
	ShieldDamageNormal = 25
	ShieldDamageBoss   = 50
	ShieldHitCooldown  = 500 * time.Millisecond
)

// Particles
const (
	ExplosionParticleCount         = 12
	ExplosionParticleLifetime      = 800 * time.Millisecond
	ExplosionParticleSpeed         = 2.5
	DisintegrationParticleCount    = 3
	DisintegrationParticleLifetime = 400 * time.Millisecond
)

// Scoring
const (
	ScoreSmall  = 100
	ScoreMedium = 50
	ScoreLarge  = 20
	ScoreBoss   = 1000
)

// MaxScoreRate bounds how fast a legitimate run can earn points; the server
// uses it to reject implausible submissions.
const MaxScoreRate = ScoreBoss + MaxAsteroids*ScoreSmall // per second

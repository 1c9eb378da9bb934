package game

// Spawner decides when new asteroids and bosses enter the field and when
// bosses attack. All randomness in a run flows through here and the Rand it is
// handed.
type Spawner struct {
	// Disabled turns off ambient asteroid spawning; bosses still attack.
	Disabled bool
}

// LevelAt returns the difficulty level after elapsed play time.
func LevelAt(elapsedMs int64) int {
	return 1 + int(elapsedMs/DifficultyScoreInterval.Milliseconds())
}

// SpawnChance is the per-frame probability of a new asteroid at level.
func SpawnChance(level int) float64 {
	c := BaseSpawnChance + float64(level-1)*SpawnChancePerLevel
	if c > MaxSpawnChance {
		c = MaxSpawnChance
	}
	return c
}

// RadiusRange is the size range for new asteroids at level.
func RadiusRange(level int) (float64, float64) {
	max := AsteroidBaseMaxRadius + float64(level-1)*AsteroidRadiusPerLevel
	if max > AsteroidMaxRadiusCap {
		max = AsteroidMaxRadiusCap
	}
	return AsteroidMinRadius, max
}

// SpeedRange is the drift speed range for new asteroids at level.
func SpeedRange(level int) (float64, float64) {
	max := AsteroidBaseMaxSpeed + float64(level-1)*AsteroidSpeedPerLevel
	if max > AsteroidMaxSpeedCap {
		max = AsteroidMaxSpeedCap
	}
	return AsteroidMinSpeed, max
}

// Spawn runs one frame of spawning with frames elapsed.
func (sp *Spawner) Spawn(s *State, rng *Rand, frames float64) {
	level := LevelAt(s.Now.Milliseconds())
	if level > s.Level {
		s.Level = level
		s.emit(EventLevelUp, s.Width/2, s.Height/2)
	}

	if s.BossCounter >= BossSpawnInterval {
		if sp.TrySpawnBoss(s, rng) {
			s.BossCounter = 0
		}
	}

	if !sp.Disabled && rng.Float64() < SpawnChance(s.Level)*frames {
		sp.TrySpawnAsteroid(s, rng)
	}

	sp.bossAttacks(s)
}

// TrySpawnAsteroid adds one ordinary asteroid at a field edge. It does nothing
// at MaxAsteroids or when no edge point clears the ship.
func (sp *Spawner) TrySpawnAsteroid(s *State, rng *Rand) bool {
	if len(s.Asteroids) >= MaxAsteroids {
		return false
	}
	x, y, ok := sp.spawnPoint(s, rng)
	if !ok {
		return false
	}
	minR, maxR := RadiusRange(s.Level)
	minV, maxV := SpeedRange(s.Level)
	s.Asteroids = append(s.Asteroids, newAsteroid(s, rng, x, y, rng.Range(minR, maxR), rng.Range(minV, maxV)))
	return true
}

// TrySpawnBoss adds a boss if both the boss and asteroid caps allow it.
func (sp *Spawner) TrySpawnBoss(s *State, rng *Rand) bool {
	if len(s.Asteroids) >= MaxAsteroids || s.BossCount() >= MaxBosses {
		return false
	}
	x, y, ok := sp.spawnPoint(s, rng)
	if !ok {
		return false
	}
	b := newBoss(s, rng, x, y)
	s.Asteroids = append(s.Asteroids, b)
	s.emit(EventBossSpawned, x, y)
	return true
}

func (sp *Spawner) spawnPoint(s *State, rng *Rand) (float64, float64, bool) {
	for i := 0; i < SpawnAttempts; i++ {
		x, y := edgePoint(s, rng)
		if s.Ship == nil || WrapDistance(x, y, s.Ship.X, s.Ship.Y, s.Width, s.Height) >= SafeSpawnDistance {
			return x, y, true
		}
	}
	return 0, 0, false
}

// bossAttacks lets every boss whose cooldown elapsed fire at the ship.
func (sp *Spawner) bossAttacks(s *State) {
	sh := s.Ship
	if sh == nil || !sh.Alive {
		return
	}
	for _, a := range s.Asteroids {
		if !a.IsBoss || s.Now-a.LastAttackAt < BossAttackCooldown {
			continue
		}
		a.LastAttackAt = s.Now
		s.BossBullets = append(s.BossBullets, newBossBullet(a, sh.X, sh.Y, s.Now))
		s.emit(EventBossFired, a.X, a.Y)
	}
}

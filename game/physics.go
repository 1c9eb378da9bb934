package game

import "math"

// Step advances every entity by frames (1.0 is one frame at FrameRate). It
// uses no randomness: the same state, input and frames give the same result.
func Step(s *State, in Input, frames float64) {
	if frames <= 0 {
		return
	}
	stepShip(s, in, frames)

	for _, a := range s.Asteroids {
		a.X = Wrap(a.X+a.VX*frames, s.Width)
		a.Y = Wrap(a.Y+a.VY*frames, s.Height)
		a.Rotation += a.Spin * frames
	}
	for _, b := range s.Bullets {
		b.X = Wrap(b.X+b.VX*frames, s.Width)
		b.Y = Wrap(b.Y+b.VY*frames, s.Height)
	}
	for _, b := range s.BossBullets {
		b.X = Wrap(b.X+b.VX*frames, s.Width)
		b.Y = Wrap(b.Y+b.VY*frames, s.Height)
	}
	for _, p := range s.PowerUps {
		p.X = Wrap(p.X+p.VX*frames, s.Width)
		p.Y = Wrap(p.Y+p.VY*frames, s.Height)
	}
	for _, p := range s.Particles {
		p.X = Wrap(p.X+p.VX*frames, s.Width)
		p.Y = Wrap(p.Y+p.VY*frames, s.Height)
	}
}

func stepShip(s *State, in Input, frames float64) {
	sh := s.Ship
	if sh == nil || !sh.Alive {
		return
	}

	// Rotation
	if in.Left {
		sh.RotationVelocity -= RotationAcceleration * frames
	}
	if in.Right {
		sh.RotationVelocity += RotationAcceleration * frames
	}
	sh.RotationVelocity *= math.Pow(RotationFriction, frames)
	sh.RotationVelocity = Clamp(sh.RotationVelocity, -MaxRotationSpeed, MaxRotationSpeed)
	sh.Rotation = math.Remainder(sh.Rotation+sh.RotationVelocity*frames, 2*math.Pi)

	// Thrust
	sh.Thrusting = in.Thrust
	if in.Thrust {
		power := ThrustPower
		if sh.HasPowerUp(PowerSpeedBoost, s.Now) {
			power *= SpeedBoostMultiplier
		}
		sh.VX += math.Cos(sh.Rotation) * power * frames
		sh.VY += math.Sin(sh.Rotation) * power * frames
	}
	damp := math.Pow(Friction, frames)
	sh.VX *= damp
	sh.VY *= damp

	sh.X = Wrap(sh.X+sh.VX*frames, s.Width)
	sh.Y = Wrap(sh.Y+sh.VY*frames, s.Height)
}

// expire removes timed entities whose lifetime has elapsed. Age is the only
// removal rule applied here.
func expire(s *State) {
	now := s.Now

	bullets := s.Bullets[:0]
	for _, b := range s.Bullets {
		if now-b.CreatedAt < BulletLifetime {
			bullets = append(bullets, b)
		}
	}
	clearTail(s.Bullets, len(bullets))
	s.Bullets = bullets

	bossBullets := s.BossBullets[:0]
	for _, b := range s.BossBullets {
		if now-b.CreatedAt < BossBulletLifetime {
			bossBullets = append(bossBullets, b)
		}
	}
	clearTail(s.BossBullets, len(bossBullets))
	s.BossBullets = bossBullets

	powerUps := s.PowerUps[:0]
	for _, p := range s.PowerUps {
		if now-p.CreatedAt < PowerUpLifetime {
			powerUps = append(powerUps, p)
		}
	}
	clearTail(s.PowerUps, len(powerUps))
	s.PowerUps = powerUps

	particles := s.Particles[:0]
	for _, p := range s.Particles {
		if now-p.CreatedAt < p.Lifetime() {
			particles = append(particles, p)
		}
	}
	clearTail(s.Particles, len(particles))
	s.Particles = particles

	if s.Ship != nil {
		s.Ship.expirePowerUps(now)
	}
}

// clearTail nils out pointers past n so filtered-out entities can be collected.
func clearTail[T any](list []*T, n int) {
	for i := n; i < len(list); i++ {
		list[i] = nil
	}
}

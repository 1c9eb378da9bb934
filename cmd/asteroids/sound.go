package main

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/ensured/cardano-degen-club-sub001/game"
)

const sampleRate = beep.SampleRate(44100)

type tone struct {
	freq float64
	dur  time.Duration
}

var eventTones = map[game.EventKind]tone{
	game.EventFired:             {880, 30 * time.Millisecond},
	game.EventAsteroidHit:       {330, 40 * time.Millisecond},
	game.EventAsteroidDestroyed: {110, 120 * time.Millisecond},
	game.EventBossSpawned:       {70, 400 * time.Millisecond},
	game.EventBossDestroyed:     {55, 600 * time.Millisecond},
	game.EventBossFired:         {200, 60 * time.Millisecond},
	game.EventPowerUpCollected:  {1320, 150 * time.Millisecond},
	game.EventShieldHit:         {440, 80 * time.Millisecond},
	game.EventShieldDepleted:    {220, 250 * time.Millisecond},
	game.EventShipDestroyed:     {65, 900 * time.Millisecond},
	game.EventLevelUp:           {990, 300 * time.Millisecond},
}

// Sound plays a short sine tone for game events. A zero Sound is silent.
type Sound struct {
	enabled bool
}

// NewSound opens the audio device. Failure is not fatal: the returned Sound
// is silent and the error says why.
func NewSound() (*Sound, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return &Sound{}, err
	}
	return &Sound{enabled: true}, nil
}

// Play sounds each distinct event kind of the frame once.
func (s *Sound) Play(events []game.Event) {
	if s == nil || !s.enabled || len(events) == 0 {
		return
	}
	var seen [16]bool
	for _, ev := range events {
		t, ok := eventTones[ev.Kind]
		if !ok || int(ev.Kind) >= len(seen) || seen[ev.Kind] {
			continue
		}
		seen[ev.Kind] = true
		s.play(t)
	}
}

func (s *Sound) play(t tone) {
	sine, err := generators.SineTone(sampleRate, t.freq)
	if err != nil {
		return
	}
	quiet := &effects.Volume{Streamer: sine, Base: 2, Volume: -3}
	speaker.Play(beep.Take(sampleRate.N(t.dur), quiet))
}

// Close releases the audio device
func (s *Sound) Close() {
	if s != nil && s.enabled {
		speaker.Close()
		s.enabled = false
	}
}

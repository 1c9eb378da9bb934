package game

import (
	"sync"
	"time"
)

// Renderer draws a frame. Implementations must not mutate the state.
type Renderer interface {
	Render(s *State) error
}

// InputSource reports the keys held for the next frame.
type InputSource interface {
	Poll() Input
}

// Loop drives a Game at FrameRate: input, update, render, strictly in that
// order on one goroutine.
type Loop struct {
	Game     *Game
	Renderer Renderer
	Input    InputSource
	// OnFrame, if set, runs after each update with the frame's state.
	OnFrame func(s *State)

	mu      sync.Mutex
	paused  bool
	stopped bool
	stop    chan struct{}
	last    time.Time
	queued  []func(g *Game)
}

// NewLoop creates a loop for g.
func NewLoop(g *Game, r Renderer, in InputSource) *Loop {
	return &Loop{
		Game:     g,
		Renderer: r,
		Input:    in,
		stop:     make(chan struct{}),
	}
}

// Run ticks until Stop is called or the renderer fails.
func (l *Loop) Run() error {
	ticker := time.NewTicker(FrameDuration)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			if err := l.tick(now); err != nil {
				return err
			}
		case <-l.stop:
			return nil
		}
	}
}

// tick advances one frame at wall-clock time now.
func (l *Loop) tick(now time.Time) error {
	l.mu.Lock()
	queued := l.queued
	l.queued = nil
	paused := l.paused
	dt := FrameDuration
	if !l.last.IsZero() {
		dt = now.Sub(l.last)
	}
	if paused {
		l.last = time.Time{}
	} else {
		l.last = now
	}
	l.mu.Unlock()

	for _, fn := range queued {
		fn(l.Game)
	}
	if !paused {
		var in Input
		if l.Input != nil {
			in = l.Input.Poll()
		}
		l.Game.Update(in, dt)
		if l.OnFrame != nil {
			l.OnFrame(l.Game.State)
		}
	}
	if l.Renderer == nil {
		return nil
	}
	return l.Renderer.Render(l.Game.State)
}

// Queue runs fn on the loop goroutine at the start of the next frame, even
// while paused. Use it for anything that touches the game from outside.
func (l *Loop) Queue(fn func(g *Game)) {
	l.mu.Lock()
	l.queued = append(l.queued, fn)
	l.mu.Unlock()
}

// Stop terminates the loop
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.stopped {
		l.stopped = true
		close(l.stop)
	}
}

// Pause freezes the game clock; rendering continues so overlays stay visible.
func (l *Loop) Pause() {
	l.mu.Lock()
	l.paused = true
	l.mu.Unlock()
}

// Resume continues from the last committed state. The first frame after a
// resume uses a nominal delta instead of the paused wall-clock gap.
func (l *Loop) Resume() {
	l.mu.Lock()
	l.paused = false
	l.last = time.Time{}
	l.mu.Unlock()
}

// TogglePause flips between paused and running.
func (l *Loop) TogglePause() {
	if l.Paused() {
		l.Resume()
	} else {
		l.Pause()
	}
}

// Paused reports whether the loop is paused.
func (l *Loop) Paused() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.paused
}

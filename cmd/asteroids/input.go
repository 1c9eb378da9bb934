package main

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ensured/cardano-degen-club-sub001/game"
)

// Terminals report key presses and auto-repeats but never releases, so a
// key counts as held for latchHold after its last press. The first repeat
// typically arrives after ~250ms, later ones every ~30ms.
const latchHold = 300 * time.Millisecond

// Command is a one-shot action triggered by a key.
type Command int

const (
	CmdNone Command = iota
	CmdQuit
	CmdPause
	CmdRestart
)

type control int

const (
	ctlThrust control = iota
	ctlLeft
	ctlRight
	ctlFire
	ctlCount
)

// Latch turns key press events into the held-key Input the game polls each
// frame. HandleKey runs on the event goroutine, Poll on the loop goroutine.
type Latch struct {
	mu    sync.Mutex
	last  [ctlCount]time.Time
	hold  time.Duration
	clock func() time.Time
}

// NewLatch creates a latch using the wall clock
func NewLatch() *Latch {
	return &Latch{hold: latchHold, clock: time.Now}
}

// HandleKey records a press and returns the command it maps to, if any.
func (l *Latch) HandleKey(ev *tcell.EventKey) Command {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return CmdQuit
	case tcell.KeyUp:
		l.press(ctlThrust)
	case tcell.KeyLeft:
		l.press(ctlLeft)
	case tcell.KeyRight:
		l.press(ctlRight)
	case tcell.KeyDown:
		l.release()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			l.press(ctlThrust)
		case 'a', 'A':
			l.press(ctlLeft)
		case 'd', 'D':
			l.press(ctlRight)
		case 's', 'S':
			l.release()
		case ' ':
			l.press(ctlFire)
		case 'p', 'P':
			return CmdPause
		case 'r', 'R':
			return CmdRestart
		case 'q', 'Q':
			return CmdQuit
		}
	}
	return CmdNone
}

func (l *Latch) press(c control) {
	l.mu.Lock()
	l.last[c] = l.clock()
	l.mu.Unlock()
}

// release drops every held key at once; down/s act as a brake.
func (l *Latch) release() {
	l.mu.Lock()
	l.last = [ctlCount]time.Time{}
	l.mu.Unlock()
}

// Poll implements game.InputSource
func (l *Latch) Poll() game.Input {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock()
	held := func(c control) bool {
		return !l.last[c].IsZero() && now.Sub(l.last[c]) < l.hold
	}
	return game.Input{
		Thrust: held(ctlThrust),
		Left:   held(ctlLeft),
		Right:  held(ctlRight),
		Fire:   held(ctlFire),
	}
}

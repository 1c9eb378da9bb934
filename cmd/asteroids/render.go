package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/ensured/cardano-degen-club-sub001/game"
)

var (
	styleHUD      = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleShip     = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleShield   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleAsteroid = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleBoss     = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleBullet   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleBossShot = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	styleLaser    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	stylePowerUp  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleSpark    = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleDust     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleOverlay  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

// shipGlyphs are indexed by heading in eighths of a turn, starting at +X.
var shipGlyphs = [8]rune{'>', '\\', 'v', '/', '<', '\\', '^', '/'}

// Renderer draws the game on a tcell screen. The top row is the HUD; the
// world is scaled into the rest.
type Renderer struct {
	screen tcell.Screen
	paused func() bool
	status func() string
}

// NewRenderer draws to screen. paused and status may be nil.
func NewRenderer(screen tcell.Screen, paused func() bool, status func() string) *Renderer {
	return &Renderer{screen: screen, paused: paused, status: status}
}

// Render implements game.Renderer
func (r *Renderer) Render(s *game.State) error {
	r.screen.Clear()
	cols, rows := r.screen.Size()
	if cols < 20 || rows < 5 {
		r.text(0, 0, "terminal too small", styleHUD)
		r.screen.Show()
		return nil
	}
	v := viewport{cols: cols, rows: rows - 1, w: s.Width, h: s.Height}

	for _, p := range s.Particles {
		fade := p.Fade(s.Now)
		if fade <= 0 {
			continue
		}
		ch, st := '.', styleDust
		if p.Kind == game.ParticleExplosion {
			st = styleSpark
			if fade > 0.5 {
				ch = '*'
			}
		}
		r.put(v, p.X, p.Y, ch, st)
	}

	for _, a := range s.Asteroids {
		r.asteroid(v, a)
	}

	for _, p := range s.PowerUps {
		if p.Visible(s.Now) {
			r.put(v, p.X, p.Y, game.PowerUpDefs[p.Type].Symbol, stylePowerUp)
		}
	}
	for _, b := range s.Bullets {
		r.put(v, b.X, b.Y, '.', styleBullet)
	}
	for _, b := range s.BossBullets {
		r.put(v, b.X, b.Y, 'o', styleBossShot)
	}

	if s.LaserActive && s.Ship.Alive {
		x1, y1, x2, y2 := game.LaserBeam(s.Ship)
		r.line(v, x1, y1, x2, y2, '-', styleLaser)
	}
	r.ship(v, s)

	r.hud(cols, s)
	switch {
	case s.GameOver:
		r.banner(cols, rows, fmt.Sprintf(" GAME OVER  score %d  [r] restart  [q] quit ", s.Score))
	case r.paused != nil && r.paused():
		r.banner(cols, rows, " PAUSED  [p] resume ")
	}
	r.screen.Show()
	return nil
}

// viewport maps world coordinates to cells below the HUD row.
type viewport struct {
	cols, rows int
	w, h       float64
}

func (v viewport) cell(x, y float64) (int, int) {
	cx := int(game.Wrap(x, v.w) / v.w * float64(v.cols))
	cy := int(game.Wrap(y, v.h) / v.h * float64(v.rows))
	if cx >= v.cols {
		cx = v.cols - 1
	}
	if cy >= v.rows {
		cy = v.rows - 1
	}
	return cx, cy + 1
}

func (r *Renderer) put(v viewport, x, y float64, ch rune, st tcell.Style) {
	cx, cy := v.cell(x, y)
	r.screen.SetContent(cx, cy, ch, nil, st)
}

func (r *Renderer) line(v viewport, x1, y1, x2, y2 float64, ch rune, st tcell.Style) {
	// one sample per half cell along the longer axis
	stepX := v.w / float64(v.cols) / 2
	steps := int(math.Hypot(x2-x1, y2-y1)/stepX) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x, y := x1+(x2-x1)*t, y1+(y2-y1)*t
		if x < 0 || x >= v.w || y < 0 || y >= v.h {
			// the beam does not wrap
			return
		}
		r.put(v, x, y, ch, st)
	}
}

func (r *Renderer) asteroid(v viewport, a *game.Asteroid) {
	st, ch := styleAsteroid, '#'
	if a.IsBoss {
		st, ch = styleBoss, '@'
	}
	cos, sin := math.Cos(a.Rotation), math.Sin(a.Rotation)
	for _, p := range a.Outline {
		x := a.X + p.X*cos - p.Y*sin
		y := a.Y + p.X*sin + p.Y*cos
		r.put(v, x, y, ch, st)
	}
	r.put(v, a.X, a.Y, ch, st)
	if a.IsBoss {
		cx, cy := v.cell(a.X, a.Y)
		r.text(cx-1, cy, fmt.Sprintf("%d", a.Health), styleBoss)
	}
}

func (r *Renderer) ship(v viewport, s *game.State) {
	sh := s.Ship
	if !sh.Alive {
		return
	}
	if sh.ShieldHealth > 0 {
		glyph := 'o'
		if sh.RecentlyHit(s.Now) {
			glyph = '*'
		}
		cx, cy := v.cell(sh.X, sh.Y)
		for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			r.screen.SetContent(cx+d[0], cy+d[1], glyph, nil, styleShield)
		}
	}
	r.put(v, sh.X, sh.Y, headingGlyph(sh.Rotation), styleShip)
	if sh.Thrusting {
		bx := sh.X - math.Cos(sh.Rotation)*game.ShipSize
		by := sh.Y - math.Sin(sh.Rotation)*game.ShipSize
		r.put(v, bx, by, '~', styleSpark)
	}
}

// headingGlyph picks the arrow closest to rotation.
func headingGlyph(rotation float64) rune {
	eighth := int(math.Round(rotation/(math.Pi/4))) % 8
	if eighth < 0 {
		eighth += 8
	}
	return shipGlyphs[eighth]
}

func (r *Renderer) hud(cols int, s *game.State) {
	var b strings.Builder
	fmt.Fprintf(&b, "SCORE %d  LEVEL %d", s.Score, s.Level)
	if s.Ship.ShieldHealth > 0 {
		fmt.Fprintf(&b, "  SHIELD %d", s.Ship.ShieldHealth)
	}
	for t := game.PowerUpType(0); int(t) < game.PowerUpTypeCount; t++ {
		if left := s.Ship.Remaining(t, s.Now); left > 0 {
			fmt.Fprintf(&b, "  %s %.0fs", game.PowerUpDefs[t].Label, math.Ceil(left.Seconds()))
		}
	}
	if r.status != nil {
		if msg := r.status(); msg != "" {
			b.WriteString("  | ")
			b.WriteString(msg)
		}
	}
	line := b.String()
	if len(line) > cols {
		line = line[:cols]
	}
	r.text(0, 0, line, styleHUD)
}

func (r *Renderer) banner(cols, rows int, msg string) {
	x := (cols - len(msg)) / 2
	if x < 0 {
		x = 0
	}
	r.text(x, rows/2, msg, styleOverlay)
}

func (r *Renderer) text(x, y int, s string, st tcell.Style) {
	for i, ch := range []rune(s) {
		r.screen.SetContent(x+i, y, ch, nil, st)
	}
}

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ensured/cardano-degen-club-sub001/game"
)

const (
	maxNameLen        = 16
	defaultScoreLimit = 10
	maxScoreLimit     = 100
	// allowance between the token's issue time and the client's own clock
	runClockSlack = 5 * time.Second
)

var ErrImplausibleScore = errors.New("implausible score")

// Scoreboard accepts finished asteroids runs and serves the leaderboard.
type Scoreboard struct {
	db        *DB
	auth      *Auth
	analytics *Analytics
}

// NewScoreboard creates a scoreboard. analytics may be nil.
func NewScoreboard(db *DB, auth *Auth, analytics *Analytics) *Scoreboard {
	return &Scoreboard{db: db, auth: auth, analytics: analytics}
}

// StartRun issues a token for a new run.
func (s *Scoreboard) StartRun() (RunResponse, error) {
	run, err := s.auth.IssueRunToken()
	if err != nil {
		return RunResponse{}, err
	}
	if s.analytics != nil {
		s.analytics.Track(EvtRunStart, "", "", map[string]any{"runId": run.RunID})
	}
	return run, nil
}

// Submit validates and records a finished run. Each run is accepted once.
func (s *Scoreboard) Submit(sub ScoreSubmission, ip string) error {
	if !s.auth.checkRate(ip) {
		return ErrRateLimited
	}
	runID, issuedAt, err := s.auth.ValidateRunToken(sub.Token)
	if err != nil {
		return err
	}
	if err := checkPlausible(sub, s.auth.now().Sub(issuedAt)); err != nil {
		return err
	}

	name := strings.TrimSpace(sub.Name)
	if name == "" {
		name = "Pilot"
	}
	if r := []rune(name); len(r) > maxNameLen {
		name = string(r[:maxNameLen])
	}

	err = s.db.InsertScore(ScoreRow{
		RunID:      runID,
		Name:       name,
		Score:      sub.Score,
		Level:      sub.Level,
		DurationMs: sub.DurationMs,
		IP:         ip,
		CreatedAt:  s.auth.now(),
	})
	if err != nil {
		return err
	}
	if s.analytics != nil {
		s.analytics.Track(EvtScoreSubmit, "", "", map[string]any{
			"runId": runID,
			"score": sub.Score,
			"level": sub.Level,
		})
	}
	return nil
}

// checkPlausible rejects runs that could not have come from the game: a
// duration longer than the token has existed, a level ahead of the clock, or
// more points than the fastest possible scoring rate allows.
func checkPlausible(sub ScoreSubmission, sinceIssue time.Duration) error {
	if sub.Score < 0 || sub.Level < 1 || sub.DurationMs < 0 {
		return fmt.Errorf("%w: negative values", ErrImplausibleScore)
	}
	if time.Duration(sub.DurationMs)*time.Millisecond > sinceIssue+runClockSlack {
		return fmt.Errorf("%w: run longer than its token", ErrImplausibleScore)
	}
	if sub.Level > game.LevelAt(sub.DurationMs) {
		return fmt.Errorf("%w: level %d after %dms", ErrImplausibleScore, sub.Level, sub.DurationMs)
	}
	maxScore := (sub.DurationMs/1000 + 1) * game.MaxScoreRate
	if int64(sub.Score) > maxScore {
		return fmt.Errorf("%w: %d points in %dms", ErrImplausibleScore, sub.Score, sub.DurationMs)
	}
	return nil
}

// Top returns the leaderboard, clamping limit to a sane range.
func (s *Scoreboard) Top(limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = defaultScoreLimit
	}
	return s.db.TopScores(clampInt(limit, 1, maxScoreLimit))
}

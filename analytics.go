package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event types for analytics tracking
const (
	EvtConnect     = ActionConnect
	EvtDisconnect  = ActionDisconnect
	EvtJoin        = ActionJoin
	EvtLeave       = ActionLeave
	EvtMatchStart  = "match_start"
	EvtMatchEnd    = "match_end"
	EvtReset       = "reset"
	EvtRunStart    = "run_start"
	EvtScoreSubmit = "score_submit"
)

const (
	analyticsBufSize   = 1024
	analyticsBatchSize = 50
	analyticsFlushRate = 5 * time.Second
)

// AnalyticsEvent represents a single trackable event
type AnalyticsEvent struct {
	Type      string
	PlayerID  string
	MatchID   string
	Data      string // JSON metadata (optional)
	Timestamp time.Time

	// set for match start/end so the matches table can be maintained
	opponent string
	reason   string
}

// Analytics is the audit log. Events are queued without blocking and
// written in batches by a background goroutine.
type Analytics struct {
	db     *DB
	events chan AnalyticsEvent
	stop   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once

	flushEvery time.Duration
}

// NewAnalytics creates and starts the analytics background writer
func NewAnalytics(db *DB) *Analytics {
	return newAnalytics(db, analyticsFlushRate)
}

func newAnalytics(db *DB, flushEvery time.Duration) *Analytics {
	a := &Analytics{
		db:         db,
		events:     make(chan AnalyticsEvent, analyticsBufSize),
		stop:       make(chan struct{}),
		flushEvery: flushEvery,
	}
	a.wg.Add(1)
	go a.writer()
	return a
}

// Track enqueues an event for async persistence (non-blocking)
func (a *Analytics) Track(evtType, playerID, matchID string, data map[string]any) {
	evt := AnalyticsEvent{
		Type:      evtType,
		PlayerID:  playerID,
		MatchID:   matchID,
		Timestamp: time.Now().UTC(),
	}
	if len(data) > 0 {
		if b, err := json.Marshal(data); err == nil {
			evt.Data = string(b)
		}
	}
	a.enqueue(evt)
}

func (a *Analytics) enqueue(evt AnalyticsEvent) {
	select {
	case a.events <- evt:
	default:
		// Channel full, drop the event rather than stall a request
	}
}

// Action records a matchmaking action and its outcome.
func (a *Analytics) Action(playerID, action, status string) {
	a.Track(action, playerID, "", map[string]any{"status": status})
}

// MatchStarted records a new pairing.
func (a *Analytics) MatchStarted(matchID, playerA, playerB string) {
	data, _ := json.Marshal(map[string]string{"opponent": playerB})
	a.enqueue(AnalyticsEvent{
		Type:      EvtMatchStart,
		Data:      string(data),
		PlayerID:  playerA,
		MatchID:   matchID,
		Timestamp: time.Now().UTC(),
		opponent:  playerB,
	})
}

// MatchEnded records the end of a pairing.
func (a *Analytics) MatchEnded(matchID, playerA, playerB, reason string) {
	data, _ := json.Marshal(map[string]string{"reason": reason, "opponent": playerB})
	a.enqueue(AnalyticsEvent{
		Type:      EvtMatchEnd,
		Data:      string(data),
		PlayerID:  playerA,
		MatchID:   matchID,
		Timestamp: time.Now().UTC(),
		opponent:  playerB,
		reason:    reason,
	})
}

// Stop flushes pending events and shuts down the writer. Safe to call more
// than once.
func (a *Analytics) Stop() {
	a.once.Do(func() {
		close(a.stop)
		a.wg.Wait()
	})
}

// writer is the background goroutine that batches and writes events to DB
func (a *Analytics) writer() {
	defer a.wg.Done()

	batch := make([]AnalyticsEvent, 0, 64)
	ticker := time.NewTicker(a.flushEvery)
	defer ticker.Stop()

	for {
		select {
		case evt := <-a.events:
			batch = append(batch, evt)
			// Flush immediately if batch is large
			if len(batch) >= analyticsBatchSize {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-a.stop:
			// Drain whatever is already queued; later Track calls are dropped.
			for {
				select {
				case evt := <-a.events:
					batch = append(batch, evt)
				default:
					a.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes a batch of events to the database
func (a *Analytics) flush(events []AnalyticsEvent) {
	if a.db == nil || len(events) == 0 {
		return
	}
	db := a.db
	tx, err := db.conn.Begin()
	if err != nil {
		log.Printf("analytics: begin tx error: %v", err)
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(db.rebind(`INSERT INTO analytics_events (event_type, player_id, match_id, data, created_at) VALUES (?, ?, ?, ?, ?)`))
	if err != nil {
		log.Printf("analytics: prepare error: %v", err)
		return
	}
	defer stmt.Close()

	for _, evt := range events {
		pid := sql.NullString{String: evt.PlayerID, Valid: evt.PlayerID != ""}
		mid := sql.NullString{String: evt.MatchID, Valid: evt.MatchID != ""}
		data := sql.NullString{String: evt.Data, Valid: evt.Data != ""}
		ts := evt.Timestamp.Format(time.RFC3339)
		if _, err := stmt.Exec(evt.Type, pid, mid, data, ts); err != nil {
			log.Printf("analytics: insert error: %v", err)
		}

		switch evt.Type {
		case EvtMatchStart:
			_, err = tx.Exec(db.rebind(`INSERT INTO matches (id, player_a, player_b, started_at) VALUES (?, ?, ?, ?)`),
				evt.MatchID, evt.PlayerID, evt.opponent, ts)
		case EvtMatchEnd:
			_, err = tx.Exec(db.rebind(`UPDATE matches SET ended_at = ?, end_reason = ? WHERE id = ?`),
				ts, evt.reason, evt.MatchID)
		default:
			err = nil
		}
		if err != nil {
			log.Printf("analytics: match %s: %v", evt.MatchID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		log.Printf("analytics: commit error: %v", err)
	}
}

// Match returns the recorded pairing id, or nil if none was flushed yet.
func (a *Analytics) Match(id string) (*MatchRow, error) {
	if a.db == nil {
		return nil, nil
	}
	return a.db.GetMatch(id)
}

// EventCounts returns counts of each event type for the last days days
func (a *Analytics) EventCounts(days int) (map[string]int, error) {
	if a.db == nil {
		return map[string]int{}, nil
	}
	return a.db.EventCounts(time.Now().UTC().AddDate(0, 0, -days))
}

package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// DB wraps the SQL connection. SQLite is the default; postgres is supported
// for deployments that already run one.
type DB struct {
	conn   *sql.DB
	driver string
}

// ScoreRow is a finished asteroids run
type ScoreRow struct {
	RunID      string
	Name       string
	Score      int
	Level      int
	DurationMs int64
	IP         string
	CreatedAt  time.Time
}

// MatchRow is one pairing made by the matchmaking service
type MatchRow struct {
	ID        string `json:"id"`
	PlayerA   string `json:"playerA"`
	PlayerB   string `json:"playerB"`
	StartedAt string `json:"startedAt"`
	EndedAt   string `json:"endedAt,omitempty"`
	EndReason string `json:"endReason,omitempty"`
}

// OpenDB opens (or creates) the database for driver and runs migrations.
func OpenDB(driver, dsn string) (*DB, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	switch driver {
	case "sqlite":
		// Enable WAL mode for better concurrency
		if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
			conn.Close()
			return nil, err
		}
		if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
			conn.Close()
			return nil, err
		}
	case "postgres":
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, err
		}
	default:
		conn.Close()
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db := &DB{conn: conn, driver: driver}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// rebind rewrites ? placeholders as $1, $2, ... for postgres.
func (db *DB) rebind(query string) string {
	if db.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS settings (
	name TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS matches (
	id TEXT PRIMARY KEY,
	player_a TEXT NOT NULL,
	player_b TEXT NOT NULL,
	started_at TEXT NOT NULL,
	ended_at TEXT NOT NULL DEFAULT '',
	end_reason TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS analytics_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	event_type TEXT NOT NULL,
	player_id TEXT,
	match_id TEXT,
	data TEXT,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS scores (
	run_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	score INTEGER NOT NULL,
	level INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	ip TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_created ON analytics_events(created_at);
CREATE INDEX IF NOT EXISTS idx_scores_score ON scores(score DESC);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS settings (
	name TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS matches (
	id TEXT PRIMARY KEY,
	player_a TEXT NOT NULL,
	player_b TEXT NOT NULL,
	started_at TEXT NOT NULL,
	ended_at TEXT NOT NULL DEFAULT '',
	end_reason TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS analytics_events (
	id BIGSERIAL PRIMARY KEY,
	event_type TEXT NOT NULL,
	player_id TEXT,
	match_id TEXT,
	data TEXT,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS scores (
	run_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	score BIGINT NOT NULL,
	level INTEGER NOT NULL,
	duration_ms BIGINT NOT NULL,
	ip TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_created ON analytics_events(created_at);
CREATE INDEX IF NOT EXISTS idx_scores_score ON scores(score DESC);
`

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := sqliteSchema
	if db.driver == "postgres" {
		schema = postgresSchema
	}
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("DB migration error: %v", err)
	}
	return err
}

// GetSetting returns a stored setting, or "" if unset
func (db *DB) GetSetting(name string) string {
	var value string
	err := db.conn.QueryRow(db.rebind("SELECT value FROM settings WHERE name = ?"), name).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("get setting %s: %v", name, err)
		}
		return ""
	}
	return value
}

// SetSetting stores a setting, replacing any previous value
func (db *DB) SetSetting(name, value string) error {
	_, err := db.conn.Exec(db.rebind(
		`INSERT INTO settings (name, value) VALUES (?, ?)
		 ON CONFLICT (name) DO UPDATE SET value = excluded.value`),
		name, value,
	)
	return err
}

// InsertScore records a finished run. A run can be recorded only once;
// a second insert for the same run ID returns ErrRunUsed.
func (db *DB) InsertScore(s ScoreRow) error {
	res, err := db.conn.Exec(db.rebind(
		`INSERT INTO scores (run_id, name, score, level, duration_ms, ip, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (run_id) DO NOTHING`),
		s.RunID, s.Name, s.Score, s.Level, s.DurationMs, s.IP, s.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	if n == 0 {
		return ErrRunUsed
	}
	return nil
}

// TopScores returns the best runs, highest score first
func (db *DB) TopScores(limit int) ([]ScoreEntry, error) {
	rows, err := db.conn.Query(db.rebind(
		`SELECT name, score, level, duration_ms, created_at FROM scores
		 ORDER BY score DESC, created_at ASC LIMIT ?`),
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []ScoreEntry{}
	rank := 1
	for rows.Next() {
		var e ScoreEntry
		if err := rows.Scan(&e.Name, &e.Score, &e.Level, &e.DurationMs, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetMatch returns a recorded match, or nil if unknown
func (db *DB) GetMatch(id string) (*MatchRow, error) {
	row := db.conn.QueryRow(db.rebind(
		"SELECT id, player_a, player_b, started_at, ended_at, end_reason FROM matches WHERE id = ?"),
		id,
	)
	m := &MatchRow{}
	err := row.Scan(&m.ID, &m.PlayerA, &m.PlayerB, &m.StartedAt, &m.EndedAt, &m.EndReason)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// EventCounts returns counts of each event type recorded since t
func (db *DB) EventCounts(since time.Time) (map[string]int, error) {
	rows, err := db.conn.Query(db.rebind(
		`SELECT event_type, COUNT(*) FROM analytics_events
		 WHERE created_at >= ? GROUP BY event_type`),
		since.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var evtType string
		var count int
		if err := rows.Scan(&evtType, &count); err != nil {
			return nil, err
		}
		result[evtType] = count
	}
	return result, rows.Err()
}

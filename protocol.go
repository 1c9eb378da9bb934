package main

// Matchmaking actions accepted by POST /api/matchmaking
const (
	ActionConnect    = "connect"
	ActionDisconnect = "disconnect"
	ActionJoin       = "join"
	ActionLeave      = "leave"
)

// Result statuses
const (
	StatusConnected      = "connected"
	StatusDisconnected   = "disconnected"
	StatusWaiting        = "waiting"
	StatusMatched        = "matched"
	StatusAlreadyMatched = "already_matched"
	StatusLeft           = "left"
	StatusError          = "error"
	StatusOK             = "ok"
)

// MatchRequest is the body of POST /api/matchmaking
type MatchRequest struct {
	PlayerID string `json:"playerId"`
	Action   string `json:"action"`
}

// MatchResult is returned for every matchmaking action
type MatchResult struct {
	Status     string `json:"status"`
	OpponentID string `json:"opponentId,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Stats are the aggregate counts pushed to stream subscribers. Identities are
// never exposed.
type Stats struct {
	ConnectedCount     int `json:"connectedCount" msgpack:"connectedCount"`
	WaitingCount       int `json:"waitingCount" msgpack:"waitingCount"`
	ActiveMatchesCount int `json:"activeMatchesCount" msgpack:"activeMatchesCount"`
}

// WaitingList is the body of GET /api/matchmaking
type WaitingList struct {
	WaitingPlayers []string `json:"waitingPlayers"`
}

// RunResponse is returned when a client starts an asteroids run
type RunResponse struct {
	RunID string `json:"runId"`
	Token string `json:"token"`
}

// ScoreSubmission is the body of POST /api/scores
type ScoreSubmission struct {
	Token      string `json:"token"`
	Name       string `json:"name"`
	Score      int    `json:"score"`
	Level      int    `json:"level"`
	DurationMs int64  `json:"durationMs"`
}

// ScoreEntry is one leaderboard row
type ScoreEntry struct {
	Rank       int    `json:"rank"`
	Name       string `json:"name"`
	Score      int    `json:"score"`
	Level      int    `json:"level"`
	DurationMs int64  `json:"durationMs"`
	CreatedAt  string `json:"createdAt"`
}

// Leaderboard is the body of GET /api/scores
type Leaderboard struct {
	Scores []ScoreEntry `json:"scores"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status      string `json:"status"`
	Subscribers int    `json:"subscribers"`
	Streams     int    `json:"streams"`
}

// EventCountsResponse is the body of GET /api/analytics/events
type EventCountsResponse struct {
	Days   int            `json:"days"`
	Counts map[string]int `json:"counts"`
}

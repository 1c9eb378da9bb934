package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/skip2/go-qrcode"
)

const (
	maxBodySize    = 4096
	sseKeepAlive   = 25 * time.Second
	qrSize         = 256
	defaultDays    = 7
	maxDays        = 365
	adminKeyHeader = "X-Admin-Key"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

// APIError is an error that knows its HTTP status
type APIError interface {
	Error() string
	StatusCode() int
}

type httpError struct {
	status int
	msg    string
}

func (e httpError) Error() string   { return e.msg }
func (e httpError) StatusCode() int { return e.status }

func badRequest(msg string) error   { return httpError{http.StatusBadRequest, msg} }
func unauthorized(msg string) error { return httpError{http.StatusUnauthorized, msg} }
func notFound(msg string) error     { return httpError{http.StatusNotFound, msg} }

// ServerConfig wires the HTTP surface to its collaborators. Scores and
// Analytics may be nil, which disables the routes that need them.
type ServerConfig struct {
	Service   *MatchmakingService
	Hub       *Hub
	Auth      *Auth
	Scores    *Scoreboard
	Analytics *Analytics
	PublicURL string
	StaticDir string
	Logger    *log.Logger
}

type server struct {
	ServerConfig
	logger *log.Logger
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// NewRouter builds the HTTP routes
func NewRouter(cfg ServerConfig) *mux.Router {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &server{ServerConfig: cfg, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/api/matchmaking", s.handleAction).Methods(http.MethodPost)
	r.HandleFunc("/api/matchmaking", s.handleWaiting).Methods(http.MethodGet)
	r.HandleFunc("/api/matchmaking/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/matchmaking/events", s.handleEvents).Methods(http.MethodGet)
	r.HandleFunc("/api/matchmaking/ws", s.handleWS).Methods(http.MethodGet)
	r.HandleFunc("/api/matchmaking/invite", s.handleInvite).Methods(http.MethodGet)

	r.HandleFunc("/api/admin/matchmaking/reset", s.handleReset).Methods(http.MethodPost)

	if cfg.Scores != nil {
		r.HandleFunc("/api/runs", s.handleStartRun).Methods(http.MethodPost)
		r.HandleFunc("/api/scores", s.handleSubmitScore).Methods(http.MethodPost)
		r.HandleFunc("/api/scores", s.handleTopScores).Methods(http.MethodGet)
	}
	if cfg.Analytics != nil {
		r.HandleFunc("/api/analytics/events", s.handleEventCounts).Methods(http.MethodGet)
		r.HandleFunc("/api/admin/matches/{id}", s.handleMatch).Methods(http.MethodGet)
	}

	if cfg.StaticDir != "" {
		fs := http.FileServer(http.Dir(cfg.StaticDir))
		r.PathPrefix("/").Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-cache")
			fs.ServeHTTP(w, r)
		}))
	}
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status and a {status:"error"} body
func (s *server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "Internal Server Error"
	var apiErr APIError
	switch {
	case errors.As(err, &apiErr):
		status, msg = apiErr.StatusCode(), apiErr.Error()
	case errors.Is(err, ErrInvalidToken):
		status, msg = http.StatusUnauthorized, ErrInvalidToken.Error()
	case errors.Is(err, ErrRunUsed):
		status, msg = http.StatusConflict, ErrRunUsed.Error()
	case errors.Is(err, ErrRateLimited):
		status, msg = http.StatusTooManyRequests, ErrRateLimited.Error()
	case errors.Is(err, ErrImplausibleScore):
		status, msg = http.StatusUnprocessableEntity, ErrImplausibleScore.Error()
	default:
		s.logger.Printf("request error: %v", err)
	}
	writeJSON(w, status, MatchResult{Status: StatusError, Message: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		return badRequest("Invalid request body")
	}
	return nil
}

func (s *server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	res := s.Service.Handle(req.PlayerID, req.Action)
	status := http.StatusOK
	if res.Status == StatusError {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, res)
}

func (s *server) handleWaiting(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, WaitingList{WaitingPlayers: s.Service.Waiting()})
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Service.Stats())
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      StatusOK,
		Subscribers: s.Service.Subscribers(),
		Streams:     s.Hub.TotalConns(),
	})
}

func writeSSE(w http.ResponseWriter, st Stats) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

// handleEvents streams stats as server-sent events: one frame on open, then
// one per state change, until the client goes away.
func (s *server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, errors.New("streaming unsupported"))
		return
	}
	ip := extractIP(r)
	if !s.Hub.Acquire(ip) {
		writeJSON(w, http.StatusServiceUnavailable, MatchResult{Status: StatusError, Message: "too many connections"})
		return
	}
	defer s.Hub.Release(ip)

	// subscribed before the headers are flushed
	sub := s.Service.Subscribe()
	defer s.Service.Unsubscribe(sub)

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepAlive := time.NewTicker(sseKeepAlive)
	defer keepAlive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-sub.C:
			if !ok {
				// dropped by the broadcaster
				return
			}
			if err := writeSSE(w, st); err != nil {
				return
			}
			flusher.Flush()
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// handleWS streams stats over a WebSocket. ?format=msgpack selects binary
// frames.
func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	ip := extractIP(r)
	if !s.Hub.Acquire(ip) {
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	sub := s.Service.Subscribe()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Service.Unsubscribe(sub)
		s.Hub.Release(ip)
		s.logger.Printf("upgrade error: %v", err)
		return
	}

	binary := r.URL.Query().Get("format") == "msgpack"
	client := NewClient(s.Hub, conn, ip, binary, s.logger)
	s.Hub.Register(client)

	go client.WritePump()
	go client.Forward(sub)
	go client.ReadPump(func() {
		s.Service.Unsubscribe(sub)
		s.Hub.Release(ip)
	})
}

// handleInvite returns a QR code linking to a challenge against playerId.
func (s *server) handleInvite(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		s.writeError(w, badRequest("Missing playerId"))
		return
	}
	link := inviteURL(s.PublicURL, playerID)
	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		s.writeError(w, fmt.Errorf("qr encode: %w", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Invite-URL", link)
	w.Write(png)
}

func (s *server) handleReset(w http.ResponseWriter, r *http.Request) {
	if !s.Auth.CheckAdminKey(r.Header.Get(adminKeyHeader)) {
		s.writeError(w, unauthorized("Invalid admin key"))
		return
	}
	s.Service.Reset()
	if s.Analytics != nil {
		s.Analytics.Track(EvtReset, "", "", map[string]any{"ip": extractIP(r)})
	}
	writeJSON(w, http.StatusOK, MatchResult{Status: StatusOK})
}

func (s *server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.Scores.StartRun()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	var sub ScoreSubmission
	if err := decodeBody(w, r, &sub); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.Scores.Submit(sub, extractIP(r)); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MatchResult{Status: StatusOK})
}

func (s *server) handleTopScores(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultScoreLimit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	scores, err := s.Scores.Top(limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Leaderboard{Scores: scores})
}

func (s *server) handleEventCounts(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", defaultDays)
	if err != nil {
		s.writeError(w, err)
		return
	}
	days = clampInt(days, 1, maxDays)
	counts, err := s.Analytics.EventCounts(days)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EventCountsResponse{Days: days, Counts: counts})
}

func (s *server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if !s.Auth.CheckAdminKey(r.Header.Get(adminKeyHeader)) {
		s.writeError(w, unauthorized("Invalid admin key"))
		return
	}
	m, err := s.Analytics.Match(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	if m == nil {
		s.writeError(w, notFound("Match not found"))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest("Invalid " + key)
	}
	return n, nil
}

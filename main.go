// Command server runs the matchmaking and scoreboard HTTP service.
//
// POST /api/matchmaking takes {"playerId", "action"} and answers with a
// MatchResult. An unknown action or an empty playerId is rejected with
// 400 and {"status":"error"} carrying "Invalid action" or
// "Missing playerId"; neither touches matchmaking state.
//
// GET /api/matchmaking/events and /api/matchmaking/ws stream aggregate
// Stats. Admin routes under /api/admin require the X-Admin-Key header:
// POST /api/admin/matchmaking/reset clears all state and
// GET /api/admin/matches/{id} returns a recorded pairing.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := LoadConfig(".env", os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if cfg.HashKey != "" {
		hash, err := HashAdminKey(cfg.HashKey)
		if err != nil {
			log.Fatalf("hash admin key: %v", err)
		}
		fmt.Println(hash)
		return
	}

	db, err := OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	log.Printf("Database opened: %s (%s)", cfg.DBDriver, cfg.DBDSN)

	analytics := NewAnalytics(db)
	auth := NewAuth(db, cfg.JWTSecret, cfg.AdminKeyHash)
	if cfg.AdminKeyHash == "" {
		log.Printf("ADMIN_KEY_HASH not set, admin reset is disabled")
	}
	scores := NewScoreboard(db, auth, analytics)

	service := NewMatchmakingService(NewStatsBroadcaster(), analytics)

	hub := NewHub(cfg.MaxConnsPerIP, cfg.MaxTotalConns)
	go hub.Run()

	router := NewRouter(ServerConfig{
		Service:   service,
		Hub:       hub,
		Auth:      auth,
		Scores:    scores,
		Analytics: analytics,
		PublicURL: cfg.PublicURL,
		StaticDir: cfg.StaticDir,
	})

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Request contexts derive from baseCtx so open SSE streams end on shutdown
	baseCtx, cancelStreams := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:        cfg.Addr,
		Handler:     router,
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}

	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if cfg.StaticDir != "" {
			log.Printf("Serving static files from %s", cfg.StaticDir)
		}
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")

	hub.Stop()
	cancelStreams()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
		server.Close()
	}
	analytics.Stop()
	if err := db.Close(); err != nil {
		log.Printf("close database: %v", err)
	}
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ensured/cardano-degen-club-sub001/game"
)

const requestTimeout = 10 * time.Second

type runResponse struct {
	RunID string `json:"runId"`
	Token string `json:"token"`
}

type scoreSubmission struct {
	Token      string `json:"token"`
	Name       string `json:"name"`
	Score      int    `json:"score"`
	Level      int    `json:"level"`
	DurationMs int64  `json:"durationMs"`
}

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ScoreClient talks to the leaderboard API of a matchmaking server.
type ScoreClient struct {
	BaseURL string
	HTTP    *http.Client
}

// NewScoreClient creates a client for the server at baseURL
func NewScoreClient(baseURL string) *ScoreClient {
	return &ScoreClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: requestTimeout},
	}
}

// StartRun asks the server for a run token
func (c *ScoreClient) StartRun(ctx context.Context) (string, error) {
	var run runResponse
	if err := c.post(ctx, "/api/runs", struct{}{}, &run); err != nil {
		return "", fmt.Errorf("start run: %w", err)
	}
	return run.Token, nil
}

// Submit records a finished run
func (c *ScoreClient) Submit(ctx context.Context, sub scoreSubmission) error {
	if err := c.post(ctx, "/api/scores", sub, nil); err != nil {
		return fmt.Errorf("submit score: %w", err)
	}
	return nil
}

func (c *ScoreClient) post(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var eb errorBody
		if json.NewDecoder(resp.Body).Decode(&eb) == nil && eb.Message != "" {
			return fmt.Errorf("%s (%d)", eb.Message, resp.StatusCode)
		}
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// runTracker fetches a token when a run starts and submits the score once
// when it ends. Network calls happen off the loop goroutine.
type runTracker struct {
	client *ScoreClient
	name   string
	logger *log.Logger

	mu        sync.Mutex
	gen       int
	token     string
	submitted bool
	status    string
	wg        sync.WaitGroup
}

func newRunTracker(client *ScoreClient, name string, logger *log.Logger) *runTracker {
	if logger == nil {
		logger = log.Default()
	}
	return &runTracker{client: client, name: name, logger: logger}
}

// Start begins a new run, abandoning any previous one.
func (t *runTracker) Start(ctx context.Context) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.gen++
	gen := t.gen
	t.token = ""
	t.submitted = false
	t.status = ""
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		token, err := t.client.StartRun(ctx)
		t.mu.Lock()
		defer t.mu.Unlock()
		if gen != t.gen {
			return
		}
		if err != nil {
			t.logger.Printf("%v", err)
			t.status = "offline"
			return
		}
		t.token = token
	}()
}

// Finish submits the final state of the current run. Only the first call
// per run does anything.
func (t *runTracker) Finish(ctx context.Context, s *game.State) {
	if t == nil {
		return
	}
	t.mu.Lock()
	if t.submitted || t.token == "" {
		t.mu.Unlock()
		return
	}
	t.submitted = true
	gen := t.gen
	sub := scoreSubmission{
		Token:      t.token,
		Name:       t.name,
		Score:      s.Score,
		Level:      s.Level,
		DurationMs: s.Now.Milliseconds(),
	}
	t.status = "submitting..."
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		err := t.client.Submit(ctx, sub)
		t.mu.Lock()
		defer t.mu.Unlock()
		if gen != t.gen {
			return
		}
		if err != nil {
			t.logger.Printf("%v", err)
			t.status = "score not saved"
			return
		}
		t.status = "score saved"
	}()
}

// Status is a short message for the HUD
func (t *runTracker) Status() string {
	if t == nil {
		return ""
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Wait blocks until outstanding requests finish
func (t *runTracker) Wait() {
	if t != nil {
		t.wg.Wait()
	}
}

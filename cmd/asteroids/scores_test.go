package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ensured/cardano-degen-club-sub001/game"
)

type fakeLeaderboard struct {
	mu          sync.Mutex
	runs        int
	submissions []scoreSubmission
	reject      bool
}

func (f *fakeLeaderboard) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/runs", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.runs++
		n := f.runs
		f.mu.Unlock()
		json.NewEncoder(w).Encode(runResponse{RunID: "run", Token: "tok-" + string(rune('0'+n))})
	})
	mux.HandleFunc("/api/scores", func(w http.ResponseWriter, r *http.Request) {
		var sub scoreSubmission
		json.NewDecoder(r.Body).Decode(&sub)
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.reject {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(errorBody{Status: "error", Message: "implausible score"})
			return
		}
		f.submissions = append(f.submissions, sub)
		json.NewEncoder(w).Encode(errorBody{Status: "ok"})
	})
	return mux
}

func TestScoreClientErrorMessage(t *testing.T) {
	fake := &fakeLeaderboard{reject: true}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	c := NewScoreClient(srv.URL + "/")
	err := c.Submit(context.Background(), scoreSubmission{Token: "x"})
	if err == nil || !strings.Contains(err.Error(), "implausible score") {
		t.Errorf("err = %v", err)
	}
}

func waitToken(t *testing.T, tr *runTracker) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		tr.mu.Lock()
		ok := tr.token != ""
		tr.mu.Unlock()
		if ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("no run token")
}

func TestRunTrackerSubmitsOncePerRun(t *testing.T) {
	fake := &fakeLeaderboard{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	tr := newRunTracker(NewScoreClient(srv.URL), "Ace", nil)
	ctx := context.Background()
	st := game.NewState(800, 600)
	st.Score = 700
	st.Now = 42 * time.Second

	tr.Start(ctx)
	waitToken(t, tr)
	tr.Finish(ctx, st)
	tr.Finish(ctx, st)
	tr.Wait()

	tr.Start(ctx)
	waitToken(t, tr)
	tr.Finish(ctx, st)
	tr.Wait()

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.submissions) != 2 {
		t.Fatalf("submissions = %d, want 2", len(fake.submissions))
	}
	first, second := fake.submissions[0], fake.submissions[1]
	if first.Token == second.Token {
		t.Error("runs shared a token")
	}
	if first.Name != "Ace" || first.Score != 700 || first.DurationMs != 42000 || first.Level != 1 {
		t.Errorf("submission = %+v", first)
	}
	if tr.Status() != "score saved" {
		t.Errorf("status = %q", tr.Status())
	}
}

func TestRunTrackerOffline(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	tr := newRunTracker(NewScoreClient(srv.URL), "Ace", nil)
	tr.Start(context.Background())
	tr.Wait()
	tr.Finish(context.Background(), game.NewState(800, 600))
	tr.Wait()

	if tr.Status() != "offline" {
		t.Errorf("status = %q, want offline", tr.Status())
	}
}

func TestNilRunTracker(t *testing.T) {
	var tr *runTracker
	tr.Start(context.Background())
	tr.Finish(context.Background(), game.NewState(800, 600))
	tr.Wait()
	if tr.Status() != "" {
		t.Error("nil tracker has a status")
	}
}

package main

import (
	"testing"
	"time"
)

func TestHubConnectionLimits(t *testing.T) {
	h := NewHub(2, 3)

	if !h.Acquire("a") || !h.Acquire("a") {
		t.Fatal("first two streams from a refused")
	}
	if h.Acquire("a") {
		t.Error("third stream from a allowed past per-IP limit")
	}
	if !h.Acquire("b") {
		t.Fatal("stream from b refused")
	}
	if h.Acquire("c") {
		t.Error("stream allowed past total limit")
	}
	if h.TotalConns() != 3 {
		t.Errorf("TotalConns = %d, want 3", h.TotalConns())
	}

	h.Release("a")
	if !h.Acquire("c") {
		t.Error("released slot not reusable")
	}
}

func TestHubStopClosesClients(t *testing.T) {
	h := NewHub(5, 5)
	go h.Run()

	c := &Client{hub: h, send: make(chan []byte, 1)}
	h.Register(c)

	deadline := time.Now().Add(time.Second)
	for h.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(time.Millisecond)
	}

	h.Stop()
	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("unexpected message")
		}
	case <-time.After(time.Second):
		t.Fatal("send queue not closed on Stop")
	}

	// no-ops once stopped
	h.Register(c)
	h.Unregister(c)
}

func TestSendRawAfterClose(t *testing.T) {
	c := &Client{send: make(chan []byte, 1)}
	c.SendRaw([]byte("a"))
	c.SendRaw([]byte("dropped"))
	close(c.send)
	c.SendRaw([]byte("after close"))

	if got := string(<-c.send); got != "a" {
		t.Errorf("queued %q", got)
	}
}

package main

import "sync"

const subscriberBufSize = 16

// Subscriber receives stats frames on C until it is unsubscribed, at which
// point C is closed.
type Subscriber struct {
	C chan Stats

	mu     sync.Mutex
	closed bool
}

// offer queues st without blocking. It returns false if the subscriber is
// closed or too slow to keep up.
func (s *Subscriber) offer(st Stats) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.C <- st:
		return true
	default:
		return false
	}
}

func (s *Subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.C)
	}
}

// StatsBroadcaster fans stats out to every open stream.
type StatsBroadcaster struct {
	mu      sync.Mutex
	subs    map[*Subscriber]struct{}
	bufSize int
}

// NewStatsBroadcaster creates an empty broadcaster
func NewStatsBroadcaster() *StatsBroadcaster {
	return &StatsBroadcaster{
		subs:    make(map[*Subscriber]struct{}),
		bufSize: subscriberBufSize,
	}
}

// Subscribe registers a new subscriber whose first frame is initial.
func (b *StatsBroadcaster) Subscribe(initial Stats) *Subscriber {
	s := &Subscriber{C: make(chan Stats, b.bufSize)}
	s.C <- initial
	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()
	return s
}

// Unsubscribe removes s and closes its channel. Safe to call more than once.
func (b *StatsBroadcaster) Unsubscribe(s *Subscriber) {
	b.mu.Lock()
	delete(b.subs, s)
	b.mu.Unlock()
	s.close()
}

// Publish sends st to every subscriber. Subscribers that cannot take the
// frame are dropped once the pass is complete. It returns the number of
// subscribers that received the frame.
func (b *StatsBroadcaster) Publish(st Stats) int {
	b.mu.Lock()
	snapshot := make([]*Subscriber, 0, len(b.subs))
	for s := range b.subs {
		snapshot = append(snapshot, s)
	}
	b.mu.Unlock()

	var dead []*Subscriber
	sent := 0
	for _, s := range snapshot {
		if s.offer(st) {
			sent++
		} else {
			dead = append(dead, s)
		}
	}
	for _, s := range dead {
		b.Unsubscribe(s)
	}
	return sent
}

// Count returns the number of live subscribers
func (b *StatsBroadcaster) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

package main

import (
	"sync"

	"github.com/google/uuid"
)

// Recorder is notified of matchmaking activity. Calls are made while the
// service lock is held and must not block.
type Recorder interface {
	Action(playerID, action, status string)
	MatchStarted(matchID, playerA, playerB string)
	MatchEnded(matchID, playerA, playerB, reason string)
}

// MatchmakingService pairs players who ask for an opponent. All state lives
// in memory and is per process.
type MatchmakingService struct {
	mu        sync.Mutex
	connected map[string]struct{}
	// waiting keeps insertion order; waitingSet mirrors it for lookups
	waiting    []string
	waitingSet map[string]struct{}
	// pairs holds every active match in both directions
	pairs    map[string]string
	matchIDs map[string]string

	broadcaster *StatsBroadcaster
	recorder    Recorder
}

// NewMatchmakingService creates an empty service publishing to b. rec may be nil.
func NewMatchmakingService(b *StatsBroadcaster, rec Recorder) *MatchmakingService {
	if b == nil {
		b = NewStatsBroadcaster()
	}
	return &MatchmakingService{
		connected:   make(map[string]struct{}),
		waitingSet:  make(map[string]struct{}),
		pairs:       make(map[string]string),
		matchIDs:    make(map[string]string),
		broadcaster: b,
		recorder:    rec,
	}
}

// ValidAction reports whether action is one of the four matchmaking actions.
func ValidAction(action string) bool {
	switch action {
	case ActionConnect, ActionDisconnect, ActionJoin, ActionLeave:
		return true
	}
	return false
}

// Handle applies action for playerID and returns the outcome.
func (m *MatchmakingService) Handle(playerID, action string) MatchResult {
	if !ValidAction(action) {
		return MatchResult{Status: StatusError, Message: "Invalid action"}
	}
	if playerID == "" {
		return MatchResult{Status: StatusError, Message: "Missing playerId"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var res MatchResult
	switch action {
	case ActionConnect:
		res = m.connectLocked(playerID)
	case ActionDisconnect:
		res = m.disconnectLocked(playerID)
	case ActionJoin:
		res = m.joinLocked(playerID)
	case ActionLeave:
		res = m.leaveLocked(playerID)
	}
	if m.recorder != nil {
		m.recorder.Action(playerID, action, res.Status)
	}
	return res
}

func (m *MatchmakingService) connectLocked(playerID string) MatchResult {
	m.connected[playerID] = struct{}{}
	m.publishLocked()
	return MatchResult{Status: StatusConnected}
}

func (m *MatchmakingService) disconnectLocked(playerID string) MatchResult {
	delete(m.connected, playerID)
	m.removeWaitingLocked(playerID)
	m.unpairLocked(playerID, ActionDisconnect)
	m.publishLocked()
	return MatchResult{Status: StatusDisconnected}
}

func (m *MatchmakingService) leaveLocked(playerID string) MatchResult {
	m.removeWaitingLocked(playerID)
	m.unpairLocked(playerID, ActionLeave)
	m.publishLocked()
	return MatchResult{Status: StatusLeft}
}

func (m *MatchmakingService) joinLocked(playerID string) MatchResult {
	if _, ok := m.pairs[playerID]; ok {
		return MatchResult{Status: StatusAlreadyMatched}
	}
	if _, ok := m.waitingSet[playerID]; ok {
		return MatchResult{Status: StatusWaiting}
	}
	if len(m.waiting) == 0 {
		m.waiting = append(m.waiting, playerID)
		m.waitingSet[playerID] = struct{}{}
		m.publishLocked()
		return MatchResult{Status: StatusWaiting}
	}

	opponent := m.waiting[0]
	m.removeWaitingLocked(opponent)
	m.pairs[playerID] = opponent
	m.pairs[opponent] = playerID
	id := uuid.NewString()
	m.matchIDs[playerID] = id
	m.matchIDs[opponent] = id
	if m.recorder != nil {
		m.recorder.MatchStarted(id, opponent, playerID)
	}
	m.publishLocked()
	return MatchResult{Status: StatusMatched, OpponentID: opponent}
}

// unpairLocked ends playerID's match, releasing its recorded opponent too.
func (m *MatchmakingService) unpairLocked(playerID, reason string) {
	opponent, ok := m.pairs[playerID]
	if !ok {
		return
	}
	id := m.matchIDs[playerID]
	delete(m.pairs, playerID)
	delete(m.pairs, opponent)
	delete(m.matchIDs, playerID)
	delete(m.matchIDs, opponent)
	if m.recorder != nil {
		m.recorder.MatchEnded(id, playerID, opponent, reason)
	}
}

func (m *MatchmakingService) removeWaitingLocked(playerID string) {
	if _, ok := m.waitingSet[playerID]; !ok {
		return
	}
	delete(m.waitingSet, playerID)
	for i, id := range m.waiting {
		if id == playerID {
			m.waiting = append(m.waiting[:i], m.waiting[i+1:]...)
			break
		}
	}
}

// Waiting returns the waiting players, oldest first.
func (m *MatchmakingService) Waiting() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.waiting))
	copy(out, m.waiting)
	return out
}

// Opponent returns playerID's current opponent, if any.
func (m *MatchmakingService) Opponent(playerID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	op, ok := m.pairs[playerID]
	return op, ok
}

// Stats returns the current aggregate counts
func (m *MatchmakingService) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statsLocked()
}

func (m *MatchmakingService) statsLocked() Stats {
	return Stats{
		ConnectedCount:     len(m.connected),
		WaitingCount:       len(m.waiting),
		ActiveMatchesCount: len(m.pairs),
	}
}

func (m *MatchmakingService) publishLocked() {
	m.broadcaster.Publish(m.statsLocked())
}

// Reset clears every set, ending all matches.
func (m *MatchmakingService) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for p, op := range m.pairs {
		if p < op && m.recorder != nil {
			m.recorder.MatchEnded(m.matchIDs[p], p, op, "reset")
		}
	}
	m.connected = make(map[string]struct{})
	m.waiting = nil
	m.waitingSet = make(map[string]struct{})
	m.pairs = make(map[string]string)
	m.matchIDs = make(map[string]string)
	m.publishLocked()
}

// Subscribe opens a stats stream. Registration happens under the service
// lock, so the initial frame always precedes frames from later mutations.
func (m *MatchmakingService) Subscribe() *Subscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.broadcaster.Subscribe(m.statsLocked())
}

// Unsubscribe closes a stats stream
func (m *MatchmakingService) Unsubscribe(s *Subscriber) {
	m.broadcaster.Unsubscribe(s)
}

// Subscribers returns the number of open stats streams
func (m *MatchmakingService) Subscribers() int {
	return m.broadcaster.Count()
}

package session

import (
	"sync"
	"time"

	"github.com/segmentio/ksuid"
)

type entry struct {
	mu       sync.Mutex
	flow     Flow
	lastSeen time.Time
}

// Manager keys Flows by session id. Each session's actions run under that
// session's lock, so one user action is in flight at a time per session;
// independent sessions never block each other.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	idleTTL  time.Duration
}

func NewManager(idleTTL time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*entry),
		idleTTL:  idleTTL,
	}
}

// NewID mints a fresh session identifier.
func (m *Manager) NewID() string {
	return ksuid.New().String()
}

func (m *Manager) get(id string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		e = &entry{flow: NewFlow(), lastSeen: time.Now()}
		m.sessions[id] = e
	}
	return e
}

// Do runs fn with the session's current Flow and stores whatever Flow fn
// returns. The session lock is held for the whole call, including any slow
// generation inside fn.
func (m *Manager) Do(id string, fn func(Flow) Flow) {
	e := m.get(id)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.flow = fn(e.flow)
	e.lastSeen = time.Now()
}

// Peek returns the session's current Flow without advancing it.
func (m *Manager) Peek(id string) Flow {
	e := m.get(id)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastSeen = time.Now()
	return e.flow
}

// EvictIdle drops sessions unused for longer than the idle TTL and returns
// how many were removed. Pending generations in those sessions are lost.
func (m *Manager) EvictIdle(now time.Time) int {
	if m.idleTTL <= 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) > m.idleTTL {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

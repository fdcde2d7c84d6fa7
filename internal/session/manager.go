// Package session keeps one view router per browser tab on top of the
// shared gazette store.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bilgisen/gazette/internal/gazette"
	"github.com/bilgisen/gazette/internal/logger"
)

// ErrNotFound reports an unknown or expired session id
var ErrNotFound = errors.New("session not found")

type Manager struct {
	store *gazette.Store
	now   func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(store *gazette.Store) *Manager {
	return &Manager{
		store:    store,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create opens a new session on the home view
func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString(), m.store, m.now())

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	logger.Debug().Str("session", s.ID).Msg("Session created")
	return s
}

// Get returns a live session and refreshes its idle clock
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	s.touch(m.now())
	return s, nil
}

// Prune drops sessions idle for longer than idle and returns how many went
func (m *Manager) Prune(idle time.Duration) int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	pruned := 0
	for id, s := range m.sessions {
		if s.idleSince(now) > idle {
			delete(m.sessions, id)
			pruned++
		}
	}
	return pruned
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

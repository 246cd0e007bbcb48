package session

import (
	"context"
	"sync"
	"time"

	"github.com/lucasrodor/projeto-financeiro/pkg/logger"
)

// MemoryStore is an in-process session store
// ⭐ SSOT: sessões em memória só aqui
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   *logger.Logger
}

// NewMemoryStore creates a store; sessions idle longer than ttl expire
func NewMemoryStore(ttl time.Duration, log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   log,
	}
}

// Get retrieves a session
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, exists := m.sessions[id]
	if !exists || m.expired(s) {
		return nil, ErrNotFound
	}

	// cópia rasa: o chamador sobrescreve slots inteiros, nunca muta os valores
	cp := *s
	return &cp, nil
}

// Save stores the session, last write wins
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *s
	cp.UpdatedAt = time.Now()
	s.UpdatedAt = cp.UpdatedAt
	m.sessions[s.ID] = &cp
	return nil
}

// CleanStale removes expired sessions and returns how many were removed
func (m *MemoryStore) CleanStale() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if m.expired(s) {
			delete(m.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		m.logger.WithField("removed", removed).Debug("Removed stale sessions")
	}
	return removed
}

// Len returns the number of stored sessions
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemoryStore) expired(s *Session) bool {
	return m.ttl > 0 && time.Since(s.UpdatedAt) > m.ttl
}

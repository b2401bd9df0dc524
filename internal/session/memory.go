package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in a process-local map. Used in tests and as a
// fallback when Redis is not configured; state is lost on restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[int64]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]Session)}
}

func (m *MemoryStore) Get(_ context.Context, chatID int64) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[chatID], nil
}

func (m *MemoryStore) Update(_ context.Context, chatID int64, fn func(*Session)) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.sessions[chatID]
	fn(&sess)
	m.sessions[chatID] = sess
	return sess, nil
}

func (m *MemoryStore) Clear(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
	return nil
}

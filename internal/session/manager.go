package session

import (
	"context"
	"sync"
	"time"

	"github.com/carcarahealth/glica/internal/apperrors"

	"github.com/google/uuid"
)

// Store keeps care-flow sessions between requests.
type Store interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// Manager is the in-memory session store.
type Manager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewManager creates an in-memory session store.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create starts a new session at the home screen.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	session := NewSession(uuid.NewString())
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return copyOf(session), nil
}

// Get returns the session by identifier.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, exists := m.sessions[id]
	if !exists {
		return nil, apperrors.ErrSessionNotFound
	}
	return copyOf(session), nil
}

// Save stores the session state.
func (m *Manager) Save(ctx context.Context, session *Session) error {
	session.UpdatedAt = time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = copyOf(session)
	return nil
}

// Delete removes the session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (m *Manager) Close() error {
	return nil
}

func copyOf(session *Session) *Session {
	copied := *session
	return &copied
}

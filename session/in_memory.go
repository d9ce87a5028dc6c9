package session

import (
	"sync"

	"github.com/hupe1980/promptdesk/core"
)

// InMemoryStore is a volatile SessionStore implementation storing sessions in
// a process local map. It is safe for concurrent access and best suited for
// tests or ephemeral demo servers. Each returned session is cloned to prevent
// external mutation of internal state.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*core.Session)}
}

// Get returns an existing session (clone) or creates a new one lazily.
func (s *InMemoryStore) Get(sessionID string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		return sess.Clone(), nil
	}
	return s.createSessionLocked(sessionID).Clone(), nil
}

// Append adds a message to an existing or newly created session.
func (s *InMemoryStore) Append(sessionID string, msg core.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = s.createSessionLocked(sessionID)
	}
	sess.AppendMessage(msg)
	return nil
}

// History returns the ordered message history for the session. Unknown
// sessions yield an empty history, not an error.
func (s *InMemoryStore) History(sessionID string) ([]core.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return []core.Message{}, nil
	}
	return sess.GetMessages(), nil
}

// Clear discards the history of a single session. Clearing an unknown
// session is a no-op.
func (s *InMemoryStore) Clear(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// ClearAll discards every session.
func (s *InMemoryStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]*core.Session)
	return nil
}

// createSessionLocked allocates and stores a new session; caller must already
// hold the write lock.
func (s *InMemoryStore) createSessionLocked(sessionID string) *core.Session {
	sess := core.NewSession(sessionID)
	s.sessions[sessionID] = sess
	return sess
}

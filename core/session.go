package core

import (
	"sync"
	"time"
)

// Session is a conversational container tracking an ordered message history.
// It is safe for concurrent access.
//
// Contract:
//   - AppendMessage updates the Updated timestamp
//   - GetMessages returns a defensive copy to avoid external mutation
//   - Clone performs a deep copy of the message slice for safe divergence.
type Session struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
	mu       sync.RWMutex
}

// NewSession creates a new empty session with the given ID.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{ID: id, Messages: []Message{}, Created: now, Updated: now}
}

// AppendMessage appends a message to the history updating the Updated timestamp.
func (s *Session) AppendMessage(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, msg)
	s.Updated = time.Now()
}

// GetMessages returns a defensive copy of the full message slice.
func (s *Session) GetMessages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	messages := make([]Message, len(s.Messages))
	copy(messages, s.Messages)
	return messages
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{ID: s.ID, Messages: make([]Message, len(s.Messages)), Created: s.Created, Updated: s.Updated}
	copy(clone.Messages, s.Messages)
	return clone
}

// SessionStore persists sessions and their evolving message history.
// Implementations must be safe for concurrent use; Get creates the session
// lazily if it does not exist yet.
type SessionStore interface {
	Get(sessionID string) (*Session, error)
	Append(sessionID string, msg Message) error
	History(sessionID string) ([]Message, error)
	Clear(sessionID string) error
	ClearAll() error
}

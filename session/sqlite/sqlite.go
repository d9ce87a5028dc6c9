// Package sqlite provides a durable core.SessionStore backed by a SQLite
// database file. It keeps chat history across process restarts and is safe
// for the small number of concurrent request workers this application runs.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/hupe1980/promptdesk/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT    NOT NULL,
	role       TEXT    NOT NULL,
	content    TEXT    NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, id);
`

// Store is a SQLite backed SessionStore. Sessions are materialized lazily:
// a session exists exactly when it has at least one message.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at dsn and ensures the schema.
// A plain file path is a valid dsn for the modernc.org/sqlite driver.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	// SQLite handles a single writer; serialize access through one
	// connection to avoid SQLITE_BUSY under concurrent appends.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create session schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Get returns the session with its full history, creating an empty one
// lazily for unknown IDs.
func (s *Store) Get(sessionID string) (*core.Session, error) {
	msgs, err := s.History(sessionID)
	if err != nil {
		return nil, err
	}
	sess := core.NewSession(sessionID)
	for _, msg := range msgs {
		sess.AppendMessage(msg)
	}
	return sess, nil
}

// Append persists a message at the end of the session's history.
func (s *Store) Append(sessionID string, msg core.Message) error {
	createdAt := msg.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	// Timestamps are stored as unix nanoseconds to stay independent of the
	// driver's time formatting.
	_, err := s.db.Exec(
		`INSERT INTO messages (session_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		sessionID, msg.Role, msg.Content, createdAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// History returns the ordered message history for the session. Unknown
// sessions yield an empty history, not an error.
func (s *Store) History(sessionID string) ([]core.Message, error) {
	rows, err := s.db.Query(
		`SELECT role, content, created_at FROM messages WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	msgs := []core.Message{}
	for rows.Next() {
		var msg core.Message
		var createdAt int64
		if err := rows.Scan(&msg.Role, &msg.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.CreatedAt = time.Unix(0, createdAt)
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return msgs, nil
}

// Clear discards the history of a single session.
func (s *Store) Clear(sessionID string) error {
	if _, err := s.db.Exec(`DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// ClearAll discards every session.
func (s *Store) ClearAll() error {
	if _, err := s.db.Exec(`DELETE FROM messages`); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}
	return nil
}

package core

import "time"

// Conversational roles. Providers map these onto their own wire formats.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single conversational turn. Messages are immutable once
// appended to a session; CreatedAt is set by the caller at append time.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserMessage builds a user message stamped with the current time.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content, CreatedAt: time.Now()}
}

// NewAssistantMessage builds an assistant message stamped with the current time.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content, CreatedAt: time.Now()}
}

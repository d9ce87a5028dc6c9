package model

import (
	"context"
	"fmt"

	"github.com/hupe1980/promptdesk/core"
)

// Request captures the normalized chat input: optional system instructions
// plus the full conversational history ending with the newest user message.
type Request struct {
	System   string         `json:"system,omitempty"`
	Messages []core.Message `json:"messages"`
}

// Response is the completed assistant reply.
type Response struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// ImageRequest describes one image generation call. Size follows the
// provider's "WIDTHxHEIGHT" string convention.
type ImageRequest struct {
	Prompt string `json:"prompt"`
	Size   string `json:"size,omitempty"`
}

// GeneratedImage carries the raw bytes of a generated image. The caller is
// responsible for persisting them; providers return transient URLs or
// base64 payloads that expire.
type GeneratedImage struct {
	Data     []byte `json:"-"`
	MimeType string `json:"mime_type"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", etc.
}

// ChatModel is the minimal interface the request router needs to drive a
// chat completion.
type ChatModel interface {
	Chat(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// ImageModel is the minimal interface the request router needs to drive
// image generation.
type ImageModel interface {
	GenerateImage(ctx context.Context, req ImageRequest) (*GeneratedImage, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockChatModel is a lightweight in-memory ChatModel useful for tests & examples.
type MockChatModel struct {
	info      Info
	responses map[string]string
	err       error
}

// NewMockChatModel constructs a MockChatModel.
func NewMockChatModel(name, provider string) *MockChatModel {
	return &MockChatModel{
		info:      Info{Name: name, Provider: provider},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockChatModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// FailWith makes every subsequent Chat call return err.
func (m *MockChatModel) FailWith(err error) { m.err = err }

// Chat implements ChatModel; replies with the canned response for the last
// message or a deterministic echo.
func (m *MockChatModel) Chat(ctx context.Context, req Request) (*Response, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}
	last := req.Messages[len(req.Messages)-1].Content
	text := m.responses[last]
	if text == "" {
		text = fmt.Sprintf("Mock response to: %s", last)
	}
	return &Response{Text: text, Model: m.info.Name}, nil
}

// Info implements ChatModel.
func (m *MockChatModel) Info() Info { return m.info }

// MockImageModel is a deterministic ImageModel for tests.
type MockImageModel struct {
	info Info
	data []byte
	err  error
}

// NewMockImageModel constructs a MockImageModel returning the given bytes.
func NewMockImageModel(data []byte) *MockImageModel {
	return &MockImageModel{
		info: Info{Name: "mock-image", Provider: "mock"},
		data: data,
	}
}

// FailWith makes every subsequent GenerateImage call return err.
func (m *MockImageModel) FailWith(err error) { m.err = err }

// GenerateImage implements ImageModel.
func (m *MockImageModel) GenerateImage(ctx context.Context, req ImageRequest) (*GeneratedImage, error) {
	if m.err != nil {
		return nil, m.err
	}
	if req.Prompt == "" {
		return nil, fmt.Errorf("no prompt provided")
	}
	cp := make([]byte, len(m.data))
	copy(cp, m.data)
	return &GeneratedImage{Data: cp, MimeType: "image/png"}, nil
}

// Info implements ImageModel.
func (m *MockImageModel) Info() Info { return m.info }

// Package openai provides implementations of model.ChatModel and
// model.ImageModel using the OpenAI Chat Completions and Images APIs. It
// adapts PromptDesk's normalized request/response structures into the SDK's
// message format and back.
package openai

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/hupe1980/promptdesk/core"
	"github.com/hupe1980/promptdesk/model"
)

// Options configure the OpenAI adapter.
// Fields mirror a subset of the Chat Completion / Images parameters
// intentionally kept minimal; extend via functional options without breaking
// callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	ImageModel          string
	ImageSize           string
}

// Model wraps the OpenAI APIs behind the generic model interfaces. The API
// key is read from the OPENAI_API_KEY environment variable by the SDK.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI adapter using the official client.
func NewModel(optFns ...func(o *Options)) *Model {
	client := openai.NewClient()
	return NewModelFromClient(&client, optFns...)
}

// NewModelFromClient creates a new OpenAI adapter from an existing client.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:               openai.ChatModelGPT4o,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
		ImageModel:          "dall-e-3",
		ImageSize:           "1024x1024",
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Chat implements model.ChatModel via the Chat Completions API.
func (m *Model) Chat(ctx context.Context, req model.Request) (*model.Response, error) {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req),
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	return &model.Response{
		Text:  resp.Choices[0].Message.Content,
		Model: m.opts.Model,
	}, nil
}

// buildMessages converts normalized contents into OpenAI chat messages.
func buildMessages(req model.Request) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, msg := range req.Messages {
		switch msg.Role {
		case core.RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case core.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			// Treat unknown roles as user.
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}
	return messages
}

// GenerateImage implements model.ImageModel via the Images API. The image is
// requested as a base64 payload so the caller can persist the bytes locally;
// provider-hosted URLs expire after a short window.
func (m *Model) GenerateImage(ctx context.Context, req model.ImageRequest) (*model.GeneratedImage, error) {
	size := req.Size
	if size == "" {
		size = m.opts.ImageSize
	}

	resp, err := m.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         req.Prompt,
		Model:          openai.ImageModel(m.opts.ImageModel),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize(size),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai image api error: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no image returned")
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}

	return &model.GeneratedImage{Data: data, MimeType: "image/png"}, nil
}

// Info returns metadata describing this OpenAI adapter.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:     m.opts.Model,
		Provider: "openai",
	}
}

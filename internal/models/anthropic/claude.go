// Package anthropic implements the chat model interface on Anthropic Claude.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/lewisedginton/cosmic_chatbot/internal/composer"
	"github.com/lewisedginton/cosmic_chatbot/internal/models"
	"github.com/lewisedginton/cosmic_chatbot/pkg/logger"
)

// Config holds configuration for the Claude model
type Config struct {
	APIKey    string
	ModelName string
	MaxTokens int
	Persona   string
	Logger    logger.Logger
}

// Model implements models.ChatModel using the Anthropic Messages API.
type Model struct {
	client    anthropic.Client
	modelName string
	maxTokens int64
	persona   string
	logger    logger.Logger
}

var _ models.ChatModel = (*Model)(nil)

// New creates a Claude model instance.
func New(cfg Config) (*Model, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if cfg.ModelName == "" {
		cfg.ModelName = string(anthropic.ModelClaudeSonnet4_5_20250929)
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}

	return &Model{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		modelName: cfg.ModelName,
		maxTokens: int64(cfg.MaxTokens),
		persona:   cfg.Persona,
		logger:    cfg.Logger,
	}, nil
}

// Name returns the model name.
func (m *Model) Name() string {
	return m.modelName
}

// StartChat opens a conversation seeded with prior turns. The Messages API is
// stateless, so the session carries the accumulated message list.
func (m *Model) StartChat(_ context.Context, history []composer.Turn) (models.ChatSession, error) {
	return &session{
		model:    m,
		messages: transformHistory(history),
	}, nil
}

type session struct {
	model    *Model
	messages []anthropic.MessageParam
}

// SendMessage appends the prompt, calls the API, and records the reply so the
// next call in this session sees the full exchange.
func (s *session) SendMessage(ctx context.Context, text string) (string, error) {
	s.messages = append(s.messages, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model.modelName),
		MaxTokens: s.model.maxTokens,
		Messages:  s.messages,
	}
	if s.model.persona != "" {
		params.System = []anthropic.TextBlockParam{{Text: s.model.persona}}
	}

	resp, err := s.model.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("claude api error: %w", err)
	}

	reply := extractText(resp)
	if reply == "" {
		return "", fmt.Errorf("claude returned an empty response")
	}

	s.messages = append(s.messages, resp.ToParam())
	return reply, nil
}

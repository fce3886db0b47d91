// Package openai implements the chat model interface on OpenAI's GPT models.
package openai

import (
	"context"
	"fmt"

	"github.com/lewisedginton/cosmic_chatbot/internal/composer"
	"github.com/lewisedginton/cosmic_chatbot/internal/models"
	"github.com/lewisedginton/cosmic_chatbot/pkg/logger"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Config holds configuration for the OpenAI model
type Config struct {
	APIKey    string
	ModelName string
	MaxTokens int
	Persona   string
	Logger    logger.Logger
}

// Model implements models.ChatModel using the Chat Completions API.
type Model struct {
	client    *openai.Client
	modelName string
	maxTokens int64
	persona   string
	logger    logger.Logger
}

var _ models.ChatModel = (*Model)(nil)

// New creates an OpenAI model instance.
func New(cfg Config) (*Model, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}

	client := openai.NewClient(option.WithAPIKey(cfg.APIKey))

	return &Model{
		client:    &client,
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

// StartChat opens a conversation seeded with prior turns. The Chat
// Completions API is stateless, so the session carries the message list,
// with the persona as a leading system message.
func (m *Model) StartChat(_ context.Context, history []composer.Turn) (models.ChatSession, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if m.persona != "" {
		messages = append(messages, openai.SystemMessage(m.persona))
	}
	messages = append(messages, transformHistory(history)...)

	return &session{model: m, messages: messages}, nil
}

type session struct {
	model    *Model
	messages []openai.ChatCompletionMessageParamUnion
}

// SendMessage appends the prompt, calls the API, and records the reply so the
// next call in this session sees the full exchange.
func (s *session) SendMessage(ctx context.Context, text string) (string, error) {
	s.messages = append(s.messages, openai.UserMessage(text))

	completion, err := s.model.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     s.model.modelName,
		MaxTokens: openai.Int(s.model.maxTokens),
		Messages:  s.messages,
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai returned an empty response")
	}

	reply := completion.Choices[0].Message.Content
	s.messages = append(s.messages, openai.AssistantMessage(reply))
	return reply, nil
}

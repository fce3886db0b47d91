// Package gemini implements the chat model interface on Google's Gemini API.
package gemini

import (
	"context"
	"fmt"

	"github.com/lewisedginton/cosmic_chatbot/internal/composer"
	"github.com/lewisedginton/cosmic_chatbot/internal/models"
	"github.com/lewisedginton/cosmic_chatbot/pkg/logger"
	"google.golang.org/genai"
)

// Config holds configuration for the Gemini model
type Config struct {
	APIKey    string
	ModelName string
	Persona   string
	Logger    logger.Logger
}

// Model implements models.ChatModel using the Gemini chat API.
type Model struct {
	client    *genai.Client
	modelName string
	persona   string
	logger    logger.Logger
}

var _ models.ChatModel = (*Model)(nil)

// New creates a Gemini model instance.
func New(ctx context.Context, cfg Config) (*Model, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("model name is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Model{
		client:    client,
		modelName: cfg.ModelName,
		persona:   cfg.Persona,
		logger:    cfg.Logger,
	}, nil
}

// Name returns the model name.
func (m *Model) Name() string {
	return m.modelName
}

// StartChat opens a Gemini chat seeded with prior turns.
func (m *Model) StartChat(ctx context.Context, history []composer.Turn) (models.ChatSession, error) {
	var generateCfg *genai.GenerateContentConfig
	if m.persona != "" {
		generateCfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(m.persona, genai.RoleUser),
		}
	}

	chat, err := m.client.Chats.Create(ctx, m.modelName, generateCfg, historyToContents(history))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini chat: %w", err)
	}

	return &session{chat: chat, logger: m.logger}, nil
}

func historyToContents(history []composer.Turn) []*genai.Content {
	if len(history) == 0 {
		return nil
	}
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		contents = append(contents, genai.NewContentFromText(turn.Text, genai.Role(turn.Role)))
	}
	return contents
}

type session struct {
	chat   *genai.Chat
	logger logger.Logger
}

// SendMessage sends the prompt and returns the concatenated text reply.
func (s *session) SendMessage(ctx context.Context, text string) (string, error) {
	resp, err := s.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", fmt.Errorf("gemini api error: %w", err)
	}

	reply := resp.Text()
	if reply == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return reply, nil
}

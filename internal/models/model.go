// Package models defines the chat model abstraction implemented by the
// provider-specific subpackages.
package models

import (
	"context"

	"github.com/lewisedginton/cosmic_chatbot/internal/composer"
)

// ChatModel starts conversations against an LLM provider.
type ChatModel interface {
	// Name returns the provider model identifier.
	Name() string

	// StartChat opens a conversation seeded with prior turns, oldest first.
	StartChat(ctx context.Context, history []composer.Turn) (ChatSession, error)
}

// ChatSession is a single stateful conversation.
type ChatSession interface {
	// SendMessage sends the user's prompt and returns the model's text reply.
	SendMessage(ctx context.Context, text string) (string, error)
}

package openai

import (
	"github.com/lewisedginton/cosmic_chatbot/internal/composer"
	"github.com/openai/openai-go"
)

// transformHistory converts conversation turns to chat completion messages.
// The composer's "model" role maps to the assistant role; anything else is
// treated as the user.
func transformHistory(history []composer.Turn) []openai.ChatCompletionMessageParamUnion {
	if len(history) == 0 {
		return nil
	}
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history))
	for _, turn := range history {
		if turn.Text == "" {
			continue
		}
		switch turn.Role {
		case composer.RoleModel:
			messages = append(messages, openai.AssistantMessage(turn.Text))
		default:
			messages = append(messages, openai.UserMessage(turn.Text))
		}
	}
	return messages
}

package anthropic

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/lewisedginton/cosmic_chatbot/internal/composer"
)

// transformHistory converts conversation turns to Anthropic message params.
// The composer's "model" role maps to the assistant role; anything else is
// treated as the user.
func transformHistory(history []composer.Turn) []anthropic.MessageParam {
	if len(history) == 0 {
		return nil
	}
	messages := make([]anthropic.MessageParam, 0, len(history))
	for _, turn := range history {
		if turn.Text == "" {
			continue
		}
		switch turn.Role {
		case composer.RoleModel:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(turn.Text)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Text)))
		}
	}
	return messages
}

// extractText concatenates the text blocks of a response.
func extractText(message *anthropic.Message) string {
	var text string
	for _, block := range message.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			text += textBlock.Text
		}
	}
	return text
}

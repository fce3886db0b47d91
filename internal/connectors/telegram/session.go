package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/lewisedginton/cosmic_chatbot/internal/composer"
)

// sender is the subset of the bot client the session needs.
type sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error)
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
}

// commandSession adapts one Telegram command exchange to the
// commands.Session interface.
type commandSession struct {
	sender  sender
	history *historyCache
	chatID  int64
	replyTo int
}

// ReplyPrivate replies to the invoker's message. Telegram has no ephemeral
// messages; replying threaded to the command is the closest equivalent.
func (s *commandSession) ReplyPrivate(ctx context.Context, text string) error {
	_, err := s.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          s.chatID,
		Text:            text,
		ReplyParameters: &tgmodels.ReplyParameters{MessageID: s.replyTo},
	})
	if err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// Defer shows a typing indicator while the model call runs. Telegram does
// not require an acknowledgement, so a failure here is not fatal.
func (s *commandSession) Defer(ctx context.Context) error {
	_, _ = s.sender.SendChatAction(ctx, &bot.SendChatActionParams{
		ChatID: s.chatID,
		Action: tgmodels.ChatActionTyping,
	})
	return nil
}

// FollowUp sends the reply to the chat and records it in the history cache
// so later conversations see it as context.
func (s *commandSession) FollowUp(ctx context.Context, text string) error {
	_, err := s.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: s.chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("failed to send follow-up: %w", err)
	}
	s.history.add(s.chatID, composer.ChannelMessage{AuthorID: botAuthorID, Text: text})
	return nil
}

// RecentMessages serves history from the connector's cache, newest first.
func (s *commandSession) RecentMessages(_ context.Context, limit int) ([]composer.ChannelMessage, error) {
	return s.history.recent(s.chatID, limit), nil
}

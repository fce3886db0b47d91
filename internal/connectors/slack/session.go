package slack

import (
	"context"
	"fmt"
	"sync"

	"github.com/lewisedginton/cosmic_chatbot/internal/composer"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
)

// api is the subset of the Slack client the session needs.
type api interface {
	PostEphemeralContext(ctx context.Context, channelID, userID string, options ...slack.MsgOption) (string, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error)
}

// acker acknowledges socket mode requests.
type acker interface {
	Ack(req socketmode.Request, payload ...interface{})
}

// commandSession adapts one slash command exchange to the commands.Session
// interface. Slack requires every slash command to be acked within its
// deadline, so both ReplyPrivate and Defer ack the request the first time
// either is called.
type commandSession struct {
	api     api
	socket  acker
	request *socketmode.Request
	userID  string
	channel string

	mu    sync.Mutex
	acked bool
}

// ReplyPrivate answers with an ephemeral message only the invoker sees.
func (s *commandSession) ReplyPrivate(ctx context.Context, text string) error {
	if s.ackOnce(map[string]interface{}{
		"response_type": "ephemeral",
		"text":          text,
	}) {
		return nil
	}

	_, err := s.api.PostEphemeralContext(ctx, s.channel, s.userID, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("failed to send ephemeral reply: %w", err)
	}
	return nil
}

// Defer acks the slash command with no payload so the follow-up can arrive
// after Slack's response deadline.
func (s *commandSession) Defer(_ context.Context) error {
	s.ackOnce()
	return nil
}

// FollowUp posts the reply to the channel for everyone to see.
func (s *commandSession) FollowUp(ctx context.Context, text string) error {
	_, _, err := s.api.PostMessageContext(ctx, s.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("failed to post follow-up: %w", err)
	}
	return nil
}

// RecentMessages fetches recent channel history. Slack returns messages
// newest first, which is the order the composer expects.
func (s *commandSession) RecentMessages(ctx context.Context, limit int) ([]composer.ChannelMessage, error) {
	resp, err := s.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: s.channel,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel history: %w", err)
	}

	messages := make([]composer.ChannelMessage, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		author := msg.User
		if author == "" {
			author = msg.BotID
		}
		messages = append(messages, composer.ChannelMessage{
			AuthorID: author,
			Text:     msg.Text,
		})
	}
	return messages, nil
}

// ackOnce acks the underlying request exactly once and reports whether this
// call performed the ack.
func (s *commandSession) ackOnce(payload ...interface{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.acked || s.request == nil {
		return false
	}
	s.acked = true
	s.socket.Ack(*s.request, payload...)
	return true
}

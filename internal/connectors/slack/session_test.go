package slack

import (
	"context"
	"testing"

	"github.com/lewisedginton/cosmic_chatbot/internal/composer"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	ephemeral []string
	posted    []string
	history   []slack.Message
}

func (f *fakeAPI) PostEphemeralContext(_ context.Context, _, _ string, _ ...slack.MsgOption) (string, error) {
	f.ephemeral = append(f.ephemeral, "sent")
	return "", nil
}

func (f *fakeAPI) PostMessageContext(_ context.Context, _ string, _ ...slack.MsgOption) (string, string, error) {
	f.posted = append(f.posted, "sent")
	return "", "", nil
}

func (f *fakeAPI) GetConversationHistoryContext(_ context.Context, _ *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error) {
	return &slack.GetConversationHistoryResponse{Messages: f.history}, nil
}

type fakeAcker struct {
	acks     int
	payloads [][]interface{}
}

func (f *fakeAcker) Ack(_ socketmode.Request, payload ...interface{}) {
	f.acks++
	f.payloads = append(f.payloads, payload)
}

func newTestSession(apiClient *fakeAPI, socket *fakeAcker) *commandSession {
	return &commandSession{
		api:     apiClient,
		socket:  socket,
		request: &socketmode.Request{},
		userID:  "U1",
		channel: "C1",
	}
}

func TestReplyPrivateAcksWithEphemeralPayload(t *testing.T) {
	apiClient := &fakeAPI{}
	socket := &fakeAcker{}
	session := newTestSession(apiClient, socket)

	require.NoError(t, session.ReplyPrivate(t.Context(), "just for you"))

	assert.Equal(t, 1, socket.acks)
	require.Len(t, socket.payloads[0], 1)
	payload := socket.payloads[0][0].(map[string]interface{})
	assert.Equal(t, "ephemeral", payload["response_type"])
	assert.Equal(t, "just for you", payload["text"])
	assert.Empty(t, apiClient.ephemeral, "ack carries the reply, no extra API call")
}

func TestReplyPrivateAfterDeferUsesPostEphemeral(t *testing.T) {
	apiClient := &fakeAPI{}
	socket := &fakeAcker{}
	session := newTestSession(apiClient, socket)

	require.NoError(t, session.Defer(t.Context()))
	require.NoError(t, session.ReplyPrivate(t.Context(), "late private reply"))

	assert.Equal(t, 1, socket.acks, "request acked exactly once")
	assert.Len(t, apiClient.ephemeral, 1)
}

func TestDeferAcksOnce(t *testing.T) {
	socket := &fakeAcker{}
	session := newTestSession(&fakeAPI{}, socket)

	require.NoError(t, session.Defer(t.Context()))
	require.NoError(t, session.Defer(t.Context()))

	assert.Equal(t, 1, socket.acks)
	assert.Empty(t, socket.payloads[0])
}

func TestFollowUpPostsToChannel(t *testing.T) {
	apiClient := &fakeAPI{}
	session := newTestSession(apiClient, &fakeAcker{})

	require.NoError(t, session.Defer(t.Context()))
	require.NoError(t, session.FollowUp(t.Context(), "visible to all"))

	assert.Len(t, apiClient.posted, 1)
}

func TestRecentMessagesMapsAuthors(t *testing.T) {
	apiClient := &fakeAPI{
		history: []slack.Message{
			{Msg: slack.Msg{User: "U1", Text: "newest"}},
			{Msg: slack.Msg{BotID: "B1", Text: "bot reply"}},
			{Msg: slack.Msg{User: "U2", Text: "oldest"}},
		},
	}
	session := newTestSession(apiClient, &fakeAcker{})

	messages, err := session.RecentMessages(t.Context(), 10)
	require.NoError(t, err)

	assert.Equal(t, []composer.ChannelMessage{
		{AuthorID: "U1", Text: "newest"},
		{AuthorID: "B1", Text: "bot reply"},
		{AuthorID: "U2", Text: "oldest"},
	}, messages)
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		command  string
		text     string
		wantName string
		wantText string
	}{
		{"/remember", "fact: likes telescopes", "remember", "likes telescopes"},
		{"/remember", "likes telescopes", "remember", "likes telescopes"},
		{"/chat", "message: what is a quasar?", "chat", "what is a quasar?"},
		{"/chat", "what is a quasar?", "chat", "what is a quasar?"},
		{"/chat", "   ", "chat", ""},
		{"/warp", "factor nine", "warp", "factor nine"},
	}

	for _, tt := range tests {
		name, text := parseCommand(slack.SlashCommand{Command: tt.command, Text: tt.text})
		assert.Equal(t, tt.wantName, name, "command %s %q", tt.command, tt.text)
		assert.Equal(t, tt.wantText, text, "command %s %q", tt.command, tt.text)
	}
}

package openai

import (
	"testing"

	"github.com/lewisedginton/cosmic_chatbot/internal/composer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformHistoryMapsRoles(t *testing.T) {
	messages := transformHistory([]composer.Turn{
		{Role: composer.RoleUser, Text: "hello"},
		{Role: composer.RoleModel, Text: "greetings"},
	})

	require.Len(t, messages, 2)
	assert.NotNil(t, messages[0].OfUser)
	assert.NotNil(t, messages[1].OfAssistant)
}

func TestTransformHistorySkipsEmptyTurns(t *testing.T) {
	messages := transformHistory([]composer.Turn{
		{Role: composer.RoleUser, Text: ""},
		{Role: composer.RoleUser, Text: "hi"},
	})

	require.Len(t, messages, 1)
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{ModelName: "gpt-4o"})
	assert.Error(t, err)

	_, err = New(Config{APIKey: "key"})
	assert.Error(t, err)

	m, err := New(Config{APIKey: "key", ModelName: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", m.Name())
}

func TestStartChatPrependsPersona(t *testing.T) {
	m, err := New(Config{APIKey: "key", ModelName: "gpt-4o", Persona: "You are an astrophysicist."})
	require.NoError(t, err)

	sess, err := m.StartChat(t.Context(), []composer.Turn{
		{Role: composer.RoleUser, Text: "hi"},
	})
	require.NoError(t, err)

	s := sess.(*session)
	require.Len(t, s.messages, 2)
	assert.NotNil(t, s.messages[0].OfSystem)
	assert.NotNil(t, s.messages[1].OfUser)
}

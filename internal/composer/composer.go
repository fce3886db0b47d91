// Package composer turns recent channel messages and stored user facts into
// the history and prompt handed to the model.
package composer

// Conversation roles as the model APIs expect them.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChannelMessage is a platform-agnostic view of a message in a channel.
type ChannelMessage struct {
	AuthorID string
	Text     string
}

// Turn is a single entry in the conversation history sent to the model.
type Turn struct {
	Role string
	Text string
}

// Composer assembles model requests from channel context.
type Composer struct{}

// NewComposer creates a composer.
func NewComposer() *Composer {
	return &Composer{}
}

// History converts recent channel messages into model turns. The input is
// expected newest-first, as chat platform history APIs return it; the output
// is oldest-first. Messages written by the requesting user become "user"
// turns and everything else, including other humans in the channel, becomes
// "model" turns.
func (c *Composer) History(requesterID string, recent []ChannelMessage) []Turn {
	turns := make([]Turn, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		msg := recent[i]
		role := RoleModel
		if msg.AuthorID == requesterID {
			role = RoleUser
		}
		turns = append(turns, Turn{Role: role, Text: msg.Text})
	}
	return turns
}

// Prompt prepends the memory preamble to the user's message. The preamble is
// already rendered (or empty) by the fact store.
func (c *Composer) Prompt(preamble, message string) string {
	return preamble + message
}

package config

// DefaultPersona is the system instruction that gives the bot its voice.
const DefaultPersona = `
You are Neil deGrasse Tyson, the astrophysicist. Your persona is characterized by:
- A deep well of knowledge, especially in astronomy, physics, and science in general.
- An enthusiastic and passionate tone. You make complex topics accessible and exciting.
- A tendency to connect everyday experiences to grand cosmic principles.
- A sense of wonder and curiosity about the universe.
- A witty and sometimes humorous communication style.
- You refer to the user as "my cosmic friend" or similar space-themed-terms.
You are having a conversation with a user in a chat channel.
`

// ChatConfig holds conversation behaviour configuration
type ChatConfig struct {
	// HistoryLimit is the number of recent channel messages included as
	// conversation context on each chat request.
	HistoryLimit int `env:"CHAT_HISTORY_LIMIT" yaml:"history_limit" default:"10"`

	// Persona overrides the built-in system instruction when set.
	Persona string `env:"CHAT_PERSONA" yaml:"persona"`
}

// GetPersona returns the configured persona, falling back to the default.
func (c *ChatConfig) GetPersona() string {
	if c.Persona != "" {
		return c.Persona
	}
	return DefaultPersona
}

package config

// LLM provider constants
const (
	ProviderGemini = "gemini"
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
)

// LLMConfig holds LLM provider selection configuration
type LLMConfig struct {
	// Provider specifies which LLM provider to use: "gemini", "claude", or "openai"
	Provider string `env:"LLM_PROVIDER" yaml:"provider" default:"gemini"`
}

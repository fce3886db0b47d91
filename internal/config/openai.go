package config

import "time"

// OpenAIConfig holds OpenAI-specific configuration
type OpenAIConfig struct {
	APIKey    string        `env:"OPENAI_API_KEY" yaml:"-"`
	Model     string        `env:"OPENAI_MODEL" yaml:"model" default:"gpt-4o"`
	MaxTokens int           `env:"OPENAI_MAX_TOKENS" yaml:"max_tokens" default:"1024"`
	Timeout   time.Duration `env:"OPENAI_TIMEOUT" yaml:"timeout" default:"30s"`
}

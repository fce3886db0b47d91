package config

import "time"

// AnthropicConfig holds Anthropic-specific configuration
type AnthropicConfig struct {
	APIKey    string        `env:"ANTHROPIC_API_KEY" yaml:"-"`
	Model     string        `env:"CLAUDE_MODEL" yaml:"model" default:"claude-sonnet-4-5-20250929"`
	MaxTokens int           `env:"CLAUDE_MAX_TOKENS" yaml:"max_tokens" default:"1024"`
	Timeout   time.Duration `env:"ANTHROPIC_TIMEOUT" yaml:"timeout" default:"30s"`
}

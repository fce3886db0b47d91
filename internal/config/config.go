package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/lewisedginton/cosmic_chatbot/pkg/logger"
)

// AppConfig holds all application configuration
type AppConfig struct {
	// Service configuration
	ServiceName string `env:"SERVICE_NAME" yaml:"service_name" default:"cosmic-chatbot"`
	Version     string `env:"VERSION" yaml:"version" default:"dev"`
	Environment string `env:"ENVIRONMENT" yaml:"environment" default:"development"`

	// Ops server configuration
	Port           int           `env:"PORT" yaml:"port" default:"8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" yaml:"request_timeout" default:"30s"`
	IdleTimeout    time.Duration `env:"IDLE_TIMEOUT" yaml:"idle_timeout" default:"60s"`

	// LLM provider selection
	LLM LLMConfig `yaml:"llm,inline"`

	// Provider credentials and model names
	Gemini    GeminiConfig    `yaml:"gemini,inline"`
	Anthropic AnthropicConfig `yaml:"anthropic,inline"`
	OpenAI    OpenAIConfig    `yaml:"openai,inline"`

	// Chat platform connectors
	Slack    SlackConfig    `yaml:"slack,inline"`
	Telegram TelegramConfig `yaml:"telegram,inline"`

	// Conversation behaviour
	Quota QuotaConfig `yaml:"quota,inline"`
	Chat  ChatConfig  `yaml:"chat,inline"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging,inline"`

	// Health and monitoring configuration
	Health     HealthConfig     `yaml:"health,inline"`
	Monitoring MonitoringConfig `yaml:"monitoring,inline"`
}

// Validate validates the configuration and returns an error if invalid
func (c *AppConfig) Validate() error {
	var result error

	validLevels := []string{"debug", "info", "warn", "error"}
	level := strings.ToLower(c.Logging.Level)
	valid := false
	for _, validLevel := range validLevels {
		if level == validLevel {
			valid = true
			break
		}
	}
	if !valid {
		result = multierror.Append(result, fmt.Errorf("log_level must be one of [debug, info, warn, error], got %q", c.Logging.Level))
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		result = multierror.Append(result, fmt.Errorf("log_format must be either 'json' or 'text', got %q", c.Logging.Format))
	}

	if c.Port < 1 || c.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("port must be between 1 and 65535, got %d", c.Port))
	}

	if c.RequestTimeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("request_timeout must be greater than 0"))
	}

	switch c.LLM.Provider {
	case ProviderGemini, ProviderClaude, ProviderOpenAI:
	default:
		result = multierror.Append(result, fmt.Errorf("llm_provider must be one of [gemini, claude, openai], got %q", c.LLM.Provider))
	}

	if c.Quota.DailyLimit <= 0 {
		result = multierror.Append(result, fmt.Errorf("quota_daily_limit must be greater than 0, got %d", c.Quota.DailyLimit))
	}

	if c.Chat.HistoryLimit <= 0 {
		result = multierror.Append(result, fmt.Errorf("chat_history_limit must be greater than 0, got %d", c.Chat.HistoryLimit))
	}

	if !c.Slack.Enabled() && !c.Telegram.Enabled() {
		result = multierror.Append(result, fmt.Errorf("at least one connector must be configured (Slack or Telegram)"))
	}

	return result
}

// GetLogLevel returns the parsed logger level
func (c *AppConfig) GetLogLevel() logger.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return logger.DebugLevel
	case "warn", "warning":
		return logger.WarnLevel
	case "error":
		return logger.ErrorLevel
	default:
		return logger.InfoLevel
	}
}

// IsProduction returns true if running in production environment
func (c *AppConfig) IsProduction() bool {
	return strings.ToLower(c.Environment) == "production"
}

// IsDevelopment returns true if running in development environment
func (c *AppConfig) IsDevelopment() bool {
	env := strings.ToLower(c.Environment)
	return env == "development" || env == "dev"
}

// LogConfig logs the current configuration (without sensitive data)
func (c *AppConfig) LogConfig(log logger.Logger) {
	log.Info("Application configuration loaded",
		logger.StringField("service_name", c.ServiceName),
		logger.StringField("version", c.Version),
		logger.StringField("environment", c.Environment),
		logger.IntField("port", c.Port),
		logger.StringField("llm_provider", c.LLM.Provider),
		logger.IntField("daily_quota_limit", c.Quota.DailyLimit),
		logger.IntField("history_limit", c.Chat.HistoryLimit),
		logger.BoolField("slack_enabled", c.Slack.Enabled()),
		logger.BoolField("telegram_enabled", c.Telegram.Enabled()),
		logger.StringField("log_level", c.Logging.Level),
		logger.StringField("log_format", c.Logging.Format),
		logger.BoolField("metrics_enabled", c.Monitoring.MetricsEnabled),
	)
}

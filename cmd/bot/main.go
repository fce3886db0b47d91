package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	appconfig "github.com/lewisedginton/cosmic_chatbot/internal/config"
	"github.com/lewisedginton/cosmic_chatbot/internal/server"
	pkgconfig "github.com/lewisedginton/cosmic_chatbot/pkg/config"
	"github.com/lewisedginton/cosmic_chatbot/pkg/logger"
)

func main() {
	// Load .env for local development; in deployment the environment is
	// already populated.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	var cfg appconfig.AppConfig
	if err := pkgconfig.GetConfigFromEnvVars(&cfg); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg := logger.NewLogger(logger.Config{
		Level:   cfg.GetLogLevel(),
		Format:  cfg.Logging.Format,
		Service: cfg.ServiceName,
	})
	cfg.LogConfig(logg)

	if err := checkProviderCredentials(&cfg); err != nil {
		logg.Error("Configuration error", logger.ErrorField(err))
		os.Exit(1)
	}

	srv, err := server.New(context.Background(), &cfg, logg)
	if err != nil {
		logg.Error("Failed to initialize server", logger.ErrorField(err))
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logg.Error("Server exited with error", logger.ErrorField(err))
		os.Exit(1)
	}

	logg.Info("Shutdown complete")
}

// checkProviderCredentials fails fast when the selected provider has no API
// key, rather than erroring on the first chat command.
func checkProviderCredentials(cfg *appconfig.AppConfig) error {
	switch cfg.LLM.Provider {
	case appconfig.ProviderGemini:
		if cfg.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable is required for the gemini provider")
		}
	case appconfig.ProviderClaude:
		if cfg.Anthropic.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable is required for the claude provider")
		}
	case appconfig.ProviderOpenAI:
		if cfg.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable is required for the openai provider")
		}
	}
	return nil
}

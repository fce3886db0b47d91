// Package server wires the bot's components together and manages their
// lifecycle.
package server

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // G108: pprof is intentionally enabled for debugging
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lewisedginton/cosmic_chatbot/internal/commands"
	"github.com/lewisedginton/cosmic_chatbot/internal/composer"
	appconfig "github.com/lewisedginton/cosmic_chatbot/internal/config"
	"github.com/lewisedginton/cosmic_chatbot/internal/connectors/slack"
	"github.com/lewisedginton/cosmic_chatbot/internal/connectors/telegram"
	"github.com/lewisedginton/cosmic_chatbot/internal/memory"
	"github.com/lewisedginton/cosmic_chatbot/internal/models"
	"github.com/lewisedginton/cosmic_chatbot/internal/models/anthropic"
	"github.com/lewisedginton/cosmic_chatbot/internal/models/gemini"
	"github.com/lewisedginton/cosmic_chatbot/internal/models/openai"
	"github.com/lewisedginton/cosmic_chatbot/internal/monitoring"
	"github.com/lewisedginton/cosmic_chatbot/internal/quota"
	"github.com/lewisedginton/cosmic_chatbot/pkg/httpmiddleware"
	"github.com/lewisedginton/cosmic_chatbot/pkg/logger"
	"github.com/lewisedginton/cosmic_chatbot/pkg/metrics"
)

// Base URLs probed by the readiness check per provider.
const (
	geminiCheckURL    = "https://generativelanguage.googleapis.com"
	anthropicCheckURL = "https://api.anthropic.com"
	openaiCheckURL    = "https://api.openai.com"
)

// Server encapsulates the bot's components and lifecycle management.
type Server struct {
	cfg               *appconfig.AppConfig
	log               logger.Logger
	metrics           *metrics.Metrics
	quota             *quota.Tracker
	memory            *memory.Store
	model             models.ChatModel
	registry          *commands.Registry
	slackConnector    *slack.Connector
	telegramConnector *telegram.Connector
	cancel            context.CancelFunc
}

// New creates a Server with all components initialized.
func New(ctx context.Context, cfg *appconfig.AppConfig, log logger.Logger) (*Server, error) {
	s := &Server{
		cfg:     cfg,
		log:     log,
		metrics: metrics.NewMetrics(log),
		quota: quota.NewTracker(quota.Config{
			DailyLimit: cfg.Quota.DailyLimit,
			Logger:     log,
		}),
		memory: memory.NewStore(memory.Config{Logger: log}),
	}

	model, err := s.createChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	s.model = model

	app := commands.NewApp(commands.Config{
		Quota:        s.quota,
		Memory:       s.memory,
		Composer:     composer.NewComposer(),
		Model:        s.model,
		HistoryLimit: cfg.Chat.HistoryLimit,
		Logger:       log,
		Metrics:      s.metrics,
	})
	s.registry = commands.NewAppRegistry(app)

	if cfg.Slack.Enabled() {
		s.slackConnector, err = slack.NewConnector(slack.Config{
			BotToken: cfg.Slack.BotToken,
			AppToken: cfg.Slack.AppToken,
			Debug:    cfg.Slack.Debug,
			Registry: s.registry,
			Logger:   log,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Slack connector: %w", err)
		}
	}

	if cfg.Telegram.Enabled() {
		s.telegramConnector, err = telegram.NewConnector(telegram.Config{
			BotToken:     cfg.Telegram.BotToken,
			Debug:        cfg.Telegram.Debug,
			HistoryLimit: cfg.Chat.HistoryLimit,
			Registry:     s.registry,
			Logger:       log,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Telegram connector: %w", err)
		}
	}

	return s, nil
}

// Run starts the server and blocks until shutdown.
func (s *Server) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	defer cancel()

	s.setupGracefulShutdown()

	// pprof on localhost only.
	go func() {
		s.log.Info("Starting pprof server on :6060")
		pprofServer := &http.Server{
			Addr:              "localhost:6060",
			Handler:           nil, // DefaultServeMux carries the pprof handlers
			ReadHeaderTimeout: 10 * time.Second,
		}
		if err := pprofServer.ListenAndServe(); err != nil {
			s.log.Error("pprof server failed", logger.ErrorField(err))
		}
	}()

	var wg sync.WaitGroup
	enabledCount := 0

	if s.cfg.Health.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.startOpsServer(ctx); err != nil {
				s.log.Error("Ops server failed", logger.ErrorField(err))
			}
		}()
	}

	if s.cfg.Monitoring.MetricsEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.metrics.Listen(ctx, s.cfg.Monitoring.MetricsPort); err != nil {
				s.log.Error("Metrics server failed", logger.ErrorField(err))
			}
		}()
	}

	if s.slackConnector != nil {
		enabledCount++
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.slackConnector.Start(ctx); err != nil {
				s.log.Error("Slack connector error", logger.ErrorField(err))
				cancel()
			}
		}()
	} else {
		s.log.Info("Slack connector disabled (missing SLACK_BOT_TOKEN or SLACK_APP_TOKEN)")
	}

	if s.telegramConnector != nil {
		enabledCount++
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.telegramConnector.Start(ctx); err != nil {
				s.log.Error("Telegram connector error", logger.ErrorField(err))
				cancel()
			}
		}()
	} else {
		s.log.Info("Telegram connector disabled (missing TELEGRAM_BOT_TOKEN)")
	}

	if enabledCount == 0 {
		return fmt.Errorf("no connectors configured: set credentials for at least one platform (Slack or Telegram)")
	}

	s.log.Info("All enabled connectors started",
		logger.IntField("count", enabledCount),
		logger.StringField("model", s.model.Name()))

	wg.Wait()
	s.log.Info("All connectors stopped")
	return nil
}

// startOpsServer runs the operational HTTP server: health probes behind the
// standard middleware stack.
func (s *Server) startOpsServer(ctx context.Context) error {
	healthMonitor := monitoring.NewHealthMonitor(monitoring.Config{
		Logger:            s.log,
		Version:           s.cfg.Version,
		ProviderCheckURL:  s.providerCheckURL(),
		SlackConnector:    healthConnector(s.slackConnector),
		TelegramConnector: healthConnector(s.telegramConnector),
		Timeout:           s.cfg.Health.Timeout,
		FailureThreshold:  s.cfg.Health.FailureThreshold,
	})

	router := chi.NewRouter()
	middlewareConfig := httpmiddleware.DefaultConfig()
	middlewareConfig.Timeout = s.cfg.RequestTimeout
	if s.cfg.IsDevelopment() {
		middlewareConfig.Logger = s.log
		middlewareConfig.EnableLogging = true
	}
	httpmiddleware.ApplyToRouter(router, middlewareConfig)

	healthMonitor.RegisterRoutes(router,
		s.cfg.Health.CombinedPath,
		s.cfg.Health.LivenessPath,
		s.cfg.Health.ReadinessPath)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       s.cfg.IdleTimeout,
	}

	go func() {
		s.log.Info("Ops server listening", logger.IntField("port", s.cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("Ops server failed", logger.ErrorField(err))
		}
	}()

	<-ctx.Done()
	s.log.Info("Shutting down ops server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second) //nolint:contextcheck // New context needed for shutdown
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// createChatModel creates the model for the configured provider.
func (s *Server) createChatModel(ctx context.Context) (models.ChatModel, error) {
	provider := strings.ToLower(s.cfg.LLM.Provider)
	persona := s.cfg.Chat.GetPersona()

	switch provider {
	case appconfig.ProviderGemini:
		s.log.Info("Initializing Gemini model", logger.StringField("model", s.cfg.Gemini.Model))
		return gemini.New(ctx, gemini.Config{
			APIKey:    s.cfg.Gemini.APIKey,
			ModelName: s.cfg.Gemini.Model,
			Persona:   persona,
			Logger:    s.log,
		})

	case appconfig.ProviderClaude:
		s.log.Info("Initializing Claude model", logger.StringField("model", s.cfg.Anthropic.Model))
		return anthropic.New(anthropic.Config{
			APIKey:    s.cfg.Anthropic.APIKey,
			ModelName: s.cfg.Anthropic.Model,
			MaxTokens: s.cfg.Anthropic.MaxTokens,
			Persona:   persona,
			Logger:    s.log,
		})

	case appconfig.ProviderOpenAI:
		s.log.Info("Initializing OpenAI model", logger.StringField("model", s.cfg.OpenAI.Model))
		return openai.New(openai.Config{
			APIKey:    s.cfg.OpenAI.APIKey,
			ModelName: s.cfg.OpenAI.Model,
			MaxTokens: s.cfg.OpenAI.MaxTokens,
			Persona:   persona,
			Logger:    s.log,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

func (s *Server) providerCheckURL() string {
	switch strings.ToLower(s.cfg.LLM.Provider) {
	case appconfig.ProviderGemini:
		return geminiCheckURL
	case appconfig.ProviderClaude:
		return anthropicCheckURL
	case appconfig.ProviderOpenAI:
		return openaiCheckURL
	default:
		return ""
	}
}

// healthConnector converts a typed nil connector into an untyped nil so the
// monitor skips the check instead of probing a nil pointer.
func healthConnector[T monitoring.Connector](connector T) monitoring.Connector {
	var zero T
	if any(connector) == any(zero) {
		return nil
	}
	return connector
}

// setupGracefulShutdown installs signal handling for graceful shutdown.
func (s *Server) setupGracefulShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		s.log.Info("Received shutdown signal", logger.StringField("signal", sig.String()))

		if s.cancel != nil {
			s.cancel()
		}

		time.AfterFunc(30*time.Second, func() {
			s.log.Warn("Force exiting due to timeout")
			os.Exit(1)
		})
	}()
}

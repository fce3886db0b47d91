// Package slack provides the Slack Socket Mode connector for the chatbot.
package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/lewisedginton/cosmic_chatbot/internal/commands"
	"github.com/lewisedginton/cosmic_chatbot/pkg/logger"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
)

// Config holds configuration for the Slack connector
type Config struct {
	BotToken string // xoxb-*
	AppToken string // xapp-*
	Debug    bool
	Registry *commands.Registry
	Logger   logger.Logger
}

// Connector receives slash commands over Socket Mode and dispatches them to
// the command registry.
type Connector struct {
	client     *slack.Client
	socketMode *socketmode.Client
	registry   *commands.Registry
	logger     logger.Logger
}

// NewConnector creates a new Slack connector.
func NewConnector(cfg Config) (*Connector, error) {
	if !strings.HasPrefix(cfg.BotToken, "xoxb-") {
		return nil, fmt.Errorf("invalid bot token format, expected xoxb-*")
	}
	if !strings.HasPrefix(cfg.AppToken, "xapp-") {
		return nil, fmt.Errorf("invalid app token format, expected xapp-*")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("command registry is required")
	}

	client := slack.New(
		cfg.BotToken,
		slack.OptionAppLevelToken(cfg.AppToken),
		slack.OptionDebug(cfg.Debug),
	)
	socketMode := socketmode.New(client, socketmode.OptionDebug(cfg.Debug))

	return &Connector{
		client:     client,
		socketMode: socketMode,
		registry:   cfg.Registry,
		logger:     cfg.Logger,
	}, nil
}

// Start begins the Socket Mode connection and event handling. Blocks until
// the context is cancelled or the connection fails.
func (c *Connector) Start(ctx context.Context) error {
	c.logger.Info("Starting Slack Socket Mode connector")

	go func() {
		for envelope := range c.socketMode.Events {
			switch envelope.Type {
			case socketmode.EventTypeConnecting:
				c.logger.Debug("Connecting to Slack with Socket Mode")

			case socketmode.EventTypeConnectionError:
				c.logger.Error("Slack connection failed",
					logger.StringField("data", fmt.Sprintf("%v", envelope.Data)))

			case socketmode.EventTypeConnected:
				c.logger.Info("Connected to Slack with Socket Mode")

			case socketmode.EventTypeHello:
				// Hello confirms the WebSocket connection, nothing to do.

			case socketmode.EventTypeSlashCommand:
				c.handleSlashCommand(ctx, envelope)

			case socketmode.EventTypeEventsAPI, socketmode.EventTypeInteractive:
				// Not used by this bot, but must be acked.
				if envelope.Request != nil {
					c.socketMode.Ack(*envelope.Request)
				}

			default:
				c.logger.Debug("Unsupported event type received",
					logger.StringField("type", string(envelope.Type)))
			}
		}
	}()

	return c.socketMode.RunContext(ctx)
}

// handleSlashCommand dispatches a slash command to the registry. Dispatch
// runs in its own goroutine; the session's Defer acks the request within
// Slack's deadline while the model call proceeds.
func (c *Connector) handleSlashCommand(ctx context.Context, envelope socketmode.Event) {
	cmd, ok := envelope.Data.(slack.SlashCommand)
	if !ok {
		c.logger.Warn("Failed to parse slash command data",
			logger.StringField("data", fmt.Sprintf("%+v", envelope.Data)))
		if envelope.Request != nil {
			c.socketMode.Ack(*envelope.Request)
		}
		return
	}

	name, text := parseCommand(cmd)
	inv := commands.Invocation{
		UserID:    cmd.UserID,
		ChannelID: cmd.ChannelID,
		Text:      text,
	}

	c.logger.Info("Received slash command",
		logger.StringField("command", name),
		logger.StringField("user_id", cmd.UserID),
		logger.StringField("channel_id", cmd.ChannelID))

	session := &commandSession{
		api:     c.client,
		socket:  c.socketMode,
		request: envelope.Request,
		userID:  cmd.UserID,
		channel: cmd.ChannelID,
	}

	go func() {
		if err := c.registry.Handle(ctx, name, inv, session); err != nil {
			c.logger.Error("Error handling command",
				logger.StringField("command", name),
				logger.ErrorField(err))
		}
	}()
}

// Stop gracefully stops the connector. The Socket Mode client has no
// explicit stop; cancellation of the Start context closes the connection.
func (c *Connector) Stop() error {
	c.logger.Info("Stopping Slack connector")
	return nil
}

// Healthy reports whether the bot token is still accepted by Slack.
func (c *Connector) Healthy(ctx context.Context) error {
	_, err := c.client.AuthTestContext(ctx)
	return err
}

// Package telegram provides the Telegram connector for the chatbot.
package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/lewisedginton/cosmic_chatbot/internal/commands"
	"github.com/lewisedginton/cosmic_chatbot/internal/composer"
	"github.com/lewisedginton/cosmic_chatbot/pkg/logger"
)

// botAuthorID marks the bot's own messages in the history cache.
const botAuthorID = "bot"

// Config holds configuration for the Telegram connector
type Config struct {
	BotToken     string // Bot token from @BotFather
	Debug        bool   // Enable debug logging
	HistoryLimit int    // Messages retained per chat for context
	Registry     *commands.Registry
	Logger       logger.Logger
}

// Connector receives Telegram updates and dispatches commands to the
// registry. Telegram's Bot API has no channel history endpoint, so the
// connector keeps its own bounded cache of recent messages per chat.
type Connector struct {
	bot      *bot.Bot
	registry *commands.Registry
	history  *historyCache
	logger   logger.Logger
}

// NewConnector creates a new Telegram connector.
func NewConnector(cfg Config) (*Connector, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("command registry is required")
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 10
	}

	connector := &Connector{
		registry: cfg.Registry,
		history:  newHistoryCache(cfg.HistoryLimit),
		logger:   cfg.Logger,
	}

	opts := []bot.Option{
		bot.WithDefaultHandler(connector.handleUpdate),
	}
	if cfg.Debug {
		opts = append(opts, bot.WithDebug())
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	connector.bot = b

	return connector, nil
}

// Start begins polling for updates. Blocks until the context is cancelled.
func (c *Connector) Start(ctx context.Context) error {
	c.logger.Info("Starting Telegram bot polling")
	c.bot.Start(ctx)
	return nil
}

// Stop gracefully stops the connector. Polling stops when the Start context
// is cancelled.
func (c *Connector) Stop() error {
	c.logger.Info("Stopping Telegram connector")
	return nil
}

// Healthy reports whether the bot token is still accepted by Telegram.
func (c *Connector) Healthy(ctx context.Context) error {
	_, err := c.bot.GetMe(ctx)
	return err
}

// handleUpdate processes incoming Telegram updates. Every human text message
// feeds the history cache; command messages are additionally dispatched.
func (c *Connector) handleUpdate(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
	if update.Message == nil || update.Message.Text == "" || update.Message.From == nil {
		return
	}
	if update.Message.From.IsBot {
		return
	}

	userID := fmt.Sprintf("%d", update.Message.From.ID)
	chatID := update.Message.Chat.ID

	name, text, isCommand := parseCommand(update.Message.Text)
	if !isCommand {
		c.history.add(chatID, composer.ChannelMessage{AuthorID: userID, Text: update.Message.Text})
		return
	}

	c.logger.Info("Received command",
		logger.StringField("command", name),
		logger.StringField("user_id", userID),
		logger.Int64Field("chat_id", chatID))

	inv := commands.Invocation{
		UserID:    userID,
		ChannelID: fmt.Sprintf("%d", chatID),
		Text:      text,
	}
	session := &commandSession{
		sender:  b,
		history: c.history,
		chatID:  chatID,
		replyTo: update.Message.ID,
	}

	if err := c.registry.Handle(ctx, name, inv, session); err != nil {
		c.logger.Error("Error handling command",
			logger.StringField("command", name),
			logger.ErrorField(err))
	}
}

// parseCommand splits a message into a command name and argument text.
// "/chat message: hello" and "/chat hello" both yield ("chat", "hello").
// Bot-name suffixes like "/chat@cosmicbot" are stripped.
func parseCommand(text string) (string, string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}

	name, args, _ := strings.Cut(text[1:], " ")
	name, _, _ = strings.Cut(name, "@")
	args = strings.TrimSpace(args)

	var argKey string
	switch name {
	case "remember":
		argKey = "fact:"
	case "chat":
		argKey = "message:"
	}
	if argKey != "" && strings.HasPrefix(args, argKey) {
		args = strings.TrimSpace(strings.TrimPrefix(args, argKey))
	}
	return name, args, true
}

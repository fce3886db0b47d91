// Package commands implements the bot's two commands, remember and chat,
// independent of the chat platform delivering them.
package commands

import (
	"context"
	"time"

	"github.com/lewisedginton/cosmic_chatbot/internal/composer"
	"github.com/lewisedginton/cosmic_chatbot/internal/memory"
	"github.com/lewisedginton/cosmic_chatbot/internal/models"
	"github.com/lewisedginton/cosmic_chatbot/internal/quota"
	"github.com/lewisedginton/cosmic_chatbot/pkg/logger"
	"github.com/lewisedginton/cosmic_chatbot/pkg/metrics"
)

// User-facing reply strings.
const (
	rememberConfirmation = "I've stored that in my memory banks for you, my cosmic friend. The universe will remember: '%s'"
	rememberMissingFact  = "My cosmic friend, I need a fact to remember. Try: remember fact:<something about you>"
	chatMissingMessage   = "My cosmic friend, I need a message to respond to. Try: chat message:<your question>"
	quotaExhaustedNotice = "My cosmic friend, my connection to the universal consciousness needs to recharge. We've reached our daily interaction limit. Let's reconvene tomorrow!"
	modelFailureApology  = "My apologies, my cosmic friend. I seem to have encountered a momentary glitch in the spacetime continuum. Please try again shortly."
)

// Invocation is a platform-agnostic command invocation.
type Invocation struct {
	UserID    string
	ChannelID string
	Text      string
}

// Session is the platform side of a single command exchange. Connectors
// implement it on top of their platform's reply primitives.
type Session interface {
	// ReplyPrivate sends a reply visible only to the invoking user.
	ReplyPrivate(ctx context.Context, text string) error

	// Defer acknowledges the command so the platform stops waiting while
	// the model call runs.
	Defer(ctx context.Context) error

	// FollowUp delivers a channel-visible reply after Defer.
	FollowUp(ctx context.Context, text string) error

	// RecentMessages returns up to limit recent channel messages, newest
	// first.
	RecentMessages(ctx context.Context, limit int) ([]composer.ChannelMessage, error)
}

// Config holds the collaborators of the command application
type Config struct {
	Quota        *quota.Tracker
	Memory       memory.FactStore
	Composer     *composer.Composer
	Model        models.ChatModel
	HistoryLimit int
	Logger       logger.Logger
	Metrics      *metrics.Metrics
}

// App executes commands against the quota tracker, fact store, and model.
type App struct {
	quota        *quota.Tracker
	memory       memory.FactStore
	composer     *composer.Composer
	model        models.ChatModel
	historyLimit int
	logger       logger.Logger
	metrics      *metrics.Metrics
}

// NewApp creates the command application.
func NewApp(cfg Config) *App {
	return &App{
		quota:        cfg.Quota,
		memory:       cfg.Memory,
		composer:     cfg.Composer,
		model:        cfg.Model,
		historyLimit: cfg.HistoryLimit,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
	}
}

// HandleRemember stores a fact for the invoking user and confirms privately.
func (a *App) HandleRemember(ctx context.Context, inv Invocation, session Session) error {
	a.countCommand("remember")

	if inv.Text == "" {
		return session.ReplyPrivate(ctx, rememberMissingFact)
	}

	if err := a.memory.Remember(inv.UserID, inv.Text); err != nil {
		a.logger.Error("Failed to store fact",
			logger.StringField("user_id", inv.UserID),
			logger.ErrorField(err),
		)
		return session.ReplyPrivate(ctx, modelFailureApology)
	}

	a.logger.Info("Fact remembered", logger.StringField("user_id", inv.UserID))
	return session.ReplyPrivate(ctx, confirmation(inv.Text))
}

// HandleChat runs the full chat flow: quota check, deferred ack, history
// fetch, prompt composition, model call, follow-up delivery.
func (a *App) HandleChat(ctx context.Context, inv Invocation, session Session) error {
	a.countCommand("chat")

	if inv.Text == "" {
		return session.ReplyPrivate(ctx, chatMissingMessage)
	}

	// The quota check consumes a unit on success, so it must come before
	// anything that could still fail: a user's count reflects attempts,
	// not completed model calls.
	if !a.quota.Allow(inv.UserID) {
		a.countQuotaDenial()
		a.logger.Info("Chat denied by quota",
			logger.StringField("user_id", inv.UserID),
			logger.IntField("limit", a.quota.Limit()),
		)
		return session.ReplyPrivate(ctx, quotaExhaustedNotice)
	}

	if err := session.Defer(ctx); err != nil {
		a.logger.Error("Failed to acknowledge chat command",
			logger.StringField("user_id", inv.UserID),
			logger.ErrorField(err),
		)
		return err
	}

	history := a.fetchHistory(ctx, inv, session)
	prompt := a.composer.Prompt(a.memory.RenderPreamble(inv.UserID), inv.Text)

	reply, err := a.callModel(ctx, inv, history, prompt)
	if err != nil {
		a.logger.Error("Model call failed",
			logger.StringField("user_id", inv.UserID),
			logger.StringField("channel_id", inv.ChannelID),
			logger.ErrorField(err),
		)
		return session.FollowUp(ctx, modelFailureApology)
	}

	return session.FollowUp(ctx, reply)
}

// fetchHistory loads recent channel context. A history failure degrades to an
// empty conversation rather than failing the whole command.
func (a *App) fetchHistory(ctx context.Context, inv Invocation, session Session) []composer.Turn {
	recent, err := session.RecentMessages(ctx, a.historyLimit)
	if err != nil {
		a.logger.Warn("Failed to fetch channel history, continuing without context",
			logger.StringField("channel_id", inv.ChannelID),
			logger.ErrorField(err),
		)
		return nil
	}
	return a.composer.History(inv.UserID, recent)
}

func (a *App) callModel(ctx context.Context, inv Invocation, history []composer.Turn, prompt string) (string, error) {
	start := time.Now()

	chat, err := a.model.StartChat(ctx, history)
	if err != nil {
		a.observeModelCall(start, err)
		return "", err
	}

	reply, err := chat.SendMessage(ctx, prompt)
	a.observeModelCall(start, err)
	if err != nil {
		return "", err
	}

	a.logger.Debug("Model reply delivered",
		logger.StringField("user_id", inv.UserID),
		logger.IntField("reply_length", len(reply)),
		logger.DurationField("duration", time.Since(start)),
	)
	return reply, nil
}

func (a *App) countCommand(name string) {
	if a.metrics != nil {
		a.metrics.CommandsReceived.WithLabelValues(name).Inc()
	}
}

func (a *App) countQuotaDenial() {
	if a.metrics != nil {
		a.metrics.QuotaDenials.Inc()
	}
}

func (a *App) observeModelCall(start time.Time, err error) {
	if a.metrics != nil {
		a.metrics.ObserveModelCall(time.Since(start), err)
	}
}

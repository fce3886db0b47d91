// Package quota enforces per-user daily limits on model calls. Counts are
// kept in memory and roll over at midnight UTC.
package quota

import (
	"sync"
	"time"

	"github.com/lewisedginton/cosmic_chatbot/pkg/logger"
)

// Config holds configuration for the quota tracker
type Config struct {
	// DailyLimit is the maximum number of calls per user per UTC day.
	DailyLimit int

	// Now returns the current time. Defaults to time.Now; tests override it.
	Now func() time.Time

	Logger logger.Logger
}

type usage struct {
	day   string // UTC date in 2006-01-02 form
	count int
}

// Tracker counts model calls per user per UTC calendar day.
type Tracker struct {
	mu     sync.Mutex
	users  map[string]*usage
	limit  int
	now    func() time.Time
	logger logger.Logger
}

// NewTracker creates a quota tracker from the given configuration.
func NewTracker(cfg Config) *Tracker {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		users:  make(map[string]*usage),
		limit:  cfg.DailyLimit,
		now:    now,
		logger: cfg.Logger,
	}
}

// Allow reports whether the user is under their daily limit and, if so,
// consumes one unit of quota. The check and increment happen under a single
// lock so concurrent requests cannot push a user past the limit.
func (t *Tracker) Allow(userID string) bool {
	today := t.today()

	t.mu.Lock()
	defer t.mu.Unlock()

	u, ok := t.users[userID]
	if !ok || u.day != today {
		u = &usage{day: today}
		t.users[userID] = u
	}

	if u.count >= t.limit {
		if t.logger != nil {
			t.logger.Debug("Daily quota exhausted",
				logger.StringField("user_id", userID),
				logger.IntField("count", u.count),
				logger.IntField("limit", t.limit),
			)
		}
		return false
	}

	u.count++
	return true
}

// Usage returns the number of calls the user has made today.
func (t *Tracker) Usage(userID string) int {
	today := t.today()

	t.mu.Lock()
	defer t.mu.Unlock()

	u, ok := t.users[userID]
	if !ok || u.day != today {
		return 0
	}
	return u.count
}

// Limit returns the configured daily limit.
func (t *Tracker) Limit() int {
	return t.limit
}

func (t *Tracker) today() string {
	return t.now().UTC().Format("2006-01-02")
}

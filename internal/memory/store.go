// Package memory stores user-provided facts and renders them as a preamble
// that is prepended to chat prompts.
package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/lewisedginton/cosmic_chatbot/pkg/logger"
)

// FactStore is the interface for per-user fact storage.
type FactStore interface {
	// Remember appends a fact to the user's memory. Facts are never
	// deduplicated or removed.
	Remember(userID, fact string) error

	// Facts returns the user's facts in insertion order.
	Facts(userID string) []string

	// RenderPreamble renders the user's facts as a prompt preamble. Returns
	// the empty string for users with no facts.
	RenderPreamble(userID string) string
}

// Config holds configuration for the in-memory fact store
type Config struct {
	Logger logger.Logger
}

// Store is an in-memory FactStore implementation.
type Store struct {
	mu     sync.RWMutex
	facts  map[string][]string
	logger logger.Logger
}

var _ FactStore = (*Store)(nil)

// NewStore creates an empty in-memory fact store.
func NewStore(cfg Config) *Store {
	return &Store{
		facts:  make(map[string][]string),
		logger: cfg.Logger,
	}
}

// Remember appends a fact to the user's memory.
func (s *Store) Remember(userID, fact string) error {
	if userID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}
	if fact == "" {
		return fmt.Errorf("fact cannot be empty")
	}

	s.mu.Lock()
	s.facts[userID] = append(s.facts[userID], fact)
	count := len(s.facts[userID])
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("Fact stored",
			logger.StringField("user_id", userID),
			logger.IntField("fact_count", count),
		)
	}
	return nil
}

// Facts returns a copy of the user's facts in insertion order.
func (s *Store) Facts(userID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.facts[userID]
	if len(stored) == 0 {
		return nil
	}
	out := make([]string, len(stored))
	copy(out, stored)
	return out
}

// RenderPreamble renders the user's facts joined with "; " in a single
// reminder line, followed by a blank line separating it from the message.
func (s *Store) RenderPreamble(userID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.facts[userID]
	if len(stored) == 0 {
		return ""
	}
	return fmt.Sprintf("Remember these facts about the user: %s\n\n", strings.Join(stored, "; "))
}

package telegram

import (
	"sync"

	"github.com/lewisedginton/cosmic_chatbot/internal/composer"
)

// historyCache keeps a bounded, newest-first window of recent messages per
// chat. It stands in for the channel history endpoint Telegram doesn't have.
type historyCache struct {
	mu     sync.Mutex
	limit  int
	byChat map[int64][]composer.ChannelMessage
}

func newHistoryCache(limit int) *historyCache {
	return &historyCache{
		limit:  limit,
		byChat: make(map[int64][]composer.ChannelMessage),
	}
}

// add prepends a message to the chat's window, evicting the oldest entry
// once the window is full.
func (h *historyCache) add(chatID int64, msg composer.ChannelMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	window := append([]composer.ChannelMessage{msg}, h.byChat[chatID]...)
	if len(window) > h.limit {
		window = window[:h.limit]
	}
	h.byChat[chatID] = window
}

// recent returns up to limit messages for the chat, newest first.
func (h *historyCache) recent(chatID int64, limit int) []composer.ChannelMessage {
	h.mu.Lock()
	defer h.mu.Unlock()

	window := h.byChat[chatID]
	if limit > len(window) {
		limit = len(window)
	}
	out := make([]composer.ChannelMessage, limit)
	copy(out, window[:limit])
	return out
}

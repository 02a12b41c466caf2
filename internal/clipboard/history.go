// Package clipboard keeps the host-side clipboard history ring.
package clipboard

import (
	"sync"

	"nova/internal/storage"
)

// DefaultLimit bounds the in-memory ring when the config gives none.
const DefaultLimit = 50

// History is a bounded most-recent-first clipboard ring. Consecutive
// duplicates are collapsed; a persisted store, when present, mirrors every
// accepted entry.
type History struct {
	mu      sync.Mutex
	entries []string
	limit   int
	store   *storage.Store
}

// NewHistory builds a ring; store may be nil for a memory-only history.
func NewHistory(limit int, store *storage.Store) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	h := &History{limit: limit, store: store}
	if store != nil {
		if persisted, err := store.History(limit); err == nil {
			for _, e := range persisted {
				h.entries = append(h.entries, e.Content)
			}
		}
	}
	return h
}

// Poll offers the current clipboard content to the ring. Empty content and
// a repeat of the newest entry are ignored. Returns true when recorded.
func (h *History) Poll(content string) bool {
	if content == "" {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) > 0 && h.entries[0] == content {
		return false
	}
	h.entries = append([]string{content}, h.entries...)
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
	if h.store != nil {
		_ = h.store.AppendHistory(content, h.limit)
	}
	return true
}

// Entries returns newest-first copies of the ring.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Latest returns the newest entry, or ok=false when the ring is empty.
func (h *History) Latest() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return "", false
	}
	return h.entries[0], true
}

// Len reports how many entries the ring holds.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

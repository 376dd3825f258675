package services

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultDedupWindow is how long a provider message id is remembered.
// WhatsApp redelivers webhooks for minutes, not hours.
const DefaultDedupWindow = 15 * time.Minute

// Deduper filters redelivered webhook events by provider message id. Ids
// expire after the window, so the set stays bounded without an explicit cap.
type Deduper struct {
	seen *cache.Cache
}

// NewDeduper creates a dedup filter remembering ids for the given window.
func NewDeduper(window time.Duration) *Deduper {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	return &Deduper{
		seen: cache.New(window, window),
	}
}

// Seen marks the id as processed and reports whether it was already known.
// Empty ids are never deduplicated.
func (d *Deduper) Seen(messageID string) bool {
	if messageID == "" {
		return false
	}
	if _, found := d.seen.Get(messageID); found {
		return true
	}
	d.seen.Set(messageID, struct{}{}, cache.DefaultExpiration)
	return false
}

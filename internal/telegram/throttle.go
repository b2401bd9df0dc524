package telegram

import (
	"sync"
	"time"
)

// Throttle drops updates from users who send faster than the configured
// minimum interval. Commands are exempt so /start always works.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	lastSeen map[int64]time.Time
	now      func() time.Time
}

func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{
		interval: interval,
		lastSeen: make(map[int64]time.Time),
		now:      time.Now,
	}
}

// Allow reports whether the update from chatID should be processed. The
// cooldown is measured from the last accepted message, so dropped attempts
// do not push the window forward.
func (t *Throttle) Allow(chatID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	last, seen := t.lastSeen[chatID]
	if seen && now.Sub(last) < t.interval {
		return false
	}
	t.lastSeen[chatID] = now
	return true
}

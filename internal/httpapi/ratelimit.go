package httpapi

import (
	"sync"
	"time"

	"github.com/draftverse/draftroom/internal/common/clock"
)

const (
	// DefaultChatLimit is the number of chat posts allowed per window
	DefaultChatLimit = 10

	// DefaultChatWindow is the rate limit window for chat posts
	DefaultChatWindow = 10 * time.Second
)

// RateLimiter is a fixed-window counter keyed by caller. Windows reset
// wholesale rather than sliding, so a burst straddling a boundary can
// briefly exceed the limit.
type RateLimiter struct {
	limit  int
	window time.Duration
	clock  clock.Clock

	mu      sync.Mutex
	windows map[string]*rateWindow
}

type rateWindow struct {
	start time.Time
	count int
}

// NewRateLimiter creates a rate limiter allowing limit calls per window
func NewRateLimiter(limit int, window time.Duration, clk clock.Clock) *RateLimiter {
	if clk == nil {
		clk = clock.New()
	}

	return &RateLimiter{
		limit:   limit,
		window:  window,
		clock:   clk,
		windows: make(map[string]*rateWindow),
	}
}

// Allow records a call for key and reports whether it is within budget
func (l *RateLimiter) Allow(key string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		l.windows[key] = &rateWindow{start: now, count: 1}
		return true
	}

	if w.count >= l.limit {
		return false
	}

	w.count++
	return true
}

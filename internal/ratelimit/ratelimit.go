// Package ratelimit implements fixed-window admission control per
// client key. Fixed windows allow a short burst of up to twice the
// limit across a window boundary; that is accepted here in exchange
// for O(1) state per key.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	defaultLimit  = 60
	defaultWindow = time.Minute

	// Windows untouched for this many window lengths are swept
	staleAfterWindows = 2
)

type Config struct {
	// Requests allowed per window per key
	// If not set than default is used
	Limit int

	// Window length
	// If not set than default is used
	Window time.Duration

	// Clock override, used in tests
	Now func() time.Time
}

// Limiter tracks one fixed window per client key. Windows are aligned
// to the first request of the key, not to a global tick.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window

	limit  int
	window time.Duration
	now    func() time.Time
}

type window struct {
	start time.Time
	count int
}

func New(cfg Config) *Limiter {
	if cfg.Limit <= 0 {
		cfg.Limit = defaultLimit
	}
	if cfg.Window <= 0 {
		cfg.Window = defaultWindow
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Limiter{
		windows: make(map[string]*window),
		limit:   cfg.Limit,
		window:  cfg.Window,
		now:     cfg.Now,
	}
}

// Admit records one request for the key and reports whether it fits the
// current window. Check and increment happen under one lock: two
// concurrent requests can never both take the last slot. Non-blocking;
// on rejection retryAfter tells when the window resets.
func (l *Limiter) Admit(key string) (admitted bool, retryAfter time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		l.windows[key] = &window{start: now, count: 1}
		return true, 0
	}

	if w.count < l.limit {
		w.count++
		return true, 0
	}

	return false, w.start.Add(l.window).Sub(now)
}

// Run sweeps stale windows until the context is cancelled, keeping
// memory bounded by the number of recently active keys
func (l *Limiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep(l.now())
		}
	}
}

func (l *Limiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, w := range l.windows {
		if now.Sub(w.start) >= staleAfterWindows*l.window {
			delete(l.windows, key)
		}
	}
}

// tracked returns how many keys currently hold a window
func (l *Limiter) tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

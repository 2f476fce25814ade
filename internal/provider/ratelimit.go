package provider

import (
	"sync"
	"time"
)

// rateLimiter throttles outgoing API calls with a sliding window.
type rateLimiter struct {
	mu     sync.Mutex
	sent   []time.Time
	max    int
	window time.Duration
}

func newRateLimiter(max int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		max:    max,
		window: window,
		sent:   make([]time.Time, 0, max),
	}
}

// trim drops timestamps that have left the window. Callers must hold mu.
func (r *rateLimiter) trim(now time.Time) {
	cutoff := now.Add(-r.window)
	kept := r.sent[:0]
	for _, ts := range r.sent {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	r.sent = kept
}

// wait blocks until a request may be sent. It never fails; when the
// window is full it sleeps until the oldest request expires.
func (r *rateLimiter) wait() error {
	r.mu.Lock()

	now := time.Now()
	r.trim(now)
	if len(r.sent) < r.max {
		r.sent = append(r.sent, now)
		r.mu.Unlock()
		return nil
	}

	// Sleep until the oldest request leaves the window, plus a small
	// buffer so it has actually expired when we wake.
	pause := r.window - now.Sub(r.sent[0]) + 10*time.Millisecond
	r.mu.Unlock()

	time.Sleep(pause)

	r.mu.Lock()
	now = time.Now()
	r.trim(now)
	r.sent = append(r.sent, now)
	r.mu.Unlock()
	return nil
}

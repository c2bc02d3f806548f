package analysis

import (
	"sync"
	"time"
)

const pollLimitWindow = 1 * time.Second

const pollSweepEvery = 1024

// pollLimiter enforces a minimum interval between status polls for the same
// caller and task. Entries older than the window would allow anyway and get
// swept periodically.
type pollLimiter struct {
	mu      sync.Mutex
	lastHit map[string]time.Time
	now     func() time.Time
	window  time.Duration
	ops     int
}

func newPollLimiter(window time.Duration, now func() time.Time) *pollLimiter {
	if now == nil {
		now = time.Now
	}
	if window <= 0 {
		window = pollLimitWindow
	}
	return &pollLimiter{
		lastHit: make(map[string]time.Time),
		now:     now,
		window:  window,
	}
}

func (l *pollLimiter) Allow(caller, taskID string) bool {
	if l == nil {
		return true
	}
	key := caller + "|" + taskID
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ops++
	if l.ops%pollSweepEvery == 0 {
		for k, hit := range l.lastHit {
			if now.Sub(hit) >= l.window {
				delete(l.lastHit, k)
			}
		}
	}

	if last, ok := l.lastHit[key]; ok {
		if now.Sub(last) < l.window {
			return false
		}
	}
	l.lastHit[key] = now
	return true
}

func (l *pollLimiter) RetryAfterSeconds() int {
	if l == nil {
		return int(pollLimitWindow.Seconds())
	}
	seconds := int(l.window.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}

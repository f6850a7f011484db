// Package pomodoro provides a countdown timer for focused study intervals.
// The remaining time is computed from an injected clock on demand, so the
// timer needs no goroutine. It is independent of the ledger and session.
package pomodoro

import (
	"fmt"
	"sync"
	"time"
)

// DefaultDuration is the classic pomodoro length.
const DefaultDuration = 25 * time.Minute

// Clock returns the current time.
type Clock func() time.Time

// Timer is a pausable countdown. It is safe for concurrent use.
type Timer struct {
	mu        sync.Mutex
	duration  time.Duration
	remaining time.Duration
	startedAt time.Time
	running   bool
	now       Clock
}

// Option configures a Timer.
type Option func(*Timer)

// WithClock overrides the time source.
func WithClock(c Clock) Option {
	return func(t *Timer) {
		if c != nil {
			t.now = c
		}
	}
}

// New creates a stopped timer set to d. A non-positive d means DefaultDuration.
func New(d time.Duration, opts ...Option) *Timer {
	if d <= 0 {
		d = DefaultDuration
	}
	t := &Timer{duration: d, remaining: d, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start resumes the countdown. It does nothing when already running or expired.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running || t.remainingLocked() == 0 {
		return
	}
	t.startedAt = t.now()
	t.running = true
}

// Pause freezes the countdown.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.remaining = t.remainingLocked()
	t.running = false
}

// Reset stops the timer and restores the full duration.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remaining = t.duration
	t.running = false
}

// Remaining returns the time left, never negative.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remainingLocked()
}

// Running reports whether the countdown is active and not yet expired.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running && t.remainingLocked() > 0
}

// Expired reports whether the countdown reached zero.
func (t *Timer) Expired() bool {
	return t.Remaining() == 0
}

// Duration returns the configured full length.
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// State is a serializable view of the timer.
type State struct {
	Display          string `json:"display"`
	RemainingSeconds int    `json:"remaining_seconds"`
	Running          bool   `json:"running"`
	Expired          bool   `json:"expired"`
}

// State returns the current state.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	rem := t.remainingLocked()
	return State{
		Display:          Format(rem),
		RemainingSeconds: int(rem / time.Second),
		Running:          t.running && rem > 0,
		Expired:          rem == 0,
	}
}

// Format renders d as MM:SS, truncating partial seconds.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func (t *Timer) remainingLocked() time.Duration {
	if !t.running {
		return t.remaining
	}
	left := t.remaining - t.now().Sub(t.startedAt)
	if left < 0 {
		return 0
	}
	return left
}

package pomodoro

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestTimer(d time.Duration) (*Timer, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	return New(d, WithClock(clock.Now)), clock
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()
	timer, _ := newTestTimer(0)
	assert.Equal(t, DefaultDuration, timer.Duration())
	assert.Equal(t, DefaultDuration, timer.Remaining())
	assert.False(t, timer.Running())
	assert.False(t, timer.Expired())
	assert.Equal(t, "25:00", timer.State().Display)
}

func TestStartPauseResume(t *testing.T) {
	t.Parallel()
	timer, clock := newTestTimer(time.Minute)

	clock.Advance(10 * time.Second)
	assert.Equal(t, time.Minute, timer.Remaining(), "not started")

	timer.Start()
	assert.True(t, timer.Running())
	clock.Advance(15 * time.Second)
	assert.Equal(t, 45*time.Second, timer.Remaining())

	timer.Pause()
	clock.Advance(time.Hour)
	assert.Equal(t, 45*time.Second, timer.Remaining())
	assert.False(t, timer.Running())

	timer.Start()
	timer.Start()
	clock.Advance(5 * time.Second)
	assert.Equal(t, 40*time.Second, timer.Remaining())
	assert.Equal(t, "00:40", timer.State().Display)
}

func TestExpiry(t *testing.T) {
	t.Parallel()
	timer, clock := newTestTimer(30 * time.Second)

	timer.Start()
	clock.Advance(2 * time.Minute)

	assert.Equal(t, time.Duration(0), timer.Remaining())
	assert.True(t, timer.Expired())
	assert.False(t, timer.Running())

	state := timer.State()
	assert.Equal(t, State{Display: "00:00", RemainingSeconds: 0, Running: false, Expired: true}, state)

	timer.Pause()
	timer.Start()
	assert.True(t, timer.Expired(), "start after expiry is a no-op")
}

func TestReset(t *testing.T) {
	t.Parallel()
	timer, clock := newTestTimer(time.Minute)
	timer.Start()
	clock.Advance(20 * time.Second)

	timer.Reset()
	assert.False(t, timer.Running())
	assert.Equal(t, time.Minute, timer.Remaining())
	clock.Advance(time.Minute)
	assert.Equal(t, time.Minute, timer.Remaining())
}

func TestFormat(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00"},
		{-time.Second, "00:00"},
		{59*time.Second + 900*time.Millisecond, "00:59"},
		{25 * time.Minute, "25:00"},
		{90 * time.Minute, "90:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.in))
	}
}

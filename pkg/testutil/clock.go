// pkg/testutil/clock.go
// DEPENDENCIES: None
// PURPOSE: Deterministic time for retry and lock-arbitration tests

package testutil

import (
	"time"
)

// FakeClock advances instantly on Sleep and records every sleep, so
// poll/backoff schedules can be asserted without real waiting.
type FakeClock struct {
	now   time.Time
	slept []time.Duration
}

// NewFakeClock starts at a fixed, arbitrary instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

func (c *FakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
	c.slept = append(c.slept, d)
}

// Slept returns every sleep duration in order.
func (c *FakeClock) Slept() []time.Duration {
	return c.slept
}

// TotalSlept returns the sum of all sleeps.
func (c *FakeClock) TotalSlept() time.Duration {
	var total time.Duration
	for _, d := range c.slept {
		total += d
	}
	return total
}

// FakeTimer adapts FakeClock to the backoff timer interface: starting
// it advances the clock and fires immediately.
type FakeTimer struct {
	Clock *FakeClock
	ch    chan time.Time
}

// NewFakeTimer creates a timer bound to the given clock.
func NewFakeTimer(clock *FakeClock) *FakeTimer {
	return &FakeTimer{Clock: clock, ch: make(chan time.Time, 1)}
}

func (t *FakeTimer) Start(d time.Duration) {
	t.Clock.Sleep(d)
	select {
	case t.ch <- t.Clock.Now():
	default:
	}
}

func (t *FakeTimer) Stop() {}

func (t *FakeTimer) C() <-chan time.Time {
	return t.ch
}

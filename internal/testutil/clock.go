// Package testutil provides deterministic fixtures for testing the
// framework itself: a stepping clock and a fixed run-ID generator.
package testutil

import (
	"sync"
	"time"
)

// DeterministicClock is a thread-safe clock that advances by a fixed step
// on every reading. Durations measured against it are exact functions of
// how many times the executor consulted the clock, which lets tests assert
// the duration policy (body time only, hooks excluded) without sleeping.
type DeterministicClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewDeterministicClock creates a clock starting at start that advances by
// step per Now call.
func NewDeterministicClock(start time.Time, step time.Duration) *DeterministicClock {
	return &DeterministicClock{now: start, step: step}
}

// Now returns the current instant and advances the clock by the step.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Advance moves the clock forward by d without producing a reading.
func (c *DeterministicClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

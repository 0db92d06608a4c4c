// Package ratelimit bounds how often per-frame work runs.
package ratelimit

import "time"

// DefaultInterval is roughly one frame at 60 Hz.
const DefaultInterval = 16 * time.Millisecond

// Limiter admits at most one call per interval. Time is passed in by the
// caller so behaviour does not depend on the wall clock.
//
// A Limiter is not safe for concurrent use.
type Limiter struct {
	interval        time.Duration
	lastProcessedAt time.Time
	lastCallAt      time.Time
	primed          bool
	calls           uint64
}

// New creates a Limiter with the given minimum interval. Non-positive
// intervals fall back to DefaultInterval.
func New(interval time.Duration) *Limiter {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Limiter{interval: interval}
}

// ShouldProcess reports whether work may run at now. The first call always
// returns true; afterwards true is returned only once at least one interval
// has passed since the last admitted call.
//
// A clock that jumps back by more than one interval is treated as a new
// time base: the call is admitted and the window restarts from it. Smaller
// backward steps are rejected like any other early call.
func (l *Limiter) ShouldProcess(now time.Time) bool {
	l.calls++
	l.lastCallAt = now

	if l.primed {
		elapsed := now.Sub(l.lastProcessedAt)
		if elapsed < l.interval && elapsed > -l.interval {
			return false
		}
	}

	l.primed = true
	l.lastProcessedAt = now
	return true
}

// Reset forgets the last admitted call so the next call is admitted.
func (l *Limiter) Reset() {
	l.primed = false
	l.lastProcessedAt = time.Time{}
}

// Interval returns the minimum interval between admitted calls.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// LastCallAt returns the time of the most recent call, admitted or not.
func (l *Limiter) LastCallAt() time.Time {
	return l.lastCallAt
}

// Calls returns the total number of ShouldProcess calls.
func (l *Limiter) Calls() uint64 {
	return l.calls
}

package gesture

import "time"

// Tracker holds the state carried between frames: the previous wrist
// position for swipe detection and the time of the last dispatch.
//
// The zero value is ready to use. Reset must be called whenever gesture
// input is switched off so a stale wrist position cannot produce a large
// swipe when the hand is seen again.
type Tracker struct {
	prevWristX   float64
	hasPrev      bool
	lastDispatch time.Time
}

// PreviousWristX returns the last observed wrist x and whether one exists.
func (t *Tracker) PreviousWristX() (float64, bool) {
	return t.prevWristX, t.hasPrev
}

// observeWristX stores x and returns the displacement from the previous
// observation. ok is false when there was nothing to compare against.
func (t *Tracker) observeWristX(x float64) (delta float64, ok bool) {
	if t.hasPrev {
		delta, ok = x-t.prevWristX, true
	}
	t.prevWristX = x
	t.hasPrev = true
	return delta, ok
}

// MarkDispatched records when the last gesture was applied.
func (t *Tracker) MarkDispatched(now time.Time) {
	t.lastDispatch = now
}

// LastDispatch returns the time recorded by MarkDispatched, or the zero
// time.
func (t *Tracker) LastDispatch() time.Time {
	return t.lastDispatch
}

// Reset clears the wrist position and the dispatch timestamp.
func (t *Tracker) Reset() {
	*t = Tracker{}
}

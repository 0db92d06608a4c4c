package ratelimit

import (
	"math"
	"time"
)

// FPSMonitor measures an event rate over one second windows.
type FPSMonitor struct {
	frames int
	start  time.Time
	fps    int
}

// Update records one event at now and returns the rate measured over the
// last completed window.
func (m *FPSMonitor) Update(now time.Time) int {
	if m.start.IsZero() {
		m.start = now
	}
	m.frames++

	elapsed := now.Sub(m.start)
	if elapsed >= time.Second {
		m.fps = int(math.Round(float64(m.frames) * float64(time.Second) / float64(elapsed)))
		m.frames = 0
		m.start = now
	}

	return m.fps
}

// FPS returns the rate measured over the last completed window.
func (m *FPSMonitor) FPS() int {
	return m.fps
}

// Reset discards the current window and the last measurement.
func (m *FPSMonitor) Reset() {
	*m = FPSMonitor{}
}

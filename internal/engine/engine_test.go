package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/holoview/internal/control"
	"github.com/ayusman/holoview/internal/detector"
	"github.com/ayusman/holoview/internal/gesture"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// frameStep is comfortably above the default interval.
const frameStep = 20 * time.Millisecond

func at(i int) time.Time {
	return t0.Add(time.Duration(i) * frameStep)
}

func resting(wristX float64) detector.Frame {
	return detector.TwoFingerLandmarks(0.11).WithWristX(wristX)
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(DefaultConfig())
	require.NoError(t, err)
	return e
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"pinch above spread", func(c *Config) { c.Thresholds.Pinch = 0.3 }},
		{"zero fist threshold", func(c *Config) { c.Thresholds.Fist = 0 }},
		{"zero interval", func(c *Config) { c.TargetInterval = 0 }},
		{"empty zoom range", func(c *Config) { c.ZoomMin = 2; c.ZoomMax = 1 }},
		{"negative amplification", func(c *Config) { c.RotationAmplification = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			e, err := New(cfg)
			assert.Nil(t, e)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	t.Run("threshold errors keep their cause", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Thresholds.Swipe = 0
		_, err := New(cfg)
		assert.ErrorIs(t, err, gesture.ErrInvalidThresholds)
	})
}

func TestEngine_InitialState(t *testing.T) {
	e := newEngine(t)

	assert.Equal(t, control.State{Zoom: 1}, e.State())
	assert.True(t, e.Enabled())
	assert.NotEmpty(t, e.ID())

	ev, when := e.LastEvent()
	assert.True(t, ev.IsNone())
	assert.True(t, when.IsZero())
}

func TestEngine_FistSequence(t *testing.T) {
	e := newEngine(t)

	for i := 0; i < 3; i++ {
		ev, ok := e.OnFrame(detector.ClosedFistLandmarks(), at(i))
		require.True(t, ok, "frame %d should be accepted", i)
		assert.Equal(t, gesture.Assemble, ev.Kind())
	}
	assert.False(t, e.State().Exploded)

	ev, ok := e.OnFrame(detector.OpenPalmLandmarks(), at(3))
	require.True(t, ok)
	assert.Equal(t, gesture.Explode, ev.Kind())
	assert.True(t, e.State().Exploded)
}

func TestEngine_ZoomSequence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thresholds = gesture.Thresholds{Pinch: 0.08, Spread: 0.15, Fist: 0.2, Swipe: 0.02}
	e, err := New(cfg)
	require.NoError(t, err)

	spreads := []float64{0.20, 0.20, 0.05}
	wantKinds := []gesture.Kind{gesture.ZoomIn, gesture.ZoomIn, gesture.ZoomOut}
	wantZoom := []float64{1.002, 1.004, 1.003}

	for i, spread := range spreads {
		ev, ok := e.OnFrame(detector.TwoFingerLandmarks(spread), at(i))
		require.True(t, ok)
		assert.Equal(t, wantKinds[i], ev.Kind(), "frame %d", i)
		assert.InDelta(t, wantZoom[i], e.State().Zoom, 1e-9, "frame %d", i)
	}
}

func TestEngine_SwipeSequence(t *testing.T) {
	e := newEngine(t)

	ev, ok := e.OnFrame(resting(0.40), at(0))
	require.True(t, ok)
	assert.True(t, ev.IsNone())

	ev, ok = e.OnFrame(resting(0.50), at(1))
	require.True(t, ok)
	require.Equal(t, gesture.RotateRight, ev.Kind())

	velocity, hasVelocity := ev.Aux()
	require.True(t, hasVelocity)
	assert.InDelta(t, 0.10, velocity, 1e-9)
	assert.InDelta(t, 0.5, e.State().Rotation, 1e-9)
}

func TestEngine_RateLimit(t *testing.T) {
	e := newEngine(t)

	_, ok := e.OnFrame(detector.OpenPalmLandmarks(), t0)
	require.True(t, ok)
	require.True(t, e.State().Exploded)

	// A fist inside the interval is dropped and changes nothing.
	ev, ok := e.OnFrame(detector.ClosedFistLandmarks(), t0.Add(5*time.Millisecond))
	assert.False(t, ok)
	assert.True(t, ev.IsNone())
	assert.True(t, e.State().Exploded)

	// Dropped frames do not move the window.
	_, ok = e.OnFrame(detector.ClosedFistLandmarks(), t0.Add(16*time.Millisecond))
	assert.True(t, ok)
	assert.False(t, e.State().Exploded)

	stats := e.Stats()
	assert.Equal(t, uint64(2), stats.Accepted)
	assert.Equal(t, uint64(1), stats.Dropped)
}

func TestEngine_DroppedFrameDoesNotTouchTracker(t *testing.T) {
	e := newEngine(t)

	e.OnFrame(resting(0.40), t0)
	// Dropped: would otherwise move the stored wrist to 0.90.
	_, ok := e.OnFrame(resting(0.90), t0.Add(time.Millisecond))
	require.False(t, ok)

	ev, ok := e.OnFrame(resting(0.45), t0.Add(frameStep))
	require.True(t, ok)
	assert.Equal(t, gesture.RotateRight, ev.Kind())
	v, _ := ev.Aux()
	assert.InDelta(t, 0.05, v, 1e-9)
}

func TestEngine_NoHandKeepsTracker(t *testing.T) {
	e := newEngine(t)

	e.OnFrame(resting(0.40), at(0))
	e.OnNoHand(at(1))
	e.OnNoHand(at(2))

	ev, ok := e.OnFrame(resting(0.50), at(3))
	require.True(t, ok)
	assert.Equal(t, gesture.RotateRight, ev.Kind())
	assert.Equal(t, uint64(2), e.Stats().NoHand)
}

func TestEngine_SetEnabled(t *testing.T) {
	e := newEngine(t)

	e.OnFrame(detector.OpenPalmLandmarks(), at(0))
	e.OnFrame(detector.TwoFingerLandmarks(0.3), at(1))
	e.OnFrame(resting(0.40), at(2))
	require.Greater(t, e.State().Zoom, 1.0)

	e.SetEnabled(false)
	assert.False(t, e.Enabled())
	assert.Equal(t, control.State{Zoom: 1, Exploded: true}, e.State())

	_, ok := e.OnFrame(detector.ClosedFistLandmarks(), at(3))
	assert.False(t, ok, "frames are dropped while disabled")
	assert.True(t, e.State().Exploded)

	e.SetEnabled(true)
	// First frame after re-enabling has no wrist history.
	ev, ok := e.OnFrame(resting(0.90), at(4))
	require.True(t, ok)
	assert.True(t, ev.IsNone())

	ev, ok = e.OnFrame(resting(0.80), at(5))
	require.True(t, ok)
	assert.Equal(t, gesture.RotateLeft, ev.Kind())
}

func TestEngine_SetEnabledIsIdempotent(t *testing.T) {
	e := newEngine(t)

	e.OnFrame(detector.TwoFingerLandmarks(0.3), at(0))
	zoom := e.State().Zoom

	e.SetEnabled(true)
	assert.Equal(t, zoom, e.State().Zoom, "enabling an enabled engine resets nothing")
}

func TestEngine_ResetDispatchState(t *testing.T) {
	e := newEngine(t)

	e.OnFrame(detector.OpenPalmLandmarks(), at(0))
	e.OnFrame(detector.TwoFingerLandmarks(0.3), at(1))
	e.OnFrame(resting(0.40), at(2))
	e.OnFrame(resting(0.60), at(3))

	e.ResetDispatchState()
	assert.Equal(t, control.State{Zoom: 1, Rotation: 0, Exploded: true}, e.State())
}

func TestEngine_Observers(t *testing.T) {
	e := newEngine(t)

	var (
		mu      sync.Mutex
		updates []Update
	)
	unsubscribe := e.Subscribe(func(u Update) {
		mu.Lock()
		defer mu.Unlock()
		updates = append(updates, u)
	})

	e.OnFrame(detector.ClosedFistLandmarks(), at(0))
	// None is still delivered, the third frame is dropped.
	e.OnFrame(resting(0.5), at(1))
	e.OnFrame(detector.OpenPalmLandmarks(), at(1).Add(1))

	mu.Lock()
	require.Len(t, updates, 2)
	assert.Equal(t, gesture.Assemble, updates[0].Event.Kind())
	assert.True(t, updates[1].Event.IsNone())
	assert.Equal(t, at(1), updates[1].At)
	assert.Equal(t, e.State(), updates[1].State)
	mu.Unlock()

	unsubscribe()
	e.OnFrame(detector.OpenPalmLandmarks(), at(2))

	mu.Lock()
	assert.Len(t, updates, 2)
	mu.Unlock()
}

func TestEngine_ObserverCanReadState(t *testing.T) {
	e := newEngine(t)

	var seen control.State
	e.Subscribe(func(Update) {
		// Observers run after the lock is released.
		seen = e.State()
	})

	e.OnFrame(detector.OpenPalmLandmarks(), at(0))
	assert.True(t, seen.Exploded)
}

func TestEngine_ConcurrentReaders(t *testing.T) {
	e := newEngine(t)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_ = e.State()
					_ = e.Stats()
				}
			}
		}()
	}

	for i := 0; i < 100; i++ {
		e.OnFrame(detector.TwoFingerLandmarks(0.3), at(i))
	}
	close(stop)
	wg.Wait()

	assert.Equal(t, uint64(100), e.Stats().Accepted)
	assert.LessOrEqual(t, e.State().Zoom, 2.0)
}

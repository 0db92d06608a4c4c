package capture

import (
	"testing"
	"time"
)

func TestGate_Defaults(t *testing.T) {
	g := NewGate(GateConfig{})
	cfg := g.Config()

	if cfg.IdleFPS != DefaultIdleFPS || cfg.ActiveFPS != DefaultActiveFPS || cfg.IdleTimeout != DefaultIdleTimeout {
		t.Errorf("Config() = %+v", cfg)
	}
	if g.Active() {
		t.Error("gate should start idle")
	}
	if g.Interval() != 200*time.Millisecond {
		t.Errorf("idle Interval() = %v, want 200ms", g.Interval())
	}
}

func TestGate_Transitions(t *testing.T) {
	g := NewGate(GateConfig{IdleFPS: 5, ActiveFPS: 20, IdleTimeout: time.Second})
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	steps := []struct {
		offset      time.Duration
		motion      bool
		wantChanged bool
		wantActive  bool
	}{
		{0, false, false, false},
		{100 * time.Millisecond, true, true, true},
		{200 * time.Millisecond, true, false, true},
		{900 * time.Millisecond, false, false, true},
		// Exactly the timeout is not enough.
		{1200 * time.Millisecond, false, false, true},
		{1201 * time.Millisecond, false, true, false},
		{1500 * time.Millisecond, false, false, false},
		{1600 * time.Millisecond, true, true, true},
	}

	for i, s := range steps {
		changed := g.Observe(s.motion, t0.Add(s.offset))
		if changed != s.wantChanged {
			t.Errorf("step %d: changed = %v, want %v", i, changed, s.wantChanged)
		}
		if g.Active() != s.wantActive {
			t.Errorf("step %d: Active() = %v, want %v", i, g.Active(), s.wantActive)
		}
	}

	if g.FPS() != 20 || g.Interval() != 50*time.Millisecond {
		t.Errorf("active FPS() = %d, Interval() = %v", g.FPS(), g.Interval())
	}

	g.Reset()
	if g.Active() || g.FPS() != 5 {
		t.Errorf("after Reset: Active() = %v, FPS() = %d", g.Active(), g.FPS())
	}
}

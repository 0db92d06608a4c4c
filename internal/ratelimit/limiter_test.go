package ratelimit

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestLimiter_FirstCallAlwaysPasses(t *testing.T) {
	l := New(16 * time.Millisecond)

	if !l.ShouldProcess(epoch) {
		t.Fatal("first call should be admitted")
	}
}

func TestLimiter_DropsWithinInterval(t *testing.T) {
	interval := 16 * time.Millisecond
	l := New(interval)

	admitted := 0
	// 10 calls spread over 15ms, all within one interval
	for i := 0; i < 10; i++ {
		now := epoch.Add(time.Duration(i) * 1500 * time.Microsecond)
		if l.ShouldProcess(now) {
			admitted++
		}
	}

	if admitted != 1 {
		t.Errorf("admitted %d calls within one interval, want 1", admitted)
	}
	if l.Calls() != 10 {
		t.Errorf("Calls() = %d, want 10", l.Calls())
	}
	if want := epoch.Add(9 * 1500 * time.Microsecond); !l.LastCallAt().Equal(want) {
		t.Errorf("LastCallAt() = %v, want %v", l.LastCallAt(), want)
	}
}

func TestLimiter_AdmitsAfterInterval(t *testing.T) {
	tests := []struct {
		name    string
		offsets []time.Duration
		want    []bool
	}{
		{
			name:    "exactly one interval later",
			offsets: []time.Duration{0, 16 * time.Millisecond},
			want:    []bool{true, true},
		},
		{
			name:    "just short of the interval",
			offsets: []time.Duration{0, 15 * time.Millisecond},
			want:    []bool{true, false},
		},
		{
			name:    "rejected calls do not move the window",
			offsets: []time.Duration{0, 10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond},
			want:    []bool{true, false, true, false},
		},
		{
			name:    "small backward step is rejected",
			offsets: []time.Duration{50 * time.Millisecond, 40 * time.Millisecond},
			want:    []bool{true, false},
		},
		{
			name:    "clock reset restarts the window",
			offsets: []time.Duration{50 * time.Millisecond, 0, 10 * time.Millisecond, 16 * time.Millisecond},
			want:    []bool{true, true, false, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(16 * time.Millisecond)
			for i, off := range tt.offsets {
				if got := l.ShouldProcess(epoch.Add(off)); got != tt.want[i] {
					t.Errorf("call %d at +%v = %v, want %v", i, off, got, tt.want[i])
				}
			}
		})
	}
}

func TestLimiter_SwitchingToAnEarlierClock(t *testing.T) {
	l := New(16 * time.Millisecond)

	if !l.ShouldProcess(time.Now()) {
		t.Fatal("first call should be admitted")
	}

	// A second source stamping frames from its own, much earlier, clock
	// keeps getting frames through at its own pace.
	admitted := 0
	for i := 0; i < 100; i++ {
		if l.ShouldProcess(time.UnixMilli(int64(1000 + i*100))) {
			admitted++
		}
	}
	if admitted != 100 {
		t.Errorf("admitted %d of 100 calls spaced 100ms apart, want 100", admitted)
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(time.Second)

	l.ShouldProcess(epoch)
	if l.ShouldProcess(epoch.Add(time.Millisecond)) {
		t.Fatal("second call should be rejected before reset")
	}

	l.Reset()
	if !l.ShouldProcess(epoch.Add(2 * time.Millisecond)) {
		t.Error("call after reset should be admitted")
	}
}

func TestLimiter_DefaultInterval(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		if got := New(d).Interval(); got != DefaultInterval {
			t.Errorf("New(%v).Interval() = %v, want %v", d, got, DefaultInterval)
		}
	}
}

func TestFPSMonitor(t *testing.T) {
	t.Run("zero before a full window", func(t *testing.T) {
		var m FPSMonitor
		for i := 0; i < 5; i++ {
			m.Update(epoch.Add(time.Duration(i) * 100 * time.Millisecond))
		}
		if m.FPS() != 0 {
			t.Errorf("FPS() = %d, want 0", m.FPS())
		}
	})

	t.Run("measures events per second", func(t *testing.T) {
		var m FPSMonitor
		var got int
		// 21 events, 50ms apart, spanning exactly one second
		for i := 0; i <= 20; i++ {
			got = m.Update(epoch.Add(time.Duration(i) * 50 * time.Millisecond))
		}
		if got != 21 {
			t.Errorf("Update() = %d, want 21", got)
		}
	})

	t.Run("reset clears measurement", func(t *testing.T) {
		var m FPSMonitor
		m.Update(epoch)
		m.Update(epoch.Add(time.Second))
		m.Reset()
		if m.FPS() != 0 {
			t.Errorf("FPS() after reset = %d, want 0", m.FPS())
		}
	})
}

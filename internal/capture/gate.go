package capture

import "time"

// Gate defaults.
const (
	DefaultIdleFPS     = 5
	DefaultActiveFPS   = 30
	DefaultIdleTimeout = 2 * time.Second
)

// GateConfig controls the idle/active capture rates.
type GateConfig struct {
	IdleFPS     int
	ActiveFPS   int
	IdleTimeout time.Duration
}

// Gate tracks whether the scene is active. It starts idle, turns active
// on the first motion and drops back to idle once no motion has been seen
// for IdleTimeout. The hand detector only runs while active.
//
// A Gate is not safe for concurrent use.
type Gate struct {
	config     GateConfig
	active     bool
	lastMotion time.Time
}

// NewGate creates an idle Gate. Non-positive fields take their defaults.
func NewGate(cfg GateConfig) *Gate {
	if cfg.IdleFPS <= 0 {
		cfg.IdleFPS = DefaultIdleFPS
	}
	if cfg.ActiveFPS <= 0 {
		cfg.ActiveFPS = DefaultActiveFPS
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	return &Gate{config: cfg}
}

// Observe records the motion result for a frame captured at now and
// reports whether the gate switched between idle and active.
func (g *Gate) Observe(motion bool, now time.Time) bool {
	if motion {
		g.lastMotion = now
		if !g.active {
			g.active = true
			return true
		}
		return false
	}

	if g.active && now.Sub(g.lastMotion) > g.config.IdleTimeout {
		g.active = false
		return true
	}
	return false
}

// Active reports whether the scene is active.
func (g *Gate) Active() bool {
	return g.active
}

// FPS returns the capture rate for the current mode.
func (g *Gate) FPS() int {
	if g.active {
		return g.config.ActiveFPS
	}
	return g.config.IdleFPS
}

// Interval returns the time between frames for the current mode.
func (g *Gate) Interval() time.Duration {
	return time.Second / time.Duration(g.FPS())
}

// Config returns the gate configuration with defaults applied.
func (g *Gate) Config() GateConfig {
	return g.config
}

// Reset returns the gate to idle.
func (g *Gate) Reset() {
	g.active = false
	g.lastMotion = time.Time{}
}

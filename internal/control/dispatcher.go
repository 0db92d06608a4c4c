// Package control applies gesture events to the viewer's continuous control
// state.
package control

import (
	"errors"
	"fmt"
	"math"

	"github.com/ayusman/holoview/internal/gesture"
)

// Zoom mapping constants. A fingertip distance d changes the zoom factor by
// (d - zoomPivot) * zoomGain * zoomStep, so spreads wider than zoomPivot
// zoom in and narrower ones zoom out.
const (
	zoomPivot = 0.1
	zoomGain  = 2.0
	zoomStep  = 0.01
)

// Defaults for Config.
const (
	DefaultRotationAmplification = 5.0
	DefaultZoomMin               = 0.5
	DefaultZoomMax               = 2.0
)

// ErrInvalidConfig is wrapped by Config.Validate failures.
var ErrInvalidConfig = errors.New("invalid control config")

// State is the viewer control state driven by gestures.
type State struct {
	// Zoom is the camera zoom factor, kept within the configured range.
	Zoom float64 `json:"zoom"`
	// Rotation is the accumulated model yaw in radians. It is not wrapped.
	Rotation float64 `json:"rotation"`
	// Exploded reports whether the model is shown in exploded view.
	Exploded bool `json:"exploded"`
}

// Config holds the dispatch tunables.
type Config struct {
	RotationAmplification float64
	ZoomMin               float64
	ZoomMax               float64
}

// DefaultConfig returns the default dispatch tunables.
func DefaultConfig() Config {
	return Config{
		RotationAmplification: DefaultRotationAmplification,
		ZoomMin:               DefaultZoomMin,
		ZoomMax:               DefaultZoomMax,
	}
}

// Validate checks the amplification is positive and the zoom range is a
// non-empty positive interval.
func (c Config) Validate() error {
	if !(c.RotationAmplification > 0) {
		return fmt.Errorf("%w: rotation amplification must be positive, got %v", ErrInvalidConfig, c.RotationAmplification)
	}
	if !(c.ZoomMin > 0) {
		return fmt.Errorf("%w: zoom min must be positive, got %v", ErrInvalidConfig, c.ZoomMin)
	}
	if !(c.ZoomMin < c.ZoomMax) {
		return fmt.Errorf("%w: zoom range [%v, %v] is empty", ErrInvalidConfig, c.ZoomMin, c.ZoomMax)
	}
	return nil
}

// Dispatcher maps gesture events onto State. It holds only configuration;
// all state is passed in and returned.
type Dispatcher struct {
	config Config
}

// NewDispatcher creates a Dispatcher. The config is expected to be valid.
func NewDispatcher(config Config) *Dispatcher {
	return &Dispatcher{config: config}
}

// Config returns the dispatch tunables.
func (d *Dispatcher) Config() Config {
	return d.config
}

// Baseline returns the state a fresh session starts from: zoom 1 (clamped
// into range), no rotation, assembled.
func (d *Dispatcher) Baseline() State {
	return State{Zoom: d.clampZoom(1)}
}

// Reset returns s with zoom and rotation restored to the baseline. The
// exploded flag is kept.
func (d *Dispatcher) Reset(s State) State {
	base := d.Baseline()
	s.Zoom = base.Zoom
	s.Rotation = base.Rotation
	return s
}

// Dispatch applies ev to s and returns the new state. Events missing the
// auxiliary value they need leave the state unchanged.
func (d *Dispatcher) Dispatch(ev gesture.Event, s State) State {
	switch ev.Kind() {
	case gesture.ZoomIn, gesture.ZoomOut:
		if distance, ok := ev.Aux(); ok {
			delta := (distance - zoomPivot) * zoomGain
			s.Zoom = d.clampZoom(s.Zoom + delta*zoomStep)
		}

	case gesture.RotateLeft, gesture.RotateRight:
		if velocity, ok := ev.Aux(); ok {
			s.Rotation += velocity * d.config.RotationAmplification
		}

	case gesture.Explode:
		s.Exploded = true

	case gesture.Assemble:
		s.Exploded = false

	case gesture.None:

	default:
		// Unknown kinds are ignored.
	}
	return s
}

func (d *Dispatcher) clampZoom(z float64) float64 {
	return math.Min(math.Max(z, d.config.ZoomMin), d.config.ZoomMax)
}

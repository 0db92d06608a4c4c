package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/holoview/internal/control"
	"github.com/ayusman/holoview/internal/gesture"
	"github.com/ayusman/holoview/internal/ratelimit"
)

// ErrInvalidConfig is returned by New when the configuration is rejected.
var ErrInvalidConfig = errors.New("invalid engine config")

// Config is fixed when the engine is constructed.
type Config struct {
	Thresholds gesture.Thresholds

	// TargetInterval is the minimum time between processed frames.
	TargetInterval time.Duration

	// RotationAmplification scales swipe velocity into radians.
	RotationAmplification float64

	// ZoomMin and ZoomMax bound the zoom factor.
	ZoomMin float64
	ZoomMax float64
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	ctl := control.DefaultConfig()
	return Config{
		Thresholds:            gesture.DefaultThresholds(),
		TargetInterval:        ratelimit.DefaultInterval,
		RotationAmplification: ctl.RotationAmplification,
		ZoomMin:               ctl.ZoomMin,
		ZoomMax:               ctl.ZoomMax,
	}
}

// Validate checks every tunable. The returned error wraps ErrInvalidConfig
// and the underlying package error.
func (c Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.TargetInterval <= 0 {
		return fmt.Errorf("%w: target interval must be positive, got %v", ErrInvalidConfig, c.TargetInterval)
	}
	if err := c.controlConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) controlConfig() control.Config {
	return control.Config{
		RotationAmplification: c.RotationAmplification,
		ZoomMin:               c.ZoomMin,
		ZoomMax:               c.ZoomMax,
	}
}

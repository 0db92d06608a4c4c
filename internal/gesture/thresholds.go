package gesture

import (
	"errors"
	"fmt"
)

// Default thresholds, in normalized image units.
const (
	DefaultPinchThreshold  = 0.08
	DefaultSpreadThreshold = 0.15
	DefaultFistThreshold   = 0.2
	DefaultSwipeThreshold  = 0.02
)

// ErrInvalidThresholds is wrapped by Thresholds.Validate failures.
var ErrInvalidThresholds = errors.New("invalid gesture thresholds")

// Thresholds are the classifier tunables. Distances and the per-frame
// swipe displacement share the landmark coordinate unit.
type Thresholds struct {
	// Pinch is the fingertip distance below which two fingers zoom out.
	Pinch float64 `json:"pinch"`
	// Spread is the fingertip distance above which two fingers zoom in.
	Spread float64 `json:"spread"`
	// Fist is the mean wrist-to-fingertip distance below which the hand
	// counts as closed.
	Fist float64 `json:"fist"`
	// Swipe is the wrist displacement between frames that counts as a swipe.
	Swipe float64 `json:"swipe"`
}

// DefaultThresholds returns the default tunables.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Pinch:  DefaultPinchThreshold,
		Spread: DefaultSpreadThreshold,
		Fist:   DefaultFistThreshold,
		Swipe:  DefaultSwipeThreshold,
	}
}

// Validate checks every threshold is positive and that the pinch/spread
// dead zone is not empty.
func (t Thresholds) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"pinch", t.Pinch},
		{"spread", t.Spread},
		{"fist", t.Fist},
		{"swipe", t.Swipe},
	}
	for _, c := range checks {
		if !(c.value > 0) {
			return fmt.Errorf("%w: %s threshold must be positive, got %v", ErrInvalidThresholds, c.name, c.value)
		}
	}
	if t.Pinch >= t.Spread {
		return fmt.Errorf("%w: pinch threshold %v must be below spread threshold %v", ErrInvalidThresholds, t.Pinch, t.Spread)
	}
	return nil
}

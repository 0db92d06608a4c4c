// Package config loads engine and capture tunables from a JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ayusman/holoview/internal/control"
	"github.com/ayusman/holoview/internal/engine"
	"github.com/ayusman/holoview/internal/gesture"
	"github.com/ayusman/holoview/internal/ratelimit"
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Capture defaults.
const (
	DefaultMotionThreshold = 1.0 // percent of changed pixels
	DefaultIdleFPS         = 5
	DefaultActiveFPS       = 30
	DefaultIdleTimeout     = 2 * time.Second
)

// File is the on-disk configuration. Every field is optional; the Get*
// methods fall back to defaults for anything left out, so partial files
// are safe. The same schema is accepted by PUT /api/config.
type File struct {
	// Gesture thresholds
	PinchThreshold  *float64 `json:"pinch_threshold,omitempty"`
	SpreadThreshold *float64 `json:"spread_threshold,omitempty"`
	FistThreshold   *float64 `json:"fist_threshold,omitempty"`
	SwipeThreshold  *float64 `json:"swipe_threshold,omitempty"`

	// Engine params
	TargetInterval        *string  `json:"target_interval,omitempty"` // duration string like "16ms"
	TargetIntervalMs      *float64 `json:"target_interval_ms,omitempty"`
	RotationAmplification *float64 `json:"rotation_amplification,omitempty"`
	ZoomMin               *float64 `json:"zoom_min,omitempty"`
	ZoomMax               *float64 `json:"zoom_max,omitempty"`

	// Capture params
	MotionThreshold *float64 `json:"motion_threshold,omitempty"`
	IdleFPS         *int     `json:"idle_fps,omitempty"`
	ActiveFPS       *int     `json:"active_fps,omitempty"`
	IdleTimeout     *string  `json:"idle_timeout,omitempty"` // duration string like "2s"
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }

// Empty returns a File with every field unset.
func Empty() *File {
	return &File{}
}

// Defaults returns a File with every field set to its default.
func Defaults() *File {
	th := gesture.DefaultThresholds()
	return &File{
		PinchThreshold:        ptrFloat64(th.Pinch),
		SpreadThreshold:       ptrFloat64(th.Spread),
		FistThreshold:         ptrFloat64(th.Fist),
		SwipeThreshold:        ptrFloat64(th.Swipe),
		TargetInterval:        ptrString(ratelimit.DefaultInterval.String()),
		RotationAmplification: ptrFloat64(control.DefaultRotationAmplification),
		ZoomMin:               ptrFloat64(control.DefaultZoomMin),
		ZoomMax:               ptrFloat64(control.DefaultZoomMax),
		MotionThreshold:       ptrFloat64(DefaultMotionThreshold),
		IdleFPS:               ptrInt(DefaultIdleFPS),
		ActiveFPS:             ptrInt(DefaultActiveFPS),
		IdleTimeout:           ptrString(DefaultIdleTimeout.String()),
	}
}

// Load reads a File from a JSON file. The path must have a .json
// extension and the file must be at most 1MB.
func Load(path string) (*File, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a File from JSON.
func Parse(data []byte) (*File, error) {
	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Merge returns a copy of c with every field set in other overriding it.
func (c *File) Merge(other *File) *File {
	out := *c
	if other == nil {
		return &out
	}
	if other.PinchThreshold != nil {
		out.PinchThreshold = other.PinchThreshold
	}
	if other.SpreadThreshold != nil {
		out.SpreadThreshold = other.SpreadThreshold
	}
	if other.FistThreshold != nil {
		out.FistThreshold = other.FistThreshold
	}
	if other.SwipeThreshold != nil {
		out.SwipeThreshold = other.SwipeThreshold
	}
	// The two interval spellings replace each other.
	if other.TargetInterval != nil {
		out.TargetInterval = other.TargetInterval
		out.TargetIntervalMs = nil
	}
	if other.TargetIntervalMs != nil {
		out.TargetIntervalMs = other.TargetIntervalMs
		out.TargetInterval = nil
	}
	if other.RotationAmplification != nil {
		out.RotationAmplification = other.RotationAmplification
	}
	if other.ZoomMin != nil {
		out.ZoomMin = other.ZoomMin
	}
	if other.ZoomMax != nil {
		out.ZoomMax = other.ZoomMax
	}
	if other.MotionThreshold != nil {
		out.MotionThreshold = other.MotionThreshold
	}
	if other.IdleFPS != nil {
		out.IdleFPS = other.IdleFPS
	}
	if other.ActiveFPS != nil {
		out.ActiveFPS = other.ActiveFPS
	}
	if other.IdleTimeout != nil {
		out.IdleTimeout = other.IdleTimeout
	}
	return &out
}

// Validate checks the fields that are set. Cross-field engine checks are
// done by running the resolved values through engine.Config.Validate.
func (c *File) Validate() error {
	if c.TargetInterval != nil && *c.TargetInterval != "" {
		if _, err := time.ParseDuration(*c.TargetInterval); err != nil {
			return fmt.Errorf("invalid target_interval '%s': %w", *c.TargetInterval, err)
		}
	}
	if c.TargetIntervalMs != nil {
		if c.TargetInterval != nil {
			return fmt.Errorf("set only one of target_interval and target_interval_ms")
		}
		if *c.TargetIntervalMs <= 0 {
			return fmt.Errorf("target_interval_ms must be positive, got %f", *c.TargetIntervalMs)
		}
	}
	if c.IdleTimeout != nil && *c.IdleTimeout != "" {
		if _, err := time.ParseDuration(*c.IdleTimeout); err != nil {
			return fmt.Errorf("invalid idle_timeout '%s': %w", *c.IdleTimeout, err)
		}
	}
	if c.MotionThreshold != nil && (*c.MotionThreshold <= 0 || *c.MotionThreshold > 100) {
		return fmt.Errorf("motion_threshold must be in (0, 100], got %f", *c.MotionThreshold)
	}
	if c.IdleFPS != nil && *c.IdleFPS <= 0 {
		return fmt.Errorf("idle_fps must be positive, got %d", *c.IdleFPS)
	}
	if c.ActiveFPS != nil && *c.ActiveFPS <= 0 {
		return fmt.Errorf("active_fps must be positive, got %d", *c.ActiveFPS)
	}
	if c.GetIdleFPS() > c.GetActiveFPS() {
		return fmt.Errorf("idle_fps (%d) must not exceed active_fps (%d)", c.GetIdleFPS(), c.GetActiveFPS())
	}

	return c.EngineConfig().Validate()
}

// EngineConfig resolves the engine configuration.
func (c *File) EngineConfig() engine.Config {
	return engine.Config{
		Thresholds: gesture.Thresholds{
			Pinch:  c.GetPinchThreshold(),
			Spread: c.GetSpreadThreshold(),
			Fist:   c.GetFistThreshold(),
			Swipe:  c.GetSwipeThreshold(),
		},
		TargetInterval:        c.GetTargetInterval(),
		RotationAmplification: c.GetRotationAmplification(),
		ZoomMin:               c.GetZoomMin(),
		ZoomMax:               c.GetZoomMax(),
	}
}

// FromEngine returns a File with the engine fields set from cfg and the
// capture fields left unset.
func FromEngine(cfg engine.Config) *File {
	return &File{
		PinchThreshold:        ptrFloat64(cfg.Thresholds.Pinch),
		SpreadThreshold:       ptrFloat64(cfg.Thresholds.Spread),
		FistThreshold:         ptrFloat64(cfg.Thresholds.Fist),
		SwipeThreshold:        ptrFloat64(cfg.Thresholds.Swipe),
		TargetInterval:        ptrString(cfg.TargetInterval.String()),
		RotationAmplification: ptrFloat64(cfg.RotationAmplification),
		ZoomMin:               ptrFloat64(cfg.ZoomMin),
		ZoomMax:               ptrFloat64(cfg.ZoomMax),
	}
}

// GetPinchThreshold returns the pinch threshold or the default.
func (c *File) GetPinchThreshold() float64 {
	if c.PinchThreshold == nil {
		return gesture.DefaultPinchThreshold
	}
	return *c.PinchThreshold
}

// GetSpreadThreshold returns the spread threshold or the default.
func (c *File) GetSpreadThreshold() float64 {
	if c.SpreadThreshold == nil {
		return gesture.DefaultSpreadThreshold
	}
	return *c.SpreadThreshold
}

// GetFistThreshold returns the fist threshold or the default.
func (c *File) GetFistThreshold() float64 {
	if c.FistThreshold == nil {
		return gesture.DefaultFistThreshold
	}
	return *c.FistThreshold
}

// GetSwipeThreshold returns the swipe threshold or the default.
func (c *File) GetSwipeThreshold() float64 {
	if c.SwipeThreshold == nil {
		return gesture.DefaultSwipeThreshold
	}
	return *c.SwipeThreshold
}

// GetTargetInterval returns the target interval from target_interval_ms or
// target_interval, or the default.
func (c *File) GetTargetInterval() time.Duration {
	if c.TargetIntervalMs != nil {
		return time.Duration(*c.TargetIntervalMs * float64(time.Millisecond))
	}
	return parseDuration(c.TargetInterval, ratelimit.DefaultInterval)
}

// GetRotationAmplification returns the rotation amplification or the default.
func (c *File) GetRotationAmplification() float64 {
	if c.RotationAmplification == nil {
		return control.DefaultRotationAmplification
	}
	return *c.RotationAmplification
}

// GetZoomMin returns the lower zoom bound or the default.
func (c *File) GetZoomMin() float64 {
	if c.ZoomMin == nil {
		return control.DefaultZoomMin
	}
	return *c.ZoomMin
}

// GetZoomMax returns the upper zoom bound or the default.
func (c *File) GetZoomMax() float64 {
	if c.ZoomMax == nil {
		return control.DefaultZoomMax
	}
	return *c.ZoomMax
}

// GetMotionThreshold returns the motion threshold or the default.
func (c *File) GetMotionThreshold() float64 {
	if c.MotionThreshold == nil {
		return DefaultMotionThreshold
	}
	return *c.MotionThreshold
}

// GetIdleFPS returns the idle capture rate or the default.
func (c *File) GetIdleFPS() int {
	if c.IdleFPS == nil {
		return DefaultIdleFPS
	}
	return *c.IdleFPS
}

// GetActiveFPS returns the active capture rate or the default.
func (c *File) GetActiveFPS() int {
	if c.ActiveFPS == nil {
		return DefaultActiveFPS
	}
	return *c.ActiveFPS
}

// GetIdleTimeout parses and returns the idle timeout.
func (c *File) GetIdleTimeout() time.Duration {
	return parseDuration(c.IdleTimeout, DefaultIdleTimeout)
}

func parseDuration(s *string, def time.Duration) time.Duration {
	if s == nil || *s == "" {
		return def
	}
	d, err := time.ParseDuration(*s)
	if err != nil {
		return def
	}
	return d
}

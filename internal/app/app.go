// Package app runs the capture pipeline that feeds hand landmarks from the
// camera into the gesture engine.
package app

import (
	"errors"
	"log"
	"sync"

	"github.com/ayusman/holoview/internal/capture"
	"github.com/ayusman/holoview/internal/detector"
	"github.com/ayusman/holoview/internal/engine"
)

// ErrNoEngine is returned by New when Config.Engine is nil.
var ErrNoEngine = errors.New("app requires an engine")

// Config holds configuration options for the application.
type Config struct {
	Engine *engine.Engine

	// Camera defaults to a webcam built from CameraConfig.
	Camera       capture.Camera
	CameraConfig capture.CameraConfig

	// Detector defaults to MediaPipe, falling back to a mock detector that
	// never sees a hand.
	Detector       detector.Detector
	DetectorConfig detector.Config

	MotionThreshold float64
	Gate            capture.GateConfig

	// Preview receives annotated frames while someone is watching. Optional.
	Preview *capture.Preview
}

// App owns the capture pipeline.
type App struct {
	engine   *engine.Engine
	camera   capture.Camera
	motion   *capture.MotionDetector
	gate     *capture.Gate
	detector detector.Detector
	preview  *capture.Preview

	mu      sync.RWMutex
	stopCh  chan struct{}
	done    chan struct{}
	lastErr string
}

// New creates an App. The pipeline does not run until Start is called.
func New(cfg Config) (*App, error) {
	if cfg.Engine == nil {
		return nil, ErrNoEngine
	}

	a := &App{
		engine:   cfg.Engine,
		camera:   cfg.Camera,
		motion:   capture.NewMotionDetector(cfg.MotionThreshold),
		gate:     capture.NewGate(cfg.Gate),
		detector: cfg.Detector,
		preview:  cfg.Preview,
	}

	if a.camera == nil {
		a.camera = capture.NewCamera(cfg.CameraConfig)
	}

	if a.detector == nil {
		dcfg := cfg.DetectorConfig
		if dcfg.MaxHands == 0 {
			dcfg = detector.DefaultConfig()
		}
		if mp, err := detector.NewMediaPipeDetector(dcfg); err == nil {
			a.detector = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			a.detector = detector.NewMockDetector()
		}
	}

	return a, nil
}

// Start opens the camera and begins the pipeline. Calling Start on a
// running App does nothing.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.gate.Reset()
	a.camera.SetFPS(a.gate.FPS())

	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.runPipeline(a.stopCh, a.done)

	log.Println("Capture pipeline started")
	return nil
}

// Stop halts the pipeline and closes the camera. The detector stays open
// so the pipeline can be restarted; Close releases it.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, done := a.stopCh, a.done
	a.stopCh, a.done = nil, nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-done

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Reset()

	log.Println("Capture pipeline stopped")
}

// Close stops the pipeline and releases the detector and motion state.
func (a *App) Close() error {
	a.Stop()
	a.motion.Close()
	return a.detector.Close()
}

// Running reports whether the pipeline goroutine is active.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// Engine returns the gesture engine frames are delivered to.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	return a.detector
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

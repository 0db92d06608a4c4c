package app

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/holoview/internal/detector"
)

// runPipeline reads frames at the gate's rate until stop is closed.
//
// While the scene is idle only motion detection runs. Once motion is seen
// the camera switches to the active rate and every frame goes through the
// hand detector; the first hand is delivered to the engine and frames
// without a hand are reported as such. Frames are skipped entirely while
// gesture input is disabled.
func (a *App) runPipeline(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(a.gate.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !a.engine.Enabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				a.logError("Error reading frame", err)
				continue
			}

			if a.processFrame(frame, time.Now()) {
				a.camera.SetFPS(a.gate.FPS())
				ticker.Reset(a.gate.Interval())
			}
			frame.Close()
		}
	}
}

// processFrame runs one frame through the motion gate, detector and
// engine. It reports whether the gate changed mode.
func (a *App) processFrame(frame *gocv.Mat, now time.Time) bool {
	moving, _ := a.motion.Detect(frame)

	switched := a.gate.Observe(moving, now)
	if switched {
		if a.gate.Active() {
			log.Println("Switched to active mode")
		} else {
			log.Println("Switched to idle mode")
		}
	}

	if !a.gate.Active() {
		a.publish(frame, nil, now)
		return switched
	}

	hands, err := a.detector.Detect(frame)
	if err != nil {
		a.logError("Error detecting hands", err)
		a.publish(frame, nil, now)
		return switched
	}
	a.clearError()

	if len(hands) == 0 {
		a.engine.OnNoHand(now)
	} else {
		a.engine.OnFrame(hands[0], now)
	}

	a.publish(frame, hands, now)
	return switched
}

func (a *App) publish(frame *gocv.Mat, hands []detector.Frame, now time.Time) {
	if a.preview == nil {
		return
	}
	if err := a.preview.Publish(frame, hands, now); err != nil {
		a.logError("Error encoding preview", err)
	}
}

// logError logs err unless it repeats the previous message, so a camera
// that keeps failing does not flood the log.
func (a *App) logError(msg string, err error) {
	line := msg + ": " + err.Error()

	a.mu.Lock()
	repeated := line == a.lastErr
	a.lastErr = line
	a.mu.Unlock()

	if !repeated {
		log.Print(line)
	}
}

func (a *App) clearError() {
	a.mu.Lock()
	a.lastErr = ""
	a.mu.Unlock()
}

package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Motion detection constants.
const (
	// DefaultMotionThreshold is the percentage of changed pixels that
	// counts as motion.
	DefaultMotionThreshold = 1.0
	// motionWidth is the width frames are shrunk to before differencing.
	motionWidth = 160
	// blurSize is the Gaussian kernel applied after shrinking.
	blurSize = 7
	// diffThreshold is the per-pixel grey level change that counts.
	diffThreshold = 25
)

// MotionDetector compares each frame with the previous one and reports
// whether enough of the picture changed. Frames are shrunk, converted to
// grey and blurred first, so sensor noise and small flicker are ignored.
type MotionDetector struct {
	mu        sync.Mutex
	threshold float64
	prev      gocv.Mat
	hasPrev   bool
}

// NewMotionDetector creates a detector that reports motion when more than
// threshold percent of pixels change. Non-positive thresholds use
// DefaultMotionThreshold.
func NewMotionDetector(threshold float64) *MotionDetector {
	if threshold <= 0 {
		threshold = DefaultMotionThreshold
	}
	return &MotionDetector{
		threshold: threshold,
		prev:      gocv.NewMat(),
	}
}

// Detect reports whether frame differs from the previous one and the
// percentage of changed pixels. The first frame only sets the baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	current := prepare(frame)

	if !m.hasPrev || current.Rows() != m.prev.Rows() || current.Cols() != m.prev.Cols() {
		m.prev.Close()
		m.prev = current
		m.hasPrev = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(current, m.prev, &diff)
	gocv.Threshold(diff, &diff, diffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(diff)) / float64(diff.Rows()*diff.Cols()) * 100

	m.prev.Close()
	m.prev = current

	return changed > m.threshold, changed
}

// prepare shrinks, greys and blurs a frame. The caller owns the result.
func prepare(frame *gocv.Mat) gocv.Mat {
	small := gocv.NewMat()
	defer small.Close()

	if frame.Cols() > motionWidth {
		height := frame.Rows() * motionWidth / frame.Cols()
		gocv.Resize(*frame, &small, image.Point{X: motionWidth, Y: height}, 0, 0, gocv.InterpolationArea)
	} else {
		frame.CopyTo(&small)
	}

	gray := gocv.NewMat()
	if small.Channels() > 1 {
		gocv.CvtColor(small, &gray, gocv.ColorBGRToGray)
	} else {
		small.CopyTo(&gray)
	}

	gocv.GaussianBlur(gray, &gray, image.Point{X: blurSize, Y: blurSize}, 0, 0, gocv.BorderDefault)
	return gray
}

// Reset drops the baseline so the next frame starts a new comparison.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prev.Close()
	m.prev = gocv.NewMat()
	m.hasPrev = false
}

// Close releases the baseline frame. The detector can still be used and
// behaves as if freshly reset.
func (m *MotionDetector) Close() {
	m.Reset()
}

// Threshold returns the motion threshold in percent.
func (m *MotionDetector) Threshold() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.threshold
}

// SetThreshold changes the motion threshold. Non-positive values are
// ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.threshold = threshold
}

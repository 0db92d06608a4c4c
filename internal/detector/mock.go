package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []Frame
	queue [][]Frame
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call
// once any queued results are used up.
func (m *MockDetector) SetHands(hands []Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// Enqueue appends per-call results. Each Detect call consumes one entry
// before falling back to the hands set with SetHands.
func (m *MockDetector) Enqueue(results ...[]Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, results...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// ClosedFistLandmarks returns a preset right hand with every finger curled
// into the palm so all fingertips sit close to the wrist.
func ClosedFistLandmarks() Frame {
	f := NewFrame()
	f.Handedness = "Right"
	f.Score = 0.95

	f.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb folded across the fingers
	f.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.76, Z: 0.0}
	f.Points[ThumbMCP] = Point3D{X: 0.57, Y: 0.72, Z: -0.02}
	f.Points[ThumbIP] = Point3D{X: 0.54, Y: 0.70, Z: -0.04}
	f.Points[ThumbTip] = Point3D{X: 0.50, Y: 0.70, Z: -0.05}

	// Knuckles close together, tips back toward the palm
	f.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.70, Z: -0.02}
	f.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.68, Z: -0.05}
	f.Points[IndexDIP] = Point3D{X: 0.52, Y: 0.70, Z: -0.04}
	f.Points[IndexTip] = Point3D{X: 0.50, Y: 0.72, Z: -0.02}

	f.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.68, Z: -0.02}
	f.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.66, Z: -0.05}
	f.Points[MiddleDIP] = Point3D{X: 0.47, Y: 0.68, Z: -0.04}
	f.Points[MiddleTip] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}

	f.Points[RingMCP] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}
	f.Points[RingPIP] = Point3D{X: 0.45, Y: 0.68, Z: -0.05}
	f.Points[RingDIP] = Point3D{X: 0.42, Y: 0.70, Z: -0.04}
	f.Points[RingTip] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}

	f.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}
	f.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.70, Z: -0.05}
	f.Points[PinkyDIP] = Point3D{X: 0.37, Y: 0.72, Z: -0.04}
	f.Points[PinkyTip] = Point3D{X: 0.35, Y: 0.74, Z: -0.02}

	return f
}

// OpenPalmLandmarks returns a preset right hand with all fingers extended
// upward and the thumb out to the side.
func OpenPalmLandmarks() Frame {
	f := NewFrame()
	f.Handedness = "Right"
	f.Score = 0.95

	f.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	f.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	f.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	f.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	f.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	f.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	f.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	f.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	f.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	f.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	f.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	f.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	f.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	f.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	f.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	f.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	f.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	f.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	f.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	f.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	f.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return f
}

// TwoFingerLandmarks returns a preset "victory" hand: index and middle
// extended with their tips level and spread horizontally by exactly
// spread, ring and pinky curled. The wrist sits at (0.5, 0.8).
func TwoFingerLandmarks(spread float64) Frame {
	f := NewFrame()
	f.Handedness = "Right"
	f.Score = 0.95

	half := spread / 2

	f.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb resting over the curled ring finger
	f.Points[ThumbCMC] = Point3D{X: 0.54, Y: 0.76, Z: 0.0}
	f.Points[ThumbMCP] = Point3D{X: 0.56, Y: 0.72, Z: -0.02}
	f.Points[ThumbIP] = Point3D{X: 0.52, Y: 0.70, Z: -0.03}
	f.Points[ThumbTip] = Point3D{X: 0.47, Y: 0.70, Z: -0.04}

	f.Points[IndexMCP] = Point3D{X: 0.53, Y: 0.68, Z: 0.0}
	f.Points[IndexPIP] = Point3D{X: 0.5 + half*0.4, Y: 0.55, Z: 0.0}
	f.Points[IndexDIP] = Point3D{X: 0.5 + half*0.7, Y: 0.45, Z: 0.0}
	f.Points[IndexTip] = Point3D{X: 0.5 + half, Y: 0.35, Z: 0.0}

	f.Points[MiddleMCP] = Point3D{X: 0.49, Y: 0.67, Z: 0.0}
	f.Points[MiddlePIP] = Point3D{X: 0.5 - half*0.4, Y: 0.55, Z: 0.0}
	f.Points[MiddleDIP] = Point3D{X: 0.5 - half*0.7, Y: 0.45, Z: 0.0}
	f.Points[MiddleTip] = Point3D{X: 0.5 - half, Y: 0.35, Z: 0.0}

	f.Points[RingMCP] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}
	f.Points[RingPIP] = Point3D{X: 0.45, Y: 0.68, Z: -0.05}
	f.Points[RingDIP] = Point3D{X: 0.44, Y: 0.70, Z: -0.04}
	f.Points[RingTip] = Point3D{X: 0.44, Y: 0.72, Z: -0.02}

	f.Points[PinkyMCP] = Point3D{X: 0.41, Y: 0.72, Z: -0.02}
	f.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.70, Z: -0.05}
	f.Points[PinkyDIP] = Point3D{X: 0.40, Y: 0.72, Z: -0.04}
	f.Points[PinkyTip] = Point3D{X: 0.40, Y: 0.74, Z: -0.02}

	return f
}

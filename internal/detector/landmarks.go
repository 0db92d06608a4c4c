// Package detector provides hand detection interfaces and landmark types for gesture control.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Connections lists the landmark pairs that make up the hand skeleton,
// including the palm edges between finger bases.
var Connections = [][2]int{
	{Wrist, ThumbCMC}, {ThumbCMC, ThumbMCP}, {ThumbMCP, ThumbIP}, {ThumbIP, ThumbTip},
	{Wrist, IndexMCP}, {IndexMCP, IndexPIP}, {IndexPIP, IndexDIP}, {IndexDIP, IndexTip},
	{Wrist, MiddleMCP}, {MiddleMCP, MiddlePIP}, {MiddlePIP, MiddleDIP}, {MiddleDIP, MiddleTip},
	{Wrist, RingMCP}, {RingMCP, RingPIP}, {RingPIP, RingDIP}, {RingDIP, RingTip},
	{Wrist, PinkyMCP}, {PinkyMCP, PinkyPIP}, {PinkyPIP, PinkyDIP}, {PinkyDIP, PinkyTip},
	{IndexMCP, MiddleMCP}, {MiddleMCP, RingMCP}, {RingMCP, PinkyMCP},
}

// Point3D represents a normalized landmark position. X and Y are in [0,1]
// relative to the image bounds, Z is depth relative to the wrist.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Frame is one sample of a single hand's landmarks at one instant.
// Points are ordered by the landmark indices above.
type Frame struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness,omitempty"` // "Left" or "Right"
	Score      float64   `json:"score,omitempty"`
}

// NewFrame allocates a frame with all NumLandmarks points at the origin.
func NewFrame() Frame {
	return Frame{Points: make([]Point3D, NumLandmarks)}
}

// Valid reports whether the frame carries a complete landmark set.
func (f Frame) Valid() bool {
	return len(f.Points) >= NumLandmarks
}

// Translate returns a copy of the frame with every point shifted by (dx, dy).
func (f Frame) Translate(dx, dy float64) Frame {
	out := f.clone()
	for i := range out.Points {
		out.Points[i].X += dx
		out.Points[i].Y += dy
	}
	return out
}

// WithWristX returns a copy of the frame moved horizontally so that the
// wrist sits at x. Invalid frames are returned unchanged.
func (f Frame) WithWristX(x float64) Frame {
	if !f.Valid() {
		return f
	}
	return f.Translate(x-f.Points[Wrist].X, 0)
}

// ScaleAboutWrist returns a copy of the frame with every point moved toward
// (factor < 1) or away from (factor > 1) the wrist. Z is left untouched.
func (f Frame) ScaleAboutWrist(factor float64) Frame {
	if !f.Valid() {
		return f
	}
	out := f.clone()
	wrist := f.Points[Wrist]
	for i := range out.Points {
		out.Points[i].X = wrist.X + (out.Points[i].X-wrist.X)*factor
		out.Points[i].Y = wrist.Y + (out.Points[i].Y-wrist.Y)*factor
	}
	return out
}

func (f Frame) clone() Frame {
	out := f
	out.Points = make([]Point3D, len(f.Points))
	copy(out.Points, f.Points)
	return out
}

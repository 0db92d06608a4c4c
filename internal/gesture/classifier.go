package gesture

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ayusman/holoview/internal/detector"
)

// finger pairs a fingertip with its proximal interphalangeal joint.
type finger struct {
	tip int
	pip int
}

// The four non-thumb fingers, index first.
var fingers = [4]finger{
	{tip: detector.IndexTip, pip: detector.IndexPIP},
	{tip: detector.MiddleTip, pip: detector.MiddlePIP},
	{tip: detector.RingTip, pip: detector.RingPIP},
	{tip: detector.PinkyTip, pip: detector.PinkyPIP},
}

// Classifier maps single landmark frames to gestures.
//
// Checks run in priority order and the first match wins:
//
//  1. closed fist  -> Assemble
//  2. open hand    -> Explode
//  3. two fingers  -> ZoomIn / ZoomOut
//  4. wrist swipe  -> RotateLeft / RotateRight
//
// Whole-hand shapes come first so that assembling or exploding never
// leaks zoom or rotate events.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a Classifier using th. Thresholds are not
// validated here; see Thresholds.Validate.
func NewClassifier(th Thresholds) *Classifier {
	return &Classifier{thresholds: th}
}

// Thresholds returns the classifier tunables.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Classify returns the gesture for frame. Incomplete frames yield
// NoEvent. tracker may be nil, in which case swipes are never detected.
//
// When the swipe check is reached the tracker's wrist position is updated
// whether or not a swipe fires. Frames claimed by an earlier check leave
// the tracker untouched.
func (c *Classifier) Classify(frame detector.Frame, tracker *Tracker) Event {
	if !frame.Valid() {
		return NoEvent()
	}
	pts := frame.Points

	if meanFingertipDistance(pts) < c.thresholds.Fist {
		return NewEvent(Assemble, ConfidenceHandShape)
	}

	if allExtended(pts) {
		return NewEvent(Explode, ConfidenceHandShape)
	}

	if ev, ok := c.twoFinger(pts); ok {
		return ev
	}

	if tracker != nil {
		if ev, ok := c.swipe(pts, tracker); ok {
			return ev
		}
	}

	return NoEvent()
}

func (c *Classifier) twoFinger(pts []detector.Point3D) (Event, bool) {
	if !extended(pts, fingers[0]) || !extended(pts, fingers[1]) {
		return Event{}, false
	}

	d := distance(pts[detector.IndexTip], pts[detector.MiddleTip])
	switch {
	case d > c.thresholds.Spread:
		return NewEventWithAux(ZoomIn, ConfidenceTwoFinger, d), true
	case d < c.thresholds.Pinch:
		return NewEventWithAux(ZoomOut, ConfidenceTwoFinger, d), true
	}
	// Between the thresholds is a dead zone.
	return Event{}, false
}

func (c *Classifier) swipe(pts []detector.Point3D, tracker *Tracker) (Event, bool) {
	delta, ok := tracker.observeWristX(pts[detector.Wrist].X)
	if !ok || math.Abs(delta) <= c.thresholds.Swipe {
		return Event{}, false
	}
	if delta > 0 {
		return NewEventWithAux(RotateRight, ConfidenceSwipe, delta), true
	}
	return NewEventWithAux(RotateLeft, ConfidenceSwipe, delta), true
}

// extended reports whether the fingertip is above its PIP joint. Image y
// grows downward.
func extended(pts []detector.Point3D, f finger) bool {
	return pts[f.tip].Y < pts[f.pip].Y
}

func allExtended(pts []detector.Point3D) bool {
	for _, f := range fingers {
		if !extended(pts, f) {
			return false
		}
	}
	return true
}

func meanFingertipDistance(pts []detector.Point3D) float64 {
	wrist := pts[detector.Wrist]
	dists := make([]float64, len(fingers))
	for i, f := range fingers {
		dists[i] = distance(pts[f.tip], wrist)
	}
	return floats.Sum(dists) / float64(len(dists))
}

// distance is the Euclidean distance in the image plane. Z is relative
// depth and is not on the same scale.
func distance(a, b detector.Point3D) float64 {
	return r2.Norm(r2.Sub(planar(a), planar(b)))
}

func planar(p detector.Point3D) r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

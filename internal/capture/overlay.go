package capture

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/holoview/internal/detector"
)

var (
	boneColor  = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	jointColor = color.RGBA{R: 255, G: 0, B: 255, A: 255}
)

const (
	boneThickness = 2
	jointRadius   = 5
)

// DrawHands draws the skeleton of each hand onto img. Landmark coordinates
// are normalised, so they are scaled by the image size. Incomplete frames
// are skipped.
func DrawHands(img *gocv.Mat, hands []detector.Frame) {
	if img == nil || img.Empty() {
		return
	}
	w, h := img.Cols(), img.Rows()

	for _, hand := range hands {
		if !hand.Valid() {
			continue
		}

		for _, c := range detector.Connections {
			gocv.Line(img, toPixel(hand.Points[c[0]], w, h), toPixel(hand.Points[c[1]], w, h), boneColor, boneThickness)
		}
		for _, p := range hand.Points[:detector.NumLandmarks] {
			gocv.Circle(img, toPixel(p, w, h), jointRadius, jointColor, -1)
		}
	}
}

func toPixel(p detector.Point3D, w, h int) image.Point {
	return image.Point{X: int(p.X * float64(w)), Y: int(p.Y * float64(h))}
}

package compositor

import (
	"image"
	"math"

	"github.com/example/drawer/internal/sketch"
)

// DefaultFrameSize is the side length of the square preview frame.
const DefaultFrameSize = 300

// Transform maps preview-frame coordinates to native image coordinates:
// native = preview*Scale - (TX, TY).
type Transform struct {
	Scale  float64
	TX, TY float64
}

// NewTransform reconstructs the scale-to-fit mapping used to show a
// width×height image centered inside a frame×frame square.
func NewTransform(width, height int, frame float64) Transform {
	w, h := float64(width), float64(height)
	if width > height {
		return Transform{Scale: w / frame, TY: (w - h) / 2}
	}
	return Transform{Scale: h / frame, TX: (h - w) / 2}
}

// ToNative maps a preview point into image space.
func (t Transform) ToNative(p sketch.Point) sketch.Point {
	return sketch.Point{X: p.X*t.Scale - t.TX, Y: p.Y*t.Scale - t.TY}
}

// ToFrame maps an image point into preview space.
func (t Transform) ToFrame(p sketch.Point) sketch.Point {
	return sketch.Point{X: (p.X + t.TX) / t.Scale, Y: (p.Y + t.TY) / t.Scale}
}

// Polyline maps every point of a preview polyline into image space.
func (t Transform) Polyline(points []sketch.Point) []sketch.Point {
	out := make([]sketch.Point, len(points))
	for i, p := range points {
		out[i] = t.ToNative(p)
	}
	return out
}

// ImageRect is the area of the frame covered by a width×height image.
func (t Transform) ImageRect(width, height int) image.Rectangle {
	lo := t.ToFrame(sketch.Point{})
	hi := t.ToFrame(sketch.Point{X: float64(width), Y: float64(height)})
	return image.Rect(
		int(math.Round(lo.X)), int(math.Round(lo.Y)),
		int(math.Round(hi.X)), int(math.Round(hi.Y)),
	)
}

package compositor

import (
	"fmt"
	"image"
	"log"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/example/drawer/internal/sketch"
)

// FrameImage scales img to fit centered inside the square preview frame.
// Pixels outside the image are left transparent. A nil img gives an empty
// frame.
func (c *Compositor) FrameImage(img *sketch.Image) *image.RGBA {
	side := int(math.Round(c.frame()))
	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	if img == nil || img.Pixels == nil || img.Pixels.Bounds().Empty() {
		return dst
	}
	rect := c.Transform(img).ImageRect(img.Width(), img.Height())
	xdraw.ApproxBiLinear.Scale(dst, rect, img.Pixels, img.Pixels.Bounds(), xdraw.Src, nil)
	return dst
}

// Overlay draws strokes in preview coordinates over a copy of base, each
// lineWidth pixels wide.
func (c *Compositor) Overlay(base *image.RGBA, strokes []sketch.Stroke, lineWidth float64) (*image.RGBA, error) {
	if len(strokes) == 0 {
		b := base.Bounds()
		out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Draw(out, out.Bounds(), base, b.Min, xdraw.Src)
		return out, nil
	}
	canvas, err := c.backend().NewCanvas(base)
	if err != nil {
		return nil, fmt.Errorf("overlay: %w", err)
	}
	defer func() {
		if err := canvas.Close(); err != nil {
			log.Printf("close canvas: %v", err)
		}
	}()
	for _, st := range strokes {
		if err := canvas.DrawPolyline(st.Points, st.Color, lineWidth); err != nil {
			return nil, fmt.Errorf("overlay: %w", err)
		}
	}
	return canvas.Image()
}

// Preview renders what the frame shows for st: the scaled image, the
// committed strokes and the stroke currently being drawn.
func (c *Compositor) Preview(st *sketch.State) (*image.RGBA, error) {
	strokes := st.Strokes()
	if cur, ok := st.InProgress(); ok {
		strokes = append(strokes, cur)
	}
	return c.Overlay(c.FrameImage(st.Image()), strokes, st.LineWidth())
}

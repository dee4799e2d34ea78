package raster

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/example/drawer/internal/sketch"
)

// Rasterx strokes with github.com/srwiley/rasterx on top of the
// golang.org/x/image/vector scanner.
type Rasterx struct {
	Style Style
}

func (Rasterx) Name() string { return "rasterx" }

func (r Rasterx) NewCanvas(base image.Image) (Canvas, error) {
	b := base.Bounds()
	if b.Empty() {
		return nil, ErrEmptySurface
	}
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), base, b.Min, draw.Src)
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), img, img.Bounds())
	return &rasterxCanvas{
		img:     img,
		stroker: rasterx.NewStroker(b.Dx(), b.Dy(), scanner),
		style:   r.Style,
	}, nil
}

type rasterxCanvas struct {
	img     *image.RGBA
	stroker *rasterx.Stroker
	style   Style
}

func (c *rasterxCanvas) DrawPolyline(points []sketch.Point, col color.Color, width float64) error {
	if err := checkStroke(points, width); err != nil {
		return err
	}
	pts := collapse(points)
	switch len(pts) {
	case 0:
		return nil
	case 1:
		c.dot(pts[0], col, width)
		return nil
	}
	c.stroker.Clear()
	c.stroker.SetStroke(toFixed(width), fixed.I(miterLimit), c.capFunc(), nil, rasterx.RoundGap, c.joinMode())
	c.stroker.Start(toPoint(pts[0]))
	for _, p := range pts[1:] {
		c.stroker.Line(toPoint(p))
	}
	c.stroker.Stop(false)
	c.stroker.SetColor(col)
	c.stroker.Draw()
	c.stroker.Clear()
	return nil
}

// dot paints a lone point. Butt caps leave nothing behind.
func (c *rasterxCanvas) dot(p sketch.Point, col color.Color, width float64) {
	filler := &c.stroker.Filler
	filler.Clear()
	half := width / 2
	switch c.style.Cap {
	case CapRound:
		rasterx.AddCircle(p.X, p.Y, half, filler)
	case CapSquare:
		rasterx.AddRect(p.X-half, p.Y-half, p.X+half, p.Y+half, 0, filler)
	default:
		return
	}
	filler.SetColor(col)
	filler.Draw()
	filler.Clear()
}

func (c *rasterxCanvas) capFunc() rasterx.CapFunc {
	switch c.style.Cap {
	case CapRound:
		return rasterx.RoundCap
	case CapSquare:
		return rasterx.SquareCap
	default:
		return rasterx.ButtCap
	}
}

func (c *rasterxCanvas) joinMode() rasterx.JoinMode {
	switch c.style.Join {
	case JoinRound:
		return rasterx.Round
	case JoinBevel:
		return rasterx.Bevel
	default:
		return rasterx.Miter
	}
}

func (c *rasterxCanvas) Image() (*image.RGBA, error) { return c.img, nil }

func (c *rasterxCanvas) Close() error { return nil }

func toFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(v * 64) }

func toPoint(p sketch.Point) fixed.Point26_6 {
	return fixed.Point26_6{X: toFixed(p.X), Y: toFixed(p.Y)}
}

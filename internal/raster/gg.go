package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"github.com/gogpu/gg"

	"github.com/example/drawer/internal/sketch"
)

// GG strokes with the github.com/gogpu/gg software renderer.
type GG struct {
	Style Style
}

func (GG) Name() string { return "gg" }

func (g GG) NewCanvas(base image.Image) (Canvas, error) {
	if base.Bounds().Empty() {
		return nil, ErrEmptySurface
	}
	dc := gg.NewContextForImage(base)
	dc.SetLineCap(ggCap(g.Style.Cap))
	dc.SetLineJoin(ggJoin(g.Style.Join))
	dc.SetMiterLimit(miterLimit)
	return &ggCanvas{dc: dc, style: g.Style}, nil
}

// EnableGGLogging routes gg diagnostics to slog's default logger.
func EnableGGLogging() { gg.SetLogger(slog.Default()) }

type ggCanvas struct {
	dc    *gg.Context
	style Style
}

func (c *ggCanvas) DrawPolyline(points []sketch.Point, col color.Color, width float64) error {
	if err := checkStroke(points, width); err != nil {
		return err
	}
	pts := collapse(points)
	if len(pts) == 0 {
		return nil
	}
	c.dc.ClearPath()
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width)
	if len(pts) == 1 {
		p, half := pts[0], width/2
		switch c.style.Cap {
		case CapRound:
			c.dc.DrawCircle(p.X, p.Y, half)
		case CapSquare:
			c.dc.DrawRectangle(p.X-half, p.Y-half, width, width)
		default:
			return nil
		}
		if err := c.dc.Fill(); err != nil {
			return fmt.Errorf("gg fill: %w", err)
		}
		return nil
	}
	c.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
	if err := c.dc.Stroke(); err != nil {
		return fmt.Errorf("gg stroke: %w", err)
	}
	return nil
}

func (c *ggCanvas) Image() (*image.RGBA, error) {
	img := c.dc.Image()
	if img == nil {
		return nil, fmt.Errorf("gg: read back pixels: %w", ErrEmptySurface)
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba, nil
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out, nil
}

func (c *ggCanvas) Close() error { return c.dc.Close() }

func ggCap(c Cap) gg.LineCap {
	switch c {
	case CapRound:
		return gg.LineCapRound
	case CapSquare:
		return gg.LineCapSquare
	default:
		return gg.LineCapButt
	}
}

func ggJoin(j Join) gg.LineJoin {
	switch j {
	case JoinRound:
		return gg.LineJoinRound
	case JoinBevel:
		return gg.LineJoinBevel
	default:
		return gg.LineJoinMiter
	}
}

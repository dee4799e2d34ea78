// Package compositor flattens committed strokes onto the full-resolution
// source image.
package compositor

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/example/drawer/internal/raster"
	"github.com/example/drawer/internal/sketch"
)

// ErrNoImage is reported when exporting before any image was selected.
var ErrNoImage = errors.New("no image loaded")

// ExportError describes which step of an export failed.
type ExportError struct {
	Op  string
	Err error
}

func (e *ExportError) Error() string { return fmt.Sprintf("export: %s: %v", e.Op, e.Err) }

func (e *ExportError) Unwrap() error { return e.Err }

// Sink persists a flattened image and returns where it was stored.
type Sink interface {
	Save(img image.Image) (string, error)
}

// SaveResult is the outcome reported by a Sink.
type SaveResult struct {
	Path  string
	Image *image.RGBA
	Err   error
}

// Compositor maps preview strokes to native space and rasterizes them.
type Compositor struct {
	// Frame is the preview frame side length. Zero means DefaultFrameSize.
	Frame float64
	// Backend draws the polylines. Nil means the default rasterx backend.
	Backend raster.Backend
}

// New creates a Compositor for the given frame size and backend.
func New(frame float64, backend raster.Backend) *Compositor {
	return &Compositor{Frame: frame, Backend: backend}
}

func (c *Compositor) frame() float64 {
	if c == nil || !(c.Frame > 0) {
		return DefaultFrameSize
	}
	return c.Frame
}

// FrameSize is the preview frame side length in use.
func (c *Compositor) FrameSize() float64 { return c.frame() }

func (c *Compositor) backend() raster.Backend {
	if c == nil || c.Backend == nil {
		return raster.Rasterx{Style: raster.DefaultStyle()}
	}
	return c.Backend
}

// Transform returns the preview→native mapping for img.
func (c *Compositor) Transform(img *sketch.Image) Transform {
	return NewTransform(img.Width(), img.Height(), c.frame())
}

// Export draws strokes, oldest first, over a copy of img. Every stroke is
// drawn lineWidth*scale pixels wide in its own color.
func (c *Compositor) Export(img *sketch.Image, strokes []sketch.Stroke, lineWidth float64) (*image.RGBA, error) {
	if img == nil || img.Pixels == nil {
		return nil, &ExportError{Op: "source", Err: ErrNoImage}
	}
	if !(lineWidth > 0) {
		return nil, &ExportError{Op: "source", Err: fmt.Errorf("invalid line width %v", lineWidth)}
	}
	t := c.Transform(img)
	canvas, err := c.backend().NewCanvas(img.Pixels)
	if err != nil {
		return nil, &ExportError{Op: "create surface", Err: err}
	}
	defer func() {
		if err := canvas.Close(); err != nil {
			log.Printf("close canvas: %v", err)
		}
	}()
	width := lineWidth * t.Scale
	for i, st := range strokes {
		if err := canvas.DrawPolyline(t.Polyline(st.Points), st.Color, width); err != nil {
			return nil, &ExportError{Op: fmt.Sprintf("stroke %d", i), Err: err}
		}
	}
	out, err := canvas.Image()
	if err != nil {
		return nil, &ExportError{Op: "read back", Err: err}
	}
	return out, nil
}

// ExportState exports the committed strokes of st using its current line
// width.
func (c *Compositor) ExportState(st *sketch.State) (*image.RGBA, error) {
	return c.Export(st.Image(), st.Strokes(), st.LineWidth())
}

// Publish exports st and hands the result to sink on a separate goroutine.
// Export failures are returned directly and nothing reaches the sink. The
// returned channel receives exactly one SaveResult; callers may ignore it.
func (c *Compositor) Publish(st *sketch.State, sink Sink) (<-chan SaveResult, error) {
	out, err := c.ExportState(st)
	if err != nil {
		return nil, err
	}
	done := make(chan SaveResult, 1)
	go func() {
		path, err := sink.Save(out)
		done <- SaveResult{Path: path, Image: out, Err: err}
	}()
	return done, nil
}

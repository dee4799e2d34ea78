// Package raster draws polylines onto bitmaps. Each backend wraps a 2D
// rasterization library behind the small Canvas interface used by the
// compositor and the preview renderer.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/example/drawer/internal/sketch"
)

// ErrEmptySurface is returned when a canvas is requested for an empty image.
var ErrEmptySurface = errors.New("drawing surface has no pixels")

// ErrNonFinite is returned for NaN or infinite coordinates and widths.
var ErrNonFinite = errors.New("non-finite value")

// Canvas is a bitmap that polylines can be stroked onto.
type Canvas interface {
	// DrawPolyline strokes points, in canvas pixel coordinates, with col.
	DrawPolyline(points []sketch.Point, col color.Color, width float64) error
	// Image returns the current pixels with a zero origin.
	Image() (*image.RGBA, error)
	Close() error
}

// Backend creates canvases initialised with a copy of base.
type Backend interface {
	Name() string
	NewCanvas(base image.Image) (Canvas, error)
}

// Cap is the shape painted at both ends of a polyline.
type Cap int

const (
	CapButt Cap = iota
	CapRound
	CapSquare
)

// Join is the shape painted where two segments meet.
type Join int

const (
	JoinMiter Join = iota
	JoinRound
	JoinBevel
)

// Style configures how polylines are stroked.
type Style struct {
	Cap  Cap
	Join Join
}

// DefaultStyle uses butt caps and mitered joins.
func DefaultStyle() Style { return Style{Cap: CapButt, Join: JoinMiter} }

const miterLimit = 10

// DefaultBackend names the backend used when none is configured.
const DefaultBackend = "rasterx"

var backends = map[string]func(Style) Backend{
	"rasterx": func(s Style) Backend { return Rasterx{Style: s} },
	"gg":      func(s Style) Backend { return GG{Style: s} },
}

// New returns the backend registered under name.
func New(name string, style Style) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultBackend
	}
	ctor, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown rasterizer %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return ctor(style), nil
}

// Names lists the registered backends.
func Names() []string {
	out := make([]string, 0, len(backends))
	for name := range backends {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ParseCap parses butt, round or square.
func ParseCap(s string) (Cap, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "butt":
		return CapButt, nil
	case "round":
		return CapRound, nil
	case "square":
		return CapSquare, nil
	}
	return CapButt, fmt.Errorf("invalid line cap %q", s)
}

func (c Cap) String() string {
	switch c {
	case CapRound:
		return "round"
	case CapSquare:
		return "square"
	default:
		return "butt"
	}
}

// ParseJoin parses miter, round or bevel.
func ParseJoin(s string) (Join, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "miter":
		return JoinMiter, nil
	case "round":
		return JoinRound, nil
	case "bevel":
		return JoinBevel, nil
	}
	return JoinMiter, fmt.Errorf("invalid line join %q", s)
}

func (j Join) String() string {
	switch j {
	case JoinRound:
		return "round"
	case JoinBevel:
		return "bevel"
	default:
		return "miter"
	}
}

// collapse drops consecutive duplicate points.
func collapse(points []sketch.Point) []sketch.Point {
	if len(points) == 0 {
		return nil
	}
	out := make([]sketch.Point, 0, len(points))
	out = append(out, points[0])
	for _, p := range points[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

func checkWidth(width float64) error {
	if math.IsInf(width, 0) {
		return fmt.Errorf("stroke width %v: %w", width, ErrNonFinite)
	}
	if !(width > 0) {
		return fmt.Errorf("stroke width must be positive, got %v", width)
	}
	return nil
}

// checkStroke validates width and points before anything reaches a
// rasterizer; rasterx panics on NaN coordinates.
func checkStroke(points []sketch.Point, width float64) error {
	if err := checkWidth(width); err != nil {
		return err
	}
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			return fmt.Errorf("point %d (%v, %v): %w", i, p.X, p.Y, ErrNonFinite)
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

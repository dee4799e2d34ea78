package config

import (
	"fmt"

	"github.com/example/drawer/internal/compositor"
	"github.com/example/drawer/internal/library"
	"github.com/example/drawer/internal/raster"
	"github.com/example/drawer/internal/sketch"
	"github.com/example/drawer/internal/theme"
)

// SketchOptions turns the drawing settings into canvas state options.
func (c *Config) SketchOptions() ([]sketch.Option, error) {
	var opts []sketch.Option
	if c.Color != "" {
		col, err := theme.ParseColor(c.Color)
		if err != nil {
			return nil, fmt.Errorf("color: %w", err)
		}
		opts = append(opts, sketch.WithColor(col))
	}
	if c.EraseColor != "" {
		col, err := theme.ParseColor(c.EraseColor)
		if err != nil {
			return nil, fmt.Errorf("erase_color: %w", err)
		}
		opts = append(opts, sketch.WithEraseColor(col))
	}
	if c.LineWidth > 0 {
		opts = append(opts, sketch.WithLineWidth(c.LineWidth))
	}
	return opts, nil
}

// Backend builds the configured rasterizer with the configured caps and
// joins.
func (c *Config) Backend() (raster.Backend, error) {
	style := raster.DefaultStyle()
	if c.LineCap != "" {
		cp, err := raster.ParseCap(c.LineCap)
		if err != nil {
			return nil, err
		}
		style.Cap = cp
	}
	if c.LineJoin != "" {
		j, err := raster.ParseJoin(c.LineJoin)
		if err != nil {
			return nil, err
		}
		style.Join = j
	}
	return raster.New(c.Rasterizer, style)
}

// LibraryFormat is the configured save format, PNG when unset.
func (c *Config) LibraryFormat() (library.Format, error) {
	return library.ParseFormat(c.Format)
}

// Frame is the configured preview frame size.
func (c *Config) Frame() float64 {
	if c.FrameSize > 0 {
		return c.FrameSize
	}
	return compositor.DefaultFrameSize
}

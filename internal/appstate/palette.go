package appstate

import (
	"image/color"
	"sort"
	"strings"
	"sync"

	"github.com/example/drawer/internal/sketch"
	"github.com/example/drawer/internal/theme"
)

// PaletteColor is a named swatch.
type PaletteColor struct {
	Name  string
	Color color.RGBA
}

var (
	paletteMu sync.RWMutex
	palette   = []PaletteColor{
		{"Black", color.RGBA{0, 0, 0, 255}},
		{"White", color.RGBA{255, 255, 255, 255}},
		{"Red", color.RGBA{255, 0, 0, 255}},
		{"Orange", color.RGBA{255, 165, 0, 255}},
		{"Yellow", color.RGBA{255, 255, 0, 255}},
		{"Lime", color.RGBA{0, 255, 0, 255}},
		{"Green", color.RGBA{0, 128, 0, 255}},
		{"Cyan", color.RGBA{0, 255, 255, 255}},
		{"Blue", color.RGBA{0, 0, 255, 255}},
		{"Navy", color.RGBA{0, 0, 128, 255}},
		{"Magenta", color.RGBA{255, 0, 255, 255}},
		{"Purple", color.RGBA{128, 0, 128, 255}},
		{"Maroon", color.RGBA{128, 0, 0, 255}},
		{"Gray", color.RGBA{128, 128, 128, 255}},
	}
)

var (
	widthsMu sync.RWMutex
	widths   = []float64{5, 10, sketch.DefaultLineWidth, 40}
)

// PaletteColors returns a copy of the palette.
func PaletteColors() []PaletteColor {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	out := make([]PaletteColor, len(palette))
	copy(out, palette)
	return out
}

// EnsurePaletteColor makes sure col is present in the palette and returns its index.
func EnsurePaletteColor(col color.RGBA, name string) int {
	paletteMu.Lock()
	defer paletteMu.Unlock()
	for idx, existing := range palette {
		if existing.Color == col {
			return idx
		}
	}
	if name == "" {
		name = theme.Hex(col)
	}
	palette = append(palette, PaletteColor{Name: name, Color: col})
	return len(palette) - 1
}

// LookupColor resolves a palette name, hex value or SVG color name.
func LookupColor(s string) (color.RGBA, error) {
	paletteMu.RLock()
	for _, p := range palette {
		if strings.EqualFold(p.Name, s) {
			paletteMu.RUnlock()
			return p.Color, nil
		}
	}
	paletteMu.RUnlock()
	return theme.ParseColor(s)
}

// WidthOptions returns a copy of the available stroke widths.
func WidthOptions() []float64 {
	widthsMu.RLock()
	defer widthsMu.RUnlock()
	out := make([]float64, len(widths))
	copy(out, widths)
	return out
}

// EnsureWidth makes sure width is included in the options and returns its index.
func EnsureWidth(width float64) int {
	if !(width > 0) {
		width = sketch.DefaultLineWidth
	}
	widthsMu.Lock()
	defer widthsMu.Unlock()
	for idx, existing := range widths {
		if existing == width {
			return idx
		}
	}
	widths = append(widths, width)
	sort.Float64s(widths)
	for idx, existing := range widths {
		if existing == width {
			return idx
		}
	}
	return 0
}

func paletteAt(idx int) (PaletteColor, bool) {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	if idx < 0 || idx >= len(palette) {
		return PaletteColor{}, false
	}
	return palette[idx], true
}

func widthAt(idx int) (float64, bool) {
	widthsMu.RLock()
	defer widthsMu.RUnlock()
	if idx < 0 || idx >= len(widths) {
		return 0, false
	}
	return widths[idx], true
}

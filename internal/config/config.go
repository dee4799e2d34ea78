package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/drawer/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Save bool
	Load bool
	Copy bool
}

// Config holds the application configuration. Zero values mean "use the
// built-in default".
type Config struct {
	Theme       string
	SaveDir     string
	Format      string
	JPEGQuality int
	FrameSize   float64
	LineWidth   float64
	Color       string
	EraseColor  string
	Rasterizer  string
	LineCap     string
	LineJoin    string
	Notify      Notify
	Themes      map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:  "", // Empty allows fallback to env/default
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	root := []struct {
		key, value string
	}{
		{"theme", c.Theme},
		{"save_dir", c.SaveDir},
		{"format", c.Format},
		{"jpeg_quality", intString(c.JPEGQuality)},
		{"frame_size", floatString(c.FrameSize)},
		{"line_width", floatString(c.LineWidth)},
		{"color", c.Color},
		{"erase_color", c.EraseColor},
		{"rasterizer", c.Rasterizer},
		{"line_cap", c.LineCap},
		{"line_join", c.LineJoin},
	}
	for _, kv := range root {
		if kv.value != "" {
			fmt.Fprintf(&sb, "%s = %s\n", kv.key, kv.value)
		}
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "load = %v\n", c.Notify.Load)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sorted for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		theme.Fields(t, func(field string, col color.RGBA) {
			fmt.Fprintf(&sb, "%s: %s\n", field, theme.Hex(col))
		})
		sb.WriteString("\n")
	}

	return sb.String()
}

func intString(v int) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprint(v)
}

func floatString(v float64) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprint(v)
}

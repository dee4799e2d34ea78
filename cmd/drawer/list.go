package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/drawer/internal/appstate"
	"github.com/example/drawer/internal/sketch"
	"github.com/example/drawer/internal/theme"
)

type colorsCmd struct {
	*root
	fs     *flag.FlagSet
	stdout io.Writer
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	fs := flag.NewFlagSet("colors", flag.ExitOnError)
	cmd := &colorsCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

// defaultColor is the ink new canvases start with.
func (c *colorsCmd) defaultColor() int {
	col := sketch.DefaultColor
	if spec := c.cfg().Color; spec != "" {
		if parsed, err := theme.ParseColor(spec); err == nil {
			col = parsed
		}
	}
	return appstate.EnsurePaletteColor(col, "")
}

func (c *colorsCmd) Run() error {
	defaultIdx := c.defaultColor()
	palette := appstate.PaletteColors()
	fmt.Fprintln(c.stdout, "available palette colors (* marks the default color):")
	for idx, entry := range palette {
		marker := " "
		if idx == defaultIdx {
			marker = "*"
		}
		hex := theme.Hex(entry.Color)
		block := fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", entry.Color.R, entry.Color.G, entry.Color.B)
		fmt.Fprintf(c.stdout, "%s %2d: %-12s %s %s\n", marker, idx, entry.Name, hex, block)
	}
	return nil
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

type widthsCmd struct {
	*root
	fs     *flag.FlagSet
	stdout io.Writer
}

func parseWidthsCmd(args []string, r *root) (*widthsCmd, error) {
	fs := flag.NewFlagSet("widths", flag.ExitOnError)
	cmd := &widthsCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *widthsCmd) Run() error {
	defaultIdx := appstate.EnsureWidth(c.cfg().LineWidth)
	fmt.Fprintln(c.stdout, "available stroke widths (* marks the default width):")
	for idx, width := range appstate.WidthOptions() {
		marker := " "
		if idx == defaultIdx {
			marker = "*"
		}
		fmt.Fprintf(c.stdout, "%s %5gpx\n", marker, width)
	}
	return nil
}

func (c *widthsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/example/drawer/internal/appstate"
	"github.com/example/drawer/internal/clipboard"
	"github.com/example/drawer/internal/library"
	"github.com/example/drawer/internal/picker"
	"github.com/example/drawer/internal/sketch"
)

// drawCmd replays strokes onto an image without opening a window.
type drawCmd struct {
	file          string
	output        string
	format        string
	overwrite     bool
	fromClipboard bool
	toClipboard   bool
	colorSpec     string
	width         float64
	frame         float64
	erase         bool
	strokes       [][]sketch.Point
	stdout        io.Writer
	*root
	fs *flag.FlagSet
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.file, "file", "", "input image file")
	fs.BoolVar(&d.fromClipboard, "from-clipboard", false, "read the input image from the clipboard")
	fs.BoolVar(&d.fromClipboard, "from-clip", false, "read the input image from the clipboard (alias)")
	fs.StringVar(&d.output, "output", "", "output file; the picture library is used when empty")
	fs.StringVar(&d.format, "format", "", "format for library saves (png, jpeg, pdf)")
	fs.BoolVar(&d.overwrite, "overwrite", false, "replace -output if it already exists")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&d.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	fs.StringVar(&d.colorSpec, "color", "", "ink color name or hex value")
	fs.Float64Var(&d.width, "width", 0, "stroke width in frame pixels")
	fs.Float64Var(&d.frame, "frame", 0, "preview frame size the points refer to")
	fs.BoolVar(&d.erase, "erase", false, "draw with the eraser color")

	flagArgs, positionals, err := splitDrawArgs(args)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if len(positionals) == 0 {
		return nil, &UsageError{of: d}
	}
	d.strokes, err = parseStrokes(positionals)
	if err != nil {
		return nil, err
	}
	switch {
	case d.file == "" && !d.fromClipboard:
		return nil, fmt.Errorf("input file is required")
	case d.file != "" && d.fromClipboard:
		return nil, fmt.Errorf("-file and -from-clipboard cannot be used together")
	}
	if d.width < 0 || !finite(d.width) {
		return nil, fmt.Errorf("width must be a positive number")
	}
	if d.frame < 0 || !finite(d.frame) {
		return nil, fmt.Errorf("frame must be a positive number")
	}
	return d, nil
}

// parseStrokes reads "x,y" points. A "/" on its own or inside an argument
// starts a new stroke.
func parseStrokes(args []string) ([][]sketch.Point, error) {
	var (
		strokes [][]sketch.Point
		current []sketch.Point
	)
	flush := func() {
		if len(current) > 0 {
			strokes = append(strokes, current)
			current = nil
		}
	}
	for _, arg := range args {
		for i, part := range strings.Split(arg, "/") {
			if i > 0 {
				flush()
			}
			if part == "" {
				continue
			}
			p, err := parsePoint(part)
			if err != nil {
				return nil, err
			}
			current = append(current, p)
		}
	}
	flush()
	if len(strokes) == 0 {
		return nil, fmt.Errorf("no points given")
	}
	return strokes, nil
}

func parsePoint(s string) (sketch.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return sketch.Point{}, fmt.Errorf("point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return sketch.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return sketch.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	if !finite(x) || !finite(y) {
		return sketch.Point{}, fmt.Errorf("point %q: coordinates must be finite", s)
	}
	return sketch.Pt(x, y), nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func (d *drawCmd) source() picker.Source {
	if d.fromClipboard {
		return picker.Clipboard{}
	}
	return picker.File{Path: d.file}
}

func (d *drawCmd) Run() error {
	src := d.source()
	data, err := src.Pick(context.Background())
	if err != nil {
		return fmt.Errorf("draw: %w", err)
	}

	var opts []sketch.Option
	if d.colorSpec != "" {
		col, err := appstate.LookupColor(d.colorSpec)
		if err != nil {
			return err
		}
		opts = append(opts, sketch.WithColor(col))
	}
	if d.width > 0 {
		opts = append(opts, sketch.WithLineWidth(d.width))
	}
	st, err := d.newState(opts...)
	if err != nil {
		return err
	}
	if _, err := st.SelectImage(data); err != nil {
		return fmt.Errorf("open %s: %w", sourceName(src), err)
	}
	st.SetMode(!d.erase)
	replay(st, d.strokes)

	comp, err := d.newCompositor(d.frame)
	if err != nil {
		return err
	}
	out, err := comp.ExportState(st)
	if err != nil {
		return err
	}
	if err := d.write(out); err != nil {
		return err
	}
	if d.toClipboard {
		if err := clipboard.WriteImage(out); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		d.notifyCopy("")
	}
	return nil
}

// replay draws each stroke the way a pointer drag would.
func replay(st *sketch.State, strokes [][]sketch.Point) {
	g := sketch.Gesture{State: st}
	for _, pts := range strokes {
		g.Start(pts[0])
		for _, p := range pts[1:] {
			g.Move(p)
		}
		g.End()
	}
}

func (d *drawCmd) write(img image.Image) error {
	if d.output == "" {
		lib, err := d.newLibrary("", d.format)
		if err != nil {
			return err
		}
		path, err := lib.Save(img)
		if err != nil {
			return err
		}
		fmt.Fprintln(d.stdout, path)
		d.notifySave(path)
		return nil
	}
	if d.overwrite {
		if err := os.Remove(d.output); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("replace %s: %w", d.output, err)
		}
	}
	if err := library.WriteFile(d.output, img, library.FormatFromPath(d.output), d.cfg().JPEGQuality); err != nil {
		return err
	}
	d.notifySave(d.output)
	return nil
}

func sourceName(src picker.Source) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return "image"
}

var drawFlagNames = map[string]struct{}{
	"file":           {},
	"from-clipboard": {},
	"from-clip":      {},
	"output":         {},
	"format":         {},
	"overwrite":      {},
	"to-clipboard":   {},
	"to-clip":        {},
	"color":          {},
	"width":          {},
	"frame":          {},
	"erase":          {},
	"h":              {},
	"help":           {},
}

var drawBoolFlags = map[string]struct{}{
	"from-clipboard": {},
	"from-clip":      {},
	"overwrite":      {},
	"to-clipboard":   {},
	"to-clip":        {},
	"erase":          {},
	"h":              {},
	"help":           {},
}

// splitDrawArgs separates flags from points so that flags may follow the
// points and negative coordinates such as -5,10 are not taken for flags.
func splitDrawArgs(args []string) ([]string, []string, error) {
	var flags []string
	var positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positionals = append(positionals, arg)
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if name == "" {
			positionals = append(positionals, arg)
			continue
		}
		parts := strings.SplitN(name, "=", 2)
		base := strings.ToLower(parts[0])
		if _, ok := drawFlagNames[base]; !ok {
			positionals = append(positionals, arg)
			continue
		}
		// Normalise to single dash form for the flag parser.
		norm := "-" + base
		if len(parts) == 2 {
			flags = append(flags, norm+"="+parts[1])
			continue
		}
		if _, ok := drawBoolFlags[base]; ok {
			flags = append(flags, norm)
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("flag %s requires a value", arg)
		}
		flags = append(flags, norm, args[i+1])
		i++
	}
	return flags, positionals, nil
}

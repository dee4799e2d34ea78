package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/example/drawer/internal/appstate"
	"github.com/example/drawer/internal/compositor"
	"github.com/example/drawer/internal/library"
	"github.com/example/drawer/internal/picker"
	"github.com/example/drawer/internal/sketch"
	"github.com/example/drawer/internal/theme"
)

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// interactiveCmd drives one canvas from typed commands.
type interactiveCmd struct {
	*root
	fs    *flag.FlagSet
	execs commandList

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	state *sketch.State
	comp  *compositor.Compositor
}

func (i *interactiveCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	cmd := &interactiveCmd{root: r, fs: fs, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	fs.Usage = usageFunc(cmd)
	fs.Var(&cmd.execs, "e", "execute a command and exit (may be specified multiple times)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (i *interactiveCmd) setup() error {
	if i.state != nil {
		return nil
	}
	st, err := i.newState()
	if err != nil {
		return err
	}
	comp, err := i.newCompositor(0)
	if err != nil {
		return err
	}
	i.state, i.comp = st, comp
	return nil
}

func (i *interactiveCmd) Run() error {
	if err := i.setup(); err != nil {
		return err
	}
	if len(i.execs) > 0 {
		for _, line := range i.execs {
			done, err := i.executeLine(line)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	fmt.Fprintln(i.stdout, "Enter commands (type 'help' for a list, 'exit' to quit)")
	scanner := bufio.NewScanner(i.stdin)
	for {
		fmt.Fprint(i.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := i.executeLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(i.stderr, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}

// executeLine runs a single command. done reports that the session should end.
func (i *interactiveCmd) executeLine(line string) (done bool, err error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}
	st := i.state
	name, rest := strings.ToLower(args[0]), args[1:]
	switch name {
	case "exit", "quit":
		return true, nil
	case "help":
		i.help()
	case "select":
		if len(rest) != 1 {
			return false, fmt.Errorf("usage: select <path>")
		}
		return false, i.load(picker.File{Path: rest[0]})
	case "paste":
		return false, i.load(picker.Clipboard{})
	case "begin", "extend":
		if len(rest) != 2 {
			return false, fmt.Errorf("usage: %s <x> <y>", name)
		}
		p, err := parsePoint(rest[0] + "," + rest[1])
		if err != nil {
			return false, err
		}
		if name == "begin" {
			st.BeginStroke(p)
		} else {
			st.ExtendStroke(p)
		}
	case "commit":
		s, ok := st.CommitStroke()
		if !ok {
			fmt.Fprintln(i.stdout, "no stroke in progress")
			return false, nil
		}
		fmt.Fprintf(i.stdout, "stroke %d: %d points\n", len(st.Strokes()), len(s.Points))
	case "stroke":
		if len(rest) == 0 {
			return false, fmt.Errorf("usage: stroke x,y [x,y ...]")
		}
		strokes, err := parseStrokes(rest)
		if err != nil {
			return false, err
		}
		replay(st, strokes)
	case "mode":
		if len(rest) != 1 {
			return false, fmt.Errorf("usage: mode draw|erase")
		}
		switch strings.ToLower(rest[0]) {
		case "draw":
			st.SetMode(true)
		case "erase":
			st.SetMode(false)
		default:
			return false, fmt.Errorf("unknown mode %q", rest[0])
		}
	case "color":
		if len(rest) != 1 {
			return false, fmt.Errorf("usage: color <name|#hex>")
		}
		col, err := appstate.LookupColor(rest[0])
		if err != nil {
			return false, err
		}
		st.SetColor(col)
	case "erase-color":
		if len(rest) != 1 {
			return false, fmt.Errorf("usage: erase-color <name|#hex>")
		}
		col, err := appstate.LookupColor(rest[0])
		if err != nil {
			return false, err
		}
		st.SetEraseColor(col)
	case "width":
		if len(rest) != 1 {
			return false, fmt.Errorf("usage: width <n>")
		}
		w, err := strconv.ParseFloat(rest[0], 64)
		if err != nil {
			return false, fmt.Errorf("width %q: %w", rest[0], err)
		}
		return false, st.SetLineWidth(w)
	case "status":
		i.status()
	case "reset":
		st.Reset()
	case "export":
		if len(rest) > 1 {
			return false, fmt.Errorf("usage: export [path]")
		}
		path := ""
		if len(rest) == 1 {
			path = rest[0]
		}
		return false, i.export(path)
	default:
		return false, fmt.Errorf("unknown command %q", args[0])
	}
	return false, nil
}

func (i *interactiveCmd) load(src picker.Source) error {
	data, err := src.Pick(context.Background())
	if err != nil {
		if errors.Is(err, picker.ErrCancelled) {
			return nil
		}
		return err
	}
	img, err := i.state.SelectImage(data)
	if err != nil {
		return fmt.Errorf("open %s: %w", sourceName(src), err)
	}
	fmt.Fprintf(i.stdout, "opened %s (%dx%d)\n", sourceName(src), img.Width(), img.Height())
	return nil
}

func (i *interactiveCmd) export(path string) error {
	out, err := i.comp.ExportState(i.state)
	if err != nil {
		return err
	}
	if path == "" {
		lib, err := i.newLibrary("", "")
		if err != nil {
			return err
		}
		if path, err = lib.Save(out); err != nil {
			return err
		}
	} else if err := library.WriteFile(path, out, library.FormatFromPath(path), i.cfg().JPEGQuality); err != nil {
		return err
	}
	fmt.Fprintf(i.stdout, "saved %s\n", path)
	i.notifySave(path)
	return nil
}

func (i *interactiveCmd) status() {
	st := i.state
	if img := st.Image(); img != nil {
		fmt.Fprintf(i.stdout, "image: %dx%d\n", img.Width(), img.Height())
	} else {
		fmt.Fprintln(i.stdout, "image: none")
	}
	fmt.Fprintf(i.stdout, "mode: %s  color: %s  erase: %s  width: %g\n", st.Mode(), theme.Hex(st.Color()), theme.Hex(st.EraseColor()), st.LineWidth())
	fmt.Fprintf(i.stdout, "strokes: %d", len(st.Strokes()))
	if cur, ok := st.InProgress(); ok {
		fmt.Fprintf(i.stdout, " (+1 in progress, %d points)", len(cur.Points))
	}
	fmt.Fprintln(i.stdout)
}

func (i *interactiveCmd) help() {
	for _, line := range []string{
		"select <path>, paste",
		"begin <x> <y>, extend <x> <y>, commit, stroke x,y [x,y ...]",
		"mode draw|erase, color <c>, erase-color <c>, width <n>",
		"status, reset, export [path], exit",
	} {
		fmt.Fprintln(i.stdout, line)
	}
}

package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/example/drawer/internal/appstate"
	"github.com/example/drawer/internal/picker"
)

// editCmd opens the desktop drawing window.
type editCmd struct {
	file          string
	fromClipboard bool
	output        string
	format        string
	*root
	fs *flag.FlagSet
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	e := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(e)
	fs.StringVar(&e.file, "file", "", "image to open when the window starts")
	fs.BoolVar(&e.fromClipboard, "from-clipboard", false, "open the clipboard image when the window starts")
	fs.BoolVar(&e.fromClipboard, "from-clip", false, "open the clipboard image when the window starts (alias)")
	fs.StringVar(&e.output, "output", "", "directory saved drawings are written to")
	fs.StringVar(&e.format, "format", "", "format of saved drawings (png, jpeg, pdf)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: e}
	}
	if e.file != "" && e.fromClipboard {
		return nil, fmt.Errorf("-file and -from-clipboard cannot be used together")
	}
	return e, nil
}

func (e *editCmd) Run() error {
	st, err := e.newState()
	if err != nil {
		return err
	}
	comp, err := e.newCompositor(0)
	if err != nil {
		return err
	}
	lib, err := e.newLibrary(e.output, e.format)
	if err != nil {
		return err
	}
	opts := []appstate.Option{
		appstate.WithSketch(st),
		appstate.WithCompositor(comp),
		appstate.WithSink(lib),
		appstate.WithNotifier(e.notifier),
		appstate.WithTheme(e.theme()),
	}
	switch {
	case e.file != "":
		opts = append(opts, appstate.WithSource(picker.File{Path: e.file}), appstate.WithDialogDir(filepath.Dir(e.file)))
	case e.fromClipboard:
		opts = append(opts, appstate.WithSource(picker.Clipboard{}))
	}
	appstate.New(opts...).Run()
	return nil
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/example/drawer/internal/compositor"
	"github.com/example/drawer/internal/config"
	"github.com/example/drawer/internal/library"
	"github.com/example/drawer/internal/notify"
	"github.com/example/drawer/internal/raster"
	"github.com/example/drawer/internal/sketch"
	"github.com/example/drawer/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	notifier    *notify.Notifier
	config      *config.Config
	configPath  string
	saveAlerts  bool
	loadAlerts  bool
	copyAlerts  bool
	themeName   string
	activeTheme *theme.Theme
}

func (r *root) Program() string {
	if r == nil || r.program == "" {
		return "drawer"
	}
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	cfg := loadConfig(configPathOverride)

	r := &root{
		fs:         flag.NewFlagSet("drawer", flag.ExitOnError),
		program:    "drawer",
		notifier:   notify.New(prefs),
		config:     cfg,
		configPath: configPathOverride,
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving a drawing")
	r.fs.BoolVar(&r.loadAlerts, "notify-load", cfg.Notify.Load, "show a desktop notification after opening an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.StringVar(&r.configPath, "config", configPathOverride, "path to an rc configuration file")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use ("+strings.Join(theme.Names(), ", ")+")")
	r.fs.Usage = usageFunc(r)
	return r
}

func loadConfig(path string) *config.Config {
	cfg, err := config.NewLoader(version, path).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		return config.New()
	}
	return cfg
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.configPath != configPathOverride {
		r.reloadConfig()
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventLoad, r.loadAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "edit":
		cmd, err = parseEditCmd(subArgs, r)
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r)
	case "colors":
		cmd, err = parseColorsCmd(subArgs, r)
	case "widths":
		cmd, err = parseWidthsCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{root: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// reloadConfig re-reads the configuration from -config. Notification flags
// the user did not pass pick up the new file's values.
func (r *root) reloadConfig() {
	r.config = loadConfig(r.configPath)
	set := map[string]bool{}
	r.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["notify-save"] {
		r.saveAlerts = r.config.Notify.Save
	}
	if !set["notify-load"] {
		r.loadAlerts = r.config.Notify.Load
	}
	if !set["notify-copy"] {
		r.copyAlerts = r.config.Notify.Copy
	}
}

func (r *root) resolveTheme() *theme.Theme {
	cfg := r.cfg()
	name := r.themeName
	if name == "" {
		name = os.Getenv("DRAWER_THEME")
	}
	if name == "" {
		name = cfg.Theme
	}
	if t, ok := cfg.Themes[name]; ok {
		return t
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		return theme.Default()
	}
	return t
}

func (r *root) cfg() *config.Config {
	if r == nil || r.config == nil {
		return config.New()
	}
	return r.config
}

func (r *root) theme() *theme.Theme {
	if r == nil || r.activeTheme == nil {
		return theme.Default()
	}
	return r.activeTheme
}

// newState builds canvas state from the configuration followed by opts.
func (r *root) newState(opts ...sketch.Option) (*sketch.State, error) {
	base, err := r.cfg().SketchOptions()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return sketch.New(append(base, opts...)...), nil
}

// newCompositor uses frame when positive, otherwise the configured size.
func (r *root) newCompositor(frame float64) (*compositor.Compositor, error) {
	cfg := r.cfg()
	backend, err := cfg.Backend()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if frame <= 0 {
		frame = cfg.Frame()
	}
	return compositor.New(frame, backend), nil
}

// newLibrary falls back to the configured directory and format when dir or
// format are empty.
func (r *root) newLibrary(dir, format string) (*library.Library, error) {
	cfg := r.cfg()
	if dir == "" {
		dir = cfg.SaveDir
	}
	if format == "" {
		format = cfg.Format
	}
	f, err := library.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return library.New(dir, f, cfg.JPEGQuality)
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyCopy(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail)
}

func main() {
	if os.Getenv("DRAWER_DEBUG") != "" {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		raster.EnableGGLogging()
	}
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Package appstate is the desktop editor: one preview frame showing the
// selected photo, a toolbar, and mouse drawing on top.
package appstate

import (
	"image"
	"log"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/drawer/internal/clipboard"
	"github.com/example/drawer/internal/compositor"
	"github.com/example/drawer/internal/library"
	"github.com/example/drawer/internal/notify"
	"github.com/example/drawer/internal/picker"
	"github.com/example/drawer/internal/sketch"
	"github.com/example/drawer/internal/theme"
)

// AppState holds what the editor window needs to run.
type AppState struct {
	Sketch     *sketch.State
	Compositor *compositor.Compositor
	Sink       compositor.Sink
	Notifier   *notify.Notifier
	Theme      *theme.Theme
	// Source, when set, is loaded as soon as the window opens.
	Source    picker.Source
	DialogDir string
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithSketch sets the canvas state edited by the window.
func WithSketch(st *sketch.State) Option { return func(a *AppState) { a.Sketch = st } }

// WithCompositor sets the frame size and rasterizer.
func WithCompositor(c *compositor.Compositor) Option {
	return func(a *AppState) { a.Compositor = c }
}

// WithSink sets where saved drawings go.
func WithSink(s compositor.Sink) Option { return func(a *AppState) { a.Sink = s } }

// WithNotifier enables desktop notifications.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithTheme sets the window colors.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithSource opens src when the window starts.
func WithSource(src picker.Source) Option { return func(a *AppState) { a.Source = src } }

// WithDialogDir sets the directory the file dialog starts in.
func WithDialogDir(dir string) Option { return func(a *AppState) { a.DialogDir = dir } }

// New creates an AppState, filling in defaults for anything not set.
func New(opts ...Option) *AppState {
	a := &AppState{}
	for _, o := range opts {
		o(a)
	}
	if a.Sketch == nil {
		a.Sketch = sketch.New()
	}
	if a.Compositor == nil {
		a.Compositor = compositor.New(0, nil)
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	if a.Sink == nil {
		lib, err := library.New("", library.PNG, 0)
		if err != nil {
			log.Printf("library: %v", err)
		} else {
			a.Sink = lib
		}
	}
	return a
}

func (a *AppState) editor() *editor {
	ed := newEditor(a.Sketch, a.Compositor, a.Sink, a.Theme)
	ed.notifier = a.Notifier
	ed.dialog = picker.Dialog{Title: "Choose a photo", Dir: a.DialogDir}
	ed.copyImage = clipboard.WriteImage
	return ed
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main runs the window until it is closed.
func (a *AppState) Main(s screen.Screen) {
	ed := a.editor()
	width, height := ed.windowSize()
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "Drawer"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer ed.selector.Cancel()
	defer ed.closed.Store(true)

	ed.post = func(ev any) {
		if !ed.closed.Load() {
			w.Send(ev)
		}
	}
	if a.Source != nil {
		ed.load(a.Source)
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			ed.layout(width)
			w.Send(paint.Event{})
		case paint.Event:
			drawFrame(s, w, ed, width, height)
		case mouse.Event:
			if ed.mouse(e) {
				w.Send(paint.Event{})
			}
		case key.Event:
			redraw, quit := ed.key(e)
			if quit {
				return
			}
			if redraw {
				w.Send(paint.Event{})
			}
		case loadedEvent:
			ed.onLoaded(e)
			w.Send(paint.Event{})
		case savedEvent:
			ed.onSaved(e)
			w.Send(paint.Event{})
		case copiedEvent:
			ed.onCopied(e)
			w.Send(paint.Event{})
		case error:
			log.Printf("window: %v", e)
		}
	}
}

func drawFrame(s screen.Screen, w screen.Window, ed *editor, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	b, err := s.NewBuffer(image.Point{width, height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	ed.render(b.RGBA())
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

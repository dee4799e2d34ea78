package appstate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"

	"github.com/example/drawer/internal/compositor"
	"github.com/example/drawer/internal/notify"
	"github.com/example/drawer/internal/picker"
	"github.com/example/drawer/internal/sketch"
	"github.com/example/drawer/internal/theme"
)

const (
	margin          = 12
	buttonWidth     = 64
	buttonHeight    = 22
	swatchSize      = 18
	widthButtonW    = 44
	rowGap          = 4
	statusHeight    = 18
	checkerSize     = 10
	messageDuration = 4 * time.Second
)

// Events delivered into the window loop from background work.
type (
	loadedEvent struct {
		sel   picker.Selection
		label string
	}
	savedEvent struct {
		res compositor.SaveResult
	}
	copiedEvent struct {
		err error
	}
)

var errNoLibrary = errors.New("no picture library configured")

const (
	actionSelect = "select"
	actionPaste  = "paste"
	actionSave   = "save"
	actionCopy   = "copy"
	actionToggle = "toggle"
	actionClear  = "clear"
	actionQuit   = "quit"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Code      key.Code
	Modifiers key.Modifiers
}

var keyboardAction = map[KeyShortcut]string{
	{key.CodeO, key.ModControl}: actionSelect,
	{key.CodeV, key.ModControl}: actionPaste,
	{key.CodeS, key.ModControl}: actionSave,
	{key.CodeC, key.ModControl}: actionCopy,
	{key.CodeN, key.ModControl}: actionClear,
	{key.CodeE, 0}:              actionToggle,
	{key.CodeQ, 0}:              actionQuit,
	{key.CodeEscape, 0}:         actionQuit,
}

type toolbarItem struct {
	Button
	active func() bool
}

// editor is the window's model: it owns the canvas state and turns input
// events into canvas operations. All methods run on the event loop.
type editor struct {
	state    *sketch.State
	gesture  sketch.Gesture
	comp     *compositor.Compositor
	sink     compositor.Sink
	notifier *notify.Notifier
	theme    *theme.Theme
	selector *picker.Selector

	dialog     picker.Source
	dialogBusy func() bool
	paste      picker.Source
	copyImage func(image.Image) error
	post      func(any)
	now       func() time.Time
	closed    atomic.Bool

	actions map[string]func()
	buttons []toolbarItem
	hover     int
	pressed   int
	drawing   bool
	dragStart sketch.Point

	frame          image.Rectangle
	toolbar        image.Rectangle
	statusBaseline int

	base    *image.RGBA
	baseFor *sketch.Image

	message      string
	messageUntil time.Time
	colorIdx     int
	widthIdx     int
}

func newEditor(st *sketch.State, comp *compositor.Compositor, sink compositor.Sink, th *theme.Theme) *editor {
	e := &editor{
		state:    st,
		gesture:  sketch.Gesture{State: st},
		comp:     comp,
		sink:     sink,
		theme:    th,
		selector: &picker.Selector{},
		dialog:     picker.Dialog{Title: "Choose a photo"},
		dialogBusy: picker.DialogOpen,
		paste:      picker.Clipboard{},
		post:     func(any) {},
		now:      time.Now,
		hover:    -1,
		pressed:  -1,
		colorIdx: EnsurePaletteColor(st.Color(), ""),
		widthIdx: EnsureWidth(st.LineWidth()),
	}
	e.actions = map[string]func(){
		actionSelect: e.openDialog,
		actionPaste:  func() { e.load(e.paste) },
		actionSave:   e.save,
		actionCopy:   e.copy,
		actionToggle: e.toggleMode,
		actionClear:  e.clear,
	}
	e.buildToolbar()
	e.layout(0)
	return e
}

func (e *editor) buildToolbar() {
	static := func(label, action string) toolbarItem {
		return toolbarItem{Button: &CacheButton{Button: &labelButton{
			label:  func() string { return label },
			action: e.actions[action],
			theme:  e.theme,
		}}}
	}
	e.buttons = []toolbarItem{
		static("Select", actionSelect),
		static("Paste", actionPaste),
		static("Save", actionSave),
		static("Copy", actionCopy),
		{
			Button: &labelButton{
				label: func() string {
					if e.state.Mode() == sketch.ModeErase {
						return "Erase"
					}
					return "Draw"
				},
				action: e.toggleMode,
				theme:  e.theme,
			},
			active: func() bool { return e.state.Mode() == sketch.ModeErase },
		},
	}
	for i, pc := range PaletteColors() {
		idx := i
		e.buttons = append(e.buttons, toolbarItem{
			Button: &swatchButton{color: pc.Color, action: func() { e.selectColor(idx) }, theme: e.theme},
			active: func() bool { return e.colorIdx == idx },
		})
	}
	for i, w := range WidthOptions() {
		idx := i
		e.buttons = append(e.buttons, toolbarItem{
			Button: &widthButton{width: w, ink: e.state.Color, action: func() { e.selectWidth(idx) }, theme: e.theme},
			active: func() bool { return e.widthIdx == idx },
		})
	}
}

// layout positions the frame and toolbar for a window winW pixels wide and
// returns the height the content needs. winW <= 0 uses the minimum width.
func (e *editor) layout(winW int) int {
	side := int(math.Round(e.comp.FrameSize()))
	if minW := e.minWidth(); winW < minW {
		winW = minW
	}
	x0 := (winW - side) / 2
	e.frame = image.Rect(x0, margin, x0+side, margin+side)

	top := e.frame.Max.Y + margin
	x, y := margin, top
	rowH, lastKind := 0, -1
	for _, item := range e.buttons {
		kind, w, h := itemSize(item.Button)
		if lastKind >= 0 && (kind != lastKind || x+w > winW-margin) {
			x = margin
			y += rowH + rowGap
		}
		item.SetRect(image.Rect(x, y, x+w, y+h))
		x += w + rowGap
		rowH, lastKind = h, kind
	}
	y += rowH + rowGap
	e.toolbar = image.Rect(0, top-rowGap, winW, y)
	e.statusBaseline = y + statusHeight - 5
	return y + statusHeight + margin
}

// itemSize groups toolbar items into rows: labels, swatches, widths.
func itemSize(b Button) (kind, w, h int) {
	switch b.(type) {
	case *swatchButton:
		return 1, swatchSize, swatchSize
	case *widthButton:
		return 2, widthButtonW, buttonHeight
	}
	return 0, buttonWidth, buttonHeight
}

func (e *editor) minWidth() int {
	labels := 0
	for _, item := range e.buttons {
		if kind, _, _ := itemSize(item.Button); kind == 0 {
			labels++
		}
	}
	w := labels*(buttonWidth+rowGap) - rowGap + 2*margin
	if side := int(math.Round(e.comp.FrameSize())) + 2*margin; side > w {
		w = side
	}
	return w
}

// windowSize is the initial window size.
func (e *editor) windowSize() (int, int) {
	w := e.minWidth()
	return w, e.layout(w)
}

func (e *editor) hit(p image.Point) int {
	for i, item := range e.buttons {
		if p.In(item.Rect()) {
			return i
		}
	}
	return -1
}

// framePoint converts window coordinates into preview-frame coordinates.
// Points outside the frame are kept as is.
func (e *editor) framePoint(x, y float32) sketch.Point {
	return sketch.Pt(float64(x)-float64(e.frame.Min.X), float64(y)-float64(e.frame.Min.Y))
}

// mouse applies a pointer event and reports whether a repaint is needed.
func (e *editor) mouse(ev mouse.Event) bool {
	if e.drawing {
		switch {
		case ev.Button == mouse.ButtonLeft && ev.Direction == mouse.DirRelease:
			e.drawing = false
			if !e.state.Drawing() {
				// A click without motion commits a zero-length segment.
				e.gesture.Drag(e.dragStart, e.dragStart)
			}
			e.gesture.End()
		case ev.Direction == mouse.DirNone:
			e.gesture.Drag(e.dragStart, e.framePoint(ev.X, ev.Y))
		default:
			return false
		}
		return true
	}

	p := image.Pt(int(ev.X), int(ev.Y))
	hit := e.hit(p)
	switch {
	case ev.Direction == mouse.DirNone:
		if hit != e.hover {
			e.hover = hit
			return true
		}
	case ev.Button == mouse.ButtonLeft && ev.Direction == mouse.DirPress:
		if hit >= 0 {
			e.pressed = hit
			return true
		}
		if p.In(e.frame) {
			e.drawing = true
			e.dragStart = e.framePoint(ev.X, ev.Y)
			e.state.DiscardStroke()
			return true
		}
	case ev.Button == mouse.ButtonLeft && ev.Direction == mouse.DirRelease:
		if e.pressed >= 0 {
			idx := e.pressed
			e.pressed = -1
			if idx == hit {
				e.buttons[idx].Activate()
			}
			return true
		}
	}
	return false
}

// key applies a key press. quit is set when the window should close.
func (e *editor) key(ev key.Event) (redraw, quit bool) {
	if ev.Direction != key.DirPress {
		return false, false
	}
	mods := ev.Modifiers
	if mods&key.ModMeta != 0 {
		mods = mods&^key.ModMeta | key.ModControl
	}
	mods &= key.ModControl
	action, ok := keyboardAction[KeyShortcut{Code: ev.Code, Modifiers: mods}]
	if !ok {
		return false, false
	}
	if action == actionQuit {
		if e.drawing {
			e.drawing = false
			e.state.DiscardStroke()
			return true, false
		}
		return false, true
	}
	e.actions[action]()
	return true, false
}

func sourceLabel(src picker.Source) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return "image"
}

// load starts an asynchronous pick. Any earlier pick still in flight is
// cancelled and its result ignored.
func (e *editor) load(src picker.Source) {
	token := e.state.BeginLoad()
	label := sourceLabel(src)
	e.selector.Select(context.Background(), token, src, func(sel picker.Selection) {
		e.post(loadedEvent{sel: sel, label: label})
	})
}

// openDialog loads from the file dialog unless one is already showing. A
// second request would cancel the pending pick while the first dialog stays
// open.
func (e *editor) openDialog() {
	if e.dialogBusy() {
		e.setStatus("A file dialog is already open")
		return
	}
	e.load(e.dialog)
}

func (e *editor) onLoaded(ev loadedEvent) {
	if !e.state.Current(ev.sel.Token) {
		return
	}
	if errors.Is(ev.sel.Err, picker.ErrCancelled) {
		return
	}
	if ev.sel.Err != nil {
		e.fail(notify.EventLoad, "Could not open image", ev.sel.Err)
		return
	}
	img, err := e.state.CompleteLoad(ev.sel.Token, ev.sel.Data)
	if errors.Is(err, sketch.ErrSuperseded) {
		return
	}
	if err != nil {
		e.fail(notify.EventLoad, "Could not open image", err)
		return
	}
	e.drawing = false
	e.setStatus(fmt.Sprintf("Opened %s (%dx%d)", ev.label, img.Width(), img.Height()))
	go e.notifier.Load(ev.label, img.Pixels)
}

func (e *editor) save() {
	if e.sink == nil {
		e.fail(notify.EventSave, "Save failed", errNoLibrary)
		return
	}
	done, err := e.comp.Publish(e.state, e.sink)
	if err != nil {
		e.fail(notify.EventSave, "Nothing to save", err)
		return
	}
	e.setStatus("Saving")
	go func() {
		e.post(savedEvent{res: <-done})
	}()
}

func (e *editor) onSaved(ev savedEvent) {
	if ev.res.Err != nil {
		e.fail(notify.EventSave, "Save failed", ev.res.Err)
		return
	}
	e.setStatus("Saved " + ev.res.Path)
	go e.notifier.Save(ev.res.Path)
}

func (e *editor) copy() {
	out, err := e.comp.ExportState(e.state)
	if err != nil {
		e.fail(notify.EventCopy, "Nothing to copy", err)
		return
	}
	go func() {
		e.post(copiedEvent{err: e.copyImage(out)})
	}()
}

func (e *editor) onCopied(ev copiedEvent) {
	if ev.err != nil {
		e.fail(notify.EventCopy, "Copy failed", ev.err)
		return
	}
	e.setStatus("Copied to clipboard")
	go e.notifier.Copy("")
}

func (e *editor) toggleMode() {
	e.state.SetMode(e.state.Mode() == sketch.ModeErase)
}

func (e *editor) clear() {
	e.drawing = false
	e.state.Reset()
	e.setStatus("Cleared")
}

func (e *editor) selectColor(idx int) {
	if pc, ok := paletteAt(idx); ok {
		e.state.SetColor(pc.Color)
		e.colorIdx = idx
	}
}

func (e *editor) selectWidth(idx int) {
	w, ok := widthAt(idx)
	if !ok {
		return
	}
	if err := e.state.SetLineWidth(w); err != nil {
		log.Printf("line width: %v", err)
		return
	}
	e.widthIdx = idx
}

func (e *editor) fail(event notify.Event, what string, err error) {
	log.Printf("%s: %v", what, err)
	e.setStatus(what + ": " + err.Error())
	go e.notifier.Failed(event, err)
}

func (e *editor) setStatus(msg string) {
	e.message = msg
	e.messageUntil = e.now().Add(messageDuration)
	time.AfterFunc(messageDuration, func() {
		if !e.closed.Load() {
			e.post(paint.Event{})
		}
	})
}

func (e *editor) status() string {
	if e.message != "" && e.now().Before(e.messageUntil) {
		return e.message
	}
	mode := "draw"
	if e.state.Mode() == sketch.ModeErase {
		mode = "erase"
	}
	if e.state.Image() == nil {
		return "Ctrl+O to choose a photo, Ctrl+V to paste one"
	}
	return fmt.Sprintf("%s  width %g  %d strokes", mode, e.state.LineWidth(), len(e.state.Strokes()))
}

func (e *editor) buttonState(i int) ButtonState {
	switch {
	case i == e.pressed:
		return StatePressed
	case e.buttons[i].active != nil && e.buttons[i].active():
		return StateActive
	case i == e.hover:
		return StateHover
	}
	return StateDefault
}

// preview renders the frame contents: the fitted image plus every stroke.
func (e *editor) preview() (*image.RGBA, error) {
	img := e.state.Image()
	if e.base == nil || e.baseFor != img {
		e.base = e.comp.FrameImage(img)
		e.baseFor = img
	}
	strokes := e.state.Strokes()
	if cur, ok := e.state.InProgress(); ok {
		strokes = append(strokes, cur)
	}
	return e.comp.Overlay(e.base, strokes, e.state.LineWidth())
}

func (e *editor) render(dst *image.RGBA) {
	th := e.theme
	draw.Draw(dst, dst.Bounds(), image.NewUniform(th.Background), image.Point{}, draw.Src)
	draw.Draw(dst, e.toolbar, image.NewUniform(th.ToolbarBackground), image.Point{}, draw.Src)
	drawCheckerboard(dst, e.frame, checkerSize, th.CheckerLight, th.CheckerDark)
	if pv, err := e.preview(); err != nil {
		log.Printf("preview: %v", err)
	} else {
		draw.Draw(dst, e.frame, pv, image.Point{}, draw.Over)
	}
	drawRect(dst, e.frame.Inset(-1), th.FrameBorder, 1)
	for i, item := range e.buttons {
		item.Draw(dst, e.buttonState(i))
	}
	drawLabel(dst, margin, e.statusBaseline, e.status(), th.Foreground)
}

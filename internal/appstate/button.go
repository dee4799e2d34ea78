package appstate

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/example/drawer/internal/theme"
)

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
	StateActive
)

// Button represents an interactive toolbar element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [4]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [4]*image.RGBA{}
	}
}

func buttonFill(th *theme.Theme, state ButtonState) color.RGBA {
	switch state {
	case StateHover:
		return th.ButtonBackgroundHover
	case StatePressed:
		return th.ButtonBackgroundPress
	case StateActive:
		return th.ButtonActive
	}
	return th.ButtonBackground
}

// labelButton is a text button such as Select or Save.
type labelButton struct {
	label  func() string
	action func()
	theme  *theme.Theme
	rect   image.Rectangle
}

func (b *labelButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, b.rect, image.NewUniform(buttonFill(b.theme, state)), image.Point{}, draw.Src)
	drawRect(dst, b.rect, b.theme.ButtonBorder, 1)
	text := b.label()
	x := b.rect.Min.X + (b.rect.Dx()-measureLabel(text))/2
	drawLabel(dst, x, b.rect.Min.Y+(b.rect.Dy()+10)/2, text, b.theme.ButtonText)
}

func (b *labelButton) Rect() image.Rectangle { return b.rect }

func (b *labelButton) SetRect(r image.Rectangle) { b.rect = r }

func (b *labelButton) Activate() {
	if b.action != nil {
		b.action()
	}
}

// swatchButton selects a palette color.
type swatchButton struct {
	color  color.RGBA
	action func()
	theme  *theme.Theme
	rect   image.Rectangle
}

func (b *swatchButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, b.rect, image.NewUniform(b.color), image.Point{}, draw.Src)
	switch state {
	case StateActive:
		drawRect(dst, b.rect, b.theme.ButtonActive, 3)
	case StateHover, StatePressed:
		drawRect(dst, b.rect, b.theme.ButtonBackgroundHover, 2)
	default:
		drawRect(dst, b.rect, b.theme.ButtonBorder, 1)
	}
}

func (b *swatchButton) Rect() image.Rectangle { return b.rect }

func (b *swatchButton) SetRect(r image.Rectangle) { b.rect = r }

func (b *swatchButton) Activate() {
	if b.action != nil {
		b.action()
	}
}

// widthButton selects a stroke width and previews it as a bar.
type widthButton struct {
	width  float64
	ink    func() color.RGBA
	action func()
	theme  *theme.Theme
	rect   image.Rectangle
}

func (b *widthButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, b.rect, image.NewUniform(buttonFill(b.theme, state)), image.Point{}, draw.Src)
	drawRect(dst, b.rect, b.theme.ButtonBorder, 1)
	// Bars are capped so wide strokes still fit the button.
	h := int(b.width / 4)
	if h < 1 {
		h = 1
	}
	if limit := b.rect.Dy() - 6; h > limit {
		h = limit
	}
	cy := b.rect.Min.Y + b.rect.Dy()/2
	bar := image.Rect(b.rect.Min.X+6, cy-h/2, b.rect.Max.X-6, cy-h/2+h)
	draw.Draw(dst, bar, image.NewUniform(b.ink()), image.Point{}, draw.Src)
}

func (b *widthButton) Rect() image.Rectangle { return b.rect }

func (b *widthButton) SetRect(r image.Rectangle) { b.rect = r }

func (b *widthButton) Activate() {
	if b.action != nil {
		b.action()
	}
}

package sketch

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/google/uuid"
)

// DefaultLineWidth is the stroke width in preview units used when none is configured.
const DefaultLineWidth = 20

var (
	// DefaultColor is the initial drawing color.
	DefaultColor = color.RGBA{0, 0, 0, 255}
	// DefaultEraseColor paints over strokes while erasing.
	DefaultEraseColor = color.RGBA{255, 255, 255, 255}
)

// ErrSuperseded is returned when a load completes after a newer selection began.
var ErrSuperseded = errors.New("image load superseded by a newer selection")

// Point is a coordinate in preview-frame space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Stroke is one committed polyline gesture.
type Stroke struct {
	ID     string
	Points []Point
	Color  color.RGBA
}

func (s Stroke) clone() Stroke {
	pts := make([]Point, len(s.Points))
	copy(pts, s.Points)
	s.Points = pts
	return s
}

// Mode selects which color new strokes are committed with.
type Mode int

const (
	ModeDraw Mode = iota
	ModeErase
)

func (m Mode) String() string {
	if m == ModeErase {
		return "erase"
	}
	return "draw"
}

// ActiveColor returns the color a stroke committed in mode would carry.
func ActiveColor(mode Mode, chosen, erase color.RGBA) color.RGBA {
	if mode == ModeErase {
		return erase
	}
	return chosen
}

// LoadToken identifies one image selection. Only the most recently issued
// token may apply its bytes.
type LoadToken uint64

// State holds the image being annotated and the strokes drawn over it. It is
// owned by a single goroutine; callers serialise access.
type State struct {
	image      *Image
	strokes    []Stroke
	current    []Point
	inProgress bool

	mode       Mode
	color      color.RGBA
	eraseColor color.RGBA
	lineWidth  float64

	loads LoadToken
}

// Option modifies a State during creation.
type Option func(*State)

// WithColor sets the initial drawing color.
func WithColor(c color.RGBA) Option { return func(s *State) { s.color = c } }

// WithEraseColor sets the color used while erasing.
func WithEraseColor(c color.RGBA) Option { return func(s *State) { s.eraseColor = c } }

// WithLineWidth sets the initial line width. Values that are not positive
// and finite are ignored.
func WithLineWidth(w float64) Option {
	return func(s *State) {
		if validWidth(w) {
			s.lineWidth = w
		}
	}
}

// WithImage preloads an image.
func WithImage(img *Image) Option { return func(s *State) { s.image = img } }

// New creates a State with the provided options.
func New(opts ...Option) *State {
	s := &State{
		mode:       ModeDraw,
		color:      DefaultColor,
		eraseColor: DefaultEraseColor,
		lineWidth:  DefaultLineWidth,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SelectImage decodes data and, on success, replaces the current image and
// drops every stroke. A decode failure leaves the state untouched.
func (s *State) SelectImage(data []byte) (*Image, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	s.loads++
	s.replace(img)
	return img, nil
}

func (s *State) replace(img *Image) {
	s.image = img
	s.strokes = nil
	s.current = nil
	s.inProgress = false
}

// BeginLoad issues a token for an asynchronous selection. Earlier tokens
// become stale.
func (s *State) BeginLoad() LoadToken {
	s.loads++
	return s.loads
}

// CompleteLoad applies the bytes fetched for token. Stale tokens return
// ErrSuperseded without touching the state.
func (s *State) CompleteLoad(token LoadToken, data []byte) (*Image, error) {
	if token != s.loads {
		return nil, ErrSuperseded
	}
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	s.replace(img)
	return img, nil
}

// Current reports whether token is the latest issued load.
func (s *State) Current(token LoadToken) bool { return token == s.loads }

// BeginStroke starts a stroke at p, or extends the one in progress.
func (s *State) BeginStroke(p Point) {
	if !s.inProgress {
		s.current = []Point{p}
		s.inProgress = true
		return
	}
	s.current = append(s.current, p)
}

// ExtendStroke appends p to the in-progress stroke.
func (s *State) ExtendStroke(p Point) {
	if !s.inProgress {
		return
	}
	s.current = append(s.current, p)
}

// DiscardStroke drops the in-progress stroke without committing it.
func (s *State) DiscardStroke() {
	s.current = nil
	s.inProgress = false
}

// CommitStroke appends the in-progress stroke, tagged with the active color,
// to the committed list. It reports false when nothing was in progress.
func (s *State) CommitStroke() (Stroke, bool) {
	if !s.inProgress {
		return Stroke{}, false
	}
	st := Stroke{
		ID:     uuid.NewString(),
		Points: s.current,
		Color:  ActiveColor(s.mode, s.color, s.eraseColor),
	}
	s.strokes = append(s.strokes, st)
	s.current = nil
	s.inProgress = false
	return st.clone(), true
}

// SetMode switches between drawing and erasing.
func (s *State) SetMode(drawing bool) {
	if drawing {
		s.mode = ModeDraw
	} else {
		s.mode = ModeErase
	}
}

// SetColor changes the drawing color for subsequently committed strokes.
func (s *State) SetColor(c color.RGBA) { s.color = c }

// SetEraseColor changes the erase color for subsequently committed strokes.
func (s *State) SetEraseColor(c color.RGBA) { s.eraseColor = c }

// SetLineWidth changes the shared line width. Strokes do not capture it, so
// the new width also applies to strokes already drawn.
func (s *State) SetLineWidth(w float64) error {
	if !validWidth(w) {
		return fmt.Errorf("line width must be positive and finite, got %v", w)
	}
	s.lineWidth = w
	return nil
}

func validWidth(w float64) bool { return w > 0 && !math.IsInf(w, 0) }

// Reset drops all strokes but keeps the image.
func (s *State) Reset() {
	s.strokes = nil
	s.DiscardStroke()
}

func (s *State) Image() *Image { return s.image }
func (s *State) Mode() Mode { return s.mode }
func (s *State) Color() color.RGBA { return s.color }
func (s *State) EraseColor() color.RGBA { return s.eraseColor }
func (s *State) LineWidth() float64 { return s.lineWidth }
func (s *State) Drawing() bool { return s.inProgress }

// ActiveColor returns the color the in-progress stroke would be committed with.
func (s *State) ActiveColor() color.RGBA {
	return ActiveColor(s.mode, s.color, s.eraseColor)
}

// Strokes returns a copy of the committed strokes, oldest first.
func (s *State) Strokes() []Stroke {
	out := make([]Stroke, len(s.strokes))
	for i, st := range s.strokes {
		out[i] = st.clone()
	}
	return out
}

// InProgress returns the stroke being drawn, if any, in the active color.
func (s *State) InProgress() (Stroke, bool) {
	if !s.inProgress {
		return Stroke{}, false
	}
	return Stroke{Points: append([]Point(nil), s.current...), Color: s.ActiveColor()}, true
}

package sketch

// Gesture adapts pointer events to State mutations. A pointer interaction is
// a linear sequence: Start, any number of Move or Drag calls, then End.
// Only one stroke may be in progress at a time.
type Gesture struct {
	State *State
}

// Start begins a new stroke at p. A stroke still in progress from an
// unfinished interaction is discarded.
func (g Gesture) Start(p Point) {
	if g.State.Drawing() {
		g.State.DiscardStroke()
	}
	g.State.BeginStroke(p)
}

// Move extends the current stroke to p.
func (g Gesture) Move(p Point) {
	g.State.ExtendStroke(p)
}

// Drag handles a drag sample that reports both the drag origin and the
// current location. The first sample of an interaction anchors the stroke at
// start before appending p, so a drag without movement yields a zero-length
// segment.
func (g Gesture) Drag(start, p Point) {
	if !g.State.Drawing() {
		g.State.BeginStroke(start)
	}
	g.State.ExtendStroke(p)
}

// End commits the stroke built since Start.
func (g Gesture) End() (Stroke, bool) {
	return g.State.CommitStroke()
}

package sketch

import "testing"

func TestGestureCommitsOneStrokePerInteraction(t *testing.T) {
	s := New()
	g := Gesture{State: s}
	g.Start(Pt(0, 0))
	g.Move(Pt(1, 0))
	g.Move(Pt(2, 0))
	if _, ok := g.End(); !ok {
		t.Fatal("expected commit")
	}
	strokes := s.Strokes()
	if len(strokes) != 1 || len(strokes[0].Points) != 3 {
		t.Fatalf("unexpected strokes %+v", strokes)
	}
}

func TestGestureStartDiscardsUnfinishedStroke(t *testing.T) {
	s := New()
	g := Gesture{State: s}
	g.Start(Pt(0, 0))
	g.Move(Pt(5, 5))
	g.Start(Pt(10, 10))
	st, ok := g.End()
	if !ok {
		t.Fatal("expected commit")
	}
	if len(st.Points) != 1 || st.Points[0] != Pt(10, 10) {
		t.Fatalf("expected fresh stroke at new point, got %v", st.Points)
	}
	if len(s.Strokes()) != 1 {
		t.Fatalf("expected only one committed stroke, got %d", len(s.Strokes()))
	}
}

func TestGestureDragAnchorsAtStart(t *testing.T) {
	s := New()
	g := Gesture{State: s}
	start := Pt(4, 4)
	g.Drag(start, Pt(4, 4))
	g.Drag(start, Pt(6, 7))
	st, _ := g.End()
	want := []Point{Pt(4, 4), Pt(4, 4), Pt(6, 7)}
	if len(st.Points) != len(want) {
		t.Fatalf("got %v, want %v", st.Points, want)
	}
	for i := range want {
		if st.Points[i] != want[i] {
			t.Fatalf("got %v, want %v", st.Points, want)
		}
	}
}

func TestGestureDegenerateDragStillCommits(t *testing.T) {
	s := New()
	g := Gesture{State: s}
	g.Start(Pt(3, 3))
	if _, ok := g.End(); !ok {
		t.Fatal("expected degenerate stroke to commit")
	}
	if len(s.Strokes()) != 1 || len(s.Strokes()[0].Points) != 1 {
		t.Fatalf("unexpected strokes %+v", s.Strokes())
	}
}

package sketch

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 10, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestSelectImageReportsNativeSizeAndClearsStrokes(t *testing.T) {
	s := New()
	if _, err := s.SelectImage(encodePNG(t, 8, 4)); err != nil {
		t.Fatalf("select: %v", err)
	}
	s.BeginStroke(Pt(1, 1))
	s.ExtendStroke(Pt(2, 2))
	s.CommitStroke()
	s.BeginStroke(Pt(3, 3))

	img, err := s.SelectImage(encodePNG(t, 40, 80))
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if img.Width() != 40 || img.Height() != 80 {
		t.Fatalf("unexpected size %dx%d", img.Width(), img.Height())
	}
	if img.Format != "png" {
		t.Errorf("format = %q, want png", img.Format)
	}
	if n := len(s.Strokes()); n != 0 {
		t.Fatalf("expected strokes cleared, got %d", n)
	}
	if s.Drawing() {
		t.Fatal("expected in-progress stroke cleared")
	}
	if s.Image() != img {
		t.Fatal("expected new image to be current")
	}
}

func TestSelectImageDecodeErrorKeepsState(t *testing.T) {
	s := New()
	first, err := s.SelectImage(encodePNG(t, 4, 4))
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	s.BeginStroke(Pt(0, 0))
	s.CommitStroke()

	_, err = s.SelectImage([]byte("definitely not an image"))
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	var derr *DecodeError
	if !errors.As(err, &derr) || derr.Size != len("definitely not an image") {
		t.Fatalf("expected *DecodeError with size, got %#v", err)
	}
	if s.Image() != first {
		t.Fatal("image replaced after decode failure")
	}
	if len(s.Strokes()) != 1 {
		t.Fatalf("strokes changed after decode failure: %d", len(s.Strokes()))
	}
}

func TestDecodeNormalisesToZeroOriginRGBA(t *testing.T) {
	img, err := Decode(encodePNG(t, 6, 3))
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Pixels.RGBAAt(5, 2); got != (color.RGBA{5, 2, 10, 255}) {
		t.Fatalf("rgba pixel %v", got)
	}

	gray := image.NewGray(image.Rect(0, 0, 3, 2))
	gray.SetGray(2, 1, color.Gray{Y: 200})
	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		t.Fatal(err)
	}
	img, err = Decode(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Pixels.RGBAAt(2, 1); got != (color.RGBA{200, 200, 200, 255}) {
		t.Fatalf("gray pixel %v", got)
	}

	offset := image.NewRGBA(image.Rect(10, 20, 14, 22))
	offset.SetRGBA(10, 20, color.RGBA{R: 9, A: 255})
	wrapped := FromRGBA(offset)
	if b := wrapped.Pixels.Bounds(); b != image.Rect(0, 0, 4, 2) {
		t.Fatalf("bounds %v", b)
	}
	if got := wrapped.Pixels.RGBAAt(0, 0); got.R != 9 {
		t.Fatalf("origin pixel %v", got)
	}
}

func TestCommitStrokeKeepsPointsInOrder(t *testing.T) {
	s := New()
	pts := []Point{Pt(1, 2), Pt(3, 4), Pt(5, 6), Pt(7, 8)}
	s.BeginStroke(pts[0])
	for _, p := range pts[1:] {
		s.ExtendStroke(p)
	}
	red := color.RGBA{255, 0, 0, 255}
	s.SetColor(red)
	st, ok := s.CommitStroke()
	if !ok {
		t.Fatal("expected commit")
	}
	strokes := s.Strokes()
	if len(strokes) != 1 {
		t.Fatalf("expected one stroke, got %d", len(strokes))
	}
	if strokes[0].Color != red || st.Color != red {
		t.Fatalf("expected color captured at commit time, got %v", strokes[0].Color)
	}
	if len(strokes[0].Points) != len(pts) {
		t.Fatalf("expected %d points, got %d", len(pts), len(strokes[0].Points))
	}
	for i, p := range pts {
		if strokes[0].Points[i] != p {
			t.Fatalf("point %d = %v, want %v", i, strokes[0].Points[i], p)
		}
	}
	if st.ID == "" {
		t.Error("expected stroke id")
	}
}

func TestBeginStrokeExtendsWhenInProgress(t *testing.T) {
	s := New()
	s.BeginStroke(Pt(1, 1))
	s.BeginStroke(Pt(2, 2))
	st, _ := s.CommitStroke()
	if len(st.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(st.Points))
	}
}

func TestExtendWithoutStrokeIsNoop(t *testing.T) {
	s := New()
	s.ExtendStroke(Pt(1, 1))
	if s.Drawing() {
		t.Fatal("extend should not start a stroke")
	}
	if _, ok := s.CommitStroke(); ok {
		t.Fatal("commit without a stroke should report false")
	}
	if len(s.Strokes()) != 0 {
		t.Fatal("unexpected stroke")
	}
}

func TestStrokeOrderIsCommitOrder(t *testing.T) {
	s := New()
	var ids []string
	for i := 0; i < 5; i++ {
		s.BeginStroke(Pt(float64(i), 0))
		st, _ := s.CommitStroke()
		ids = append(ids, st.ID)
	}
	for i, st := range s.Strokes() {
		if st.ID != ids[i] {
			t.Fatalf("stroke %d id %s, want %s", i, st.ID, ids[i])
		}
		if st.Points[0].X != float64(i) {
			t.Fatalf("stroke %d out of order", i)
		}
	}
}

func TestEraseModeUsesEraseColor(t *testing.T) {
	chosen := color.RGBA{0, 0, 255, 255}
	erase := color.RGBA{250, 250, 250, 255}
	s := New(WithColor(chosen), WithEraseColor(erase))
	s.SetMode(false)
	s.BeginStroke(Pt(0, 0))
	if got, _ := s.InProgress(); got.Color != erase {
		t.Fatalf("in-progress color %v, want %v", got.Color, erase)
	}
	st, _ := s.CommitStroke()
	if st.Color != erase {
		t.Fatalf("committed color %v, want erase color", st.Color)
	}
	s.SetMode(true)
	if s.ActiveColor() != chosen {
		t.Fatalf("active color %v, want chosen", s.ActiveColor())
	}
}

func TestActiveColor(t *testing.T) {
	chosen := color.RGBA{1, 2, 3, 255}
	erase := color.RGBA{4, 5, 6, 255}
	if got := ActiveColor(ModeDraw, chosen, erase); got != chosen {
		t.Errorf("draw: got %v", got)
	}
	if got := ActiveColor(ModeErase, chosen, erase); got != erase {
		t.Errorf("erase: got %v", got)
	}
}

func TestSetLineWidthRejectsInvalid(t *testing.T) {
	s := New()
	for _, w := range []float64{0, -3, math.Inf(1), math.Inf(-1), math.NaN()} {
		if err := s.SetLineWidth(w); err == nil {
			t.Errorf("expected error for width %v", w)
		}
	}
	if s.LineWidth() != DefaultLineWidth {
		t.Fatalf("width changed to %v", s.LineWidth())
	}
	if err := s.SetLineWidth(4.5); err != nil || s.LineWidth() != 4.5 {
		t.Fatalf("set width: %v %v", err, s.LineWidth())
	}
}

func TestWithLineWidthIgnoresInvalid(t *testing.T) {
	for _, w := range []float64{0, -1, math.Inf(1), math.NaN()} {
		if got := New(WithLineWidth(w)).LineWidth(); got != DefaultLineWidth {
			t.Errorf("WithLineWidth(%v): width %v", w, got)
		}
	}
	if got := New(WithLineWidth(7)).LineWidth(); got != 7 {
		t.Fatalf("WithLineWidth(7): width %v", got)
	}
}

func TestStrokesReturnsCopies(t *testing.T) {
	s := New()
	s.BeginStroke(Pt(1, 1))
	s.CommitStroke()
	got := s.Strokes()
	got[0].Points[0] = Pt(99, 99)
	if s.Strokes()[0].Points[0] != Pt(1, 1) {
		t.Fatal("committed stroke mutated through returned slice")
	}
}

func TestSupersededLoadIsIgnored(t *testing.T) {
	s := New()
	if _, err := s.SelectImage(encodePNG(t, 10, 10)); err != nil {
		t.Fatalf("select: %v", err)
	}
	s.BeginStroke(Pt(1, 1))
	s.CommitStroke()

	first := s.BeginLoad()
	second := s.BeginLoad()

	img, err := s.CompleteLoad(second, encodePNG(t, 30, 20))
	if err != nil {
		t.Fatalf("complete second: %v", err)
	}
	if len(s.Strokes()) != 0 {
		t.Fatal("expected strokes cleared by second selection")
	}
	if _, err := s.CompleteLoad(first, encodePNG(t, 5, 5)); !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
	if s.Image() != img || s.Image().Width() != 30 {
		t.Fatal("stale load replaced the current image")
	}
}

func TestSynchronousSelectSupersedesPendingLoad(t *testing.T) {
	s := New()
	pending := s.BeginLoad()
	if _, err := s.SelectImage(encodePNG(t, 3, 3)); err != nil {
		t.Fatalf("select: %v", err)
	}
	if s.Current(pending) {
		t.Fatal("pending token should be stale after a direct selection")
	}
}

func TestCompleteLoadDecodeFailureKeepsState(t *testing.T) {
	s := New()
	tok := s.BeginLoad()
	if _, err := s.CompleteLoad(tok, nil); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if s.Image() != nil {
		t.Fatal("image set after failed load")
	}
}

func TestResetKeepsImage(t *testing.T) {
	s := New()
	img, _ := s.SelectImage(encodePNG(t, 2, 2))
	s.BeginStroke(Pt(0, 0))
	s.CommitStroke()
	s.BeginStroke(Pt(1, 1))
	s.Reset()
	if s.Image() != img || len(s.Strokes()) != 0 || s.Drawing() {
		t.Fatal("reset should clear strokes only")
	}
}

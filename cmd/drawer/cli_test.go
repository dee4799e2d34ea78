package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/drawer/internal/config"
	"github.com/example/drawer/internal/sketch"
)

func testRoot(t *testing.T) *root {
	t.Helper()
	t.Setenv("XDG_PICTURES_DIR", t.TempDir())
	return &root{program: "drawer", config: config.New()}
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	path := filepath.Join(t.TempDir(), "photo.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func TestParseStrokes(t *testing.T) {
	tests := []struct {
		args []string
		want []int
	}{
		{[]string{"1,2", "3,4", "/", "5,6"}, []int{2, 1}},
		{[]string{"1,2/3,4"}, []int{1, 1}},
		{[]string{"/", "1,2", "3,4", "/"}, []int{2}},
		{[]string{"-5,2.5", "10,-1"}, []int{2}},
	}
	for _, tc := range tests {
		got, err := parseStrokes(tc.args)
		if err != nil {
			t.Fatalf("parseStrokes(%v): %v", tc.args, err)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("parseStrokes(%v) = %v", tc.args, got)
		}
		for i, n := range tc.want {
			if len(got[i]) != n {
				t.Fatalf("parseStrokes(%v) stroke %d has %d points", tc.args, i, len(got[i]))
			}
		}
	}
	if got, _ := parseStrokes([]string{"-5,2.5"}); got[0][0] != sketch.Pt(-5, 2.5) {
		t.Fatalf("point parsed as %v", got[0][0])
	}
	for _, bad := range [][]string{{"/"}, {"1"}, {"a,b"}} {
		if _, err := parseStrokes(bad); err == nil {
			t.Errorf("parseStrokes(%v) should fail", bad)
		}
	}
}

func TestNonFiniteInputRejected(t *testing.T) {
	for _, s := range []string{"NaN,5", "5,Inf", "-Inf,0", "nan,nan"} {
		if _, err := parsePoint(s); err == nil {
			t.Errorf("parsePoint(%q) should fail", s)
		}
	}
	if _, err := parseStrokes([]string{"NaN,5", "10,10"}); err == nil {
		t.Error("parseStrokes accepted a NaN point")
	}
	for _, flags := range [][]string{{"-width", "Inf"}, {"-width", "NaN"}, {"-frame", "+Inf"}} {
		args := append([]string{"-file", "x.png"}, flags...)
		if _, err := parseDrawCmd(append(args, "1,1"), testRoot(t)); err == nil {
			t.Errorf("parseDrawCmd(%v) should fail", flags)
		}
	}

	cmd, _ := newTestSession(t)
	for _, line := range []string{"begin NaN 5", "extend 1 Inf", "stroke 1,1 NaN,2", "width Inf", "width NaN"} {
		if _, err := cmd.executeLine(line); err == nil {
			t.Errorf("%q should fail", line)
		}
	}
	if n := len(cmd.state.Strokes()); n != 0 {
		t.Fatalf("strokes = %d after rejected input", n)
	}
	if w := cmd.state.LineWidth(); w != sketch.DefaultLineWidth {
		t.Fatalf("width changed to %v", w)
	}
}

func TestSplitDrawArgs(t *testing.T) {
	flags, points, err := splitDrawArgs([]string{"-width", "5", "-10,3", "--erase", "20,30", "-color=red"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(flags, " ") != "-width 5 -erase -color=red" {
		t.Fatalf("flags %v", flags)
	}
	if strings.Join(points, " ") != "-10,3 20,30" {
		t.Fatalf("points %v", points)
	}
	if _, _, err := splitDrawArgs([]string{"1,1", "-width"}); err == nil {
		t.Fatal("expected missing value error")
	}
}

func TestParseDrawRequiresInput(t *testing.T) {
	_, err := parseDrawCmd([]string{"1,1", "2,2"}, testRoot(t))
	if err == nil || !strings.Contains(err.Error(), "input file is required") {
		t.Fatalf("expected input error, got %v", err)
	}
	_, err = parseDrawCmd([]string{"-file", "x.png"}, testRoot(t))
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestDrawWritesNativeResolution(t *testing.T) {
	in := writePNG(t, 400, 800)
	out := filepath.Join(t.TempDir(), "out.png")
	cmd, err := parseDrawCmd([]string{"-file", in, "-output", out, "-color", "red", "-width", "3", "150,150", "150,160"}, testRoot(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	img := readPNG(t, out)
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 800 {
		t.Fatalf("output size %v", b)
	}
	// frame (150,150) is native (200,400) for a 400x800 photo
	if r, g, _, _ := img.At(200, 413).RGBA(); r>>8 < 200 || g>>8 > 60 {
		t.Fatalf("stroke pixel %v", img.At(200, 413))
	}
	if r, g, b, _ := img.At(50, 50).RGBA(); r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Fatalf("untouched pixel %v", img.At(50, 50))
	}

	if err := cmd.Run(); !errors.Is(err, os.ErrExist) {
		t.Fatalf("second run should refuse to overwrite, got %v", err)
	}
	cmd.overwrite = true
	if err := cmd.Run(); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestDrawSavesToLibrary(t *testing.T) {
	r := testRoot(t)
	dir := t.TempDir()
	r.config.SaveDir = dir
	cmd, err := parseDrawCmd([]string{"-file", writePNG(t, 40, 20), "-format", "jpeg", "5,5", "10,10"}, r)
	if err != nil {
		t.Fatal(err)
	}
	var stdout bytes.Buffer
	cmd.stdout = &stdout
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	path := strings.TrimSpace(stdout.String())
	if filepath.Dir(path) != dir || filepath.Ext(path) != ".jpg" {
		t.Fatalf("saved to %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}

func TestDrawRejectsBadImage(t *testing.T) {
	in := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(in, []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	cmd, err := parseDrawCmd([]string{"-file", in, "1,1"}, testRoot(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); !errors.Is(err, sketch.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func newTestSession(t *testing.T) (*interactiveCmd, *bytes.Buffer) {
	t.Helper()
	cmd, err := parseInteractiveCmd(nil, testRoot(t))
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	cmd.stdout, cmd.stderr = &out, &out
	if err := cmd.setup(); err != nil {
		t.Fatal(err)
	}
	return cmd, &out
}

func TestInteractiveSession(t *testing.T) {
	cmd, out := newTestSession(t)
	in := writePNG(t, 800, 400)
	exported := filepath.Join(t.TempDir(), "drawing.png")
	for _, line := range []string{
		"select " + in,
		"color blue",
		"width 5",
		"stroke 10,10 20,20",
		"begin 1 1",
		"extend 2 2",
		"commit",
		"mode erase",
		"status",
		"export " + exported,
	} {
		if done, err := cmd.executeLine(line); err != nil || done {
			t.Fatalf("%q: done=%v err=%v", line, done, err)
		}
	}
	text := out.String()
	for _, want := range []string{"opened photo.png (800x400)", "stroke 2: 2 points", "mode: erase", "strokes: 2", "saved " + exported} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if b := readPNG(t, exported).Bounds(); b.Dx() != 800 || b.Dy() != 400 {
		t.Fatalf("exported size %v", b)
	}
	if done, _ := cmd.executeLine("exit"); !done {
		t.Fatal("exit should end the session")
	}
}

func TestInteractiveEraseColor(t *testing.T) {
	cmd, out := newTestSession(t)
	in := writePNG(t, 100, 100)
	exported := filepath.Join(t.TempDir(), "erased.png")
	for _, line := range []string{
		"select " + in,
		"erase-color #00FF00",
		"mode erase",
		"width 10",
		"stroke 150,150 160,150",
		"status",
		"export " + exported,
	} {
		if _, err := cmd.executeLine(line); err != nil {
			t.Fatalf("%q: %v", line, err)
		}
	}
	if !strings.Contains(out.String(), "erase: #00FF00") {
		t.Fatalf("status output %q", out.String())
	}
	// frame (155,150) is native (51,50) for a 100x100 photo at the default frame
	if r, g, b, _ := readPNG(t, exported).At(51, 50).RGBA(); r>>8 > 40 || g>>8 < 200 || b>>8 > 40 {
		t.Fatalf("erased pixel %v %v %v", r>>8, g>>8, b>>8)
	}
	if _, err := cmd.executeLine("erase-color"); err == nil {
		t.Fatal("erase-color without a value should fail")
	}
	if _, err := cmd.executeLine("erase-color nope"); err == nil {
		t.Fatal("unknown color should fail")
	}
}

func TestInteractiveErrors(t *testing.T) {
	cmd, out := newTestSession(t)
	for _, line := range []string{"mode sideways", "width -3", "frobnicate", "export", "begin 1"} {
		if _, err := cmd.executeLine(line); err == nil {
			t.Errorf("%q should fail", line)
		}
	}
	if _, err := cmd.executeLine("commit"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "no stroke in progress") {
		t.Fatalf("output %q", out.String())
	}
}

func TestInteractiveRunReadsInput(t *testing.T) {
	cmd, out := newTestSession(t)
	cmd.stdin = strings.NewReader("begin 1 1\nbogus\nextend 3 3\ncommit\nexit\nreset\n")
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	if n := len(cmd.state.Strokes()); n != 1 {
		t.Fatalf("strokes = %d, want 1 (reset after exit must not run)", n)
	}
	if !strings.Contains(out.String(), `unknown command "bogus"`) {
		t.Fatalf("output %q", out.String())
	}
}

func TestUsageErrorRendersHelp(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	r := newRoot()
	err := r.Run(nil)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	help := uerr.Error()
	for _, want := range []string{"Usage: drawer", "interactive", "-theme", "-notify-save"} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}

	d := &drawCmd{root: r}
	d.fs = r.fs
	if msg := (&UsageError{of: d}).Error(); !strings.Contains(msg, "drawer draw") {
		t.Fatalf("draw help %q", msg)
	}
}

func TestConfigFlagReloads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.rc")
	if err := os.WriteFile(path, []byte("line_width = 12\n[notify]\nsave = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := newRoot()
	if err := r.Run([]string{"-config", path, "widths"}); err != nil {
		t.Fatal(err)
	}
	if r.config.LineWidth != 12 || !r.saveAlerts {
		t.Fatalf("config not reloaded: width %v save %v", r.config.LineWidth, r.saveAlerts)
	}
}

package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		err  bool
	}{
		{"#FF8000", color.RGBA{255, 128, 0, 255}, false},
		{"#11223344", color.RGBA{0x11, 0x22, 0x33, 0x44}, false},
		{"red", color.RGBA{255, 0, 0, 255}, false},
		{"White", color.RGBA{255, 255, 255, 255}, false},
		{"#123", color.RGBA{}, true},
		{"notacolor", color.RGBA{}, true},
	}
	for _, tc := range tests {
		got, err := ParseColor(tc.in)
		if (err != nil) != tc.err {
			t.Errorf("ParseColor(%q) err = %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseKeepsDefaultsForMissingKeys(t *testing.T) {
	th, err := Parse(strings.NewReader("Name: Mine\nbackground: #010203\nUnknownKey: #FFFFFF\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if th.Name != "Mine" || th.Background != (color.RGBA{1, 2, 3, 255}) {
		t.Fatalf("theme = %+v", th)
	}
	if th.CheckerDark != Default().CheckerDark {
		t.Fatal("missing key did not keep default")
	}
}

func TestParseRejectsBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("Foreground: #XYZXYZ\n")); err == nil {
		t.Fatal("expected error")
	}
}

func TestEmbeddedThemesLoad(t *testing.T) {
	l := &Loader{}
	names := Names()
	if len(names) == 0 {
		t.Fatal("no embedded themes")
	}
	for _, name := range names {
		if _, err := l.Load(name); err != nil {
			t.Errorf("load %s: %v", name, err)
		}
	}
}

func TestLoaderOrder(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ocean.theme"), []byte("Name: Ocean\nBackground: navy\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{ConfigDir: dir, Custom: map[string]*Theme{"inline": {Name: "inline"}}}
	if th, err := l.Load("ocean"); err != nil || th.Name != "Ocean" {
		t.Fatalf("config dir theme: %v %v", th, err)
	}
	if th, err := l.Load("inline"); err != nil || th.Name != "inline" {
		t.Fatalf("custom theme: %v %v", th, err)
	}
	if th, err := l.Load(""); err != nil || th.Name != "Default" {
		t.Fatalf("default theme: %v %v", th, err)
	}
	if _, err := l.Load("missing"); err == nil {
		t.Fatal("expected error for missing theme")
	}
}

func TestFieldsRoundTrip(t *testing.T) {
	var sb strings.Builder
	src := Default()
	src.FrameBorder = color.RGBA{1, 2, 3, 4}
	Fields(src, func(name string, c color.RGBA) {
		sb.WriteString(name + ": " + Hex(c) + "\n")
	})
	got, err := Parse(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatal(err)
	}
	got.Name = src.Name
	if *got != *src {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", got, src)
	}
}

// Package library writes finished drawings into the user's picture
// directory as new files.
package library

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

// Format selects the encoding of saved files.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	PDF  Format = "pdf"
)

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 90

// ParseFormat accepts png, jpeg/jpg and pdf in any case. An empty string
// selects PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "pdf":
		return PDF, nil
	}
	return "", fmt.Errorf("unknown image format %q", s)
}

// FormatFromPath infers the format from a file extension, falling back
// to PNG.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return PNG
	}
	return f
}

// Ext returns the file extension for f without the dot.
func (f Format) Ext() string {
	if f == JPEG {
		return "jpg"
	}
	if f == "" {
		return string(PNG)
	}
	return string(f)
}

// Library saves images into Dir.
type Library struct {
	Dir     string
	Format  Format
	Quality int

	now func() time.Time
}

// New returns a Library writing to dir. An empty dir uses DefaultDir.
func New(dir string, format Format, quality int) (*Library, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return &Library{Dir: dir, Format: format, Quality: quality, now: time.Now}, nil
}

// DefaultDir is $XDG_PICTURES_DIR when set, otherwise ~/Pictures/drawer.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_PICTURES_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate picture directory: %w", err)
	}
	return filepath.Join(home, "Pictures", "drawer"), nil
}

// Name builds the file name for a save at t.
func (l *Library) Name(t time.Time) string {
	id := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("drawer-%s-%s.%s", t.Format("20060102-150405"), id, l.Format.Ext())
}

// Save writes img as a new file and returns its path. Existing files are
// never replaced.
func (l *Library) Save(img image.Image) (string, error) {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create library: %w", err)
	}
	now := time.Now
	if l.now != nil {
		now = l.now
	}
	for attempt := 0; ; attempt++ {
		path := filepath.Join(l.Dir, l.Name(now()))
		err := WriteFile(path, img, l.Format, l.Quality)
		if errors.Is(err, os.ErrExist) && attempt < 3 {
			continue
		}
		if err != nil {
			return "", err
		}
		return path, nil
	}
}

// WriteFile encodes img into a new file at path. It fails if path exists.
func WriteFile(path string, img image.Image, format Format, quality int) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	w := bufio.NewWriter(f)
	if err := Encode(w, img, format, quality); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return w.Flush()
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format, quality int) error {
	switch format {
	case "", PNG:
		return png.Encode(w, img)
	case JPEG:
		if quality <= 0 || quality > 100 {
			quality = DefaultQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case PDF:
		return encodePDF(w, img)
	}
	return fmt.Errorf("unknown image format %q", format)
}

// encodePDF emits a single page sized to the image, one point per pixel.
func encodePDF(w io.Writer, img image.Image) error {
	b := img.Bounds()
	wd, ht := float64(b.Dx()), float64(b.Dy())
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("drawing", opt, &buf)
	pdf.ImageOptions("drawing", 0, 0, wd, ht, false, opt, 0, "")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return pdf.Output(w)
}

package sketch

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"

	// Decoders registered for SelectImage.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrDecode reports that selected bytes are not a supported image.
var ErrDecode = errors.New("decode image")

// DecodeError wraps the decoder failure for a rejected selection.
type DecodeError struct {
	Size int
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode image (%d bytes): %v", e.Size, e.Err)
}

func (e *DecodeError) Unwrap() []error { return []error{ErrDecode, e.Err} }

// Image is a decoded bitmap at its native resolution. Pixels always has a
// zero origin.
type Image struct {
	Pixels *image.RGBA
	Format string
}

// Width returns the native pixel width.
func (i *Image) Width() int {
	if i == nil || i.Pixels == nil {
		return 0
	}
	return i.Pixels.Bounds().Dx()
}

// Height returns the native pixel height.
func (i *Image) Height() int {
	if i == nil || i.Pixels == nil {
		return 0
	}
	return i.Pixels.Bounds().Dy()
}

// Decode turns encoded bytes into an Image.
func Decode(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Err: errors.New("no data")}
	}
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Size: len(data), Err: err}
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, &DecodeError{Size: len(data), Err: errors.New("empty image")}
	}
	var img *Image
	if rgba, ok := src.(*image.RGBA); ok {
		img = FromRGBA(rgba)
	} else {
		rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
		img = &Image{Pixels: rgba}
	}
	img.Format = format
	return img, nil
}

// FromRGBA wraps an already decoded bitmap, reusing its pixels when the
// origin is already zero.
func FromRGBA(img *image.RGBA) *Image {
	if img.Bounds().Min != (image.Point{}) {
		out := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
		draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
		img = out
	}
	return &Image{Pixels: img, Format: "rgba"}
}

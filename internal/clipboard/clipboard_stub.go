//go:build !(linux || freebsd || openbsd || netbsd || dragonfly || darwin || windows)

package clipboard

import (
	"fmt"
	"image"
)

func WriteImage(image.Image) error {
	return fmt.Errorf("clipboard image operations are not supported on this platform")
}

func ReadImagePNG() ([]byte, error) {
	return nil, fmt.Errorf("clipboard image operations are not supported on this platform")
}

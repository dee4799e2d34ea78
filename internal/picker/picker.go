// Package picker obtains image bytes from the user: a file path, a native
// file dialog or the system clipboard.
package picker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/sqweek/dialog"

	"github.com/example/drawer/internal/clipboard"
)

// ErrCancelled reports that the user dismissed a selection or a newer
// selection replaced it.
var ErrCancelled = errors.New("selection cancelled")

// ErrDialogOpen reports that a native file dialog is already showing.
var ErrDialogOpen = errors.New("file dialog already open")

var dialogOpen atomic.Bool

// DialogOpen reports whether a native file dialog started by Dialog.Pick is
// still on screen.
func DialogOpen() bool { return dialogOpen.Load() }

// Extensions lists the file types offered by the dialog.
var Extensions = []string{"png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff", "webp"}

// Source produces the encoded bytes of one image.
type Source interface {
	Pick(ctx context.Context) ([]byte, error)
}

// File reads an image from a known path.
type File struct {
	Path string
}

func (f File) Pick(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	return data, nil
}

func (f File) String() string { return filepath.Base(f.Path) }

// Dialog asks the user for a file with the platform's native open dialog.
type Dialog struct {
	Title string
	Dir   string
}

// Pick shows the dialog and waits for the user. Native dialogs cannot be
// closed from code, so when ctx ends first Pick returns ErrCancelled while
// the dialog stays on screen. Until the user dismisses it, further calls fail
// with ErrDialogOpen.
func (d Dialog) Pick(ctx context.Context) ([]byte, error) {
	if !dialogOpen.CompareAndSwap(false, true) {
		return nil, ErrDialogOpen
	}
	type answer struct {
		path string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		defer dialogOpen.Store(false)
		b := dialog.File().Filter("Images", Extensions...)
		if d.Title != "" {
			b = b.Title(d.Title)
		}
		if d.Dir != "" {
			b = b.SetStartDir(d.Dir)
		}
		path, err := b.Load()
		ch <- answer{path, err}
	}()
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
	case a := <-ch:
		if errors.Is(a.err, dialog.ErrCancelled) || (a.err == nil && a.path == "") {
			return nil, ErrCancelled
		}
		if a.err != nil {
			return nil, fmt.Errorf("open dialog: %w", a.err)
		}
		return File{Path: filepath.Clean(a.path)}.Pick(ctx)
	}
}

func (Dialog) String() string { return "dialog" }

// Clipboard takes a PNG image from the system clipboard.
type Clipboard struct{}

func (Clipboard) Pick(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	data, err := clipboard.ReadImagePNG()
	if err != nil {
		return nil, fmt.Errorf("paste: %w", err)
	}
	return data, nil
}

func (Clipboard) String() string { return "clipboard" }

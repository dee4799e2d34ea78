package notify

import (
	"errors"
	"image"
	"os"
	"strings"
	"testing"

	"github.com/example/drawer/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func capture(t *testing.T) *[]sent {
	t.Helper()
	var got []sent
	orig := send
	send = func(title, body string, opts platform.Options) error {
		_, err := os.Stat(opts.IconPath)
		got = append(got, sent{title, body, opts, opts.IconPath != "" && err == nil})
		return nil
	}
	t.Cleanup(func() { send = orig })
	return &got
}

func TestDisabledEventsAreSilent(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Save("/tmp/x.png")
	n.Copy("")
	n.Failed(EventLoad, errors.New("boom"))
	var nilNotifier *Notifier
	nilNotifier.Save("x")
	if len(*got) != 0 {
		t.Fatalf("unexpected notifications: %+v", *got)
	}
}

func TestSaveAndCopyBodies(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Enable(EventSave, true)
	n.Enable(EventCopy, true)
	n.Save("drawer-1.png")
	n.Copy("")
	if len(*got) != 2 {
		t.Fatalf("sent %d notifications", len(*got))
	}
	if s := (*got)[0]; s.title != "Drawer" || !strings.HasPrefix(s.body, "Saved ") || !strings.HasSuffix(s.body, "drawer-1.png") {
		t.Fatalf("save notification %+v", s)
	}
	if s := (*got)[1]; s.body != "Copied drawing to clipboard" {
		t.Fatalf("copy notification %+v", s)
	}
}

func TestLoadAttachesPreview(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Enable(EventLoad, true)
	n.Load("photo.jpg", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if len(*got) != 1 || !(*got)[0].iconExisted {
		t.Fatalf("load notification %+v", *got)
	}
	if _, err := os.Stat((*got)[0].opts.IconPath); !os.IsNotExist(err) {
		t.Fatal("preview file was not cleaned up")
	}
}

func TestFailedIsUrgent(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Enable(EventLoad, true)
	n.Failed(EventLoad, errors.New("not an image"))
	if len(*got) != 1 {
		t.Fatalf("sent %d notifications", len(*got))
	}
	s := (*got)[0]
	if !s.opts.Urgent || s.body != "Could not open image: not an image" {
		t.Fatalf("failure notification %+v", s)
	}
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("DRAWER_NOTIFY_TITLE", "Sketchbook")
	t.Setenv("DRAWER_NOTIFY_SAVE_TEXT", "Stored %s")
	prefs := LoadPreferences()
	if prefs.Title != "Sketchbook" || prefs.Events[EventSave].Template != "Stored %s" {
		t.Fatalf("prefs %+v", prefs)
	}
	if prefs.Events[EventSave].FailTemplate == "" {
		t.Fatal("env override dropped the failure template")
	}
}

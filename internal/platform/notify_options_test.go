package platform

import (
	"testing"
	"time"
)

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if o.appName() != DefaultAppName || o.timeout() != 5*time.Second {
		t.Fatalf("defaults: %q %v", o.appName(), o.timeout())
	}
	o = Options{AppName: "Sketch", Timeout: time.Second}
	if o.appName() != "Sketch" || o.timeout() != time.Second {
		t.Fatalf("overrides: %q %v", o.appName(), o.timeout())
	}
}

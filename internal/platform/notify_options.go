package platform

import "time"

// DefaultAppName identifies the sender to the notification service.
const DefaultAppName = "Drawer"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName overrides DefaultAppName when non-empty.
	AppName string
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Urgent marks failures so the notification center keeps them visible.
	Urgent bool
	// Timeout is how long the notification stays up. Zero uses five seconds.
	Timeout time.Duration
}

func (o Options) appName() string {
	if o.AppName != "" {
		return o.AppName
	}
	return DefaultAppName
}

func (o Options) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return 5 * time.Second
}

package server

import (
	"context"
	"time"
)

// DefaultDismiss is how long a toast stays up when the caller does not say.
const DefaultDismiss = 4 * time.Second

// Options configures one enqueued notification.
type Options struct {
	// Level is "info", "warn", or "error"; it selects toast styling.
	Level string
	// AutoDismiss overrides the default display duration.
	AutoDismiss time.Duration
	// Sticky keeps the toast up until the user dismisses it.
	Sticky bool
}

// Notifier is the shell's transient-message surface. It is mounted once at
// the server and broadcasts toasts to every connected client; newest
// messages stack on top in the client runtime.
type Notifier struct {
	server  *DocServer
	enabled bool
}

// NewNotifier creates the notification surface. When disabled, Enqueue is a
// no-op so callers never need to branch.
func NewNotifier(server *DocServer, enabled bool) *Notifier {
	return &Notifier{server: server, enabled: enabled}
}

// Enqueue pushes a transient message to every connected client.
func (n *Notifier) Enqueue(message string, opts Options) {
	if !n.enabled || message == "" {
		return
	}

	level := opts.Level
	if level == "" {
		level = "info"
	}

	dismiss := opts.AutoDismiss
	if dismiss <= 0 {
		dismiss = DefaultDismiss
	}
	if opts.Sticky {
		dismiss = 0
	}

	n.server.broadcastEvent(context.Background(), event{
		Type:    "toast",
		Message: message,
		Level:   level,
		Dismiss: dismiss.Milliseconds(),
	})
}

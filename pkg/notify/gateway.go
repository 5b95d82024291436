package notify

import (
	"context"
	"sync"
	"time"

	"github.com/famcal/reminder-agent/pkg/audio"
)

// Permission is the user's notification decision, web-style tri-state
type Permission string

const (
	PermissionDefault Permission = "default" // not asked yet
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// autoDismissDelay is how long a notification handle stays open before
// it dismisses itself.
const autoDismissDelay = 5 * time.Second

// Gateway wraps the platform's notification support. All operations degrade
// to no-ops when notifications are unsupported or not granted; none of them
// block except RequestPermission, which waits for the user's decision.
type Gateway interface {
	// Supported reports whether the platform can display notifications.
	Supported() bool

	// Permission returns the current decision without prompting.
	Permission() Permission

	// RequestPermission returns the cached decision if one exists,
	// otherwise prompts the user exactly once and caches the result.
	RequestPermission(ctx context.Context) (Permission, error)

	// Show displays a notification. Returns a nil handle (and no error)
	// when unsupported or not granted.
	Show(title, body string) (*Handle, error)
}

// Handle represents a single displayed notification. It dismisses itself
// after a fixed delay; closing early stops the chime. The on-screen
// notification itself is owned by the OS once sent.
type Handle struct {
	mu     sync.Mutex
	closed bool
	chime  *audio.Player
	timer  *time.Timer
}

func newHandle(chime *audio.Player) *Handle {
	h := &Handle{chime: chime}
	h.timer = time.AfterFunc(autoDismissDelay, h.Close)
	return h
}

// Close dismisses the notification handle. Idempotent and nil-safe.
func (h *Handle) Close() {
	if h == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	if h.timer != nil {
		h.timer.Stop()
	}
	h.chime.Stop()
}

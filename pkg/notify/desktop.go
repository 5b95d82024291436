package notify

import (
	"context"

	"fyne.io/fyne/v2"

	"github.com/famcal/reminder-agent/pkg/audio"
)

const permissionPrefKey = "notification_permission"

// Prompter asks the user whether notifications may be shown. Desktop
// platforms have no OS-level prompt, so the default prompter grants.
type Prompter func(ctx context.Context) (bool, error)

func grantPrompter(ctx context.Context) (bool, error) {
	return true, nil
}

// DesktopGateway delivers reminders as desktop notifications through the
// Fyne app, with an optional chime. The permission decision is persisted
// in preferences so the user is asked at most once.
type DesktopGateway struct {
	app       fyne.App
	prompter  Prompter
	playSound bool
}

// NewDesktopGateway creates a gateway backed by the given Fyne app.
// A nil prompter auto-grants.
func NewDesktopGateway(app fyne.App, playSound bool, prompter Prompter) *DesktopGateway {
	if prompter == nil {
		prompter = grantPrompter
	}
	return &DesktopGateway{app: app, prompter: prompter, playSound: playSound}
}

func (g *DesktopGateway) Supported() bool {
	return g.app != nil
}

func (g *DesktopGateway) Permission() Permission {
	if !g.Supported() {
		return PermissionDenied
	}
	return Permission(g.app.Preferences().StringWithFallback(permissionPrefKey, string(PermissionDefault)))
}

func (g *DesktopGateway) RequestPermission(ctx context.Context) (Permission, error) {
	if !g.Supported() {
		return PermissionDenied, nil
	}

	if perm := g.Permission(); perm != PermissionDefault {
		return perm, nil
	}

	granted, err := g.prompter(ctx)
	if err != nil {
		// Leave the decision open so a later call can ask again.
		return PermissionDefault, err
	}

	perm := PermissionDenied
	if granted {
		perm = PermissionGranted
	}
	g.app.Preferences().SetString(permissionPrefKey, string(perm))
	return perm, nil
}

func (g *DesktopGateway) Show(title, body string) (*Handle, error) {
	if !g.Supported() || g.Permission() != PermissionGranted {
		return nil, nil
	}

	g.app.SendNotification(fyne.NewNotification(title, body))

	var chime *audio.Player
	if g.playSound {
		chime = audio.PlayChime()
	}
	return newHandle(chime), nil
}

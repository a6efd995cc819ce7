// Package dialogs shows the modal dialogs of the tray app.
package dialogs

import (
	"fmt"
	"sync"

	"github.com/ncruces/zenity"
	"github.com/sirupsen/logrus"

	"github.com/mattdini/typeMyClipboard/internal/permission"
)

const appTitle = "TypeMyClipboard"

const permissionText = "TypeMyClipboard needs accessibility permissions to type text.\n\n" +
	"Please grant permissions in System Settings → Privacy & Security → Accessibility."

// Native shows dialogs through zenity. Only one permission dialog is shown
// at a time.
type Native struct {
	mu           sync.Mutex
	openSettings func()
}

// New returns a Native dialog presenter.
func New() *Native {
	return &Native{openSettings: permission.OpenSettings}
}

// PermissionDenied tells the user typing needs accessibility permission and
// offers to open the settings pane.
func (n *Native) PermissionDenied() {
	if !n.mu.TryLock() {
		return
	}
	defer n.mu.Unlock()

	err := zenity.Warning(permissionText,
		zenity.Title("Accessibility Permissions Required"),
		zenity.OKLabel("OK"),
		zenity.ExtraButton("Open Settings"),
	)
	if err == zenity.ErrExtraButton {
		logrus.Info("Opening Accessibility settings")
		n.openSettings()
	}
}

// About shows the about box.
func (n *Native) About(version string) {
	text := fmt.Sprintf("A menu bar application that types out your clipboard contents.\n\n"+
		"Version %s\n\n"+
		"Make sure to grant accessibility permissions in System Settings → Privacy & Security → Accessibility.", version)

	err := zenity.Info(text,
		zenity.Title(appTitle),
		zenity.OKLabel("OK"),
		zenity.ExtraButton("Open Accessibility Settings"),
	)
	if err == zenity.ErrExtraButton {
		n.openSettings()
	}
}

// Error reports an unexpected failure.
func (n *Native) Error(msg string) {
	if err := zenity.Error(msg, zenity.Title(appTitle)); err != nil && err != zenity.ErrCanceled {
		logrus.WithError(err).Warn("Error dialog failed")
	}
}

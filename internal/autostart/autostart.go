// Package autostart registers the app as a per-user login item through the
// platform service manager (launchd agents on macOS, systemd user units on
// Linux).
package autostart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/kardianos/service"
	"github.com/sirupsen/logrus"
)

// Name is the launchd label / unit name.
const Name = "com.mattdini.typemyclipboard"

// installer is the part of service.Service used here.
type installer interface {
	Install() error
	Uninstall() error
	Status() (service.Status, error)
}

// program satisfies service.Interface. The login item only launches the
// binary; nothing runs under the service manager's control.
type program struct{}

func (program) Start(service.Service) error { return nil }
func (program) Stop(service.Service) error  { return nil }

// Manager toggles the login item.
type Manager struct {
	svc installer
}

// New returns a Manager for the running executable.
func New() (*Manager, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locating executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	s, err := service.New(program{}, serviceConfig(exe))
	if err != nil {
		return nil, fmt.Errorf("creating login item: %w", err)
	}
	return &Manager{svc: s}, nil
}

func serviceConfig(exe string) *service.Config {
	return &service.Config{
		Name:        Name,
		DisplayName: "TypeMyClipboard",
		Description: "Types clipboard text into the focused application.",
		Executable:  exe,
		Option: service.KeyValue{
			"UserService": true,
			"RunAtLoad":   true,
			"KeepAlive":   false,
		},
	}
}

// Supported reports whether a per-user login item can be registered here.
// Windows services run outside the user session and cannot show a tray icon.
func Supported() bool {
	return runtime.GOOS != "windows" && service.ChosenSystem() != nil
}

// Enabled reports whether the login item is installed.
func (m *Manager) Enabled() bool {
	_, err := m.svc.Status()
	if err == nil {
		return true
	}
	if !errors.Is(err, service.ErrNotInstalled) {
		logrus.WithError(err).Debug("Login item status unknown")
	}
	return false
}

// SetEnabled installs or removes the login item.
func (m *Manager) SetEnabled(on bool) error {
	if on == m.Enabled() {
		return nil
	}
	if on {
		if err := m.svc.Install(); err != nil {
			return fmt.Errorf("installing login item: %w", err)
		}
		logrus.Info("Launch at login enabled")
		return nil
	}
	if err := m.svc.Uninstall(); err != nil {
		return fmt.Errorf("removing login item: %w", err)
	}
	logrus.Info("Launch at login disabled")
	return nil
}

// Toggle flips the login item and returns the new state.
func (m *Manager) Toggle() (bool, error) {
	want := !m.Enabled()
	if err := m.SetEnabled(want); err != nil {
		return !want, err
	}
	return want, nil
}

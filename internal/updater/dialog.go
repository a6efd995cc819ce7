package updater

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ncruces/zenity"
	"github.com/sirupsen/logrus"
)

const dialogTitle = "TypeMyClipboard Update"

// CheckForUpdatesInteractive shows a progress dialog while checking for
// updates and prompts the user with the result. quit is called if the user
// chooses to restart after installing an update.
func CheckForUpdatesInteractive(ctx context.Context, quit func()) {
	logrus.Info("Checking for updates (interactive)...")

	dlg, err := zenity.Progress(
		zenity.Title(dialogTitle),
		zenity.Pulsate(),
	)
	if err != nil {
		logrus.WithError(err).Warn("Failed to show update dialog")
		return
	}

	if err := dlg.Text(fmt.Sprintf("Current version:  %s\nLatest version:   checking...", Version)); err != nil {
		dlg.Close()
		return
	}

	info, err := checkLatest(ctx)
	if err != nil {
		dlg.Close()
		logrus.WithError(err).Warn("Update check failed")
		zenity.Error(
			fmt.Sprintf("Failed to check for updates:\n%v", err),
			zenity.Title(dialogTitle),
		)
		return
	}

	if info == nil {
		dlg.Close()
		logrus.Infof("Already on latest version (%s)", Version)
		zenity.Info(
			fmt.Sprintf("Current version:  %s\n\nYou're up to date!", Version),
			zenity.Title(dialogTitle),
		)
		return
	}

	logrus.Infof("New version available: %s (current: %s)", info.Version, Version)
	dlg.Close()

	err = zenity.Question(
		fmt.Sprintf("TypeMyClipboard v%s is available (current: %s).\n\nDownload and install it now?", info.Version, Version),
		zenity.Title(dialogTitle),
		zenity.OKLabel("Update"),
		zenity.CancelLabel("Later"),
		zenity.ExtraButton("Release Notes"),
	)
	if err == zenity.ErrExtraButton {
		showReleaseNotes(info.Version)
		return
	}
	if err != nil {
		return
	}

	dlg, err = zenity.Progress(zenity.Title(dialogTitle), zenity.Pulsate())
	if err == nil {
		dlg.Text(fmt.Sprintf("Downloading TypeMyClipboard v%s...", info.Version))
	}
	err = applyUpdate(ctx, info)
	if dlg != nil {
		dlg.Close()
	}
	if err != nil {
		logrus.WithError(err).Error("Update failed")
		zenity.Error(
			fmt.Sprintf("Update failed:\n%v", err),
			zenity.Title(dialogTitle),
		)
		return
	}

	logrus.Info("Update installed successfully")

	err = zenity.Question(
		fmt.Sprintf("Updated to TypeMyClipboard v%s!\n\nRestart now to apply the update.", info.Version),
		zenity.Title(dialogTitle),
		zenity.OKLabel("Restart"),
		zenity.CancelLabel("Later"),
	)
	if err == nil {
		restartApp(quit)
	}
}

func restartApp(quit func()) {
	execPath, err := os.Executable()
	if err != nil {
		logrus.WithError(err).Warn("Failed to get executable path for restart")
		return
	}

	logrus.Infof("Restarting: %s", execPath)

	var cmd *exec.Cmd
	if appPath := bundlePath(execPath); runtime.GOOS == "darwin" && appPath != "" {
		cmd = exec.Command("open", "-n", appPath)
	} else {
		cmd = exec.Command(execPath, "--force")
	}

	if err := cmd.Start(); err != nil {
		logrus.WithError(err).Warn("Failed to start new process")
		return
	}

	if quit != nil {
		quit()
	}
}

// bundlePath returns the enclosing .app for an executable at
// X.app/Contents/MacOS/<name>, or "".
func bundlePath(execPath string) string {
	appPath := execPath
	for i := 0; i < 3; i++ {
		appPath = filepath.Dir(appPath)
	}
	if strings.HasSuffix(appPath, ".app") {
		return appPath
	}
	return ""
}

// Package updater checks GitHub releases for a newer build and installs it
// in place.
package updater

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/sirupsen/logrus"

	"github.com/mattdini/typeMyClipboard/internal/keyboard"
)

// Version is the running version. Release builds set it with
// -ldflags "-X github.com/mattdini/typeMyClipboard/internal/updater.Version=x.y.z".
var Version = "1.0.0"

const repository = "mattdini/typeMyClipboard"

var openURL = keyboard.OpenURL

// releaseURL is the GitHub release page for version.
func releaseURL(version string) string {
	return fmt.Sprintf("https://github.com/%s/releases/tag/v%s", repository, version)
}

func showReleaseNotes(version string) {
	url := releaseURL(version)
	logrus.WithField("url", url).Info("Opening release notes")
	if err := openURL(url); err != nil {
		logrus.WithError(err).Warn("Failed to open release notes")
	}
}

type releaseInfo struct {
	Version   string
	AssetURL  string
	AssetName string
}

// checkLatest returns nil when the running version is already the latest.
var checkLatest = func(ctx context.Context) (*releaseInfo, error) {
	rel, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repository))
	if err != nil {
		return nil, fmt.Errorf("detecting latest release: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("no release asset for %s/%s", runtime.GOOS, runtime.GOARCH)
	}
	if rel.LessOrEqual(Version) {
		return nil, nil
	}
	return &releaseInfo{
		Version:   rel.Version(),
		AssetURL:  rel.AssetURL,
		AssetName: rel.AssetName,
	}, nil
}

// applyUpdate replaces the running executable with the release asset.
var applyUpdate = func(ctx context.Context, info *releaseInfo) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating executable: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return fmt.Errorf("resolving executable: %w", err)
	}

	logrus.WithFields(logrus.Fields{"version": info.Version, "asset": info.AssetName}).Info("Downloading update")
	if err := selfupdate.UpdateTo(ctx, info.AssetURL, info.AssetName, exe); err != nil {
		return fmt.Errorf("installing v%s: %w", info.Version, err)
	}
	return nil
}

// CheckForUpdates looks for a newer release without installing it. It
// returns the newer version, or "" when up to date. When one is found and
// notify is non-nil, the user is told about it.
func CheckForUpdates(ctx context.Context, notify func(string)) (string, error) {
	logrus.Info("Checking for updates...")

	info, err := checkLatest(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Update check failed")
		return "", err
	}
	if info == nil {
		logrus.Infof("Already on latest version (%s)", Version)
		return "", nil
	}

	logrus.Infof("New version available: %s (current: %s)", info.Version, Version)
	if notify != nil {
		notify(fmt.Sprintf("TypeMyClipboard v%s is available. Use Check for Updates to install it.", info.Version))
	}
	return info.Version, nil
}

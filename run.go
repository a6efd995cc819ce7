package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/getlantern/systray"
	"github.com/sirupsen/logrus"

	"github.com/mattdini/typeMyClipboard/internal/app"
	"github.com/mattdini/typeMyClipboard/internal/autostart"
	"github.com/mattdini/typeMyClipboard/internal/clipboard"
	"github.com/mattdini/typeMyClipboard/internal/config"
	"github.com/mattdini/typeMyClipboard/internal/dialogs"
	"github.com/mattdini/typeMyClipboard/internal/keyboard"
	"github.com/mattdini/typeMyClipboard/internal/keyboard/poster"
	"github.com/mattdini/typeMyClipboard/internal/logging"
	"github.com/mattdini/typeMyClipboard/internal/menu"
	"github.com/mattdini/typeMyClipboard/internal/notify"
	"github.com/mattdini/typeMyClipboard/internal/permission"
	"github.com/mattdini/typeMyClipboard/internal/tray"
	"github.com/mattdini/typeMyClipboard/internal/typer"
	"github.com/mattdini/typeMyClipboard/internal/updater"
)

var (
	cfg       atomic.Pointer[config.Config]
	appCtx    context.Context
	appCancel context.CancelFunc
	clipApp   *app.App
	watcher   *config.Watcher
	logFile   io.Closer
	notifier  *notify.Desktop
)

func runTray() {
	cfg.Store(config.Load())

	closer, err := logging.Setup(config.Dir(), cfg.Load().LogLevel)
	if err != nil {
		logrus.WithError(err).Warn("File logging unavailable")
	}
	logFile = closer

	appCtx, appCancel = context.WithCancel(context.Background())
	systray.Run(onReady, onExit)
}

func onReady() {
	c := cfg.Load()
	logrus.WithFields(logrus.Fields{
		"version": updater.Version,
		"config":  config.Path(),
	}).Info("TypeMyClipboard starting")

	notifier = notify.New(c.MuteNotifications)
	dlg := dialogs.New()

	ty := typer.New(
		permission.NewGate(permission.NewChecker()),
		keyboard.NewSynthesizer(poster.New(), nil),
		nil,
	)

	var t *tray.Tray
	clipApp = app.New(clipboard.System{}, ty, notifier, dlg, app.Options{
		OnBusyChange: func(busy bool) {
			if t != nil {
				t.SetBusy(busy)
			}
		},
	})

	cb := tray.Callbacks{
		TypeNow:       func() { clipApp.TypeNow(appCtx) },
		TypeWithDelay: func() { clipApp.TypeWithDelay(appCtx) },
		Refresh:       func() { clipApp.Refresh() },
		OpenConfig: func() {
			if err := config.EnsureFile(config.Path()); err != nil {
				logrus.WithError(err).Warn("Could not write default config")
			}
			if err := keyboard.OpenFile(config.Path()); err != nil {
				logrus.WithError(err).Warn("Failed to open config")
			}
		},
		CheckUpdates: func() {
			go updater.CheckForUpdatesInteractive(appCtx, systray.Quit)
		},
		About: func() { go dlg.About(updater.Version) },
		Quit:  func() { logrus.Info("Quit requested") },
		ShowError: func(msg string) {
			go dlg.Error(msg)
		},
	}
	if autostart.Supported() {
		if login, err := autostart.New(); err != nil {
			logrus.WithError(err).Warn("Launch at login unavailable")
		} else {
			cb.ToggleLogin = login.Toggle
			cb.LoginEnabled = login.Enabled
		}
	}

	t = tray.New(clipboard.System{}, func() menu.Options {
		return menu.Options{
			PreviewLength: cfg.Load().PreviewLength,
			Busy:          clipApp.Busy(),
			Version:       updater.Version,
		}
	}, cb)
	t.Setup()
	go t.Poll(appCtx, func() time.Duration { return cfg.Load().PollInterval() })

	if w, err := config.Watch(config.Path(), applyConfig(t)); err != nil {
		logrus.WithError(err).Warn("Config hot reload unavailable")
	} else {
		watcher = w
	}

	// Prompt for permission up front so the first typing request works.
	go permission.NewGate(permission.NewChecker()).EnsureAuthorized()

	if c.CheckUpdates {
		go updater.CheckForUpdates(appCtx, notifier.Notify)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		systray.Quit()
	}()
}

func applyConfig(t *tray.Tray) func(*config.Config) {
	return func(next *config.Config) {
		cfg.Store(next)
		logging.SetLevel(next.LogLevel)
		notifier.SetMuted(next.MuteNotifications)
		t.Render()
	}
}

func onExit() {
	logrus.Info("TypeMyClipboard exiting")
	appCancel()
	if clipApp != nil {
		clipApp.Wait()
	}
	if watcher != nil {
		watcher.Close()
	}
	if logFile != nil {
		logFile.Close()
	}
}

// killExisting terminates other running TypeMyClipboard processes (not ourselves).
func killExisting() {
	myPID := os.Getpid()
	exeName := filepath.Base(os.Args[0])

	var pids []int
	switch runtime.GOOS {
	case "windows":
		cmd := exec.Command("wmic", "process", "where",
			fmt.Sprintf("Name='%s'", exeName), "get", "ProcessId", "/format:list")
		hideWindow(cmd)
		out, err := cmd.Output()
		if err != nil {
			return
		}
		for _, line := range strings.Split(string(out), "\n") {
			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, "ProcessId=") {
				continue
			}
			if pid, err := strconv.Atoi(strings.TrimPrefix(line, "ProcessId=")); err == nil {
				pids = append(pids, pid)
			}
		}
	default:
		out, _ := exec.Command("pgrep", "-x", exeName).Output()
		for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
			if pid, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
				pids = append(pids, pid)
			}
		}
	}

	for _, pid := range pids {
		if pid == myPID {
			continue
		}
		logrus.Infof("Killing existing TypeMyClipboard process (PID %d)", pid)
		if p, err := os.FindProcess(pid); err == nil {
			p.Kill()
		}
	}

	// Brief pause to let killed processes release the tray icon
	time.Sleep(500 * time.Millisecond)
}

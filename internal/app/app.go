// Package app wires the menu actions to the clipboard typer.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mattdini/typeMyClipboard/internal/clipboard"
	"github.com/mattdini/typeMyClipboard/internal/keyboard"
	"github.com/mattdini/typeMyClipboard/internal/logging"
	"github.com/mattdini/typeMyClipboard/internal/typer"
)

// TypeDelay gives the user time to focus the target application.
const TypeDelay = 3 * time.Second

// User-facing notification texts.
const (
	MsgTypingNow   = "Typing clipboard content now..."
	MsgTypingSoon  = "Will type in 3 seconds. Focus on target application now!"
	MsgRefreshed   = "Clipboard refreshed"
	MsgAlreadyBusy = "Already typing. Wait for the current text to finish."
)

var (
	// ErrBusy means a request is already pending or typing.
	ErrBusy = errors.New("typing request already pending")

	// ErrEmpty means there was no clipboard text to type.
	ErrEmpty = errors.New("clipboard is empty")
)

// Notifier shows a transient message to the user.
type Notifier interface {
	Notify(body string)
}

// Dialogs shows modal prompts.
type Dialogs interface {
	PermissionDenied()
}

// TextTyper types text into the focused application.
type TextTyper interface {
	TypeText(ctx context.Context, text string) (typer.Report, error)
}

// Options tune an App. The zero value is usable.
type Options struct {
	// Sleep waits out TypeDelay. Defaults to keyboard.Sleep.
	Sleep keyboard.SleepFunc
	// OnBusyChange is called when a request starts and when it ends.
	OnBusyChange func(busy bool)
}

// App runs typing requests triggered from the menu.
type App struct {
	clip    clipboard.Reader
	typer   TextTyper
	notify  Notifier
	dialogs Dialogs
	sleep   keyboard.SleepFunc
	onBusy  func(bool)

	pending atomic.Bool
	wg      sync.WaitGroup
}

// New returns an App.
func New(clip clipboard.Reader, t TextTyper, n Notifier, d Dialogs, opts Options) *App {
	if opts.Sleep == nil {
		opts.Sleep = keyboard.Sleep
	}
	if opts.OnBusyChange == nil {
		opts.OnBusyChange = func(bool) {}
	}
	return &App{
		clip:    clip,
		typer:   t,
		notify:  n,
		dialogs: d,
		sleep:   opts.Sleep,
		onBusy:  opts.OnBusyChange,
	}
}

// Busy reports whether a request is pending, including during the delay.
func (a *App) Busy() bool {
	return a.pending.Load()
}

// TypeNow types the clipboard in the background.
func (a *App) TypeNow(ctx context.Context) {
	a.goType(ctx, 0)
}

// TypeWithDelay types the clipboard in the background after TypeDelay.
func (a *App) TypeWithDelay(ctx context.Context) {
	a.goType(ctx, TypeDelay)
}

func (a *App) goType(ctx context.Context, delay time.Duration) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.Type(ctx, delay)
	}()
}

// Wait blocks until background requests have returned.
func (a *App) Wait() {
	a.wg.Wait()
}

// Refresh re-reads the clipboard and confirms it to the user.
func (a *App) Refresh() string {
	text := a.clip.ReadText()
	logrus.WithField("clipboard", logging.Preview(text)).Debug("Clipboard refreshed")
	a.notify.Notify(MsgRefreshed)
	return text
}

// Type runs one request on the calling goroutine. With a non-zero delay it
// announces the delay, waits, and types what the clipboard holds then.
// Outcomes are reported to the user as well as returned.
func (a *App) Type(ctx context.Context, delay time.Duration) (typer.Report, error) {
	if a.clip.ReadText() == "" {
		logrus.Debug("Nothing to type: clipboard is empty")
		return typer.Report{}, ErrEmpty
	}

	if !a.pending.CompareAndSwap(false, true) {
		a.notify.Notify(MsgAlreadyBusy)
		return typer.Report{}, ErrBusy
	}
	a.onBusy(true)
	// Released before reporting so the menu is idle while a dialog is up.
	release := sync.OnceFunc(func() {
		a.pending.Store(false)
		a.onBusy(false)
	})
	defer release()

	if delay > 0 {
		a.notify.Notify(MsgTypingSoon)
		if err := a.sleep(ctx, delay); err != nil {
			return typer.Report{}, err
		}
	} else {
		a.notify.Notify(MsgTypingNow)
	}

	text := a.clip.ReadText()
	if text == "" {
		logrus.Info("Clipboard emptied before typing started")
		return typer.Report{}, ErrEmpty
	}
	logrus.WithFields(logrus.Fields{
		"clipboard": logging.Preview(text),
		"delay":     delay,
	}).Info("Typing clipboard")

	rep, err := a.typer.TypeText(ctx, text)
	release()
	a.report(ctx, rep, err)
	return rep, err
}

func (a *App) report(ctx context.Context, rep typer.Report, err error) {
	switch {
	case errors.Is(err, typer.ErrPermissionDenied):
		logrus.Warn("Accessibility permission not granted")
		a.dialogs.PermissionDenied()
	case errors.Is(err, typer.ErrBusy):
		a.notify.Notify(MsgAlreadyBusy)
	case err != nil && ctx.Err() != nil:
		logrus.WithError(err).Info("Typing cancelled by shutdown")
	case err != nil:
		logrus.WithError(err).Error("Typing failed")
		a.notify.Notify(fmt.Sprintf("Typing stopped after %d characters: %v", rep.Typed, err))
	default:
		a.notify.Notify(Summary(rep))
	}
}

// Summary is the completion message for rep.
func Summary(rep typer.Report) string {
	noun := "characters"
	if rep.Typed == 1 {
		noun = "character"
	}
	if len(rep.Skipped) == 0 {
		return fmt.Sprintf("Finished typing %d %s", rep.Typed, noun)
	}
	return fmt.Sprintf("Typed %d %s (skipped %d unsupported: %s)",
		rep.Typed, noun, len(rep.Skipped), rep.SkippedChars())
}

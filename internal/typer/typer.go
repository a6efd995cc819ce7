// Package typer types text into the focused application one keystroke at a time.
package typer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mattdini/typeMyClipboard/internal/keyboard"
)

// CharacterDelay separates consecutive characters so that the receiving
// application neither drops nor reorders keystrokes.
const CharacterDelay = 50 * time.Millisecond

var (
	// ErrPermissionDenied means input injection is not authorized; nothing was typed.
	ErrPermissionDenied = errors.New("accessibility permission not granted")

	// ErrBusy means another typing operation is already running.
	ErrBusy = errors.New("typing already in progress")
)

// Emitter types a single character.
type Emitter interface {
	Emit(ctx context.Context, r rune) error
}

// Authorizer is consulted once before any character is typed.
type Authorizer interface {
	EnsureAuthorized() bool
}

// Skipped records a character that could not be typed.
type Skipped struct {
	// Index is the rune index in the normalized text.
	Index int
	Char  rune
}

// Report summarizes one typing operation.
type Report struct {
	Typed   int
	Skipped []Skipped
}

// SkippedChars returns the skipped characters in input order.
func (r Report) SkippedChars() string {
	out := make([]rune, len(r.Skipped))
	for i, s := range r.Skipped {
		out[i] = s.Char
	}
	return string(out)
}

// Typer runs at most one typing operation at a time.
type Typer struct {
	gate  Authorizer
	emit  Emitter
	sleep keyboard.SleepFunc
	busy  atomic.Bool
}

// New returns a Typer. A nil sleep uses keyboard.Sleep.
func New(gate Authorizer, emit Emitter, sleep keyboard.SleepFunc) *Typer {
	if sleep == nil {
		sleep = keyboard.Sleep
	}
	return &Typer{gate: gate, emit: emit, sleep: sleep}
}

// Busy reports whether a typing operation is in progress.
func (t *Typer) Busy() bool {
	return t.busy.Load()
}

// TypeText types text in order. Characters without a key mapping are skipped
// and listed in the Report. Empty text returns at once without checking
// permission. The context only ends the operation early on shutdown.
func (t *Typer) TypeText(ctx context.Context, text string) (Report, error) {
	if !t.busy.CompareAndSwap(false, true) {
		return Report{}, ErrBusy
	}
	defer t.busy.Store(false)

	if text == "" {
		return Report{}, nil
	}

	if !t.gate.EnsureAuthorized() {
		return Report{}, ErrPermissionDenied
	}

	runes := Normalize(text)
	log := logrus.WithFields(logrus.Fields{
		"job":   uuid.NewString(),
		"chars": len(runes),
	})
	log.Info("Typing started")
	start := time.Now()

	var rep Report
	for i, r := range runes {
		err := t.emit.Emit(ctx, r)
		if errors.Is(err, keyboard.ErrUnmappable) {
			log.WithField("index", i).Debugf("Skipping %v", err)
			rep.Skipped = append(rep.Skipped, Skipped{Index: i, Char: r})
			continue
		}
		if err != nil {
			log.WithError(err).Warnf("Typing aborted after %d characters", rep.Typed)
			return rep, fmt.Errorf("typing character %d: %w", i, err)
		}
		rep.Typed++

		if err := t.sleep(ctx, CharacterDelay); err != nil {
			log.WithError(err).Warnf("Typing interrupted after %d characters", rep.Typed)
			return rep, err
		}
	}

	log.WithFields(logrus.Fields{
		"typed":    rep.Typed,
		"skipped":  len(rep.Skipped),
		"duration": time.Since(start).Round(time.Millisecond),
	}).Info("Typing finished")
	return rep, nil
}

// Normalize converts text to runes, folding "\r\n" and lone "\r" into a
// single "\n" so that each line break is one Return.
func Normalize(text string) []rune {
	in := []rune(text)
	out := make([]rune, 0, len(in))
	for i := 0; i < len(in); i++ {
		r := in[i]
		if r == '\r' {
			if i+1 < len(in) && in[i+1] == '\n' {
				i++
			}
			r = '\n'
		}
		out = append(out, r)
	}
	return out
}

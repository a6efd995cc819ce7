// Package keyboard turns characters into synthetic key-down/key-up events.
package keyboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mattdini/typeMyClipboard/internal/keymap"
)

// KeyPressDelay separates a key-down from its key-up. Shorter gaps get
// coalesced by some receivers.
const KeyPressDelay = 10 * time.Millisecond

// ErrUnmappable is returned for characters the US layout tables cannot type.
var ErrUnmappable = errors.New("no key mapping for character")

// EventPoster delivers one key event to the OS input queue.
type EventPoster interface {
	PostKey(code keymap.KeyCode, mods keymap.Modifier, down bool) error
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the timer-based SleepFunc used outside tests.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Synthesizer emits one down/up pair per character.
type Synthesizer struct {
	poster EventPoster
	sleep  SleepFunc
}

// NewSynthesizer returns a Synthesizer posting through p. A nil sleep uses Sleep.
func NewSynthesizer(p EventPoster, sleep SleepFunc) *Synthesizer {
	if sleep == nil {
		sleep = Sleep
	}
	return &Synthesizer{poster: p, sleep: sleep}
}

// KeyFor returns the keystroke Emit would post for r.
func KeyFor(r rune) (keymap.Key, error) {
	switch r {
	case '\n':
		return keymap.Key{Code: keymap.Return}, nil
	case '\t':
		return keymap.Key{Code: keymap.Tab}, nil
	case ' ':
		return keymap.Key{Code: keymap.Space}, nil
	}
	k, ok := keymap.Resolve(r)
	if !ok {
		return keymap.Key{}, fmt.Errorf("%w: %q (U+%04X)", ErrUnmappable, r, r)
	}
	return k, nil
}

// Emit types r. Unmappable characters post nothing and return ErrUnmappable.
func (s *Synthesizer) Emit(ctx context.Context, r rune) error {
	k, err := KeyFor(r)
	if err != nil {
		return err
	}

	if err := s.poster.PostKey(k.Code, k.Mods, true); err != nil {
		return fmt.Errorf("key down %d: %w", k.Code, err)
	}

	// The key-up is posted even when the wait is interrupted so that the
	// key and its modifiers are never left held.
	waitErr := s.sleep(ctx, KeyPressDelay)

	if err := s.poster.PostKey(k.Code, k.Mods, false); err != nil {
		return fmt.Errorf("key up %d: %w", k.Code, err)
	}
	return waitErr
}

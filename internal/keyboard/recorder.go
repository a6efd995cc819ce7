package keyboard

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mattdini/typeMyClipboard/internal/keymap"
)

// Event is one posted key event.
type Event struct {
	Code keymap.KeyCode
	Mods keymap.Modifier
	Down bool
}

func (e Event) String() string {
	dir := "up"
	if e.Down {
		dir = "down"
	}
	shift := ""
	if e.Mods.Has(keymap.Shift) {
		shift = "+shift"
	}
	return fmt.Sprintf("%-4s %3d%s", dir, e.Code, shift)
}

// Recorder is a virtual keyboard. It records posted events instead of
// delivering them and can reconstruct the text a US layout would produce.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// PostKey records the event.
func (r *Recorder) PostKey(code keymap.KeyCode, mods keymap.Modifier, down bool) error {
	r.mu.Lock()
	r.events = append(r.events, Event{Code: code, Mods: mods, Down: down})
	r.mu.Unlock()
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Text replays the recorded key-downs. Each key-down must be followed by
// the matching key-up before the next key-down.
func (r *Recorder) Text() (string, error) {
	var b strings.Builder
	var pressed *Event

	for i, e := range r.Events() {
		if e.Down {
			if pressed != nil {
				return b.String(), fmt.Errorf("event %d: key %d down while %d still held", i, e.Code, pressed.Code)
			}
			e := e
			pressed = &e
			continue
		}
		if pressed == nil || pressed.Code != e.Code || pressed.Mods != e.Mods {
			return b.String(), fmt.Errorf("event %d: unmatched key up %d", i, e.Code)
		}
		ch, ok := keymap.Char(keymap.Key{Code: e.Code, Mods: e.Mods})
		if !ok {
			return b.String(), fmt.Errorf("event %d: key %d produces no character", i, e.Code)
		}
		b.WriteRune(ch)
		pressed = nil
	}
	if pressed != nil {
		return b.String(), fmt.Errorf("key %d never released", pressed.Code)
	}
	return b.String(), nil
}

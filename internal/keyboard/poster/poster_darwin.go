//go:build darwin

package poster

/*
#cgo LDFLAGS: -framework ApplicationServices
#include <ApplicationServices/ApplicationServices.h>

static int postKeyEvent(uint16_t code, uint64_t flags, bool down) {
    CGEventRef e = CGEventCreateKeyboardEvent(NULL, (CGKeyCode)code, down);
    if (e == NULL) {
        return -1;
    }
    // Flags are always set, even when empty, so a previous shift never leaks.
    CGEventSetFlags(e, (CGEventFlags)flags);
    CGEventPost(kCGHIDEventTap, e);
    CFRelease(e);
    return 0;
}
*/
import "C"

import (
	"errors"

	"github.com/mattdini/typeMyClipboard/internal/keyboard"
	"github.com/mattdini/typeMyClipboard/internal/keymap"
)

const cgFlagShift = 0x00020000 // kCGEventFlagMaskShift

// HIDPoster posts events to the HID event tap through CoreGraphics.
type HIDPoster struct{}

// New returns the platform poster.
func New() keyboard.EventPoster {
	return HIDPoster{}
}

// PostKey posts a single key event with mods applied.
func (HIDPoster) PostKey(code keymap.KeyCode, mods keymap.Modifier, down bool) error {
	var flags C.uint64_t
	if mods.Has(keymap.Shift) {
		flags |= cgFlagShift
	}
	if C.postKeyEvent(C.uint16_t(code), flags, C.bool(down)) != 0 {
		return errors.New("CGEventCreateKeyboardEvent returned NULL")
	}
	return nil
}

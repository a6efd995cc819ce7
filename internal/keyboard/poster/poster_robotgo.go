//go:build !darwin

package poster

import (
	"fmt"

	"github.com/go-vgo/robotgo"

	"github.com/mattdini/typeMyClipboard/internal/keyboard"
	"github.com/mattdini/typeMyClipboard/internal/keymap"
)

// RobotPoster injects keys by name through robotgo. Key codes are mapped
// back to their US-layout names, so the target layout must be US as well.
type RobotPoster struct{}

// New returns the platform poster.
func New() keyboard.EventPoster {
	return RobotPoster{}
}

// PostKey toggles the named key with mods held.
func (RobotPoster) PostKey(code keymap.KeyCode, mods keymap.Modifier, down bool) error {
	name := keymap.Name(code)
	if name == "" {
		return fmt.Errorf("no key name for code %d", code)
	}

	args := []interface{}{"up"}
	if down {
		args[0] = "down"
	}
	if mods.Has(keymap.Shift) {
		args = append(args, "shift")
	}
	return robotgo.KeyToggle(name, args...)
}

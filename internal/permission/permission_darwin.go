//go:build darwin

package permission

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation
#include <ApplicationServices/ApplicationServices.h>

static bool isTrusted(bool prompt) {
    const void *keys[] = { kAXTrustedCheckOptionPrompt };
    const void *values[] = { prompt ? kCFBooleanTrue : kCFBooleanFalse };
    CFDictionaryRef opts = CFDictionaryCreate(NULL, keys, values, 1,
        &kCFCopyStringDictionaryKeyCallBacks, &kCFTypeDictionaryValueCallBacks);
    bool trusted = AXIsProcessTrustedWithOptions(opts);
    CFRelease(opts);
    return trusted;
}
*/
import "C"

import (
	"os/exec"
)

const settingsURL = "x-apple.systempreferences:com.apple.preference.security?Privacy_Accessibility"

// Accessibility asks the macOS TCC database whether this process is trusted.
type Accessibility struct{}

// NewChecker returns the platform Checker.
func NewChecker() Checker {
	return Accessibility{}
}

// Trusted calls AXIsProcessTrustedWithOptions.
func (Accessibility) Trusted(prompt bool) bool {
	return bool(C.isTrusted(C.bool(prompt)))
}

// OpenSettings opens System Settings to the Accessibility pane.
func OpenSettings() {
	// AppleScript is the most reliable way to open the right pane across macOS versions
	script := `tell application "System Settings"
		activate
		delay 0.5
		reveal anchor "Privacy_Accessibility" of pane id "com.apple.settings.PrivacySecurity"
	end tell`
	if err := exec.Command("osascript", "-e", script).Run(); err != nil {
		// Fallback: the URL scheme works on older macOS
		exec.Command("open", settingsURL).Start()
	}
}

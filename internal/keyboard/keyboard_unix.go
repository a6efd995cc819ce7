//go:build !darwin && !windows

package keyboard

import (
	"os/exec"
)

// OpenFile opens a file in the default application.
func OpenFile(path string) error {
	return exec.Command("xdg-open", path).Start()
}

// OpenURL opens a URL in the default browser.
func OpenURL(url string) error {
	return exec.Command("xdg-open", url).Start()
}

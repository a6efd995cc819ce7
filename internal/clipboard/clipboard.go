// Package clipboard reads plain text from the system clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"
	"github.com/sirupsen/logrus"
)

// Reader returns the current clipboard text, or "" when there is none.
type Reader interface {
	ReadText() string
}

// System reads the OS general pasteboard.
type System struct{}

// ReadText returns the clipboard text. Non-text content and read errors
// both read as the empty string.
func (System) ReadText() string {
	if clipboard.Unsupported {
		return ""
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		logrus.WithError(err).Debug("Clipboard read failed")
		return ""
	}
	return text
}

// Static is a Reader returning fixed text.
type Static string

// ReadText returns s.
func (s Static) ReadText() string { return string(s) }

// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// FileName is the log file created in the config directory.
const FileName = "typemyclipboard.log"

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    true,
		DisableColors:    true,
		QuoteEmptyFields: true,
	})
}

// Setup sends log output to stderr and to a fresh log file in dir.
// The returned closer closes the file; it is never nil.
func Setup(dir, level string) (io.Closer, error) {
	SetLevel(level)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return io.NopCloser(nil), fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return io.NopCloser(nil), fmt.Errorf("opening log file: %w", err)
	}
	logrus.SetOutput(io.MultiWriter(os.Stderr, f))
	return f, nil
}

// SetLevel applies a level name, falling back to info for unknown names.
func SetLevel(level string) {
	lvl, err := ParseLevel(level)
	if err != nil {
		logrus.WithError(err).Warn("Unknown log level, using info")
	}
	logrus.SetLevel(lvl)
}

// ParseLevel parses a level name. Empty means info.
func ParseLevel(level string) (logrus.Level, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		return logrus.InfoLevel, nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel, err
	}
	return lvl, nil
}

// Preview describes clipboard text for logs without revealing it.
func Preview(s string) string {
	n := len([]rune(s))
	lines := strings.Count(s, "\n") + 1
	if n == 0 {
		return "empty"
	}
	return fmt.Sprintf("%d chars, %d lines", n, lines)
}

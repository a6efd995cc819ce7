// Package permission checks whether the process may inject input events.
package permission

import (
	"github.com/sirupsen/logrus"
)

// Checker queries the OS trust state for input injection. With prompt set,
// an untrusted process also asks the OS to show its permission request.
type Checker interface {
	Trusted(prompt bool) bool
}

// Gate is consulted once at the start of every typing operation.
type Gate struct {
	checker Checker
}

// NewGate returns a Gate backed by c.
func NewGate(c Checker) *Gate {
	return &Gate{checker: c}
}

// EnsureAuthorized returns the current trust state. When untrusted it fires
// the OS prompt and re-queries once; it never waits for the user to answer,
// so a grant made after this returns is seen by the next call.
func (g *Gate) EnsureAuthorized() bool {
	if g.checker.Trusted(false) {
		return true
	}
	logrus.Info("Accessibility permission not granted, prompting")
	g.checker.Trusted(true)
	trusted := g.checker.Trusted(false)
	if !trusted {
		logrus.Warn("Accessibility permission still not granted")
	}
	return trusted
}

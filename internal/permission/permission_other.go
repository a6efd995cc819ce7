//go:build !darwin

package permission

// Unrestricted is used where the OS has no input-injection gate.
type Unrestricted struct{}

// NewChecker returns the platform Checker.
func NewChecker() Checker {
	return Unrestricted{}
}

// Trusted always reports true.
func (Unrestricted) Trusted(bool) bool { return true }

// OpenSettings is a no-op without an OS permission pane.
func OpenSettings() {}

//go:build !darwin

package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnrestricted(t *testing.T) {
	assert.True(t, NewChecker().Trusted(false))
	assert.True(t, NewGate(NewChecker()).EnsureAuthorized())
}

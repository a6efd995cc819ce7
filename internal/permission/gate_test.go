package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeChecker struct {
	trusted       bool
	grantOnPrompt bool
	prompts       int
	queries       int
}

func (f *fakeChecker) Trusted(prompt bool) bool {
	f.queries++
	if prompt {
		f.prompts++
		if f.grantOnPrompt {
			f.trusted = true
		}
	}
	return f.trusted
}

func TestEnsureAuthorized_AlreadyTrusted(t *testing.T) {
	c := &fakeChecker{trusted: true}
	assert.True(t, NewGate(c).EnsureAuthorized())
	assert.Zero(t, c.prompts)
	assert.Equal(t, 1, c.queries)
}

func TestEnsureAuthorized_PromptsThenRequeries(t *testing.T) {
	c := &fakeChecker{grantOnPrompt: true}
	assert.True(t, NewGate(c).EnsureAuthorized())
	assert.Equal(t, 1, c.prompts)
	assert.Equal(t, 3, c.queries)
}

func TestEnsureAuthorized_DeniedDoesNotBlock(t *testing.T) {
	c := &fakeChecker{}
	g := NewGate(c)
	assert.False(t, g.EnsureAuthorized())
	assert.Equal(t, 1, c.prompts)

	// Granted later in System Settings: the next call sees it.
	c.trusted = true
	assert.True(t, g.EnsureAuthorized())
	assert.Equal(t, 1, c.prompts)
}

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthSchemePoolGetEmpty(t *testing.T) {
	p := newAuthSchemePool()
	scheme, ok := p.Get()
	assert.False(t, ok)
	assert.Nil(t, scheme)
}

func TestAuthSchemePoolReleaseThenGet(t *testing.T) {
	p := newAuthSchemePool()
	p.Release(&AuthScheme{Name: "Basic", Credentials: "dXNlcjpwYXNz"})

	scheme, ok := p.Get()
	assert.True(t, ok)
	assert.Equal(t, "Basic", scheme.Name)
}

func TestAuthSchemePoolInvalidateClears(t *testing.T) {
	p := newAuthSchemePool()
	p.Release(&AuthScheme{Name: "Digest"})
	p.Invalidate()

	_, ok := p.Get()
	assert.False(t, ok)
}

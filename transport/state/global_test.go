package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConnectionManagerReturnsSameTransportForSameConfig(t *testing.T) {
	g := NewGlobalState()
	cfg := SslConfig{CipherSuites: "TLS_AES_128_GCM_SHA256"}

	a := g.ConnectionManager(cfg)
	b := g.ConnectionManager(cfg)
	assert.Same(t, a, b)

	other := g.ConnectionManager(SslConfig{CipherSuites: "other"})
	assert.NotSame(t, a, other)
}

func TestConnectionManagerAppliesPoolDefaults(t *testing.T) {
	g := NewGlobalState()
	tr := g.ConnectionManager(SslConfig{})

	assert.Equal(t, DefaultMaxConnsTotal, tr.MaxIdleConns)
	assert.Equal(t, DefaultMaxConnsPerRoute, tr.MaxIdleConnsPerHost)
	assert.Equal(t, DefaultMaxConnsPerRoute, tr.MaxConnsPerHost)
	assert.Equal(t, DefaultIdleConnTimeout, tr.IdleConnTimeout)
	assert.NotNil(t, tr.DialContext)
}

func TestConnectionManagerDistinguishesConnectTimeout(t *testing.T) {
	g := NewGlobalState()

	withDefault := g.ConnectionManager(SslConfig{})
	withCustom := g.ConnectionManager(SslConfig{ConnectTimeout: 5 * time.Second})

	assert.NotSame(t, withDefault, withCustom)
	assert.Same(t, withCustom, g.ConnectionManager(SslConfig{ConnectTimeout: 5 * time.Second}))
}

func TestUserTokenIsStableAndMintedOnce(t *testing.T) {
	g := NewGlobalState()
	key := UserTokenKey{RepoID: "central", URL: "https://repo.example.com"}

	first := g.UserToken(key)
	second := g.UserToken(key)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)

	other := g.UserToken(UserTokenKey{RepoID: "other"})
	assert.NotEqual(t, first, other)
}

func TestAuthSchemePoolNormalizesHostCase(t *testing.T) {
	g := NewGlobalState()
	a := g.AuthSchemePool("Example.com")
	b := g.AuthSchemePool("example.com")
	assert.Same(t, a, b)
}

func TestExpectContinueDefaultsUnknownAndRoundTrips(t *testing.T) {
	g := NewGlobalState()
	key := ExpectContinueKey{URL: "https://repo.example.com"}

	assert.Equal(t, Unknown, g.ExpectContinue(key))

	g.SetExpectContinue(key, True)
	assert.Equal(t, True, g.ExpectContinue(key))
}

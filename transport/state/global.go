// Package state implements the transport shared-state caches (spec §4.5,
// C5): a per-session GlobalState and a per-transporter LocalState.
//
// GlobalState's user-token, auth-scheme and expect-continue maps are safe
// for concurrent, lock-free reads and compare-and-set writes from any
// request goroutine -- implemented with puzpuzpuz/xsync's lock-free maps,
// exactly the "concurrent map... for sharing... across requests" §4.5 calls
// for; the connection-manager map is guarded by a mutex instead. The pooled
// connection manager is built with hashicorp/go-cleanhttp, already a terragrunt dependency,
// configured to the 100-total/50-per-route defaults §4.5 specifies.
package state

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/terraform-svchost"
	"github.com/puzpuzpuz/xsync/v3"
)

// DefaultMaxConnsTotal / DefaultMaxConnsPerRoute are the pool defaults spec
// §4.5 specifies for a GlobalState's connection manager.
const (
	DefaultMaxConnsTotal     = 100
	DefaultMaxConnsPerRoute  = 50
	DefaultIdleConnTimeout   = 90 * time.Second
	DefaultTLSHandshakeDelay = 10 * time.Second

	// DefaultConnectTimeout applies when a repository has no connect-timeout
	// configured, matching cleanhttp.DefaultPooledTransport's own dialer.
	DefaultConnectTimeout = 30 * time.Second
)

// SslConfig identifies a distinct TLS/dial configuration a connection
// manager is pooled under (spec §4.5: "a map from SslConfig to pooled
// connection-manager"). ConnectTimeout governs the pooled *http.Transport's
// dialer at construction time (spec §4.5 "connect-timeout: Socket connect
// timeout (ms)"), so repositories configured with different connect timeouts
// get distinct pooled transports. CipherSuites and Protocols only tell pool
// entries apart: newPooledTransport does not apply them to the transport's
// TLS configuration.
type SslConfig struct {
	CipherSuites   string
	Protocols      string
	ConnectTimeout time.Duration
}

// UserTokenKey is the compound key user tokens are cached under (spec §4.5).
type UserTokenKey struct {
	RepoID string
	URL    string
	Auth   string
	Proxy  string
}

// ExpectContinueKey is the compound key the tri-state expect-continue cache
// is indexed by.
type ExpectContinueKey struct {
	URL   string
	Proxy string
}

// GlobalState is keyed off the session's cache; one instance per session.
type GlobalState struct {
	connMgrsMu sync.Mutex
	connMgrs   map[SslConfig]*http.Transport

	userTokens *xsync.MapOf[UserTokenKey, string]

	authSchemes *xsync.MapOf[string, *AuthSchemePool]

	expectContinue *xsync.MapOf[ExpectContinueKey, TriState]
}

// NewGlobalState constructs an empty GlobalState. Session.GlobalState
// installs exactly one of these per session under a coarse lock (spec §4.5).
func NewGlobalState() *GlobalState {
	return &GlobalState{
		connMgrs:       map[SslConfig]*http.Transport{},
		userTokens:     xsync.NewMapOf[UserTokenKey, string](),
		authSchemes:    xsync.NewMapOf[string, *AuthSchemePool](),
		expectContinue: xsync.NewMapOf[ExpectContinueKey, TriState](),
	}
}

// ConnectionManager returns the pooled *http.Transport for cfg, creating one
// on first use. The map itself is guarded by a coarse mutex (writes are rare
// -- one per distinct SslConfig seen in a session) but reads otherwise flow
// through the returned *http.Transport lock-free.
func (g *GlobalState) ConnectionManager(cfg SslConfig) *http.Transport {
	g.connMgrsMu.Lock()
	defer g.connMgrsMu.Unlock()

	if t, ok := g.connMgrs[cfg]; ok {
		return t
	}

	t := newPooledTransport(cfg.ConnectTimeout)
	g.connMgrs[cfg] = t
	return t
}

// UserToken returns the opaque token cached under key, minting and storing a
// fresh one (via google/uuid) if this is the first time key is seen.
func (g *GlobalState) UserToken(key UserTokenKey) string {
	token, _ := g.userTokens.LoadOrStore(key, uuid.NewString())
	return token
}

// AuthSchemePool returns the per-host auth-scheme pool for host, normalizing
// host for comparison via terraform-svchost so "Example.com" and
// "example.com" share state (spec §4.5).
func (g *GlobalState) AuthSchemePool(host string) *AuthSchemePool {
	normalized := normalizeHost(host)
	pool, _ := g.authSchemes.LoadOrStore(normalized, newAuthSchemePool())
	return pool
}

// ExpectContinue returns the cached tri-state expect-continue flag for key.
func (g *GlobalState) ExpectContinue(key ExpectContinueKey) TriState {
	v, _ := g.expectContinue.Load(key)
	return v
}

// SetExpectContinue stores the tri-state expect-continue flag for key.
func (g *GlobalState) SetExpectContinue(key ExpectContinueKey, v TriState) {
	g.expectContinue.Store(key, v)
}

func normalizeHost(host string) string {
	normalized, err := svchost.ForComparison(host)
	if err != nil {
		return host
	}
	return string(normalized)
}

func newPooledTransport(connectTimeout time.Duration) *http.Transport {
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}

	// hashicorp/go-cleanhttp.DefaultPooledTransport returns a *http.Transport
	// with sane defaults (keep-alives on, DisableCompression off); we then
	// apply the §4.5 pool-size defaults and the configured connect-timeout
	// dialer on top.
	t := cleanhttpPooledTransport()
	t.DialContext = (&net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	t.MaxIdleConns = DefaultMaxConnsTotal
	t.MaxIdleConnsPerHost = DefaultMaxConnsPerRoute
	t.MaxConnsPerHost = DefaultMaxConnsPerRoute
	t.IdleConnTimeout = DefaultIdleConnTimeout
	return t
}

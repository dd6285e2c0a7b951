package state

import (
	"net/http"
	"sync/atomic"
)

// LocalState is held by a single transporter instance: its connection
// manager (borrowed from a GlobalState or created standalone), a volatile
// user-token cache, a tri-state WebDAV flag, and a reference to the global
// auth-scheme pool for its repository's host (spec §4.5).
type LocalState struct {
	connMgr    *http.Transport
	standalone bool

	userToken atomic.Value // string

	webDav         atomic.Int32
	expectContinue atomic.Int32

	authSchemes *AuthSchemePool
}

// NewLocalState borrows cfg's connection manager and host auth-scheme pool
// from global. If global is nil, LocalState creates and owns a standalone
// connection manager it must shut down itself on Close.
func NewLocalState(global *GlobalState, cfg SslConfig, host string) *LocalState {
	ls := &LocalState{}
	ls.webDav.Store(int32(Unknown))
	ls.expectContinue.Store(int32(Unknown))

	if global != nil {
		ls.connMgr = global.ConnectionManager(cfg)
		ls.authSchemes = global.AuthSchemePool(host)
		return ls
	}

	ls.connMgr = newPooledTransport(cfg.ConnectTimeout)
	ls.standalone = true
	ls.authSchemes = newAuthSchemePool()
	return ls
}

// ConnectionManager returns the *http.Transport this LocalState should issue
// requests through.
func (l *LocalState) ConnectionManager() *http.Transport { return l.connMgr }

// Close releases the connection manager if this LocalState owns it
// standalone; a borrowed (global-backed) manager is never shut down by a
// LocalState (spec §5 "LocalState borrows, never shuts it down").
func (l *LocalState) Close() {
	if l.standalone && l.connMgr != nil {
		l.connMgr.CloseIdleConnections()
	}
}

// UserToken returns the last cached user token, if any.
func (l *LocalState) UserToken() (string, bool) {
	v, _ := l.userToken.Load().(string)
	return v, v != ""
}

// SetUserToken stores token for reuse by subsequent requests from this
// transporter.
func (l *LocalState) SetUserToken(token string) { l.userToken.Store(token) }

// WebDav returns the cached tri-state WebDAV-capability flag.
func (l *LocalState) WebDav() TriState { return TriState(l.webDav.Load()) }

// SetWebDav latches the WebDAV-capability flag. Races between concurrent
// probes are benign -- whichever store lands last wins (spec §5).
func (l *LocalState) SetWebDav(v TriState) { l.webDav.Store(int32(v)) }

// ExpectContinue returns the cached tri-state expect-continue flag.
func (l *LocalState) ExpectContinue() TriState { return TriState(l.expectContinue.Load()) }

// SetExpectContinue latches the expect-continue flag.
func (l *LocalState) SetExpectContinue(v TriState) { l.expectContinue.Store(int32(v)) }

// AuthSchemes returns this LocalState's reference to the global per-host
// auth-scheme pool.
func (l *LocalState) AuthSchemes() *AuthSchemePool { return l.authSchemes }

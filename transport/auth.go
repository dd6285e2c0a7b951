package transport

import (
	"encoding/base64"
	"net/http"

	"github.com/gruntwork-io/artifact-resolver/session"
	"github.com/gruntwork-io/artifact-resolver/transport/state"
)

// basicAuthSchemeName is the only scheme this transporter negotiates: the
// repository URL's userinfo is the sole credential source (spec §4.5 "Auth
// scheme cache", §6 "credential-encoding", "preemptive-auth").
const basicAuthSchemeName = "Basic"

// userTokenHeader carries the opaque per-session user token attached to
// every outgoing request (spec §4.5 "opaque user token... used by the HTTP
// stack for stateful connections").
const userTokenHeader = "X-Artifact-Resolver-User-Token"

// basicCredentials extracts the username/password this transporter would
// authenticate with, from the repository base URL's userinfo. Reports
// ok=false if none were configured.
func (t *Transporter) basicCredentials() (username, password string, ok bool) {
	if t.baseURL.User == nil {
		return "", "", false
	}
	username = t.baseURL.User.Username()
	password, _ = t.baseURL.User.Password()
	return username, password, true
}

// encodeBasicAuth builds the "Basic <base64>" header value for
// username:password, encoding the credential bytes per the configured
// charset (spec §6 "credential-encoding: Charset for basic-auth encoding").
// Only UTF-8 (the default) and ISO-8859-1/Latin-1 are recognized; an
// unrecognized charset falls back to UTF-8 rather than failing the request.
func encodeBasicAuth(username, password, charset string) string {
	raw := username + ":" + password
	switch charset {
	case "ISO-8859-1", "ISO8859-1", "Latin1", "latin1":
		raw = toLatin1(raw)
	}
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}

// toLatin1 re-encodes a UTF-8 string as ISO-8859-1 bytes (one byte per rune
// <= 0xFF; runes outside that range are replaced with '?').
func toLatin1(s string) string {
	runes := []rune(s)
	out := make([]byte, len(runes))
	for i, r := range runes {
		if r > 0xFF {
			r = '?'
		}
		out[i] = byte(r)
	}
	return string(out)
}

// attachAuth attaches an Authorization header to req, either preemptively
// (spec §6 "preemptive-auth: Always attach Basic on first request") or by
// reusing this host's cached auth scheme from a prior successful challenge
// (spec §4.5 "future requests preempt the challenge by attaching the cached
// scheme"). The cached scheme always wins over a freshly-derived one, since
// it reflects what the server has actually already accepted.
func (t *Transporter) attachAuth(req *http.Request) {
	if scheme, ok := t.local.AuthSchemes().Get(); ok {
		if value, ok := scheme.Credentials.(string); ok {
			req.Header.Set("Authorization", value)
			return
		}
	}

	username, password, ok := t.basicCredentials()
	if !ok {
		return
	}

	preemptive := t.sess.ConfigBool(session.KeyPreemptiveAuth, t.repoID, false)
	if !preemptive {
		return
	}

	charset := t.sess.ConfigString(session.KeyCredentialEncoding, t.repoID, "UTF-8")
	req.Header.Set("Authorization", encodeBasicAuth(username, password, charset))
}

// observeAuthOutcome updates this host's auth-scheme pool based on resp's
// status: a 401/407 invalidates it (spec §4.5 "invalidated per host on
// 401/407"), any other response to a request that carried credentials
// releases them into the pool for reuse by subsequent requests.
func (t *Transporter) observeAuthOutcome(resp *http.Response) {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusProxyAuthRequired:
		t.local.AuthSchemes().Invalidate()
		return
	}

	sent := resp.Request.Header.Get("Authorization")
	if sent == "" {
		return
	}
	t.local.AuthSchemes().Release(&state.AuthScheme{Name: basicAuthSchemeName, Credentials: sent})
}

// userToken returns the opaque per-session user token for this transporter's
// repository/url/auth combination (spec §4.5 "a map from (repoId, url, auth,
// proxy) compound key to opaque user token"), minting one on first use and
// caching it locally so repeat requests from this Transporter don't re-read
// the global map.
func (t *Transporter) userToken() string {
	if token, ok := t.local.UserToken(); ok {
		return token
	}

	auth := ""
	if username, _, ok := t.basicCredentials(); ok {
		auth = username
	}

	key := state.UserTokenKey{RepoID: t.repoID, URL: t.baseURL.String(), Auth: auth}
	token := t.sess.GlobalState().UserToken(key)
	t.local.SetUserToken(token)
	return token
}

package transport

import (
	"net/http"

	"github.com/gruntwork-io/artifact-resolver/session"
)

// doIdempotent runs build to construct a fresh *http.Request and sends it,
// retrying up to the configured retry-handler-count additional times on a
// transport-level failure (spec §6 "retry-handler-count: Number of automatic
// retry attempts on idempotent requests", §7 "the automatic-retry count
// configured for idempotent methods. No retries for PUT beyond the
// expect-continue case"). build is called again on each retry so every
// attempt gets its own *http.Request -- a *http.Request must never be reused
// after being sent through a RoundTripper.
func (t *Transporter) doIdempotent(build func() (*http.Request, error)) (*http.Response, error) {
	attempts := 1 + t.sess.ConfigInt(session.KeyRetryHandlerCount, t.repoID, 0)
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		req, err := build()
		if err != nil {
			return nil, err
		}
		resp, err := t.client().Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

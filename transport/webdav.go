package transport

import (
	"context"
	"net/http"
	"net/url"
)

// probeWebDAV issues an OPTIONS request against uri and reports whether the
// response carries a "DAV:" header (spec §4.4 "WebDAV preamble"). Called
// once, lazily, on the first PUT against a repository; the result latches
// into LocalState's tri-state WebDAV flag.
func (t *Transporter) probeWebDAV(ctx context.Context, uri *url.URL) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, uri.String(), nil)
	if err != nil {
		return false
	}
	t.applySkeleton(req, 0)

	resp, err := t.client().Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.Header.Get("DAV") != ""
}

// ensureCollections runs the MKCOL preamble (spec §4.4): enumerate every
// ancestor directory of target (deepest first), issuing MKCOL until one
// already exists (status < 300 or 405) or is missing its own parent (409,
// in which case enumeration continues upward); then MKCOL the intermediate
// directories back down in order. Any other error is logged and aborts
// silently -- the subsequent PUT fails naturally if the collection truly
// couldn't be created.
func (t *Transporter) ensureCollections(ctx context.Context, target *url.URL) {
	dirs := Directories(t.baseURL, target)
	if len(dirs) == 0 {
		return
	}

	// dirs is ordered deepest-first already (Directories walks upward from
	// target); mkcol from the deepest outward until one succeeds/exists,
	// then come back down creating the intermediates.
	missingFromIdx := -1
	for i, dir := range dirs {
		status, err := t.mkcol(ctx, dir)
		if err != nil {
			t.sess.Logger.Warnf("mkcol %s: %v", dir, err)
			return
		}
		if status < 300 || status == http.StatusMethodNotAllowed {
			missingFromIdx = i
			break
		}
		if status != http.StatusConflict {
			t.sess.Logger.Warnf("mkcol %s: unexpected status %d", dir, status)
			return
		}
		// 409: parent missing too, keep walking upward.
	}

	if missingFromIdx < 0 {
		return
	}
	for i := missingFromIdx - 1; i >= 0; i-- {
		if _, err := t.mkcol(ctx, dirs[i]); err != nil {
			t.sess.Logger.Warnf("mkcol %s: %v", dirs[i], err)
			return
		}
	}
}

func (t *Transporter) mkcol(ctx context.Context, uri *url.URL) (int, error) {
	req, err := http.NewRequestWithContext(ctx, "MKCOL", uri.String(), nil)
	if err != nil {
		return 0, err
	}
	t.applySkeleton(req, 0)

	resp, err := t.client().Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

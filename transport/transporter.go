// Package transport implements the HTTP artifact transporter (spec §4.4,
// C4) and the URI/task plumbing it shares with WebDAV collection creation
// (spec §4.6, C6), on top of the shared connection/auth/token state in
// transport/state (C5).
package transport

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"dario.cat/mergo"
	resolverrors "github.com/gruntwork-io/artifact-resolver/errors"
	"github.com/gruntwork-io/artifact-resolver/session"
	"github.com/gruntwork-io/artifact-resolver/transport/state"
)

// NoTransporterError is returned by NewTransporter when repoURL's scheme
// isn't one this transporter handles (spec §4.4: "Only repositories whose
// URL scheme case-insensitively matches http or https are accepted;
// otherwise construction fails with NoTransporter").
type NoTransporterError struct {
	Scheme string
}

func (e *NoTransporterError) Error() string {
	return fmt.Sprintf("transport: no transporter for scheme %q", e.Scheme)
}

// Transporter is one repository's HTTP transport instance (spec §4.4
// "Contract": newInstance(session, repository) -> Transporter).
type Transporter struct {
	sess   *session.Session
	repoID string

	baseURL *url.URL

	local *state.LocalState

	closed atomic.Bool

	webdavEnabled bool

	extractors []ChecksumExtractor

	mu sync.Mutex // guards nothing concurrency-critical; serializes WebDAV probe/ensure per instance
}

// NewTransporter constructs a Transporter for repoURL, borrowing pooled
// connection/auth state from sess's GlobalState. Fails with
// *NoTransporterError if repoURL's scheme is not http/https.
func NewTransporter(sess *session.Session, repoID, repoURL string, extractors ...ChecksumExtractor) (*Transporter, error) {
	parsed, err := url.Parse(repoURL)
	if err != nil {
		return nil, resolverrors.WithStackTrace(err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, &NoTransporterError{Scheme: parsed.Scheme}
	}

	cfg := state.SslConfig{
		CipherSuites:   sess.ConfigString(session.KeyCipherSuites, repoID, ""),
		Protocols:      sess.ConfigString(session.KeyProtocols, repoID, ""),
		ConnectTimeout: sess.ConfigDuration(session.KeyConnectTimeout, repoID, 0),
	}

	local := state.NewLocalState(sess.GlobalState(), cfg, parsed.Host)

	if len(extractors) == 0 {
		extractors = []ChecksumExtractor{SHA1ETagExtractor{}}
	}

	return &Transporter{
		sess:          sess,
		repoID:        repoID,
		baseURL:       parsed,
		local:         local,
		webdavEnabled: sess.ConfigBool(session.KeyWebDAVEnabled, repoID, false),
		extractors:    extractors,
	}, nil
}

// client builds an *http.Client over this transporter's pooled connection
// manager, applying the request-timeout config key as the client's overall
// deadline (spec §4.5 "request-timeout: Socket read timeout (ms)"). The
// connect-timeout key instead governs the pooled Transport's dialer, read
// once in NewTransporter and threaded through SslConfig, since the Transport
// (and its dialer) is shared across every request through this repository,
// not rebuilt per call.
func (t *Transporter) client() *http.Client {
	return &http.Client{
		Transport: t.local.ConnectionManager(),
		Timeout:   t.sess.ConfigDuration(session.KeyRequestTimeout, t.repoID, 0),
	}
}

// Classify maps err to the coarse ErrorClass this transporter's callers
// branch on (spec §4.4).
func (t *Transporter) Classify(err error) ErrorClass { return Classify(err) }

// Close releases the transporter's connection manager (only if it owns a
// standalone one -- a borrowed, global-backed manager is never shut down
// from here) and makes every subsequent task call fail. Idempotent.
func (t *Transporter) Close() {
	if t.closed.Swap(true) {
		return
	}
	t.local.Close()
}

func (t *Transporter) checkOpen() error {
	if t.closed.Load() {
		return resolverrors.New("transport: illegal state, transporter is closed")
	}
	return nil
}

func (t *Transporter) resolve(path string) *url.URL {
	ref := &url.URL{Path: path}
	return ResolveURI(t.baseURL, ref)
}

// applySkeleton applies the request skeleton every outgoing request carries
// (spec §4.4 "Request skeleton"): no-cache headers, expect-continue gating,
// and any configured per-repository header overrides merged in via
// dario.cat/mergo (string values set the header, non-string values in the
// config map decode to "" and are treated as a removal request).
func (t *Transporter) applySkeleton(req *http.Request, payloadLength int64) {
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")

	if ua := t.sess.ConfigString(session.KeyUserAgent, t.repoID, ""); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	t.attachAuth(req)
	req.Header.Set(userTokenHeader, t.userToken())

	if payloadLength > 0 {
		ec := t.local.ExpectContinue()
		if ec == state.Unknown {
			key := state.ExpectContinueKey{URL: t.baseURL.String()}
			ec = t.sess.GlobalState().ExpectContinue(key)
			t.local.SetExpectContinue(ec)
		}
		if value, known := ec.Bool(); known && value {
			req.Header.Set("Expect", "100-continue")
		}
	}

	defaults := map[string][]string(req.Header)
	overrides := map[string][]string{}
	for k, v := range t.sess.ConfigHeaders(t.repoID) {
		if v == "" {
			delete(defaults, k)
			continue
		}
		overrides[http.CanonicalHeaderKey(k)] = []string{v}
	}
	_ = mergo.Merge(&defaults, overrides, mergo.WithOverride)
	req.Header = http.Header(defaults)
}

// Peek issues a HEAD-equivalent existence check (spec §4.4).
func (t *Transporter) Peek(ctx context.Context, task PeekTask) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	ctx, end := t.sess.Telemeter.Start(ctx, "transport.peek")
	defer end()

	uri := t.resolve(task.Path)
	resp, err := t.doIdempotent(func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, uri.String(), nil)
		if err != nil {
			return nil, err
		}
		t.applySkeleton(req, 0)
		return req, nil
	})
	if err != nil {
		return resolverrors.WithStackTrace(err)
	}
	defer resp.Body.Close()
	t.observeAuthOutcome(resp)

	if resp.StatusCode >= 300 {
		return &HttpResponseException{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}

// contentRange is the parsed form of a "Content-Range: bytes A-B/*" header
// (spec §4.4 "On a 206 response").
type contentRange struct {
	start, end int64
}

func parseContentRange(header string) (contentRange, bool) {
	const prefix = "bytes "
	if !strings.HasPrefix(header, prefix) {
		return contentRange{}, false
	}
	rest := strings.TrimPrefix(header, prefix)
	rangePart := rest
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		rangePart = rest[:idx]
	}
	parts := strings.SplitN(rangePart, "-", 2)
	if len(parts) != 2 {
		return contentRange{}, false
	}
	start, err1 := strconv.ParseInt(parts[0], 10, 64)
	end, err2 := strconv.ParseInt(parts[1], 10, 64)
	if err1 != nil || err2 != nil {
		return contentRange{}, false
	}
	return contentRange{start: start, end: end}, true
}

// Get downloads task.Path, resuming into task.Destination at
// task.ResumeOffset when both are set (spec §4.4 "GET resume").
func (t *Transporter) Get(ctx context.Context, task GetTask) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	ctx, end := t.sess.Telemeter.Start(ctx, "transport.get")
	defer end()

	resumable := task.ResumeOffset > 0 && task.Destination != ""

	resp, err := t.doGet(ctx, task, resumable)
	if err != nil {
		return resolverrors.WithStackTrace(err)
	}
	defer resp.Body.Close()
	t.observeAuthOutcome(resp)

	if resumable && resp.StatusCode == http.StatusPreconditionFailed && resp.Header.Get("Range") != "" {
		// spec §4.4: retry once without the range headers.
		resp.Body.Close()
		resp, err = t.doGet(ctx, task, false)
		if err != nil {
			return resolverrors.WithStackTrace(err)
		}
		defer resp.Body.Close()
		t.observeAuthOutcome(resp)
		resumable = false
	}

	if resp.StatusCode >= 300 {
		return &HttpResponseException{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if resumable && resp.StatusCode == http.StatusPartialContent {
		cr, ok := parseContentRange(resp.Header.Get("Content-Range"))
		if !ok || cr.start != task.ResumeOffset || !(cr.start >= 0 && cr.start < cr.end+1) {
			return resolverrors.Errorf("transport: invalid Content-Range for resumed GET: %q", resp.Header.Get("Content-Range"))
		}
	} else {
		resumable = false
	}

	return t.streamResponse(ctx, task, resp, resumable)
}

func (t *Transporter) doGet(ctx context.Context, task GetTask, resume bool) (*http.Response, error) {
	uri := t.resolve(task.Path)
	return t.doIdempotent(func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri.String(), nil)
		if err != nil {
			return nil, err
		}
		t.applySkeleton(req, 0)

		if resume {
			req.Header.Set("Range", fmt.Sprintf("bytes=%d-", task.ResumeOffset))
			req.Header.Set("Accept-Encoding", "identity")
			if info, statErr := os.Stat(task.Destination); statErr == nil {
				cutoff := info.ModTime().Add(-60 * time.Second)
				req.Header.Set("If-Unmodified-Since", cutoff.UTC().Format(http.TimeFormat))
			}
		}
		return req, nil
	})
}

// streamResponse writes resp's body to task.Destination (via a collocated
// temp file, moved atomically on success -- spec §4.4 "Resource safety")
// or to task.Writer, running checksum extractors and progress callbacks
// along the way, and translating listener cancellation into a
// TransferCancelledError (unwrapping it if an I/O error wraps it).
func (t *Transporter) streamResponse(ctx context.Context, task GetTask, resp *http.Response, appendMode bool) error {
	listener := task.Listener
	if listener == nil {
		listener = NoopListener{}
	}

	if listener.TransportStarted(resp.ContentLength) == SignalCancel {
		return &TransferCancelledError{}
	}

	var out io.Writer
	var tmpPath string
	var finalFile *os.File

	if task.Destination != "" {
		dir := filepath.Dir(task.Destination)
		tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(task.Destination)+"-*")
		if err != nil {
			return resolverrors.WithStackTrace(err)
		}
		tmpPath = tmp.Name()
		finalFile = tmp
		defer func() {
			if finalFile != nil {
				finalFile.Close()
				os.Remove(tmpPath)
			}
		}()

		if appendMode {
			if existing, err := os.Open(task.Destination); err == nil {
				_, _ = io.Copy(tmp, existing)
				existing.Close()
			}
		}
		out = tmp
	} else {
		out = task.Writer
	}

	var transferred int64
	buf := make([]byte, 32*1024)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return resolverrors.WithStackTrace(writeErr)
			}
			transferred += int64(n)
			t.sess.Telemeter.RecordBytes(ctx, "get", int64(n))
			if listener.TransportProgressed(transferred) == SignalCancel {
				return &TransferCancelledError{}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return resolverrors.WithStackTrace(unwrapCancellation(readErr))
		}
	}

	for _, ex := range t.extractors {
		if _, retry := ex.Extract(resp); retry {
			// A recoverable server quirk was reported; the caller owns
			// retry policy (the core doesn't loop requests on its own
			// behalf beyond the range-retry above and doIdempotent's
			// retry-handler-count retries), so this is surfaced for
			// visibility only.
			t.sess.Logger.Debugf("checksum extractor requested retry for %s", task.Path)
		}
	}

	if finalFile != nil {
		if err := finalFile.Close(); err != nil {
			return resolverrors.WithStackTrace(err)
		}
		finalFile = nil
		if err := os.Rename(tmpPath, task.Destination); err != nil {
			return resolverrors.WithStackTrace(err)
		}
	}

	return nil
}

// Put uploads the body task.BodyFactory produces, running the WebDAV MKCOL
// preamble first if the
// repository has WebDAV enabled (spec §4.4 "WebDAV preamble"). On a 417
// response to a request that carried an Expect header, the transporter
// latches expect-continue off and retries once without it.
func (t *Transporter) Put(ctx context.Context, task PutTask) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	ctx, end := t.sess.Telemeter.Start(ctx, "transport.put")
	defer end()

	uri := t.resolve(task.Path)

	if t.webdavEnabled {
		t.mu.Lock()
		if wd := t.local.WebDav(); wd == state.Unknown {
			t.local.SetWebDav(state.FromBool(t.probeWebDAV(ctx, t.baseURL)))
		}
		if value, known := t.local.WebDav().Bool(); known && value {
			t.ensureCollections(ctx, uri)
		}
		t.mu.Unlock()
	}

	resp, err := t.doPut(ctx, task, uri)
	if err != nil {
		return resolverrors.WithStackTrace(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusExpectationFailed && resp.Request.Header.Get("Expect") != "" {
		key := state.ExpectContinueKey{URL: t.baseURL.String()}
		t.sess.GlobalState().SetExpectContinue(key, state.False)
		t.local.SetExpectContinue(state.False)

		resp.Body.Close()
		resp, err = t.doPut(ctx, task, uri)
		if err != nil {
			return resolverrors.WithStackTrace(err)
		}
		defer resp.Body.Close()
	}
	t.observeAuthOutcome(resp)

	if resp.StatusCode >= 300 {
		return &HttpResponseException{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}

func (t *Transporter) doPut(ctx context.Context, task PutTask, uri *url.URL) (*http.Response, error) {
	body, length, err := task.BodyFactory()
	if err != nil {
		return nil, err
	}

	listener := task.Listener
	if listener == nil {
		listener = NoopListener{}
	}
	if listener.TransportStarted(length) == SignalCancel {
		body.Close()
		return nil, &TransferCancelledError{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uri.String(), &progressReader{r: body, listener: listener, sess: t.sess, ctx: ctx})
	if err != nil {
		body.Close()
		return nil, err
	}
	req.ContentLength = length
	req.Header.Set("Content-Type", mime.TypeByExtension(filepath.Ext(uri.Path)))
	t.applySkeleton(req, length)

	return t.client().Do(req)
}

// progressReader wraps a PUT body so upload progress drives the listener
// and telemetry the same way GET download progress does.
type progressReader struct {
	r           io.ReadCloser
	listener    Listener
	sess        *session.Session
	ctx         context.Context
	transferred int64
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.transferred += int64(n)
		p.sess.Telemeter.RecordBytes(p.ctx, "put", int64(n))
		if p.listener.TransportProgressed(p.transferred) == SignalCancel {
			return n, &TransferCancelledError{}
		}
	}
	return n, err
}

func (p *progressReader) Close() error { return p.r.Close() }

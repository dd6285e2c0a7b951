package transport

import "io"

// Signal is what a Listener's callbacks return to control the transfer
// (spec §5 "Cancellation": "raised via the task's listener returning a
// 'cancel' signal").
type Signal int

const (
	SignalContinue Signal = iota
	SignalCancel
)

// Listener receives progress notifications for a single task. Callbacks
// are delivered in order from the transferring goroutine and never after
// the task's terminal return (spec §5 "Ordering guarantees").
type Listener interface {
	TransportStarted(totalLength int64) Signal
	TransportProgressed(transferred int64) Signal
}

// NoopListener satisfies Listener without ever requesting cancellation.
type NoopListener struct{}

func (NoopListener) TransportStarted(int64) Signal    { return SignalContinue }
func (NoopListener) TransportProgressed(int64) Signal { return SignalContinue }

// PeekTask is a HEAD-equivalent existence check (spec §4.4).
type PeekTask struct {
	Path string
}

// GetTask downloads Path, optionally resuming into Destination at
// ResumeOffset (spec §4.4 "GET resume"). Destination may be empty for a
// pure in-memory read via Writer.
type GetTask struct {
	Path         string
	Destination  string // filesystem path; "" disables resumable-to-file behavior
	ResumeOffset int64
	Writer       io.Writer // receives the body when Destination is ""
	Listener     Listener
	Checksums    []ChecksumExtractor
}

// PutTask uploads the body BodyFactory produces to Path, with a WebDAV MKCOL
// preamble when the repository has WebDAV enabled and the server advertises DAV support
// (spec §4.4 "WebDAV preamble"). BodyFactory must be repeatable -- it is
// invoked again on retry (spec §4.4 "Resource safety": "the PUT body is
// repeatable").
type PutTask struct {
	Path        string
	BodyFactory func() (io.ReadCloser, int64, error)
	Listener    Listener
}

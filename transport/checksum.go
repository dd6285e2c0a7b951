package transport

import (
	"net/http"
	"regexp"
)

// ChecksumExtractor pulls checksum values out of a response's headers
// (spec §4.4 "Checksum extraction (pluggable)"). Retry reports whether the
// extractor wants the request retried without extractor-specific headers
// because of a recoverable server quirk (e.g. a proxy that strips ETags
// unless Accept-Encoding is suppressed).
type ChecksumExtractor interface {
	Extract(resp *http.Response) (checksums map[string]string, retry bool)
}

var sha1InETag = regexp.MustCompile(`SHA1\{([0-9a-fA-F]{40})\}`)

// SHA1ETagExtractor pulls a `SHA1{<hex>}`-shaped checksum embedded in the
// ETag header, a convention several artifact hosts use in lieu of a
// dedicated checksum header.
type SHA1ETagExtractor struct{}

func (SHA1ETagExtractor) Extract(resp *http.Response) (map[string]string, bool) {
	etag := resp.Header.Get("ETag")
	if etag == "" {
		return nil, false
	}
	m := sha1InETag.FindStringSubmatch(etag)
	if m == nil {
		return nil, false
	}
	return map[string]string{"SHA-1": m[1]}, false
}

package transport

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSHA1ETagExtractorExtractsEmbeddedHash(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("ETag", `"SHA1{da39a3ee5e6b4b0d3255bfef95601890afd80709}"`)

	checksums, retry := SHA1ETagExtractor{}.Extract(resp)
	assert.False(t, retry)
	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", checksums["SHA-1"])
}

func TestSHA1ETagExtractorIgnoresUnrelatedETag(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("ETag", `"plain-etag-value"`)

	checksums, retry := SHA1ETagExtractor{}.Extract(resp)
	assert.False(t, retry)
	assert.Nil(t, checksums)
}

func TestSHA1ETagExtractorNoETag(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	checksums, retry := SHA1ETagExtractor{}.Extract(resp)
	assert.False(t, retry)
	assert.Nil(t, checksums)
}

package transport

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeBasicAuthDefaultsToUTF8(t *testing.T) {
	got := encodeBasicAuth("alice", "sécret", "")
	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("alice:sécret"))
	assert.Equal(t, want, got)
}

func TestEncodeBasicAuthHonorsLatin1(t *testing.T) {
	got := encodeBasicAuth("alice", "sécret", "ISO-8859-1")
	want := "Basic " + base64.StdEncoding.EncodeToString([]byte(toLatin1("alice:sécret")))
	assert.Equal(t, want, got)
	assert.NotEqual(t, encodeBasicAuth("alice", "sécret", ""), got)
}

package transport

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/stretchr/testify/require"
)

func generateTestKeyAndSignature(t *testing.T, payload []byte) (openpgp.EntityList, []byte) {
	t.Helper()

	entity, err := openpgp.NewEntity("tester", "", "tester@example.com", nil)
	require.NoError(t, err)

	var sigBuf bytes.Buffer
	err = openpgp.DetachSign(&sigBuf, entity, bytes.NewReader(payload), nil)
	require.NoError(t, err)

	return openpgp.EntityList{entity}, sigBuf.Bytes()
}

func TestPGPSignatureExtractorValidSignature(t *testing.T) {
	payload := []byte("artifact contents to be signed")
	keyRing, sig := generateTestKeyAndSignature(t, payload)

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("X-Checksum-Payload", string(payload))

	ext := &PGPSignatureExtractor{KeyRing: keyRing, Body: sig}
	checksums, retry := ext.Extract(resp)

	require.False(t, retry)
	require.NotEmpty(t, checksums["PGP"])
}

func TestPGPSignatureExtractorMissingHeaderIsNoop(t *testing.T) {
	payload := []byte("artifact contents")
	keyRing, _ := generateTestKeyAndSignature(t, payload)

	resp := &http.Response{Header: http.Header{}}
	ext := &PGPSignatureExtractor{KeyRing: keyRing, Body: payload}

	checksums, retry := ext.Extract(resp)
	require.False(t, retry)
	require.Nil(t, checksums)
}

func TestPGPSignatureExtractorTamperedBodyFailsVerification(t *testing.T) {
	payload := []byte("original payload")
	keyRing, sig := generateTestKeyAndSignature(t, payload)

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("X-Checksum-Payload", "tampered payload")

	ext := &PGPSignatureExtractor{KeyRing: keyRing, Body: sig}
	checksums, retry := ext.Extract(resp)

	require.False(t, retry)
	require.Nil(t, checksums)
}

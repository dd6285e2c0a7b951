package transport

import (
	"bytes"
	"net/http"

	"github.com/ProtonMail/go-crypto/openpgp"
	resolverrors "github.com/gruntwork-io/artifact-resolver/errors"
)

// PGPSignatureExtractor verifies a detached OpenPGP signature (Body) over the
// payload carried in an `X-Checksum-Payload` response header against
// KeyRing, in the spirit of
// terraform/getproviders' official/partner/community signature levels
// (terraform/getproviders/package_authentication_test.go). It does not
// itself fetch the signature body -- Body must be supplied by the caller
// per response (e.g. read from a sibling `.asc` GET) since the core has no
// opinion on how a signature artifact is located.
type PGPSignatureExtractor struct {
	KeyRing openpgp.EntityList
	Body    []byte
}

// Extract verifies e.Body as a detached signature over the payload bytes
// carried in the response's `X-Checksum-Payload` header and reports the
// signing key's key id as a "PGP" checksum entry on success. It never asks for a retry: a signature
// failure is a trust failure, not a recoverable server quirk.
func (e *PGPSignatureExtractor) Extract(resp *http.Response) (map[string]string, bool) {
	signed := resp.Header.Get("X-Checksum-Payload")
	if signed == "" || len(e.Body) == 0 || len(e.KeyRing) == 0 {
		return nil, false
	}

	signer, err := openpgp.CheckDetachedSignature(e.KeyRing, bytes.NewReader([]byte(signed)), bytes.NewReader(e.Body), nil)
	if err != nil {
		resolverrors.WithStackTrace(err)
		return nil, false
	}
	if signer == nil || signer.PrimaryKey == nil {
		return nil, false
	}
	return map[string]string{"PGP": signer.PrimaryKey.KeyIdString()}, false
}

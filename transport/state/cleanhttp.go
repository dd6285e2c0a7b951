package state

import (
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
)

// cleanhttpPooledTransport isolates the single cleanhttp call site so
// newPooledTransport in global.go reads as pure policy (§4.5 pool sizing)
// over a plain import.
func cleanhttpPooledTransport() *http.Transport {
	return cleanhttp.DefaultPooledTransport()
}

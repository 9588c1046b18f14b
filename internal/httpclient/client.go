// Package httpclient builds the HTTP client used for presigned uploads.
package httpclient

import (
	"crypto/tls"
	"net/http"
	"os"

	"golang.org/x/net/http2"

	"github.com/RiccardoMarostica/s3presign/internal/constants"
)

// New creates an HTTP client tuned for file uploads.
//
// Key features:
//   - Proxy support from the environment (HTTP_PROXY, HTTPS_PROXY, NO_PROXY)
//   - Connection pooling sized for a single-operation CLI
//   - HTTP/2 support with runtime toggle (DISABLE_HTTP2 env var)
//   - Disabled compression (no benefit for already-compressed payloads)
//
// The client carries no overall timeout; the upload attempt sets its own
// deadline via context.
func New() *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        constants.HTTPMaxIdleConns,
		MaxIdleConnsPerHost: constants.HTTPMaxIdleConnsPerHost,
		IdleConnTimeout:     constants.HTTPIdleConnTimeout,
		TLSHandshakeTimeout: constants.HTTPTLSHandshakeTimeout,
		DisableCompression:  true,
		ForceAttemptHTTP2:   true,
	}

	// Ensure HTTP/2 is properly configured on the transport
	_ = http2.ConfigureTransport(tr)

	// Runtime toggle for HTTP/2 (useful for debugging or compatibility issues)
	if os.Getenv("DISABLE_HTTP2") == "true" {
		tr.ForceAttemptHTTP2 = false
		tr.TLSNextProto = make(map[string]func(string, *tls.Conn) http.RoundTripper)
	}

	return &http.Client{Transport: tr}
}

package constants

import (
	"time"
)

// Signing defaults
const (
	// DefaultExpirationSeconds - how long signed URLs and upload policies
	// remain honored by S3 when no --expiration is given (1 hour)
	DefaultExpirationSeconds = 3600

	// DefaultProfile - AWS shared-config profile used when none is given
	DefaultProfile = "default"

	// DefaultRegion - fallback region when neither the profile nor the
	// environment provides one
	DefaultRegion = "us-east-1"
)

// Upload configuration
const (
	// UploadTimeout - hard cap for the single upload attempt (30s)
	// There is no retry: the attempt either finishes inside this window
	// or the operation fails.
	UploadTimeout = 30 * time.Second

	// UploadFieldName - multipart form field carrying the file contents.
	// S3 requires this part to be the last field in the POST body.
	UploadFieldName = "file"

	// MaxErrorBodyBytes - how much of a rejection response body is kept
	// for the error message (8 KB)
	MaxErrorBodyBytes = 8 * 1024
)

// HTTP transport tuning
const (
	// HTTPMaxIdleConns - total idle connections across all hosts
	HTTPMaxIdleConns = 64

	// HTTPMaxIdleConnsPerHost - idle connections per S3 endpoint
	HTTPMaxIdleConnsPerHost = 16

	// HTTPIdleConnTimeout - how long idle connections are kept around
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPTLSHandshakeTimeout - TLS handshake deadline
	HTTPTLSHandshakeTimeout = 10 * time.Second
)

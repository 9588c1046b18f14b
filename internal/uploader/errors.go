package uploader

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the local file does not exist or is not a
// regular file. Raised before any network I/O happens.
var ErrFileNotFound = errors.New("local file not found")

// RejectedError indicates S3 answered the upload with anything other than
// 204 No Content. The response body is kept for diagnosis.
type RejectedError struct {
	StatusCode int
	Body       string
}

func (e *RejectedError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upload rejected with HTTP status %d", e.StatusCode)
	}
	return fmt.Sprintf("upload rejected with HTTP status %d: %s", e.StatusCode, e.Body)
}

// NetworkError indicates a transport-level failure (DNS, connection refused,
// timeout) during the upload attempt.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during upload: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// FileReadError indicates the local file failed mid-upload.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("file I/O error reading %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// Package uploader performs the multipart form POST of a local file against
// a signed upload policy. One attempt per operation: a timeout or transport
// failure is final.
package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/RiccardoMarostica/s3presign/internal/constants"
	"github.com/RiccardoMarostica/s3presign/internal/logging"
	"github.com/RiccardoMarostica/s3presign/internal/signer"
)

// Target identifies what gets uploaded where.
type Target struct {
	Bucket    string
	Key       string
	LocalPath string
}

// Executor issues the multipart POST for a signed policy.
type Executor struct {
	client  *http.Client
	timeout time.Duration
	logger  *logging.Logger
}

// New creates an Executor. timeout caps the single attempt; zero falls back
// to the default.
func New(client *http.Client, timeout time.Duration, logger *logging.Logger) *Executor {
	if timeout <= 0 {
		timeout = constants.UploadTimeout
	}
	return &Executor{
		client:  client,
		timeout: timeout,
		logger:  logger,
	}
}

// CheckLocalFile verifies the path exists and is a regular file.
func CheckLocalFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, ErrFileNotFound)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file: %w", path, ErrFileNotFound)
	}
	return nil
}

// Execute POSTs the target file through the signed policy.
//
// The policy fields go first in the multipart body, then the file contents
// under the form name "file" with the object key as the reported filename.
// The body is streamed, never buffered whole. S3 answers 204 on success when
// the policy configures no redirect; everything else is a rejection.
func (e *Executor) Execute(ctx context.Context, policy *signer.UploadPolicy, target Target) error {
	if err := CheckLocalFile(target.LocalPath); err != nil {
		return err
	}

	f, err := os.Open(target.LocalPath)
	if err != nil {
		return &FileReadError{Path: target.LocalPath, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return &FileReadError{Path: target.LocalPath, Err: err}
	}

	var src io.Reader = f
	if term.IsTerminal(int(os.Stderr.Fd())) {
		bar := progressbar.DefaultBytes(info.Size(), "uploading "+target.Key)
		src = io.TeeReader(f, bar)
	}

	pr, pw := io.Pipe()
	// Closing the read end unblocks the body writer if the request dies early
	defer pr.Close()
	mw := multipart.NewWriter(pw)
	go writeMultipartBody(pw, mw, policy.Fields, target, src)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, policy.URL, pr)
	if err != nil {
		return &NetworkError{Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	e.logger.Info().
		Str("bucket", target.Bucket).
		Str("key", target.Key).
		Int64("size", info.Size()).
		Msg("Starting upload")

	resp, err := e.client.Do(req)
	if err != nil {
		// A mid-stream file failure surfaces through the pipe; keep its type.
		var readErr *FileReadError
		if errors.As(err, &readErr) {
			return readErr
		}
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		e.logger.Info().
			Str("key", target.Key).
			Int("status", resp.StatusCode).
			Msg("Upload completed")
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, constants.MaxErrorBodyBytes))
	return &RejectedError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

// writeMultipartBody feeds the request body: policy fields in deterministic
// order, file part last as S3 requires.
func writeMultipartBody(pw *io.PipeWriter, mw *multipart.Writer, fields map[string]string, target Target, src io.Reader) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := mw.WriteField(k, fields[k]); err != nil {
			pw.CloseWithError(err)
			return
		}
	}

	part, err := mw.CreateFormFile(constants.UploadFieldName, target.Key)
	if err != nil {
		pw.CloseWithError(err)
		return
	}
	if _, err := io.Copy(part, src); err != nil {
		pw.CloseWithError(&FileReadError{Path: target.LocalPath, Err: err})
		return
	}
	if err := mw.Close(); err != nil {
		pw.CloseWithError(err)
		return
	}
	pw.Close()
}

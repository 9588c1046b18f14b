// Package ops maps the requested operation (post or get) onto signing and
// upload calls and renders a uniform outcome. It owns the storage session
// for the process lifetime; nothing survives the invocation.
package ops

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/RiccardoMarostica/s3presign/internal/logging"
	"github.com/RiccardoMarostica/s3presign/internal/signer"
	"github.com/RiccardoMarostica/s3presign/internal/uploader"
)

// URLSigner is the signing surface the dispatcher drives.
type URLSigner interface {
	SignUpload(ctx context.Context, bucket, key string, fields map[string]string, conditions []interface{}, expires time.Duration) (*signer.UploadPolicy, error)
	SignDownload(ctx context.Context, bucket, key string, expires time.Duration) (*signer.DownloadURL, error)
}

// UploadExecutor is the upload surface the dispatcher drives.
type UploadExecutor interface {
	Execute(ctx context.Context, policy *signer.UploadPolicy, target uploader.Target) error
}

// Dispatcher runs one operation end to end. Failure at any step stops the
// run; there is no partial retry across steps.
type Dispatcher struct {
	signer   URLSigner
	executor UploadExecutor
	logger   *logging.Logger
	out      io.Writer
}

// New creates a Dispatcher writing its success output to out.
func New(s URLSigner, e UploadExecutor, logger *logging.Logger, out io.Writer) *Dispatcher {
	return &Dispatcher{
		signer:   s,
		executor: e,
		logger:   logger,
		out:      out,
	}
}

// PostParams are the inputs of the post operation.
type PostParams struct {
	Bucket      string
	FilePath    string
	Key         string // optional; defaults to the file's base name
	Fields      map[string]string
	ContentType string // optional; becomes the Content-Type policy field
	MaxSize     int64  // optional; adds a content-length-range condition
	Expires     time.Duration
}

// PostResult is the structured outcome of a successful post.
type PostResult struct {
	Bucket  string
	Key     string
	Locator string // canonical bucket/key locator
}

// GetParams are the inputs of the get operation.
type GetParams struct {
	Bucket  string
	Key     string
	Expires time.Duration
}

// GetResult is the structured outcome of a successful get.
type GetResult struct {
	URL       string
	ExpiresIn time.Duration
}

// RunPost signs an upload policy for the target and pushes the file through
// it. The local file is checked before any signing call is made.
func (d *Dispatcher) RunPost(ctx context.Context, p PostParams) (*PostResult, error) {
	key := p.Key
	if key == "" {
		key = filepath.Base(p.FilePath)
	}

	d.logger.Info().
		Str("operation", "post").
		Str("bucket", p.Bucket).
		Str("key", key).
		Str("file", p.FilePath).
		Msg("Uploading file via presigned POST")

	if err := uploader.CheckLocalFile(p.FilePath); err != nil {
		d.logger.Error().
			Str("operation", "post").
			Str("file", p.FilePath).
			Err(err).
			Msg("Local file check failed")
		return nil, err
	}

	fields := make(map[string]string, len(p.Fields)+1)
	for k, v := range p.Fields {
		fields[k] = v
	}
	if p.ContentType != "" {
		fields["Content-Type"] = p.ContentType
	}

	var conditions []interface{}
	if p.MaxSize > 0 {
		conditions = append(conditions, []interface{}{"content-length-range", int64(0), p.MaxSize})
	}

	policy, err := d.signer.SignUpload(ctx, p.Bucket, key, fields, conditions, p.Expires)
	if err != nil {
		d.logger.Error().
			Str("operation", "post").
			Str("bucket", p.Bucket).
			Str("key", key).
			Err(err).
			Msg("Failed to generate presigned POST policy")
		return nil, err
	}

	target := uploader.Target{
		Bucket:    p.Bucket,
		Key:       key,
		LocalPath: p.FilePath,
	}
	if err := d.executor.Execute(ctx, policy, target); err != nil {
		d.logger.Error().
			Str("operation", "post").
			Str("bucket", p.Bucket).
			Str("key", key).
			Err(err).
			Msg("Upload failed")
		return nil, err
	}

	result := &PostResult{
		Bucket:  p.Bucket,
		Key:     key,
		Locator: fmt.Sprintf("%s/%s", p.Bucket, key),
	}

	fmt.Fprintln(d.out, "SUCCESS: File uploaded to S3")
	fmt.Fprintf(d.out, "S3 Object Key: %s\n", result.Key)
	fmt.Fprintf(d.out, "S3 URI: s3://%s\n", result.Locator)

	return result, nil
}

// RunGet signs and prints a GET URL for the object.
func (d *Dispatcher) RunGet(ctx context.Context, p GetParams) (*GetResult, error) {
	d.logger.Info().
		Str("operation", "get").
		Str("bucket", p.Bucket).
		Str("key", p.Key).
		Msg("Generating presigned GET URL")

	url, err := d.signer.SignDownload(ctx, p.Bucket, p.Key, p.Expires)
	if err != nil {
		d.logger.Error().
			Str("operation", "get").
			Str("bucket", p.Bucket).
			Str("key", p.Key).
			Err(err).
			Msg("Failed to generate presigned GET URL")
		return nil, err
	}

	result := &GetResult{
		URL:       url.URL,
		ExpiresIn: url.ExpiresIn,
	}

	fmt.Fprintln(d.out, "SUCCESS: Presigned GET URL generated")
	fmt.Fprintf(d.out, "URL: %s\n", result.URL)
	fmt.Fprintf(d.out, "Expires in: %d seconds\n", int(result.ExpiresIn.Seconds()))

	return result, nil
}

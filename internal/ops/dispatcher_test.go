package ops

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RiccardoMarostica/s3presign/internal/logging"
	"github.com/RiccardoMarostica/s3presign/internal/signer"
	"github.com/RiccardoMarostica/s3presign/internal/uploader"
)

// fakeSigner records signing calls and replays canned results.
type fakeSigner struct {
	uploadCalls   int
	downloadCalls int
	lastBucket    string
	lastKey       string
	lastFields    map[string]string
	lastConds     []interface{}
	lastExpires   time.Duration

	uploadPolicy *signer.UploadPolicy
	downloadURL  *signer.DownloadURL
	err          error
}

func (f *fakeSigner) SignUpload(_ context.Context, bucket, key string, fields map[string]string, conditions []interface{}, expires time.Duration) (*signer.UploadPolicy, error) {
	f.uploadCalls++
	f.lastBucket, f.lastKey = bucket, key
	f.lastFields, f.lastConds = fields, conditions
	f.lastExpires = expires
	if f.err != nil {
		return nil, f.err
	}
	return f.uploadPolicy, nil
}

func (f *fakeSigner) SignDownload(_ context.Context, bucket, key string, expires time.Duration) (*signer.DownloadURL, error) {
	f.downloadCalls++
	f.lastBucket, f.lastKey = bucket, key
	f.lastExpires = expires
	if f.err != nil {
		return nil, f.err
	}
	return f.downloadURL, nil
}

// fakeExecutor records upload calls.
type fakeExecutor struct {
	calls      int
	lastPolicy *signer.UploadPolicy
	lastTarget uploader.Target
	err        error
}

func (f *fakeExecutor) Execute(_ context.Context, policy *signer.UploadPolicy, target uploader.Target) error {
	f.calls++
	f.lastPolicy = policy
	f.lastTarget = target
	return f.err
}

func newTestDispatcher(s *fakeSigner, e *fakeExecutor) (*Dispatcher, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return New(s, e, logging.NewLogger(io.Discard), out), out
}

func writeTempFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("contents"), 0644))
	return path
}

func TestRunPostResolvesKeyFromFileName(t *testing.T) {
	path := writeTempFile(t, "image.jpg")
	fs := &fakeSigner{uploadPolicy: &signer.UploadPolicy{URL: "https://demo.s3.amazonaws.com/"}}
	fe := &fakeExecutor{}
	d, out := newTestDispatcher(fs, fe)

	result, err := d.RunPost(context.Background(), PostParams{
		Bucket:   "demo",
		FilePath: path,
		Expires:  time.Hour,
	})
	require.NoError(t, err)

	assert.Equal(t, "image.jpg", result.Key)
	assert.Equal(t, "demo/image.jpg", result.Locator)
	assert.Equal(t, "image.jpg", fs.lastKey)
	assert.Equal(t, 1, fs.uploadCalls)
	assert.Equal(t, 1, fe.calls)
	assert.Equal(t, path, fe.lastTarget.LocalPath)

	assert.Contains(t, out.String(), "SUCCESS: File uploaded to S3")
	assert.Contains(t, out.String(), "S3 Object Key: image.jpg")
	assert.Contains(t, out.String(), "s3://demo/image.jpg")
}

func TestRunPostExplicitKeyWins(t *testing.T) {
	path := writeTempFile(t, "image.jpg")
	fs := &fakeSigner{uploadPolicy: &signer.UploadPolicy{}}
	fe := &fakeExecutor{}
	d, _ := newTestDispatcher(fs, fe)

	result, err := d.RunPost(context.Background(), PostParams{
		Bucket:   "demo",
		FilePath: path,
		Key:      "photos/2026/image.jpg",
		Expires:  time.Hour,
	})
	require.NoError(t, err)
	assert.Equal(t, "photos/2026/image.jpg", result.Key)
	assert.Equal(t, "demo/photos/2026/image.jpg", result.Locator)
}

func TestRunPostMissingFileSkipsSigning(t *testing.T) {
	fs := &fakeSigner{}
	fe := &fakeExecutor{}
	d, out := newTestDispatcher(fs, fe)

	_, err := d.RunPost(context.Background(), PostParams{
		Bucket:   "demo",
		FilePath: filepath.Join(t.TempDir(), "nope.pdf"),
		Expires:  time.Hour,
	})

	require.ErrorIs(t, err, uploader.ErrFileNotFound)
	assert.Equal(t, 0, fs.uploadCalls, "no signing call should happen for a missing file")
	assert.Equal(t, 0, fe.calls)
	assert.NotContains(t, out.String(), "SUCCESS")
}

func TestRunPostSigningFailureStopsRun(t *testing.T) {
	path := writeTempFile(t, "data.bin")
	signErr := &signer.SigningError{Code: "NoSuchBucket", Message: "bucket does not exist"}
	fs := &fakeSigner{err: signErr}
	fe := &fakeExecutor{}
	d, out := newTestDispatcher(fs, fe)

	_, err := d.RunPost(context.Background(), PostParams{
		Bucket:   "demo",
		FilePath: path,
		Expires:  time.Hour,
	})

	var gotErr *signer.SigningError
	require.ErrorAs(t, err, &gotErr)
	assert.Equal(t, 0, fe.calls, "upload must not run after a signing failure")
	assert.NotContains(t, out.String(), "SUCCESS")
}

func TestRunPostUploadFailurePropagates(t *testing.T) {
	path := writeTempFile(t, "data.bin")
	fs := &fakeSigner{uploadPolicy: &signer.UploadPolicy{}}
	fe := &fakeExecutor{err: &uploader.RejectedError{StatusCode: 403, Body: "denied"}}
	d, out := newTestDispatcher(fs, fe)

	_, err := d.RunPost(context.Background(), PostParams{
		Bucket:   "demo",
		FilePath: path,
		Expires:  time.Hour,
	})

	var rejected *uploader.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, 403, rejected.StatusCode)
	assert.NotContains(t, out.String(), "SUCCESS")
}

func TestRunPostBuildsFieldsAndConditions(t *testing.T) {
	path := writeTempFile(t, "data.bin")
	fs := &fakeSigner{uploadPolicy: &signer.UploadPolicy{}}
	fe := &fakeExecutor{}
	d, _ := newTestDispatcher(fs, fe)

	_, err := d.RunPost(context.Background(), PostParams{
		Bucket:      "demo",
		FilePath:    path,
		Fields:      map[string]string{"x-amz-meta-owner": "ops"},
		ContentType: "application/octet-stream",
		MaxSize:     1024,
		Expires:     time.Hour,
	})
	require.NoError(t, err)

	assert.Equal(t, "ops", fs.lastFields["x-amz-meta-owner"])
	assert.Equal(t, "application/octet-stream", fs.lastFields["Content-Type"])
	require.Len(t, fs.lastConds, 1)
	assert.Equal(t, []interface{}{"content-length-range", int64(0), int64(1024)}, fs.lastConds[0])
}

func TestRunGet(t *testing.T) {
	fs := &fakeSigner{downloadURL: &signer.DownloadURL{
		URL:       "https://demo.s3.amazonaws.com/report.pdf?X-Amz-Expires=120",
		ExpiresIn: 120 * time.Second,
	}}
	d, out := newTestDispatcher(fs, nil)

	result, err := d.RunGet(context.Background(), GetParams{
		Bucket:  "demo",
		Key:     "report.pdf",
		Expires: 120 * time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, fs.downloadCalls)
	assert.Equal(t, "demo", fs.lastBucket)
	assert.Equal(t, "report.pdf", fs.lastKey)
	assert.Equal(t, 120*time.Second, result.ExpiresIn)

	assert.Contains(t, out.String(), "SUCCESS: Presigned GET URL generated")
	assert.Contains(t, out.String(), "URL: https://demo.s3.amazonaws.com/report.pdf")
	assert.Contains(t, out.String(), "Expires in: 120 seconds")
}

func TestRunGetSigningFailure(t *testing.T) {
	fs := &fakeSigner{err: errors.New("boom")}
	d, out := newTestDispatcher(fs, nil)

	_, err := d.RunGet(context.Background(), GetParams{
		Bucket:  "demo",
		Key:     "report.pdf",
		Expires: time.Hour,
	})
	require.Error(t, err)
	assert.NotContains(t, out.String(), "SUCCESS")
}

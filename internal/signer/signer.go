// Package signer produces time-limited signed URLs and upload policies.
// Both operations are pure functions of the session and their parameters;
// the signature is computed locally by the SDK, nothing in the bucket is
// touched.
package signer

import (
	"context"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/RiccardoMarostica/s3presign/internal/logging"
	"github.com/RiccardoMarostica/s3presign/internal/session"
)

// UploadPolicy is a signed POST policy: the endpoint URL plus the form
// fields (signature, policy document, key, and any caller-supplied fields)
// that must accompany the upload.
type UploadPolicy struct {
	URL    string
	Fields map[string]string
}

// DownloadURL is a signed GET URL together with the window it was signed for.
type DownloadURL struct {
	URL       string
	ExpiresIn time.Duration
}

// Signer signs upload policies and download URLs against one session.
type Signer struct {
	presign *s3.PresignClient
	logger  *logging.Logger
}

// New creates a Signer bound to the session's presigning client.
func New(sess *session.Session, logger *logging.Logger) *Signer {
	return &Signer{
		presign: sess.Presign(),
		logger:  logger,
	}
}

// SignUpload builds a signed POST policy scoped to exactly bucket/key.
//
// Caller-supplied fields are merged into the returned field set and mirrored
// as exact-match conditions so the provider enforces them at upload time.
// Caller-supplied conditions (e.g. ["content-length-range", 0, max]) are
// appended to the policy document as-is. expires must be positive.
func (s *Signer) SignUpload(ctx context.Context, bucket, key string, fields map[string]string, conditions []interface{}, expires time.Duration) (*UploadPolicy, error) {
	if expires <= 0 {
		return nil, &SigningError{
			Code:    "InvalidExpiration",
			Message: "expiration must be a positive duration",
		}
	}

	req, err := s.presign.PresignPostObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignPostOptions) {
		o.Expires = expires

		conds := make([]interface{}, 0, len(fields)+len(conditions))
		for _, k := range sortedKeys(fields) {
			conds = append(conds, map[string]string{k: fields[k]})
		}
		conds = append(conds, conditions...)
		if len(conds) > 0 {
			o.Conditions = conds
		}
	})
	if err != nil {
		return nil, wrapSigning(err)
	}

	policy := &UploadPolicy{
		URL:    req.URL,
		Fields: make(map[string]string, len(req.Values)+len(fields)),
	}
	for k, v := range req.Values {
		policy.Fields[k] = v
	}
	for k, v := range fields {
		policy.Fields[k] = v
	}

	s.logger.Info().
		Str("bucket", bucket).
		Str("key", key).
		Dur("expires_in", expires).
		Msg("Generated presigned POST policy")

	return policy, nil
}

// SignDownload produces a signed GET URL for bucket/key with the same
// expiration semantics as SignUpload.
func (s *Signer) SignDownload(ctx context.Context, bucket, key string, expires time.Duration) (*DownloadURL, error) {
	if expires <= 0 {
		return nil, &SigningError{
			Code:    "InvalidExpiration",
			Message: "expiration must be a positive duration",
		}
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return nil, wrapSigning(err)
	}

	s.logger.Info().
		Str("bucket", bucket).
		Str("key", key).
		Dur("expires_in", expires).
		Msg("Generated presigned GET URL")

	return &DownloadURL{
		URL:       req.URL,
		ExpiresIn: expires,
	}, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Package config holds the environment-backed settings for s3presign.
// Flags override environment values; credential resolution itself stays
// inside the AWS SDK's standard chain.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Settings is everything an invocation needs beyond its command flags.
type Settings struct {
	// Profile selects the AWS shared-config profile. Ignored when static
	// credentials are set.
	Profile string `env:"AWS_PROFILE" env-default:"default"`

	// Region overrides the region from the profile. Empty means "let the
	// profile decide", falling back to us-east-1.
	Region string `env:"AWS_REGION" env-default:""`

	// Endpoint points at an S3-compatible service (e.g. MinIO). When set,
	// path-style addressing is forced.
	Endpoint string `env:"AWS_S3_ENDPOINT" env-default:""`

	// Static credential override. When AccessKeyID and SecretAccessKey are
	// both set, the shared-config profile is bypassed entirely.
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	SessionToken    string `env:"AWS_SESSION_TOKEN" env-default:""`

	// UsePathStyle forces path-style bucket addressing.
	UsePathStyle bool `env:"AWS_S3_PATH_STYLE" env-default:"false"`

	// UploadTimeout caps the single upload attempt.
	UploadTimeout time.Duration `env:"S3PRESIGN_UPLOAD_TIMEOUT" env-default:"30s"`
}

// Load reads settings from the environment.
func Load() (*Settings, error) {
	var s Settings
	if err := cleanenv.ReadEnv(&s); err != nil {
		return nil, fmt.Errorf("failed to read environment configuration: %w", err)
	}
	return &s, nil
}

// HasStaticCredentials reports whether the key-pair override is complete.
func (s *Settings) HasStaticCredentials() bool {
	return s.AccessKeyID != "" && s.SecretAccessKey != ""
}

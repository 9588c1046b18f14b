// Package session wraps profile-based AWS authentication and produces the
// S3 clients the rest of the tool works with. Credential-chain resolution is
// delegated entirely to the AWS SDK; this package only classifies its
// failures.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/RiccardoMarostica/s3presign/internal/config"
	"github.com/RiccardoMarostica/s3presign/internal/constants"
	"github.com/RiccardoMarostica/s3presign/internal/logging"
)

// ErrProfileNotFound indicates the named shared-config profile does not exist.
var ErrProfileNotFound = errors.New("credential profile not found")

// ErrCredentialsUnavailable indicates the profile exists but resolves to no
// usable credentials.
var ErrCredentialsUnavailable = errors.New("credentials unavailable")

// Session is an authenticated handle bound to one credential profile.
// It is created once per invocation and never mutated afterwards.
type Session struct {
	presign *s3.PresignClient
	profile string
	region  string
}

// Open establishes a session for the settings' credential profile.
//
// When static credentials are present in the settings they take precedence
// and the shared-config chain is bypassed (the path used for S3-compatible
// endpoints like MinIO). Otherwise the SDK's standard chain resolves the
// profile; a missing profile maps to ErrProfileNotFound and a failed
// credential probe to ErrCredentialsUnavailable. Both are fatal, there is no
// fallback profile.
func Open(ctx context.Context, settings *config.Settings, logger *logging.Logger) (*Session, error) {
	var cfg aws.Config
	var err error

	if settings.HasStaticCredentials() {
		cfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(regionOrDefault(settings.Region)),
			awsconfig.WithCredentialsProvider(awscreds.NewStaticCredentialsProvider(
				settings.AccessKeyID,
				settings.SecretAccessKey,
				settings.SessionToken,
			)),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
	} else {
		opts := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithSharedConfigProfile(settings.Profile),
		}
		if settings.Region != "" {
			opts = append(opts, awsconfig.WithRegion(settings.Region))
		}

		cfg, err = awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			var notExist awsconfig.SharedConfigProfileNotExistError
			if errors.As(err, &notExist) {
				return nil, fmt.Errorf("profile %q: %w", settings.Profile, ErrProfileNotFound)
			}
			return nil, fmt.Errorf("failed to load AWS config for profile %q: %w", settings.Profile, err)
		}

		// Probe the chain once so a broken profile fails here, not at the
		// first signing call.
		if _, err := cfg.Credentials.Retrieve(ctx); err != nil {
			return nil, fmt.Errorf("profile %q: %v: %w", settings.Profile, err, ErrCredentialsUnavailable)
		}

		if cfg.Region == "" {
			cfg.Region = constants.DefaultRegion
		}
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if settings.Endpoint != "" {
			o.BaseEndpoint = aws.String(settings.Endpoint)
			// Custom endpoints (MinIO etc.) want path-style addressing
			o.UsePathStyle = true
		}
		if settings.UsePathStyle {
			o.UsePathStyle = true
		}
	})

	logger.Debug().
		Str("profile", settings.Profile).
		Str("region", cfg.Region).
		Msg("Storage session established")

	return &Session{
		presign: s3.NewPresignClient(client),
		profile: settings.Profile,
		region:  cfg.Region,
	}, nil
}

// Presign returns the presigning client bound to this session.
func (s *Session) Presign() *s3.PresignClient {
	return s.presign
}

// Profile returns the credential profile this session was opened with.
func (s *Session) Profile() string {
	return s.profile
}

// Region returns the resolved region.
func (s *Session) Region() string {
	return s.region
}

func regionOrDefault(region string) string {
	if region == "" {
		return constants.DefaultRegion
	}
	return region
}

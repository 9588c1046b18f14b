// Package cli provides the upload command.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/RiccardoMarostica/s3presign/internal/constants"
	"github.com/RiccardoMarostica/s3presign/internal/httpclient"
	"github.com/RiccardoMarostica/s3presign/internal/ops"
	"github.com/RiccardoMarostica/s3presign/internal/session"
	"github.com/RiccardoMarostica/s3presign/internal/signer"
	"github.com/RiccardoMarostica/s3presign/internal/uploader"
)

// newPostCmd creates the 'post' command.
func newPostCmd() *cobra.Command {
	var bucket string
	var filePath string
	var key string
	var contentType string
	var fieldPairs []string
	var maxSize int64
	var expiration int

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Upload a file through a presigned POST policy",
		Long: `Sign an upload policy for the bucket, then POST the local file through it.

The object key defaults to the file's base name. On success the resolved key
and the s3://bucket/key locator are printed.

Examples:
  # Upload a file, key defaults to image.jpg
  s3presign post --bucket my-bucket --file image.jpg

  # Upload under an explicit key with a 2 hour window
  s3presign post --bucket my-bucket --file image.jpg --key photos/image.jpg --expiration 7200

  # Constrain the policy: max 10 MB, fixed content type
  s3presign post --bucket my-bucket --file report.pdf --max-size 10485760 --content-type application/pdf

  # Prefill extra policy fields
  s3presign post --bucket my-bucket --file data.bin --field x-amz-meta-owner=ops`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := GetLogger()

			if expiration <= 0 {
				return fmt.Errorf("--expiration must be a positive number of seconds, got %d", expiration)
			}

			fields, err := parseFieldPairs(fieldPairs)
			if err != nil {
				return err
			}

			settings, err := loadSettings()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			ctx := GetContext()

			sess, err := session.Open(ctx, settings, logger)
			if err != nil {
				return fmt.Errorf("failed to open storage session: %w", err)
			}

			dispatcher := ops.New(
				signer.New(sess, logger),
				uploader.New(httpclient.New(), settings.UploadTimeout, logger),
				logger,
				cmd.OutOrStdout(),
			)

			_, err = dispatcher.RunPost(ctx, ops.PostParams{
				Bucket:      bucket,
				FilePath:    filePath,
				Key:         key,
				Fields:      fields,
				ContentType: contentType,
				MaxSize:     maxSize,
				Expires:     time.Duration(expiration) * time.Second,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "S3 bucket name (required)")
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Local file to upload (required)")
	cmd.Flags().StringVarP(&key, "key", "k", "", "S3 object key (defaults to the file's base name)")
	cmd.Flags().StringVar(&contentType, "content-type", "", "Content-Type policy field for the upload")
	cmd.Flags().StringArrayVar(&fieldPairs, "field", []string{}, "Prefilled policy field as name=value (can be specified multiple times)")
	cmd.Flags().Int64Var(&maxSize, "max-size", 0, "Maximum upload size in bytes enforced by the policy (0 = no limit)")
	cmd.Flags().IntVarP(&expiration, "expiration", "e", constants.DefaultExpirationSeconds, "Policy expiration time in seconds")
	_ = cmd.MarkFlagRequired("bucket")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// parseFieldPairs turns repeated name=value flags into a field map.
func parseFieldPairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	fields := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --field %q, expected name=value", pair)
		}
		fields[name] = value
	}
	return fields, nil
}

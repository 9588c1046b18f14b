// Package cli provides the download URL command.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/RiccardoMarostica/s3presign/internal/constants"
	"github.com/RiccardoMarostica/s3presign/internal/ops"
	"github.com/RiccardoMarostica/s3presign/internal/session"
	"github.com/RiccardoMarostica/s3presign/internal/signer"
)

// newGetCmd creates the 'get' command.
func newGetCmd() *cobra.Command {
	var bucket string
	var key string
	var expiration int

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Generate a presigned GET URL for downloading",
		Long: `Sign and print a GET URL for an object. Anyone holding the URL can
download the object until the expiration window passes.

Examples:
  # URL valid for one hour (default)
  s3presign get --bucket my-bucket --key path/to/image.jpg

  # URL valid for two minutes
  s3presign get --bucket my-bucket --key report.pdf --expiration 120`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := GetLogger()

			if expiration <= 0 {
				return fmt.Errorf("--expiration must be a positive number of seconds, got %d", expiration)
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

			// get never uploads, so no executor is wired in
			dispatcher := ops.New(signer.New(sess, logger), nil, logger, cmd.OutOrStdout())

			_, err = dispatcher.RunGet(ctx, ops.GetParams{
				Bucket:  bucket,
				Key:     key,
				Expires: time.Duration(expiration) * time.Second,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "S3 bucket name (required)")
	cmd.Flags().StringVarP(&key, "key", "k", "", "S3 object key (required)")
	cmd.Flags().IntVarP(&expiration, "expiration", "e", constants.DefaultExpirationSeconds, "URL expiration time in seconds")
	_ = cmd.MarkFlagRequired("bucket")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

// s3presign - presigned URL generator and file uploader for S3 buckets.
package main

import (
	"os"

	"github.com/RiccardoMarostica/s3presign/internal/cli"
)

// Version information
var (
	Version   = "v1.0.0"
	BuildTime = "2026-08-29"
)

func main() {
	cli.Version = Version
	cli.BuildTime = BuildTime

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

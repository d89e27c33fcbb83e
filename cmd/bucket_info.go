package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"s3backup/internal/s3client"
	"s3backup/pkg/utils"
)

var bucketInfoCmd = &cobra.Command{
	Use:   "bucket-info",
	Short: "Get comprehensive bucket information",
	Long: `Get the region, object count and total size of an S3 bucket.
The bucket name is taken from the configuration file unless overridden with --bucket flag.`,
	Example: `  # Get info for configured bucket
  s3backup bucket-info

  # Get info for specific bucket
  s3backup bucket-info --bucket my-other-bucket

  # Verbose output
  s3backup bucket-info --verbose`,
	Run: func(cmd *cobra.Command, args []string) {
		runBucketInfo(cmd)
	},
}

func runBucketInfo(cmd *cobra.Command) {
	if err := cfg.Validate(); err != nil {
		utils.WriteError(cmd.OutOrStdout(), err, "bucket-info")
		return
	}

	timeout, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	bucket := getBucketName(cmd)
	getLogger().Debug("Getting bucket information", "bucket", bucket)

	factory := s3client.NewFactory(cfg.Credential(), cfg.ApiURL)
	client, err := factory.ForRegion(ctx, cfg.Region)
	if err != nil {
		utils.WriteError(cmd.OutOrStdout(), err, "bucket-info")
		return
	}

	// Counting has to go through the bucket's own region.
	region, err := client.BucketRegion(ctx, bucket)
	if err != nil {
		utils.WriteError(cmd.OutOrStdout(), err, "bucket-info")
		return
	}
	if region != client.Region() && cfg.ApiURL == "" {
		if client, err = factory.ForRegion(ctx, region); err != nil {
			utils.WriteError(cmd.OutOrStdout(), err, "bucket-info")
			return
		}
	}

	info, err := client.GetBucketInfo(ctx, bucket)
	if err != nil {
		utils.WriteError(cmd.OutOrStdout(), err, "bucket-info")
		return
	}

	if err := utils.WriteJSON(cmd.OutOrStdout(), info); err != nil {
		utils.WriteError(cmd.OutOrStdout(), err, "bucket-info")
		return
	}

	getLogger().Debug("Bucket info retrieved successfully", "bucket", bucket)
}

func init() {
	bucketInfoCmd.Flags().Int("timeout", 300, "Timeout in seconds for the operation")
}

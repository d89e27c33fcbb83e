package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"s3backup/internal/models"
	"s3backup/internal/s3client"
	"s3backup/pkg/utils"
)

var bucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "List the buckets of the account with their regions",
	Example: `  # List every bucket
  s3backup buckets`,
	Run: func(cmd *cobra.Command, args []string) {
		runBuckets(cmd)
	},
}

func runBuckets(cmd *cobra.Command) {
	if err := cfg.Validate(); err != nil {
		utils.WriteError(cmd.OutOrStdout(), err, "buckets")
		return
	}

	timeout, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	client, err := s3client.New(ctx, cfg)
	if err != nil {
		utils.WriteError(cmd.OutOrStdout(), err, "buckets")
		return
	}

	buckets, err := client.ListBuckets(ctx)
	if err != nil {
		utils.WriteError(cmd.OutOrStdout(), err, "buckets")
		return
	}

	if err := utils.WriteJSON(cmd.OutOrStdout(), models.BucketList{Buckets: buckets, Count: len(buckets)}); err != nil {
		utils.WriteError(cmd.OutOrStdout(), err, "buckets")
	}
}

func init() {
	bucketsCmd.Flags().Int("timeout", 120, "Timeout in seconds for the operation")
}

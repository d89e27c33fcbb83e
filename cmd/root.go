package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"s3backup/config"
	"s3backup/internal/logger"
)

var (
	cfg       *config.Config
	appLogger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "s3backup",
	Short: "Mirror S3 buckets to a local directory",
	Long: `s3backup copies every object of the selected S3 buckets to a local
directory, keeping the key hierarchy, and reports the result as JSON.
Configuration is loaded from .env file or environment variables`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		appLogger = logger.New(isVerbose(cmd))
	},
}

func Execute(config *config.Config) error {
	cfg = config
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(bucketInfoCmd)
	rootCmd.AddCommand(bucketsCmd)
	rootCmd.AddCommand(backupCmd)

	rootCmd.PersistentFlags().StringP("bucket", "b", "", "Override bucket name from config")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
}

func getBucketName(cmd *cobra.Command) string {
	bucket, _ := cmd.Flags().GetString("bucket")
	if bucket != "" {
		return bucket
	}
	return cfg.BucketName
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}

func getLogger() *slog.Logger {
	if appLogger == nil {
		return slog.Default()
	}
	return appLogger
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"s3backup/internal/mirror"
	"s3backup/internal/models"
	"s3backup/internal/s3client"
	"s3backup/pkg/utils"
)

var errNoBuckets = errors.New("no buckets selected: pass bucket names, --all, or set BUCKET_NAME")

var backupCmd = &cobra.Command{
	Use:   "backup [bucket...]",
	Short: "Mirror buckets into a local directory",
	Long: `Copy every object of the selected buckets to <destination>/<bucket>/<key>.

Buckets are processed one after another. Each bucket is counted first, then
copied while a progress bar is drawn; its key tree is printed when it is done.
A bucket that lives in another region than the one it is listed under is skipped.
A failed object is reported and the copy continues with the next one.

Without arguments the bucket from --bucket or BUCKET_NAME is used.`,
	Example: `  # Mirror the configured bucket into the current directory
  s3backup backup

  # Mirror two buckets into /srv/backup
  s3backup backup photos documents --destination /srv/backup

  # Mirror every bucket of the account and zip each one
  s3backup backup --all --archive`,
	Run: func(cmd *cobra.Command, args []string) {
		runBackup(cmd, args)
	},
}

type backupOptions struct {
	Destination string
	Buckets     []string
	All         bool
	Archive     bool
}

type bucketLister interface {
	ListBuckets(ctx context.Context) ([]models.BucketDescriptor, error)
}

func runBackup(cmd *cobra.Command, args []string) {
	if err := cfg.Validate(); err != nil {
		utils.WriteError(cmd.OutOrStdout(), err, "backup")
		return
	}

	opts := backupOptions{Buckets: args}
	opts.Destination, _ = cmd.Flags().GetString("destination")
	opts.All, _ = cmd.Flags().GetBool("all")
	opts.Archive, _ = cmd.Flags().GetBool("archive")

	if opts.Destination == "" {
		opts.Destination = cfg.Destination
	}
	if opts.Destination == "" {
		opts.Destination = "."
	}
	if len(opts.Buckets) == 0 && !opts.All {
		if bucket := getBucketName(cmd); bucket != "" {
			opts.Buckets = []string{bucket}
		}
	}

	ctx := context.Background()
	factory := s3client.NewFactory(cfg.Credential(), cfg.ApiURL)
	lister, err := factory.ForRegion(ctx, cfg.Region)
	if err != nil {
		utils.WriteError(cmd.OutOrStdout(), err, "backup")
		return
	}

	result, err := executeBackup(ctx, factory, lister, utils.NewConsoleReporter(cmd.ErrOrStderr()), opts)
	if err != nil {
		utils.WriteError(cmd.OutOrStdout(), err, "backup")
		return
	}

	if err := utils.WriteJSON(cmd.OutOrStdout(), result); err != nil {
		utils.WriteError(cmd.OutOrStdout(), err, "backup")
	}
}

func executeBackup(
	ctx context.Context,
	factory mirror.ClientFactory,
	lister bucketLister,
	reporter mirror.Reporter,
	opts backupOptions,
) (*models.BackupResult, error) {
	start := time.Now()

	destination, err := filepath.Abs(opts.Destination)
	if err != nil {
		return nil, fmt.Errorf("invalid destination %s: %w", opts.Destination, err)
	}
	if err := utils.ValidatePaths([]string{destination}); err != nil {
		return nil, err
	}

	available, err := lister.ListBuckets(ctx)
	if err != nil {
		return nil, err
	}

	selection := selectBuckets(available, opts.Buckets, opts.All)
	if len(selection) == 0 {
		return nil, errNoBuckets
	}

	runID := uuid.NewString()
	logger := getLogger().With("run_id", runID)
	logger.Info("Starting backup", "destination", destination, "buckets", len(selection))

	m := mirror.New(factory, osfs.New(destination), reporter, logger)
	results := make([]models.BucketResult, 0, len(selection))
	for _, sel := range selection {
		if !sel.Listed {
			results = append(results, *m.Unlisted(sel.Bucket.Name))
			continue
		}
		results = append(results, *m.Backup(ctx, sel.Bucket))
	}

	if opts.Archive {
		archiveBuckets(results, destination, logger)
	}

	return &models.BackupResult{
		RunID:         runID,
		Destination:   destination,
		Buckets:       results,
		OperationTime: utils.FormatTime(start),
		Duration:      time.Since(start).Round(time.Millisecond).String(),
	}, nil
}

type bucketSelection struct {
	Bucket models.BucketDescriptor
	Listed bool
}

// selectBuckets resolves names against the account listing, keeping the
// order of names. Names that are not listed are kept with Listed unset.
// With all set every listed bucket is selected.
func selectBuckets(available []models.BucketDescriptor, names []string, all bool) []bucketSelection {
	if all {
		selection := make([]bucketSelection, 0, len(available))
		for _, b := range available {
			selection = append(selection, bucketSelection{Bucket: b, Listed: true})
		}
		return selection
	}

	byName := make(map[string]models.BucketDescriptor, len(available))
	for _, b := range available {
		byName[b.Name] = b
	}

	var selection []bucketSelection
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		b, ok := byName[name]
		if !ok {
			b = models.BucketDescriptor{Name: name}
		}
		selection = append(selection, bucketSelection{Bucket: b, Listed: ok})
	}
	return selection
}

func archiveBuckets(results []models.BucketResult, destination string, logger *slog.Logger) {
	for i := range results {
		r := &results[i]
		if r.Outcome != models.OutcomeCompleted {
			continue
		}

		info, err := utils.ArchiveDirectory(filepath.Join(destination, r.Bucket), destination)
		if err != nil {
			logger.Error("Failed to archive bucket", "bucket", r.Bucket, "error", err)
			continue
		}
		r.ArchivePath = info.ArchivePath
		logger.Info("Bucket archived",
			"bucket", r.Bucket,
			"archive", info.ArchivePath,
			"size", utils.FormatBytes(info.CompressedSize),
		)
	}
}

func init() {
	backupCmd.Flags().StringP("destination", "d", "", "Destination directory (default: DESTINATION or current directory)")
	backupCmd.Flags().Bool("all", false, "Mirror every bucket of the account")
	backupCmd.Flags().Bool("archive", false, "Zip each completed bucket directory")
}

// Package mirror copies whole buckets to a local directory tree, one bucket
// and one object at a time.
package mirror

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-git/go-billy/v5"

	"s3backup/internal/models"
	"s3backup/internal/progress"
	"s3backup/internal/s3client"
	"s3backup/internal/tree"
	"s3backup/pkg/utils"
)

// ClientFactory hands out a storage client for the region a bucket lives in.
type ClientFactory interface {
	ForRegion(ctx context.Context, region string) (*s3client.Client, error)
}

// Reporter receives progress events while a bucket is copied and the
// result once it is finished.
type Reporter interface {
	Progress(progress.Event)
	BucketDone(*models.BucketResult)
}

type Mirror struct {
	factory    ClientFactory
	fs         billy.Filesystem
	downloader *Downloader
	reporter   Reporter
	logger     *slog.Logger
}

func New(factory ClientFactory, fs billy.Filesystem, reporter Reporter, logger *slog.Logger) *Mirror {
	if reporter == nil {
		reporter = nopReporter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Mirror{
		factory:    factory,
		fs:         fs,
		downloader: NewDownloader(fs),
		reporter:   reporter,
		logger:     logger,
	}
}

// Run copies buckets in order. Bucket N+1 is started only after bucket N has
// been reported. A failing bucket never stops the run.
func (m *Mirror) Run(ctx context.Context, buckets []models.BucketDescriptor) []models.BucketResult {
	results := make([]models.BucketResult, 0, len(buckets))
	for _, bucket := range buckets {
		result := m.Backup(ctx, bucket)
		results = append(results, *result)
	}
	return results
}

// Backup copies a single bucket and reports its result.
func (m *Mirror) Backup(ctx context.Context, bucket models.BucketDescriptor) *models.BucketResult {
	start := time.Now()
	logger := m.logger.With("bucket", bucket.Name, "region", bucket.Region)

	result := &models.BucketResult{
		Bucket: bucket.Name,
		Region: bucket.Region,
	}

	m.backup(ctx, bucket, result, logger)

	result.DownloadedHuman = utils.FormatBytes(result.DownloadedBytes)
	result.Duration = time.Since(start).Round(time.Millisecond).String()

	switch result.Outcome {
	case models.OutcomeCompleted:
		logger.Info("Bucket copied", "objects", result.ProcessedObjects, "bytes", result.DownloadedBytes)
	case models.OutcomeCompletedWithError:
		logger.Warn("Bucket copied with errors", "objects", result.ProcessedObjects, "failures", len(result.Failures))
	case models.OutcomeSkippedWrongRegion:
		logger.Warn("Bucket skipped", "error", result.Error)
	default:
		logger.Error("Bucket aborted", "error", result.Error)
	}

	m.reporter.BucketDone(result)
	return result
}

// Unlisted reports a requested bucket that the account listing does not contain.
func (m *Mirror) Unlisted(name string) *models.BucketResult {
	result := &models.BucketResult{
		Bucket:          name,
		Outcome:         models.OutcomeAborted,
		Error:           newError(ErrUnavailable, "select", name, "", errNotListed).Error(),
		DownloadedHuman: utils.FormatBytes(0),
		Duration:        time.Duration(0).String(),
	}
	m.logger.Error("Bucket aborted", "bucket", name, "error", result.Error)
	m.reporter.BucketDone(result)
	return result
}

func (m *Mirror) backup(ctx context.Context, bucket models.BucketDescriptor, result *models.BucketResult, logger *slog.Logger) {
	root, err := BucketDir(bucket.Name)
	if err != nil {
		abort(result, newError(ErrFilesystem, "resolve", bucket.Name, "", err))
		return
	}

	client, err := m.factory.ForRegion(ctx, bucket.Region)
	if err != nil {
		abort(result, newError(ErrUnavailable, "connect", bucket.Name, "", err))
		return
	}

	if err := client.CheckAvailability(ctx, bucket.Name); err != nil {
		if errors.Is(err, ErrRegionMismatch) {
			result.Outcome = models.OutcomeSkippedWrongRegion
			result.Error = err.Error()
			return
		}
		abort(result, newError(ErrUnavailable, "check", bucket.Name, "", err))
		return
	}

	total, totalBytes, err := client.Count(ctx, bucket.Name)
	if err != nil {
		abort(result, newError(ErrListing, "count", bucket.Name, "", err))
		return
	}
	result.TotalObjects = total
	result.TotalSizeBytes = totalBytes
	logger.Debug("Bucket counted", "objects", total, "bytes", totalBytes)

	if err := m.fs.MkdirAll(root, dirPerm); err != nil {
		abort(result, newError(ErrFilesystem, "mkdir", bucket.Name, "", err))
		return
	}
	result.LocalPath = m.fs.Join(m.fs.Root(), root)

	acc := progress.NewAccumulator(bucket.Name, m.reporter.Progress)
	acc.Start(total, totalBytes)

	keys := tree.New()
	defer func() {
		acc.Finish()
		result.Tree = keys.Paths()
	}()

	pages := client.Pages(bucket.Name)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			abort(result, newError(ErrListing, "list", bucket.Name, "", err))
			return
		}

		for _, obj := range page.Objects {
			if err := ctx.Err(); err != nil {
				abort(result, newError(ErrTransfer, "copy", bucket.Name, obj.Key, err))
				return
			}

			keys.Add(obj)
			written, err := m.downloader.Download(ctx, client, bucket.Name, obj)
			result.ProcessedObjects++
			acc.Advance(1, written)

			if err != nil {
				logger.Warn("Object failed", "key", obj.Key, "error", err)
				result.Failures = append(result.Failures, models.ObjectFailure{Key: obj.Key, Error: err.Error()})
				continue
			}

			if !obj.IsDirectory() {
				result.DownloadedObjects++
				result.DownloadedBytes += written
				logger.Debug("Object copied", "key", obj.Key, "bytes", written)
			}
		}
	}

	result.Outcome = models.OutcomeCompleted
	if len(result.Failures) > 0 {
		result.Outcome = models.OutcomeCompletedWithError
	}
}

func abort(result *models.BucketResult, err error) {
	result.Outcome = models.OutcomeAborted
	result.Error = err.Error()
}

type nopReporter struct{}

func (nopReporter) Progress(progress.Event)         {}
func (nopReporter) BucketDone(*models.BucketResult) {}

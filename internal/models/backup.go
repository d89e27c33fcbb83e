package models

import "time"

type Outcome string

const (
	OutcomeCompleted          Outcome = "completed"
	OutcomeCompletedWithError Outcome = "completed_with_errors"
	OutcomeSkippedWrongRegion Outcome = "skipped_wrong_region"
	OutcomeAborted            Outcome = "aborted"
)

type ObjectFailure struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

type BucketResult struct {
	Bucket            string          `json:"bucket"`
	Region            string          `json:"region"`
	Outcome           Outcome         `json:"outcome"`
	LocalPath         string          `json:"local_path,omitempty"`
	TotalObjects      int64           `json:"total_objects"`
	TotalSizeBytes    int64           `json:"total_size_bytes"`
	ProcessedObjects  int64           `json:"processed_objects"`
	DownloadedObjects int64           `json:"downloaded_objects"`
	DownloadedBytes   int64           `json:"downloaded_bytes"`
	DownloadedHuman   string          `json:"downloaded_human"`
	Failures          []ObjectFailure `json:"failures,omitempty"`
	Tree              []string        `json:"-"`
	Error             string          `json:"error,omitempty"`
	ArchivePath       string          `json:"archive_path,omitempty"`
	Duration          string          `json:"duration"`
}

type BackupResult struct {
	RunID         string         `json:"run_id"`
	Destination   string         `json:"destination"`
	Buckets       []BucketResult `json:"buckets"`
	OperationTime string         `json:"operation_time"`
	Duration      string         `json:"duration"`
}

type ArchiveInfo struct {
	ArchivePath      string    `json:"archive_path"`
	OriginalPaths    []string  `json:"original_paths"`
	CompressedSize   int64     `json:"compressed_size"`
	OriginalSize     int64     `json:"original_size"`
	CompressionRatio float64   `json:"compression_ratio"`
	CreatedAt        time.Time `json:"created_at"`
}

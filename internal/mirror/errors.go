package mirror

import (
	"errors"
	"fmt"

	"s3backup/internal/s3client"
)

var (
	// ErrRegionMismatch marks a bucket that must be reached through another region.
	ErrRegionMismatch = s3client.ErrRegionMismatch
	// ErrUnavailable marks a bucket whose client or availability check failed for another reason.
	ErrUnavailable = errors.New("bucket unavailable")
	// ErrListing marks a failed listing page. The rest of the bucket is skipped.
	ErrListing = errors.New("listing failed")
	// ErrTransfer marks a single object that could not be copied.
	ErrTransfer = errors.New("transfer failed")
	// ErrFilesystem marks a local write failure. It also matches ErrTransfer.
	ErrFilesystem = errors.New("filesystem failure")

	errNotListed = errors.New("not in the account bucket listing")
)

// Error carries the bucket and key an operation failed on.
type Error struct {
	Kind   error
	Op     string
	Bucket string
	Key    string
	Err    error
}

func (e *Error) Error() string {
	target := e.Bucket
	if e.Key != "" {
		target += "/" + e.Key
	}
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, target, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, target, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	if e.Kind == nil {
		return false
	}
	if target == e.Kind {
		return true
	}
	return e.Kind == ErrFilesystem && target == ErrTransfer
}

func newError(kind error, op, bucket, key string, err error) *Error {
	return &Error{Kind: kind, Op: op, Bucket: bucket, Key: key, Err: err}
}

package mirror

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"

	"s3backup/internal/models"
)

const (
	copyBufferSize = 32 * 1024
	dirPerm        = os.FileMode(0o755)
)

// ObjectOpener streams the content of one object.
type ObjectOpener interface {
	OpenObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Downloader writes objects below <root>/<bucket>/<key> of a billy filesystem.
type Downloader struct {
	fs  billy.Filesystem
	buf []byte
}

func NewDownloader(fs billy.Filesystem) *Downloader {
	return &Downloader{fs: fs, buf: make([]byte, copyBufferSize)}
}

// Download mirrors obj and returns the number of bytes written. Directory
// markers only create the directory. A failed copy leaves no file behind.
func (d *Downloader) Download(ctx context.Context, src ObjectOpener, bucket string, obj models.Object) (int64, error) {
	local, err := LocalPath(bucket, obj.Key)
	if err != nil {
		return 0, newError(ErrFilesystem, "resolve", bucket, obj.Key, err)
	}

	if obj.IsDirectory() {
		if err := d.fs.MkdirAll(local, dirPerm); err != nil {
			return 0, newError(ErrFilesystem, "mkdir", bucket, obj.Key, err)
		}
		return 0, nil
	}

	if err := d.fs.MkdirAll(path.Dir(local), dirPerm); err != nil {
		return 0, newError(ErrFilesystem, "mkdir", bucket, obj.Key, err)
	}

	body, err := src.OpenObject(ctx, bucket, obj.Key)
	if err != nil {
		return 0, newError(ErrTransfer, "get", bucket, obj.Key, err)
	}
	defer body.Close()

	file, err := d.fs.Create(local)
	if err != nil {
		return 0, newError(ErrFilesystem, "create", bucket, obj.Key, err)
	}

	written, err := io.CopyBuffer(file, body, d.buf)
	if err != nil {
		_ = file.Close()
		_ = d.fs.Remove(local)
		return 0, newError(ErrTransfer, "copy", bucket, obj.Key, err)
	}

	if err := file.Close(); err != nil {
		_ = d.fs.Remove(local)
		return 0, newError(ErrFilesystem, "close", bucket, obj.Key, err)
	}

	return written, nil
}

// LocalPath maps a key to its slash-separated path below the bucket directory.
// Leading separators are dropped, so "/" is the bucket directory itself.
// Keys that would escape the bucket directory are rejected.
func LocalPath(bucket, key string) (string, error) {
	dir, err := BucketDir(bucket)
	if err != nil {
		return "", err
	}

	rel := strings.TrimLeft(key, models.KeySeparator)
	rel = strings.TrimSuffix(rel, models.KeySeparator)
	if rel == "" && strings.HasSuffix(key, models.KeySeparator) {
		return dir, nil
	}
	if !filepath.IsLocal(filepath.FromSlash(rel)) {
		return "", &os.PathError{Op: "resolve", Path: key, Err: os.ErrInvalid}
	}

	return path.Join(dir, rel), nil
}

// BucketDir returns the directory a bucket is mirrored into.
func BucketDir(bucket string) (string, error) {
	if !filepath.IsLocal(bucket) || strings.Contains(bucket, models.KeySeparator) {
		return "", &os.PathError{Op: "resolve", Path: bucket, Err: os.ErrInvalid}
	}
	return bucket, nil
}

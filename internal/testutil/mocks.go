// Package testutil provides an S3 API mock and listing fixtures for tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// MockS3Client implements the storage API used by s3client through optional function fields.
// Unset fields return empty successful responses. Calls are counted per operation.
type MockS3Client struct {
	ListBucketsFunc       func(context.Context, *s3.ListBucketsInput, ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	GetBucketLocationFunc func(context.Context, *s3.GetBucketLocationInput, ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error)
	ListObjectsV2Func     func(context.Context, *s3.ListObjectsV2Input, ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObjectFunc         func(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockS3Client) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[op]++
}

// Calls returns how many times op (e.g. "GetObject") was invoked.
func (m *MockS3Client) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *MockS3Client) ListBuckets(
	ctx context.Context,
	params *s3.ListBucketsInput,
	optFns ...func(*s3.Options),
) (*s3.ListBucketsOutput, error) {
	m.record("ListBuckets")
	if m.ListBucketsFunc != nil {
		return m.ListBucketsFunc(ctx, params, optFns...)
	}
	return &s3.ListBucketsOutput{}, nil
}

func (m *MockS3Client) GetBucketLocation(
	ctx context.Context,
	params *s3.GetBucketLocationInput,
	optFns ...func(*s3.Options),
) (*s3.GetBucketLocationOutput, error) {
	m.record("GetBucketLocation")
	if m.GetBucketLocationFunc != nil {
		return m.GetBucketLocationFunc(ctx, params, optFns...)
	}
	return &s3.GetBucketLocationOutput{}, nil
}

func (m *MockS3Client) ListObjectsV2(
	ctx context.Context,
	params *s3.ListObjectsV2Input,
	optFns ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	m.record("ListObjectsV2")
	if m.ListObjectsV2Func != nil {
		return m.ListObjectsV2Func(ctx, params, optFns...)
	}
	return &s3.ListObjectsV2Output{}, nil
}

func (m *MockS3Client) GetObject(
	ctx context.Context,
	params *s3.GetObjectInput,
	optFns ...func(*s3.Options),
) (*s3.GetObjectOutput, error) {
	m.record("GetObject")
	if m.GetObjectFunc != nil {
		return m.GetObjectFunc(ctx, params, optFns...)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(""))}, nil
}

// PagedListing serves keys in pages of pageSize through continuation tokens
// ("page-1", "page-2", ...). Requests with MaxKeys set get at most that many
// items and no token. Sizes are the key lengths unless overridden in Sizes.
type PagedListing struct {
	Keys     []string
	PageSize int
	Sizes    map[string]int64
}

func (l PagedListing) ListObjectsV2(
	_ context.Context,
	params *s3.ListObjectsV2Input,
	_ ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	size := l.PageSize
	if size <= 0 {
		size = 1000
	}

	if params.MaxKeys != nil {
		n := min(int(*params.MaxKeys), len(l.Keys))
		return &s3.ListObjectsV2Output{Contents: l.objects(l.Keys[:n]), IsTruncated: aws.Bool(false)}, nil
	}

	start := 0
	if params.ContinuationToken != nil {
		var page int
		if _, err := fmt.Sscanf(*params.ContinuationToken, "page-%d", &page); err != nil {
			return nil, fmt.Errorf("bad continuation token %q", *params.ContinuationToken)
		}
		start = page * size
	}

	end := min(start+size, len(l.Keys))
	out := &s3.ListObjectsV2Output{
		Contents:    l.objects(l.Keys[start:end]),
		IsTruncated: aws.Bool(end < len(l.Keys)),
	}
	if end < len(l.Keys) {
		out.NextContinuationToken = aws.String(fmt.Sprintf("page-%d", end/size))
	}
	return out, nil
}

func (l PagedListing) objects(keys []string) []types.Object {
	objs := make([]types.Object, 0, len(keys))
	for _, k := range keys {
		size := int64(len(k))
		if s, ok := l.Sizes[k]; ok {
			size = s
		}
		objs = append(objs, types.Object{Key: aws.String(k), Size: aws.Int64(size)})
	}
	return objs
}

// Body returns a GetObject response streaming content.
func Body(content string) *s3.GetObjectOutput {
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(content)),
		ContentLength: aws.Int64(int64(len(content))),
	}
}

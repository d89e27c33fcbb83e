package s3client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"s3backup/internal/testutil"
)

func TestNormalizeRegion(t *testing.T) {
	tests := []struct {
		constraint string
		want       string
	}{
		{"", "us-east-1"},
		{"EU", "eu-west-1"},
		{"eu-central-1", "eu-central-1"},
		{"ap-southeast-2", "ap-southeast-2"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeRegion(tt.constraint))
		})
	}
}

func TestListBuckets(t *testing.T) {
	created := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	locations := map[string]types.BucketLocationConstraint{
		"alpha": "",
		"beta":  types.BucketLocationConstraintEu,
		"gamma": types.BucketLocationConstraintApSoutheast2,
	}

	mock := &testutil.MockS3Client{
		ListBucketsFunc: func(ctx context.Context, input *s3.ListBucketsInput, opts ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
			return &s3.ListBucketsOutput{
				Buckets: []types.Bucket{
					{Name: aws.String("alpha"), CreationDate: aws.Time(created)},
					{Name: aws.String("beta")},
					{Name: aws.String("gamma")},
				},
			}, nil
		},
		GetBucketLocationFunc: func(ctx context.Context, input *s3.GetBucketLocationInput, opts ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error) {
			return &s3.GetBucketLocationOutput{LocationConstraint: locations[aws.ToString(input.Bucket)]}, nil
		},
	}
	client := NewWithClient(mock, "us-east-1")

	buckets, err := client.ListBuckets(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 3)

	assert.Equal(t, "alpha", buckets[0].Name)
	assert.Equal(t, "us-east-1", buckets[0].Region)
	assert.Equal(t, created, buckets[0].CreationDate)
	assert.Equal(t, "eu-west-1", buckets[1].Region)
	assert.Equal(t, "ap-southeast-2", buckets[2].Region)
	assert.Equal(t, 3, mock.Calls("GetBucketLocation"))
}

func TestListBuckets_Errors(t *testing.T) {
	t.Run("listing fails", func(t *testing.T) {
		mock := &testutil.MockS3Client{
			ListBucketsFunc: func(ctx context.Context, input *s3.ListBucketsInput, opts ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
				return nil, errors.New("AccessDenied")
			},
		}
		_, err := NewWithClient(mock, "us-east-1").ListBuckets(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list buckets")
	})

	t.Run("location fails", func(t *testing.T) {
		mock := &testutil.MockS3Client{
			ListBucketsFunc: func(ctx context.Context, input *s3.ListBucketsInput, opts ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
				return &s3.ListBucketsOutput{Buckets: []types.Bucket{
					{Name: aws.String("locked")},
					{Name: aws.String("wanted")},
				}}, nil
			},
			GetBucketLocationFunc: func(ctx context.Context, input *s3.GetBucketLocationInput, opts ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error) {
				if aws.ToString(input.Bucket) == "locked" {
					return nil, errors.New("AccessDenied")
				}
				return &s3.GetBucketLocationOutput{LocationConstraint: types.BucketLocationConstraintEuWest2}, nil
			},
		}
		buckets, err := NewWithClient(mock, "us-west-1").ListBuckets(context.Background())
		require.NoError(t, err)
		require.Len(t, buckets, 2)
		assert.Equal(t, "locked", buckets[0].Name)
		assert.Equal(t, "us-west-1", buckets[0].Region)
		assert.Equal(t, "wanted", buckets[1].Name)
		assert.Equal(t, "eu-west-2", buckets[1].Region)
	})
}

func TestGetBucketInfo_Mocked(t *testing.T) {
	listing := testutil.PagedListing{
		Keys:     []string{"a/", "a/one.bin", "a/two.bin", "three.bin"},
		PageSize: 2,
		Sizes:    map[string]int64{"a/": 0, "a/one.bin": 1024, "a/two.bin": 512, "three.bin": 0},
	}
	mock := &testutil.MockS3Client{
		ListObjectsV2Func: listing.ListObjectsV2,
		GetBucketLocationFunc: func(ctx context.Context, input *s3.GetBucketLocationInput, opts ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error) {
			return &s3.GetBucketLocationOutput{LocationConstraint: types.BucketLocationConstraintEuWest2}, nil
		},
	}

	info, err := NewWithClient(mock, "eu-west-2").GetBucketInfo(context.Background(), "media")
	require.NoError(t, err)
	assert.Equal(t, "media", info.BucketName)
	assert.Equal(t, "eu-west-2", info.Region)
	assert.Equal(t, int64(4), info.ObjectCount)
	assert.Equal(t, int64(1536), info.TotalSizeBytes)
	assert.Equal(t, "1.5 KB", info.TotalSizeHuman)
}

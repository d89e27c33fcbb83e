package s3client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"s3backup/internal/models"
	"s3backup/pkg/utils"
)

const defaultRegion = "us-east-1"

// ListBuckets returns every bucket of the account with its region. A bucket
// whose location cannot be read is listed under the client's region.
func (c *Client) ListBuckets(ctx context.Context) ([]models.BucketDescriptor, error) {
	var buckets []models.BucketDescriptor

	paginator := s3.NewListBucketsPaginator(c.s3Client, &s3.ListBucketsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list buckets: %w", err)
		}

		for _, bucket := range page.Buckets {
			name := aws.ToString(bucket.Name)
			region, err := c.BucketRegion(ctx, name)
			if err != nil {
				slog.Warn("Using client region for bucket", "bucket", name, "region", c.region, "error", err)
				region = c.region
			}
			buckets = append(buckets, models.BucketDescriptor{
				Name:         name,
				Region:       region,
				CreationDate: aws.ToTime(bucket.CreationDate),
			})
		}
	}

	return buckets, nil
}

func (c *Client) BucketRegion(ctx context.Context, bucket string) (string, error) {
	resp, err := c.s3Client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get bucket location for %s: %w", bucket, err)
	}
	return normalizeRegion(string(resp.LocationConstraint)), nil
}

func (c *Client) GetBucketInfo(ctx context.Context, bucket string) (*models.BucketInfo, error) {
	region, err := c.BucketRegion(ctx, bucket)
	if err != nil {
		return nil, err
	}

	objectCount, totalSize, err := c.Count(ctx, bucket)
	if err != nil {
		return nil, err
	}

	return &models.BucketInfo{
		BucketName:     bucket,
		Region:         region,
		ObjectCount:    objectCount,
		TotalSizeBytes: totalSize,
		TotalSizeHuman: utils.FormatBytes(totalSize),
		APIEndpoint:    c.endpoint,
	}, nil
}

// An empty location constraint means us-east-1; "EU" is the legacy name of eu-west-1.
func normalizeRegion(constraint string) string {
	switch constraint {
	case "":
		return defaultRegion
	case "EU":
		return "eu-west-1"
	default:
		return constraint
	}
}

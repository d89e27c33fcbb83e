package s3client

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"s3backup/internal/models"
)

// PageIterator walks a bucket listing page by page. Each request carries the
// continuation token of the previous page; the walk ends when a page is not
// truncated or has no token.
type PageIterator struct {
	client    API
	bucket    string
	token     *string
	firstPage bool
	more      bool
}

func (c *Client) Pages(bucket string) *PageIterator {
	return &PageIterator{
		client:    c.s3Client,
		bucket:    bucket,
		firstPage: true,
	}
}

func (p *PageIterator) HasMorePages() bool {
	return p.firstPage || p.more
}

func (p *PageIterator) NextPage(ctx context.Context) (models.ListingPage, error) {
	if !p.HasMorePages() {
		return models.ListingPage{}, fmt.Errorf("no more pages for bucket %s", p.bucket)
	}

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(p.bucket),
	}
	if !p.firstPage {
		input.ContinuationToken = p.token
	}

	output, err := p.client.ListObjectsV2(ctx, input)
	if err != nil {
		return models.ListingPage{}, fmt.Errorf("failed to list objects: %w", err)
	}

	page := models.ListingPage{
		Objects:           make([]models.Object, 0, len(output.Contents)),
		IsTruncated:       aws.ToBool(output.IsTruncated),
		ContinuationToken: aws.ToString(output.NextContinuationToken),
	}
	for _, obj := range output.Contents {
		page.Objects = append(page.Objects, models.NewObject(aws.ToString(obj.Key), aws.ToInt64(obj.Size)))
	}

	p.firstPage = false
	p.more = page.IsTruncated && page.ContinuationToken != ""
	p.token = output.NextContinuationToken

	return page, nil
}

// Count walks the whole listing once and returns the object count and total size.
func (c *Client) Count(ctx context.Context, bucket string) (objects int64, size int64, err error) {
	pages := c.Pages(bucket)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return objects, size, err
		}
		objects += int64(len(page.Objects))
		for _, obj := range page.Objects {
			size += obj.Size
		}
	}
	return objects, size, nil
}

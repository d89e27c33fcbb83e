package s3client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// ErrRegionMismatch reports a bucket that lives outside the client's region.
var ErrRegionMismatch = errors.New("bucket is not reachable from the configured region")

var redirectCodes = map[string]bool{
	"PermanentRedirect":            true,
	"AuthorizationHeaderMalformed": true,
	"IncorrectEndpoint":            true,
}

// CheckAvailability sends a one-item listing to find out whether bucket can be
// enumerated with this client. A redirect answer is reported as ErrRegionMismatch.
func (c *Client) CheckAvailability(ctx context.Context, bucket string) error {
	_, err := c.s3Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		MaxKeys: aws.Int32(1),
	})
	if err == nil {
		return nil
	}
	if IsRedirect(err) {
		return fmt.Errorf("%w: bucket %s, region %s: %w", ErrRegionMismatch, bucket, c.region, err)
	}
	return fmt.Errorf("bucket %s is not available: %w", bucket, err)
}

// IsRedirect reports whether err is the storage API telling us to use another endpoint.
func IsRedirect(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && redirectCodes[apiErr.ErrorCode()] {
		return true
	}

	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) && respErr.Response != nil && respErr.HTTPStatusCode() == http.StatusMovedPermanently {
		return true
	}
	return false
}

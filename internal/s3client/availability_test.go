package s3client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"s3backup/internal/testutil"
)

func statusError(code int) error {
	return &smithyhttp.ResponseError{
		Response: &smithyhttp.Response{Response: &http.Response{StatusCode: code}},
		Err:      errors.New("http response error"),
	}
}

func TestCheckAvailability(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantErr      bool
		wantMismatch bool
	}{
		{name: "available", err: nil},
		{name: "permanent redirect", err: &smithy.GenericAPIError{Code: "PermanentRedirect"}, wantErr: true, wantMismatch: true},
		{name: "authorization header malformed", err: &smithy.GenericAPIError{Code: "AuthorizationHeaderMalformed"}, wantErr: true, wantMismatch: true},
		{name: "incorrect endpoint", err: &smithy.GenericAPIError{Code: "IncorrectEndpoint"}, wantErr: true, wantMismatch: true},
		{name: "moved permanently", err: statusError(http.StatusMovedPermanently), wantErr: true, wantMismatch: true},
		{name: "access denied", err: &smithy.GenericAPIError{Code: "AccessDenied"}, wantErr: true},
		{name: "server error", err: statusError(http.StatusInternalServerError), wantErr: true},
		{name: "network failure", err: errors.New("dial tcp: i/o timeout"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &testutil.MockS3Client{
				ListObjectsV2Func: func(ctx context.Context, input *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
					assert.Equal(t, "backups", aws.ToString(input.Bucket))
					require.NotNil(t, input.MaxKeys)
					assert.Equal(t, int32(1), *input.MaxKeys)
					return &s3.ListObjectsV2Output{}, tt.err
				},
			}
			client := NewWithClient(mock, "us-east-1")

			err := client.CheckAvailability(context.Background(), "backups")
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantMismatch, errors.Is(err, ErrRegionMismatch))
			assert.True(t, errors.Is(err, tt.err))
			assert.Equal(t, 1, mock.Calls("ListObjectsV2"))
		})
	}
}

func TestIsRedirect_WrappedError(t *testing.T) {
	err := errors.Join(errors.New("operation error S3: ListObjectsV2"), &smithy.GenericAPIError{Code: "PermanentRedirect"})
	assert.True(t, IsRedirect(err))
	assert.False(t, IsRedirect(errors.New("PermanentRedirect")))
	assert.False(t, IsRedirect(nil))
}

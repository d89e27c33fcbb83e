package s3client

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appConfig "s3backup/config"
	"s3backup/internal/models"
)

const (
	ConnectTimeout = 5 * time.Second
	SocketTimeout  = 5 * time.Second
	MaxAttempts    = 3
)

type Client struct {
	s3Client API
	region   string
	endpoint string
}

// Factory builds one client per region from a shared, read-only credential.
type Factory struct {
	cred     models.Credential
	endpoint string
}

func NewFactory(cred models.Credential, endpoint string) *Factory {
	return &Factory{cred: cred, endpoint: endpoint}
}

// New returns a client for the region configured in cfg.
func New(ctx context.Context, cfg *appConfig.Config) (*Client, error) {
	return NewFactory(cfg.Credential(), cfg.ApiURL).ForRegion(ctx, cfg.Region)
}

// NewWithClient wraps an existing API implementation, mainly for tests.
func NewWithClient(api API, region string) *Client {
	return &Client{s3Client: api, region: region}
}

// ForRegion creates a client bound to region with bounded connect/idle
// timeouts and a fixed transport retry budget.
func (f *Factory) ForRegion(ctx context.Context, region string) (*Client, error) {
	if region == "" {
		region = f.cred.Region
	}

	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			f.cred.AccessKeyID,
			f.cred.SecretAccessKey,
			"",
		)),
		config.WithHTTPClient(newHTTPClient()),
		config.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(retry.NewStandard(), MaxAttempts)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Client *s3.Client
	if f.endpoint != "" {
		s3Client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(f.endpoint)
			o.UsePathStyle = true
		})
	} else {
		s3Client = s3.NewFromConfig(awsConfig)
	}

	return &Client{
		s3Client: s3Client,
		region:   region,
		endpoint: f.endpoint,
	}, nil
}

func (c *Client) Region() string {
	return c.region
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// OpenObject starts reading key. The caller closes the returned body.
func (c *Client) OpenObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	out, err := c.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	if out.Body == nil {
		return io.NopCloser(http.NoBody), nil
	}
	return out.Body, nil
}

func newHTTPClient() *awshttp.BuildableClient {
	dialer := &net.Dialer{Timeout: ConnectTimeout}

	return awshttp.NewBuildableClient().WithTransportOptions(func(tr *http.Transport) {
		tr.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			return &idleTimeoutConn{Conn: conn, timeout: SocketTimeout}, nil
		}
		tr.TLSHandshakeTimeout = ConnectTimeout
		tr.ResponseHeaderTimeout = SocketTimeout
	})
}

// idleTimeoutConn fails a read or write that makes no progress within timeout.
type idleTimeoutConn struct {
	net.Conn
	timeout time.Duration
}

func (c *idleTimeoutConn) Read(b []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(b)
}

func (c *idleTimeoutConn) Write(b []byte) (int, error) {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Write(b)
}

// Package s3 provides client initialization and configuration.
//
// The Client provides a high-level interface for interacting with Amazon S3,
// supporting buffered and streamed uploads, downloads, listing, batch
// delete and copy, multipart session control, and presigned URL issuance.
// Every backend request flows through a single internal gateway, so failure
// classification is uniform across operations.
package s3

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"

	"github.com/halcyon-cloud/s3/errors"
	"github.com/halcyon-cloud/s3/internal/gateway"
	"github.com/halcyon-cloud/s3/internal/s3api"
	"github.com/halcyon-cloud/s3/s3types"
)

// Defaults applied when the corresponding option is not supplied.
const (
	defaultMaxRetries  = 3
	defaultConcurrency = 5
	defaultPartSize    = 8 * 1024 * 1024 // 8MB
)

// Client represents an S3 client with configurable options.
// It provides thread-safe access to S3 operations; all backend calls are
// routed through one gateway that maps SDK failures onto this module's
// error taxonomy.
type Client struct {
	// gw is the single boundary every backend request crosses
	gw *gateway.Gateway

	// region the client resolved at construction; used for bucket placement
	region string

	// partSize and concurrency tune streamed multipart transfers
	partSize    int64
	concurrency int

	// mu protects concurrent access to client configuration
	mu sync.RWMutex

	// fs is the filesystem abstraction for file operations
	fs fs.Filesystem
}

// New creates a new S3 client with the provided options.
// It loads AWS credentials using the default credential chain
// and applies the specified configuration options.
//
// Example:
//
//	client, err := s3.New(
//	    s3.WithRegion("us-west-2"),
//	    s3.WithMaxRetries(3),
//	)
func New(opts ...s3types.Option) (*Client, error) {
	// Apply functional options first to check for custom config
	clientCfg := &s3types.ClientConfig{
		MaxRetries:     defaultMaxRetries,
		Timeout:        0, // No timeout by default
		Concurrency:    defaultConcurrency,
		PartSize:       defaultPartSize,
		ForcePathStyle: false,
	}

	for _, opt := range opts {
		opt(clientCfg)
	}

	// Start with default AWS configuration or use custom config
	var cfg aws.Config
	var err error

	if clientCfg.CustomAWSConfig != nil {
		cfg = *clientCfg.CustomAWSConfig
	} else {
		cfg, err = config.LoadDefaultConfig(context.Background())
		if err != nil {
			return nil, errors.NewError("client initialization", err)
		}
	}

	// Apply region from options if specified, otherwise ensure a region is set
	if clientCfg.Region != "" {
		cfg.Region = clientCfg.Region
	} else if cfg.Region == "" {
		cfg.Region = "us-east-1" // AWS default region
	}

	if clientCfg.MaxRetries > 0 {
		cfg.RetryMaxAttempts = clientCfg.MaxRetries
	}

	// Create S3 client with options
	var s3Opts []func(*s3.Options)

	// Add path style option if needed
	if clientCfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	// Point at a custom endpoint (LocalStack, MinIO) when one is configured
	if clientCfg.Endpoint != "" {
		endpoint := clientCfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	// Handle custom HTTP client for timeout
	if clientCfg.Timeout > 0 {
		httpClient := &http.Client{
			Timeout: clientCfg.Timeout,
		}
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	s3Client := s3.NewFromConfig(cfg, s3Opts...)
	presignClient := s3.NewPresignClient(s3Client)

	// Initialize filesystem - use provided one or default to OS filesystem
	var filesystem fs.Filesystem
	if clientCfg.Filesystem != nil {
		filesystem = clientCfg.Filesystem
	} else {
		// Default to OS filesystem rooted at /
		filesystem = billy.NewOSFS("/")
	}

	client := &Client{
		gw:          gateway.New(s3Client, presignClient),
		region:      cfg.Region,
		partSize:    clientCfg.PartSize,
		concurrency: clientCfg.Concurrency,
		fs:          filesystem,
	}

	return client, nil
}

// NewWithClient creates a new S3 client with a custom S3API implementation.
// This is primarily used for testing with mocked clients. Presign operations
// need NewWithClients instead.
func NewWithClient(s3Client s3api.S3API) *Client {
	return NewWithClients(s3Client, nil)
}

// NewWithClients creates a new S3 client from custom API and presigner
// implementations. This is the test seam for exercising presign paths
// against mocks.
func NewWithClients(s3Client s3api.S3API, presigner s3api.Presigner) *Client {
	return &Client{
		gw:          gateway.New(s3Client, presigner),
		partSize:    defaultPartSize,
		concurrency: defaultConcurrency,
		fs:          billy.NewOSFS("/"), // Default to OS filesystem
	}
}

// SetFilesystem sets the filesystem implementation for the client.
// This is useful for testing or when the filesystem needs to be changed after creation.
func (c *Client) SetFilesystem(filesystem fs.Filesystem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fs = filesystem
}

// filesystem returns the filesystem currently configured on the client.
func (c *Client) filesystem() fs.Filesystem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fs
}

// Close releases any resources held by the client.
// Currently a no-op but included for future extensibility.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return nil
}

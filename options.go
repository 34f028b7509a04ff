// Package s3 provides functional options for configuring S3 client behavior.
// These options follow the functional options pattern for clean, composable configuration.
package s3

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/halcyon-cloud/s3/s3types"
)

// WithRegion sets the AWS region for S3 operations.
// If not specified, uses the default AWS region from the credential chain.
func WithRegion(region string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Region = region
	}
}

// WithMaxRetries sets the maximum number of retry attempts the underlying
// SDK client makes for failed requests. Default is 3 retries.
func WithMaxRetries(maxRetries int) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.MaxRetries = maxRetries
	}
}

// WithTimeout sets the timeout for individual S3 operations.
// Default is no timeout (0). Values should be positive durations.
func WithTimeout(timeout time.Duration) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithConcurrency sets the maximum number of concurrent part uploads for
// streamed transfers. Default is 5 concurrent operations.
func WithConcurrency(concurrency int) s3types.Option {
	return func(c *s3types.ClientConfig) {
		if concurrency > 0 {
			c.Concurrency = concurrency
		}
	}
}

// WithPartSize sets the part size for streamed multipart uploads.
// Default is 8MB. Must be at least 5MB for S3 multipart uploads.
func WithPartSize(partSize int64) s3types.Option {
	return func(c *s3types.ClientConfig) {
		if partSize > 0 {
			c.PartSize = partSize
		}
	}
}

// WithForcePathStyle forces the use of path-style URLs instead of virtual-hosted style.
// This is required for S3-compatible services that don't support virtual hosting.
// Default is false (uses virtual-hosted style).
func WithForcePathStyle(forcePathStyle bool) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithAWSConfig allows providing a custom AWS configuration.
// This overrides the default configuration loading behavior.
// Use this when you need fine-grained control over AWS SDK configuration.
func WithAWSConfig(config *aws.Config) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.CustomAWSConfig = config
	}
}

// WithEndpoint sets a custom S3 endpoint URL.
// This is useful for S3-compatible services or local testing with LocalStack.
func WithEndpoint(endpoint string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithFilesystem sets a custom filesystem implementation for file operations.
// This allows using in-memory filesystems for testing or virtual filesystems.
// If not specified, defaults to the OS filesystem.
func WithFilesystem(filesystem fs.Filesystem) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Filesystem = filesystem
	}
}

// WithContentType sets the content type for upload operations.
func WithContentType(contentType string) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		c.ContentType = contentType
	}
}

// WithMetadata sets metadata for upload operations.
func WithMetadata(metadata map[string]string) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		if c.Metadata == nil {
			c.Metadata = make(map[string]string)
		}
		for k, v := range metadata {
			c.Metadata[k] = v
		}
	}
}

// WithTags sets object tags for upload operations.
func WithTags(tags map[string]string) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		c.Tags = tags
	}
}

// WithStorageClass sets the storage class for upload operations.
func WithStorageClass(storageClass s3types.StorageClass) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		c.StorageClass = storageClass
	}
}

// WithACL sets the canned ACL for upload operations.
func WithACL(acl s3types.ObjectACL) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		c.ACL = acl
	}
}

// WithServerSideEncryption sets server-side encryption configuration for upload operations.
func WithServerSideEncryption(sse *s3types.SSEConfig) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		c.SSE = sse
	}
}

// WithProgress sets a progress tracker for upload operations.
func WithProgress(tracker s3types.ProgressTracker) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		c.ProgressTracker = tracker
	}
}

// WithUploadPartSize sets the part size for this streamed upload.
// This overrides the client-level default for this specific upload.
func WithUploadPartSize(partSize int64) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		if partSize > 0 {
			c.PartSize = partSize
		}
	}
}

// WithUploadConcurrency sets the part concurrency for this streamed upload.
// This overrides the client-level default for this specific upload.
func WithUploadConcurrency(concurrency int) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		if concurrency > 0 {
			c.Concurrency = concurrency
		}
	}
}

// WithDownloadProgress sets a progress tracker for download operations.
func WithDownloadProgress(tracker s3types.ProgressTracker) s3types.DownloadOption {
	return func(c *s3types.DownloadOptionConfig) {
		c.ProgressTracker = tracker
	}
}

// WithRange sets an HTTP range specifier for download operations,
// e.g. "bytes=0-1023" for the first kilobyte.
func WithRange(rangeSpec string) s3types.DownloadOption {
	return func(c *s3types.DownloadOptionConfig) {
		c.RangeSpec = rangeSpec
	}
}

// WithSearch keeps only objects whose key contains the given substring.
// The filter applies to the full key, not just the basename.
func WithSearch(substring string) s3types.ListOption {
	return func(c *s3types.ListOptionConfig) {
		c.Search = substring
	}
}

// WithLimit truncates the fully accumulated listing to its first n entries.
// Zero or negative values mean no limit.
func WithLimit(n int) s3types.ListOption {
	return func(c *s3types.ListOptionConfig) {
		c.Limit = n
	}
}

// WithDelimiter groups keys by the given delimiter in page listings,
// surfacing common prefixes the way directory listings do.
func WithDelimiter(delimiter string) s3types.ListPageOption {
	return func(c *s3types.ListPageOptionConfig) {
		c.Delimiter = delimiter
	}
}

// WithPageSize caps the number of keys returned per page. The backend
// enforces its own maximum of 1000.
func WithPageSize(maxKeys int32) s3types.ListPageOption {
	return func(c *s3types.ListPageOptionConfig) {
		if maxKeys > 0 {
			c.MaxKeys = maxKeys
		}
	}
}

// WithStartAfter starts the page listing after the given key.
func WithStartAfter(key string) s3types.ListPageOption {
	return func(c *s3types.ListPageOptionConfig) {
		c.StartAfter = key
	}
}

// WithContinuationToken resumes a page listing from a prior page's token.
func WithContinuationToken(token string) s3types.ListPageOption {
	return func(c *s3types.ListPageOptionConfig) {
		c.ContinuationToken = token
	}
}

// WithCopyMetadata replaces the destination object's metadata instead of
// copying it from the source.
func WithCopyMetadata(metadata map[string]string) s3types.CopyOption {
	return func(c *s3types.CopyOptionConfig) {
		c.Metadata = metadata
		c.ReplaceMetadata = true
	}
}

// WithCopyStorageClass sets the storage class for the copied object.
func WithCopyStorageClass(storageClass s3types.StorageClass) s3types.CopyOption {
	return func(c *s3types.CopyOptionConfig) {
		c.StorageClass = storageClass
	}
}

// WithCopyACL sets the canned ACL for the copied object.
func WithCopyACL(acl s3types.ObjectACL) s3types.CopyOption {
	return func(c *s3types.CopyOptionConfig) {
		c.ACL = acl
	}
}

// WithCopyTags replaces the tag set on every destination object of a batch
// copy. Without this option each destination inherits its source's tags
// verbatim.
func WithCopyTags(tags map[string]string) s3types.CopyBatchOption {
	return func(c *s3types.CopyBatchOptionConfig) {
		c.Tags = tags
	}
}

// WithCopyWindow caps the number of concurrently pending copy calls in a
// batch copy. Values outside (0, 1000] fall back to the maximum of 1000.
func WithCopyWindow(window int) s3types.CopyBatchOption {
	return func(c *s3types.CopyBatchOptionConfig) {
		c.Window = window
	}
}

// WithDownloadFileName overrides the basename used to derive a presigned
// download's display name. The override is sanitized the same way a key
// basename would be.
func WithDownloadFileName(name string) s3types.PresignOption {
	return func(c *s3types.PresignOptionConfig) {
		c.FileName = name
	}
}

// WithPresignTags binds a tag set to a presigned upload. The tagging header
// stays outside the signed-header set so the uploader supplies it with the
// eventual request.
func WithPresignTags(tags map[string]string) s3types.PresignOption {
	return func(c *s3types.PresignOptionConfig) {
		c.Tags = tags
	}
}

// WithBucketRegion sets the region for bucket creation.
func WithBucketRegion(region string) s3types.BucketOption {
	return func(c *s3types.BucketOptionConfig) {
		c.Region = region
	}
}

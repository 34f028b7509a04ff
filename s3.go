// Package s3 provides the main S3 client and core operations.
package s3

import (
	"context"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"

	s3errors "github.com/halcyon-cloud/s3/errors"
	"github.com/halcyon-cloud/s3/internal/operations/batch"
	"github.com/halcyon-cloud/s3/internal/operations/download"
	"github.com/halcyon-cloud/s3/internal/operations/list"
	"github.com/halcyon-cloud/s3/internal/operations/upload"
	"github.com/halcyon-cloud/s3/internal/pool"
	"github.com/halcyon-cloud/s3/internal/validation"
	"github.com/halcyon-cloud/s3/s3types"
)

const (
	// DefaultContentType is the default content type used when content type detection fails
	DefaultContentType = "application/octet-stream"

	// multipartThreshold is the file size above which UploadFile switches from
	// a buffered put to the streaming bridge
	multipartThreshold = 100 * 1024 * 1024
)

// Upload uploads data from an io.Reader to S3.
// The reader is buffered fully in memory and shipped with a single put call;
// when no content type is supplied one is sniffed from the buffered bytes.
// For large or unbounded content use OpenUploadStream instead.
//
// Returns:
//   - *UploadResult: Contains the uploaded object's metadata including ETag and duration
//   - error: Returns an error if the upload fails
//
// Errors:
//   - ErrInvalidInput: If bucket is empty, key is invalid, or reader is nil
//   - ErrAccessDenied: If the credentials lack permission to upload
//   - ErrBucketNotFound: If the specified bucket doesn't exist
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	file, err := os.Open("data.txt")
//	if err != nil {
//	    return err
//	}
//	defer file.Close()
//
//	result, err := client.Upload(ctx, "my-bucket", "data.txt", file,
//	    s3.WithContentType("text/plain"),
//	    s3.WithStorageClass(s3types.StorageClassStandardIA),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Uploaded %s in %v\n", result.Key, result.Duration)
func (c *Client) Upload(
	ctx context.Context,
	bucket, key string,
	reader io.Reader,
	opts ...s3types.UploadOption,
) (*s3types.UploadResult, error) {
	if bucket == "" {
		return nil, s3errors.NewError("upload", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, s3errors.NewError("upload", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}
	if reader == nil {
		return nil, s3errors.NewError("upload", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("reader cannot be nil")
	}

	config := c.applyUploadOptions(opts)
	startTime := time.Now()

	uploader := upload.New(c.gw)
	return uploader.Upload(ctx, bucket, key, reader, uploadConfigFromOptions(config), startTime)
}

// UploadFile uploads a file from the local filesystem to S3.
// Files at or above 100MB go through the streaming bridge so they upload in
// parts without being buffered whole; smaller files use a single put. If the
// streamed transfer fails, the multipart session it opened is aborted before
// the error is returned.
//
// The file is read through the client's filesystem abstraction, and its
// content type is detected from the leading bytes when not supplied.
//
// Returns:
//   - *UploadResult: Contains the uploaded object's metadata including ETag and duration
//   - error: Returns an error if the upload fails
//
// Errors:
//   - ErrInvalidInput: If bucket is empty, key is invalid, or filepath is empty/directory
//   - ErrAccessDenied: If the credentials lack permission to upload
//   - ErrBucketNotFound: If the specified bucket doesn't exist
//   - File system errors if the file cannot be read
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	result, err := client.UploadFile(ctx, "my-bucket", "docs/report.pdf", "/path/to/report.pdf",
//	    s3.WithProgress(progressTracker),
//	    s3.WithMetadata(map[string]string{
//	        "Author": "John Doe",
//	        "Version": "1.0",
//	    }),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Uploaded %d bytes in %v\n", result.Size, result.Duration)
func (c *Client) UploadFile(
	ctx context.Context,
	bucket, key, filepath string,
	opts ...s3types.UploadOption,
) (*s3types.UploadResult, error) {
	if bucket == "" {
		return nil, s3errors.NewError("uploadFile", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, s3errors.NewError("uploadFile", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}
	if filepath == "" {
		return nil, s3errors.NewError("uploadFile", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("filepath cannot be empty")
	}

	fsys := c.filesystem()

	// Check if file exists and get its info
	info, err := fsys.Stat(filepath)
	if err != nil {
		return nil, s3errors.NewError("uploadFile", err).WithBucket(bucket).WithKey(key)
	}
	if info.IsDir() {
		return nil, s3errors.NewError("uploadFile", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("filepath points to a directory, not a file")
	}

	config := c.applyUploadOptions(opts)
	if config.ContentType == "" {
		config.ContentType = c.detectContentType(filepath)
	}

	file, err := fsys.Open(filepath)
	if err != nil {
		return nil, s3errors.NewError("uploadFile", err).WithBucket(bucket).WithKey(key)
	}
	defer file.Close()

	size := info.Size()
	startTime := time.Now()
	internalConfig := uploadConfigFromOptions(config)

	if size >= multipartThreshold {
		return c.uploadFileStreaming(ctx, bucket, key, file, size, internalConfig, startTime)
	}

	uploader := upload.New(c.gw)
	return uploader.Upload(ctx, bucket, key, file, internalConfig, startTime)
}

// Put uploads byte data to S3.
// This is a convenience method for small amounts of data that fit in memory.
// When no content type is supplied one is derived from the key's extension.
//
// Returns:
//   - error: Returns nil on success, or an error if the upload fails
//
// Errors:
//   - ErrInvalidInput: If bucket is empty or key is invalid
//   - ErrAccessDenied: If the credentials lack permission to upload
//   - ErrBucketNotFound: If the specified bucket doesn't exist
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	data := []byte(`{"config": "value"}`)
//	err := client.Put(ctx, "my-bucket", "config.json", data,
//	    s3.WithContentType("application/json"),
//	    s3.WithACL(s3types.ACLPrivate),
//	)
//	if err != nil {
//	    return err
//	}
func (c *Client) Put(ctx context.Context, bucket, key string, data []byte, opts ...s3types.UploadOption) error {
	if bucket == "" {
		return s3errors.NewError("put", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return s3errors.NewError("put", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}

	config := c.applyUploadOptions(opts)
	if config.ContentType == "" {
		config.ContentType = c.detectContentType(key)
	}

	startTime := time.Now()

	uploader := upload.New(c.gw)
	_, err := uploader.Put(ctx, bucket, key, data, uploadConfigFromOptions(config), startTime)
	return err
}

// Download downloads an object from S3 and writes it to an io.Writer.
// The object is streamed through a pooled copy buffer, so memory use stays
// flat regardless of object size. Progress tracking and range requests can
// be configured via DownloadOption parameters.
//
// Returns:
//   - *DownloadResult: Contains the downloaded object's metadata and duration
//   - error: Returns an error if the download fails
//
// Errors:
//   - ErrInvalidInput: If bucket is empty, key is invalid, or writer is nil
//   - ErrObjectNotFound: If the specified object doesn't exist
//   - ErrAccessDenied: If the credentials lack permission to download
//   - ErrBucketNotFound: If the specified bucket doesn't exist
//   - ErrInvalidRange: If the specified range is invalid
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	file, err := os.Create("downloaded.txt")
//	if err != nil {
//	    return err
//	}
//	defer file.Close()
//
//	result, err := client.Download(ctx, "my-bucket", "data.txt", file,
//	    s3.WithDownloadProgress(progressTracker),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Downloaded %d bytes in %v\n", result.Size, result.Duration)
func (c *Client) Download(
	ctx context.Context,
	bucket, key string,
	writer io.Writer,
	opts ...s3types.DownloadOption,
) (*s3types.DownloadResult, error) {
	if bucket == "" {
		return nil, s3errors.NewError("download", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, s3errors.NewError("download", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}
	if writer == nil {
		return nil, s3errors.NewError("download", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("writer cannot be nil")
	}

	config := &s3types.DownloadOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	startTime := time.Now()

	downloader := download.New(c.gw)
	return downloader.Download(ctx, bucket, key, writer, downloadConfigFromOptions(config), startTime)
}

// DownloadFile downloads an object from S3 to a local file.
// The file is created through the client's filesystem abstraction, truncated
// if it already exists, and removed again when the download fails so no
// partial file is left behind.
//
// Returns:
//   - *DownloadResult: Contains the downloaded object's metadata and duration
//   - error: Returns an error if the download fails
//
// Errors:
//   - ErrInvalidInput: If bucket is empty, key is invalid, or filepath is empty
//   - ErrObjectNotFound: If the specified object doesn't exist
//   - ErrAccessDenied: If the credentials lack permission to download
//   - ErrBucketNotFound: If the specified bucket doesn't exist
//   - File system errors if the file cannot be created or written
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	result, err := client.DownloadFile(ctx, "my-bucket", "docs/report.pdf", "/tmp/report.pdf",
//	    s3.WithDownloadProgress(progressTracker),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Downloaded %d bytes in %v\n", result.Size, result.Duration)
func (c *Client) DownloadFile(
	ctx context.Context,
	bucket, key, filepath string,
	opts ...s3types.DownloadOption,
) (*s3types.DownloadResult, error) {
	if bucket == "" {
		return nil, s3errors.NewError("downloadFile", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, s3errors.NewError("downloadFile", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}
	if filepath == "" {
		return nil, s3errors.NewError("downloadFile", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("filepath cannot be empty")
	}

	config := &s3types.DownloadOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	fsys := c.filesystem()
	file, err := fsys.Create(filepath)
	if err != nil {
		return nil, s3errors.NewError("downloadFile", err).WithBucket(bucket).WithKey(key)
	}

	startTime := time.Now()

	downloader := download.New(c.gw)
	result, err := downloader.Download(ctx, bucket, key, file, downloadConfigFromOptions(config), startTime)
	closeErr := file.Close()
	if err != nil {
		//nolint:errcheck // nothing to do about a failed cleanup of a failed download
		fsys.Remove(filepath)
		return nil, err
	}
	if closeErr != nil {
		return nil, s3errors.NewError("downloadFile", closeErr).WithBucket(bucket).WithKey(key)
	}

	return result, nil
}

// Get downloads an entire object from S3 and returns it as a byte slice.
// This is a convenience method for small objects that can fit in memory.
// For large objects, use Download or DownloadFile instead.
//
// Returns:
//   - []byte: The object's contents as a byte slice
//   - error: Returns an error if the download fails
//
// Errors:
//   - ErrInvalidInput: If bucket is empty or key is invalid
//   - ErrObjectNotFound: If the specified object doesn't exist
//   - ErrAccessDenied: If the credentials lack permission to download
//   - ErrBucketNotFound: If the specified bucket doesn't exist
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	data, err := client.Get(ctx, "my-bucket", "config.json")
//	if err != nil {
//	    return err
//	}
//	var config Config
//	err = json.Unmarshal(data, &config)
//	if err != nil {
//	    return err
//	}
func (c *Client) Get(ctx context.Context, bucket, key string, opts ...s3types.DownloadOption) ([]byte, error) {
	if bucket == "" {
		return nil, s3errors.NewError("get", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, s3errors.NewError("get", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}

	config := &s3types.DownloadOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	startTime := time.Now()

	downloader := download.New(c.gw)
	return downloader.Get(ctx, bucket, key, downloadConfigFromOptions(config), startTime)
}

// List enumerates every object under prefix and returns curated descriptors.
// Pagination is followed to exhaustion internally; folder markers (zero-byte
// keys ending in "/") are excluded from the result.
//
// WithSearch keeps only keys containing the given substring. WithLimit caps
// the result at its first n entries; the cap is applied after the full
// listing is accumulated and filtered, so the limit never cuts off entries a
// later page would have contributed. Large buckets therefore cost a full
// enumeration even with a small limit.
//
// Returns:
//   - []ObjectDescriptor: Name (key basename), bucket, key, size, and modification time per object
//   - error: Returns an error if the listing fails
//
// Errors:
//   - ErrInvalidInput: If bucket is empty
//   - ErrAccessDenied: If the credentials lack permission to list
//   - ErrBucketNotFound: If the specified bucket doesn't exist
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	files, err := client.List(ctx, "my-bucket", "photos/",
//	    s3.WithSearch("2024"),
//	    s3.WithLimit(50),
//	)
//	if err != nil {
//	    return err
//	}
//	for _, f := range files {
//	    fmt.Printf("%s (%d bytes)\n", f.Name, f.Size)
//	}
func (c *Client) List(
	ctx context.Context,
	bucket, prefix string,
	opts ...s3types.ListOption,
) ([]s3types.ObjectDescriptor, error) {
	if bucket == "" {
		return nil, s3errors.NewError("list", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage("bucket name cannot be empty")
	}

	config := &s3types.ListOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	lister := list.New(c.gw)
	return lister.Descriptors(ctx, bucket, prefix, config.Search, config.Limit)
}

// ListPage fetches a single page of raw listing entries.
// Unlike List, no filtering is applied: folder markers appear in the result,
// and the page boundary is the backend's. Use the returned continuation
// token to fetch the next page.
//
// Returns:
//   - *ListResult: Objects, common prefixes, truncation flag, and continuation token
//   - error: Returns an error if the listing fails
//
// Errors:
//   - ErrInvalidInput: If bucket is empty
//   - ErrAccessDenied: If the credentials lack permission to list
//   - ErrBucketNotFound: If the specified bucket doesn't exist
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	page, err := client.ListPage(ctx, "my-bucket", "photos/",
//	    s3.WithPageSize(100),
//	)
//	if err != nil {
//	    return err
//	}
//	for page.IsTruncated {
//	    page, err = client.ListPage(ctx, "my-bucket", "photos/",
//	        s3.WithPageSize(100),
//	        s3.WithContinuationToken(page.NextContinuationToken),
//	    )
//	    if err != nil {
//	        return err
//	    }
//	}
func (c *Client) ListPage(
	ctx context.Context,
	bucket, prefix string,
	opts ...s3types.ListPageOption,
) (*s3types.ListResult, error) {
	if bucket == "" {
		return nil, s3errors.NewError("listPage", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage("bucket name cannot be empty")
	}

	config := &s3types.ListPageOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	lister := list.New(c.gw)
	page, err := lister.Page(ctx, &list.Config{
		Bucket:            bucket,
		Prefix:            prefix,
		Delimiter:         config.Delimiter,
		MaxKeys:           config.MaxKeys,
		StartAfter:        config.StartAfter,
		ContinuationToken: config.ContinuationToken,
	})
	if err != nil {
		return nil, err
	}

	return &s3types.ListResult{
		Objects:               page.Objects,
		CommonPrefixes:        page.CommonPrefixes,
		IsTruncated:           page.IsTruncated,
		NextContinuationToken: page.ContinuationToken,
	}, nil
}

// ListAll streams every raw entry under prefix through a channel.
// Pagination is handled internally; the channel is closed once the listing
// is exhausted. A failure mid-enumeration is delivered as the final entry
// with Err set, then the channel closes.
//
// Always consume the channel completely or cancel the context to avoid
// leaking the listing goroutine.
//
// Example:
//
//	for r := range client.ListAll(ctx, "my-bucket", "photos/") {
//	    if r.Err != nil {
//	        return r.Err
//	    }
//	    fmt.Printf("Processing: %s (%d bytes)\n", r.Object.Key, r.Object.Size)
//	}
func (c *Client) ListAll(ctx context.Context, bucket, prefix string) <-chan s3types.ObjectResult {
	lister := list.New(c.gw)
	return lister.All(ctx, &list.Config{
		Bucket: bucket,
		Prefix: prefix,
	})
}

// Delete deletes a single object from S3.
// This operation is idempotent - deleting a non-existent object doesn't return an error.
// For bulk deletion use DeleteBatch.
//
// Returns:
//   - error: Returns nil on success, or an error if the deletion fails
//
// Errors:
//   - ErrInvalidInput: If bucket is empty or key is invalid
//   - ErrAccessDenied: If the credentials lack permission to delete
//   - ErrBucketNotFound: If the specified bucket doesn't exist
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	err := client.Delete(ctx, "my-bucket", "old-file.txt")
//	if err != nil {
//	    return fmt.Errorf("failed to delete object: %w", err)
//	}
func (c *Client) Delete(ctx context.Context, bucket, key string) error {
	if bucket == "" {
		return s3errors.NewError("delete", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return s3errors.NewError("delete", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}

	_, err := c.gw.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return err
}

// Exists checks if an object exists in S3 using a HEAD request.
// Returns true if the object exists, false if it doesn't exist.
// Returns an error for other types of failures (network issues, permissions, etc.).
//
// Returns:
//   - bool: true if object exists, false otherwise
//   - error: Returns nil for success/not-found, or error for other failures
//
// Errors:
//   - ErrInvalidInput: If bucket is empty or key is invalid
//   - ErrAccessDenied: If the credentials lack permission to access
//   - ErrBucketNotFound: If the specified bucket doesn't exist
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	exists, err := client.Exists(ctx, "my-bucket", "data.txt")
//	if err != nil {
//	    return fmt.Errorf("failed to check existence: %w", err)
//	}
func (c *Client) Exists(ctx context.Context, bucket, key string) (bool, error) {
	if bucket == "" {
		return false, s3errors.NewError("exists", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return false, s3errors.NewError("exists", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}

	_, err := c.gw.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if s3errors.IsObjectNotFound(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// GetMetadata retrieves metadata for an S3 object without downloading the content.
// This is more efficient than Get() for metadata-only operations.
//
// Returns:
//   - *ObjectMetadata: The object's content type, size, modification time, ETag, and custom metadata
//   - error: Returns an error if the operation fails
//
// Errors:
//   - ErrInvalidInput: If bucket is empty or key is invalid
//   - ErrObjectNotFound: If the specified object doesn't exist
//   - ErrAccessDenied: If the credentials lack permission to access
//   - ErrBucketNotFound: If the specified bucket doesn't exist
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	metadata, err := client.GetMetadata(ctx, "my-bucket", "document.pdf")
//	if err != nil {
//	    return fmt.Errorf("failed to get metadata: %w", err)
//	}
//	fmt.Printf("Content-Type: %s\n", metadata.ContentType)
func (c *Client) GetMetadata(ctx context.Context, bucket, key string) (*s3types.ObjectMetadata, error) {
	if bucket == "" {
		return nil, s3errors.NewError("getMetadata", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, s3errors.NewError("getMetadata", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}

	result, err := c.gw.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}

	metadata := &s3types.ObjectMetadata{
		ContentType:   aws.ToString(result.ContentType),
		ContentLength: aws.ToInt64(result.ContentLength),
		LastModified:  aws.ToTime(result.LastModified),
		ETag:          aws.ToString(result.ETag),
	}

	if result.Metadata != nil {
		metadata.Metadata = make(map[string]string, len(result.Metadata))
		for k, v := range result.Metadata {
			metadata.Metadata[k] = v
		}
	}

	return metadata, nil
}

// Copy copies an object from one location to another within S3.
// This is a server-side copy operation that doesn't require downloading the data.
// Metadata and storage class overrides can be supplied via CopyOption parameters.
//
// Returns:
//   - error: Returns nil on success, or an error if the copy fails
//
// Errors:
//   - ErrInvalidInput: If any bucket/key parameters are empty or invalid
//   - ErrObjectNotFound: If the source object doesn't exist
//   - ErrAccessDenied: If the credentials lack permission to copy
//   - ErrBucketNotFound: If either bucket doesn't exist
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	err := client.Copy(ctx, "source-bucket", "old/path.txt",
//	                  "dest-bucket", "new/path.txt")
//	if err != nil {
//	    return fmt.Errorf("failed to copy object: %w", err)
//	}
func (c *Client) Copy(
	ctx context.Context,
	srcBucket, srcKey, dstBucket, dstKey string,
	opts ...s3types.CopyOption,
) error {
	if srcBucket == "" {
		return s3errors.NewError("copy", s3errors.ErrInvalidInput).
			WithBucket(srcBucket).
			WithKey(srcKey).
			WithMessage("source bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(srcKey); err != nil {
		return s3errors.NewError("copy", s3errors.ErrInvalidInput).
			WithBucket(srcBucket).
			WithKey(srcKey).
			WithMessage(err.Error())
	}
	if dstBucket == "" {
		return s3errors.NewError("copy", s3errors.ErrInvalidInput).
			WithBucket(dstBucket).
			WithKey(dstKey).
			WithMessage("destination bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(dstKey); err != nil {
		return s3errors.NewError("copy", s3errors.ErrInvalidInput).
			WithBucket(dstBucket).
			WithKey(dstKey).
			WithMessage(err.Error())
	}

	// Prevent copying to the same location
	if srcBucket == dstBucket && srcKey == dstKey {
		return s3errors.NewError("copy", s3errors.ErrInvalidInput).
			WithBucket(srcBucket).
			WithKey(srcKey).
			WithMessage("cannot copy object to itself")
	}

	config := &s3types.CopyOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	copier := batch.NewCopier(c.gw, 0)
	return copier.Copy(ctx, srcBucket, srcKey, dstBucket, dstKey, config)
}

// Move moves an object from one location to another by copying it and then deleting the original.
// The move is performed as a two-step process: copy then delete.
// If the copy succeeds but the delete fails, the object will exist in both locations.
//
// Returns:
//   - error: Returns nil on success, or an error if the move fails
//
// Errors:
//   - ErrInvalidInput: If any bucket/key parameters are empty or invalid
//   - ErrObjectNotFound: If the source object doesn't exist
//   - ErrAccessDenied: If the credentials lack permission to copy or delete
//   - ErrBucketNotFound: If either bucket doesn't exist
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	err := client.Move(ctx, "source-bucket", "temp/file.txt",
//	                  "archive-bucket", "2024/file.txt")
//	if err != nil {
//	    return fmt.Errorf("failed to move object: %w", err)
//	}
func (c *Client) Move(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	// Prevent moving to the same location; Copy validates everything else
	if srcBucket == dstBucket && srcKey == dstKey {
		return s3errors.NewError("move", s3errors.ErrInvalidInput).
			WithBucket(srcBucket).
			WithKey(srcKey).
			WithMessage("cannot move object to itself")
	}

	if err := c.Copy(ctx, srcBucket, srcKey, dstBucket, dstKey); err != nil {
		return s3errors.NewError("move", err).
			WithBucket(srcBucket).
			WithKey(srcKey).
			WithMessage("failed to copy object during move")
	}

	if err := c.Delete(ctx, srcBucket, srcKey); err != nil {
		return s3errors.NewError("move", err).
			WithBucket(srcBucket).
			WithKey(srcKey).
			WithMessage("failed to delete original object after copy")
	}

	return nil
}

// CreateBucket creates a new S3 bucket.
// The bucket name must be DNS-compliant and unique across all existing bucket names in S3.
// The bucket is placed in the region given via WithBucketRegion, falling back
// to the client's region.
//
// Bucket naming rules:
//   - Must be 3-63 characters long
//   - Can only contain lowercase letters, numbers, dots (.), and hyphens (-)
//   - Must begin and end with a letter or number
//   - Must not be formatted as an IP address
//   - Must be globally unique across all S3 buckets
//
// Returns:
//   - error: Returns nil on success, or an error if bucket creation fails
//
// Errors:
//   - ErrInvalidBucketName: If the bucket name doesn't comply with naming rules
//   - ErrBucketAlreadyExists: If a bucket with this name already exists
//   - ErrAccessDenied: If the credentials lack permission to create buckets
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	err := client.CreateBucket(ctx, "my-new-bucket",
//	    s3.WithBucketRegion("us-west-2"),
//	)
//	if err != nil {
//	    return fmt.Errorf("failed to create bucket: %w", err)
//	}
func (c *Client) CreateBucket(ctx context.Context, bucket string, opts ...s3types.BucketOption) error {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return s3errors.NewError("createBucket", s3errors.ErrInvalidBucketName).
			WithBucket(bucket).
			WithMessage(err.Error())
	}

	config := &s3types.BucketOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	input := &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	}

	// us-east-1 is expressed by omitting the location constraint
	region := config.Region
	if region == "" {
		region = c.region
	}
	if region != "" && region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}

	_, err := c.gw.CreateBucket(ctx, input)
	return err
}

// BucketExists checks if a bucket exists and is accessible using a HEAD request.
// Returns true if the bucket exists, false if it doesn't exist.
// Returns an error for other types of failures (network issues, permissions, etc.).
//
// Returns:
//   - bool: true if the bucket exists, false otherwise
//   - error: Returns nil for success/not-found, or error for other failures
//
// Errors:
//   - ErrInvalidBucketName: If the bucket name doesn't comply with naming rules
//   - ErrAccessDenied: If the credentials lack permission to access the bucket
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	exists, err := client.BucketExists(ctx, "my-bucket")
//	if err != nil {
//	    return fmt.Errorf("failed to check bucket: %w", err)
//	}
func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return false, s3errors.NewError("bucketExists", s3errors.ErrInvalidBucketName).
			WithBucket(bucket).
			WithMessage(err.Error())
	}

	_, err := c.gw.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		// A missing bucket surfaces as NotFound, with or without an error code
		if s3errors.IsBucketNotFound(err) || s3errors.IsObjectNotFound(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// DeleteBucket deletes an S3 bucket.
// The bucket must be empty before it can be deleted.
// Use DeleteBatch to remove objects first, or use a lifecycle policy for automatic cleanup.
//
// Returns:
//   - error: Returns nil on success, or an error if bucket deletion fails
//
// Errors:
//   - ErrInvalidBucketName: If the bucket name doesn't comply with naming rules
//   - ErrBucketNotFound: If the bucket doesn't exist
//   - ErrBucketNotEmpty: If the bucket contains objects
//   - ErrAccessDenied: If the credentials lack permission to delete the bucket
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	err := client.DeleteBucket(ctx, "old-bucket")
//	if err != nil {
//	    return fmt.Errorf("failed to delete bucket: %w", err)
//	}
func (c *Client) DeleteBucket(ctx context.Context, bucket string) error {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return s3errors.NewError("deleteBucket", s3errors.ErrInvalidBucketName).
			WithBucket(bucket).
			WithMessage(err.Error())
	}

	_, err := c.gw.DeleteBucket(ctx, &s3.DeleteBucketInput{
		Bucket: aws.String(bucket),
	})
	return err
}

// applyUploadOptions builds the upload option config with client-level
// defaults applied.
func (c *Client) applyUploadOptions(opts []s3types.UploadOption) *s3types.UploadOptionConfig {
	config := &s3types.UploadOptionConfig{
		StorageClass: s3types.StorageClassStandard,
		PartSize:     c.partSize,
		Concurrency:  c.concurrency,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// uploadConfigFromOptions projects the option config onto the internal
// upload configuration.
func uploadConfigFromOptions(config *s3types.UploadOptionConfig) *s3types.UploadConfig {
	cfg := &s3types.UploadConfig{
		ContentType:     config.ContentType,
		Metadata:        config.Metadata,
		Tags:            config.Tags,
		StorageClass:    config.StorageClass,
		ACL:             config.ACL,
		ProgressTracker: config.ProgressTracker,
		PartSize:        config.PartSize,
		Concurrency:     config.Concurrency,
	}
	if config.SSE != nil {
		cfg.SSE = &s3types.SSEConfig{
			Type:     config.SSE.Type,
			KMSKeyID: config.SSE.KMSKeyID,
		}
	}
	return cfg
}

// downloadConfigFromOptions projects the option config onto the internal
// download configuration.
func downloadConfigFromOptions(config *s3types.DownloadOptionConfig) *s3types.DownloadConfig {
	return &s3types.DownloadConfig{
		ProgressTracker: config.ProgressTracker,
		RangeSpec:       config.RangeSpec,
	}
}

// detectContentType determines the content type using mimetype where possible,
// falling back to extension-based lookup when the path is not a local file.
func (c *Client) detectContentType(path string) string {
	fsys := c.filesystem()

	// If the path points to an existing local file, prefer sniffing its content.
	info, err := fsys.Stat(path)
	if err != nil || info.IsDir() {
		return c.detectContentTypeFromExtension(path)
	}

	file, err := fsys.Open(path)
	if err != nil {
		return c.detectContentTypeFromExtension(path)
	}
	defer file.Close()

	buf := pool.GetSniffBuffer()
	defer pool.PutSniffBuffer(buf)

	n, _ := file.Read(buf)
	if n > 0 {
		if mt := mimetype.Detect(buf[:n]); mt != nil {
			return mt.String()
		}
	}

	return c.detectContentTypeFromExtension(path)
}

// detectContentTypeFromExtension detects content type from file extension
func (c *Client) detectContentTypeFromExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}

	return DefaultContentType
}

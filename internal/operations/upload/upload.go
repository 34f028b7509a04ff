// Package upload handles buffered object upload operations.
// Data is staged in memory and shipped with a single put call; callers
// needing incremental writes or backend-side part management use the
// streaming transfer layer instead.
package upload

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"

	"github.com/halcyon-cloud/s3/errors"
	"github.com/halcyon-cloud/s3/internal/gateway"
	"github.com/halcyon-cloud/s3/internal/validation"
	"github.com/halcyon-cloud/s3/s3types"
)

// Uploader handles buffered upload operations through the gateway.
type Uploader struct {
	gw *gateway.Gateway
}

// New creates a new Uploader instance.
func New(gw *gateway.Gateway) *Uploader {
	return &Uploader{
		gw: gw,
	}
}

// Upload reads the reader to its end and puts the content as one object.
// When the config carries no content type, one is sniffed from the buffered
// bytes.
func (u *Uploader) Upload(
	ctx context.Context,
	bucket, key string,
	reader io.Reader,
	config *s3types.UploadConfig,
	startTime time.Time,
) (*s3types.UploadResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewError("upload", err).WithBucket(bucket).WithKey(key)
	}

	if config.ContentType == "" {
		config.ContentType = mimetype.Detect(data).String()
	}

	return u.Put(ctx, bucket, key, data, config, startTime)
}

// Put uploads a byte slice as a single object.
func (u *Uploader) Put(
	ctx context.Context,
	bucket, key string,
	data []byte,
	config *s3types.UploadConfig,
	startTime time.Time,
) (*s3types.UploadResult, error) {
	size := int64(len(data))

	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
	}
	ApplyUploadOptions(input, config)

	output, err := u.gw.PutObject(ctx, input)
	if err != nil {
		if config.ProgressTracker != nil {
			config.ProgressTracker.Error(err)
		}
		return nil, err
	}

	result := &s3types.UploadResult{
		Bucket:    bucket,
		Key:       key,
		Size:      size,
		ETag:      aws.ToString(output.ETag),
		VersionID: aws.ToString(output.VersionId),
		Duration:  time.Since(startTime),
	}

	if config.ProgressTracker != nil {
		config.ProgressTracker.Update(size, size)
		config.ProgressTracker.Complete()
	}

	return result, nil
}

// ApplyUploadOptions applies upload configuration to a put input.
func ApplyUploadOptions(input *s3.PutObjectInput, config *s3types.UploadConfig) {
	if config == nil {
		return
	}

	if config.ContentType != "" {
		input.ContentType = aws.String(config.ContentType)
	}
	if config.StorageClass != "" {
		input.StorageClass = awstypes.StorageClass(config.StorageClass)
	}
	if len(config.Metadata) > 0 {
		input.Metadata = validation.SanitizeMetadata(config.Metadata)
	}
	if config.Tags != nil {
		input.Tagging = aws.String(s3types.EncodeTags(config.Tags))
	}
	if config.ACL != "" {
		input.ACL = awstypes.ObjectCannedACL(config.ACL)
	}
	applySSE(input, config.SSE)
}

// applySSE applies server-side encryption settings to a put input.
func applySSE(input *s3.PutObjectInput, sse *s3types.SSEConfig) {
	if sse == nil {
		return
	}

	switch sse.Type {
	case s3types.SSES3:
		input.ServerSideEncryption = awstypes.ServerSideEncryptionAes256
	case s3types.SSEKMS:
		input.ServerSideEncryption = awstypes.ServerSideEncryptionAwsKms
		if sse.KMSKeyID != "" {
			input.SSEKMSKeyId = aws.String(sse.KMSKeyID)
		}
	}
}

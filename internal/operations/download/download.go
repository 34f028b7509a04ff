// Package download handles S3 object download operations.
// This includes stream-based downloads, file downloads, and range requests.
//
// Downloads stream through pooled copy buffers so large objects never have
// to be buffered in memory, and support progress tracking throughout.
package download

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/halcyon-cloud/s3/errors"
	"github.com/halcyon-cloud/s3/internal/gateway"
	"github.com/halcyon-cloud/s3/internal/pool"
	"github.com/halcyon-cloud/s3/s3types"
)

// Downloader handles S3 download operations with progress tracking support.
type Downloader struct {
	gw *gateway.Gateway
}

// New creates a new Downloader instance.
func New(gw *gateway.Gateway) *Downloader {
	return &Downloader{
		gw: gw,
	}
}

// Download downloads an object from S3 and writes it to an io.Writer.
// The body streams through a pooled copy buffer, so memory use stays flat
// regardless of object size.
func (d *Downloader) Download(
	ctx context.Context,
	bucket, key string,
	writer io.Writer,
	config *s3types.DownloadConfig,
	startTime time.Time,
) (*s3types.DownloadResult, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if config.RangeSpec != "" {
		input.Range = aws.String(config.RangeSpec)
	}

	output, err := d.gw.GetObject(ctx, input)
	if err != nil {
		return nil, err
	}
	defer output.Body.Close()

	size := int64(0)
	if output.ContentLength != nil {
		size = *output.ContentLength
	}

	var reader io.Reader = output.Body
	if config.ProgressTracker != nil {
		reader = &progressReader{
			reader:          output.Body,
			progressTracker: config.ProgressTracker,
			total:           size,
		}
	}

	buf := pool.GetCopyBuffer()
	bytesWritten, err := io.CopyBuffer(writer, reader, buf)
	pool.PutCopyBuffer(buf)
	if err != nil {
		if config.ProgressTracker != nil {
			config.ProgressTracker.Error(err)
		}
		return nil, errors.NewObjectError("download", bucket, key, err)
	}

	// ContentLength can be absent on some responses; fall back to what
	// actually arrived.
	if size == 0 {
		size = bytesWritten
	}

	if config.ProgressTracker != nil {
		config.ProgressTracker.Update(bytesWritten, size)
		config.ProgressTracker.Complete()
	}

	return &s3types.DownloadResult{
		Key:       key,
		Size:      size,
		ETag:      aws.ToString(output.ETag),
		VersionID: aws.ToString(output.VersionId),
		Duration:  time.Since(startTime),
	}, nil
}

// Get downloads an entire object from S3 and returns it as a byte slice.
// This is a convenience method for small objects that can fit in memory.
func (d *Downloader) Get(
	ctx context.Context,
	bucket, key string,
	config *s3types.DownloadConfig,
	startTime time.Time,
) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.Download(ctx, bucket, key, &buf, config, startTime); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// progressReader wraps an io.Reader to track progress
type progressReader struct {
	reader          io.Reader
	progressTracker s3types.ProgressTracker
	total           int64
	bytesRead       int64
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.bytesRead += int64(n)
		pr.progressTracker.Update(pr.bytesRead, pr.total)
	}
	//nolint:wrapcheck // io.Reader interface contract - error comes from underlying reader
	return n, err
}

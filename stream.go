package s3

import (
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"

	s3errors "github.com/halcyon-cloud/s3/errors"
	"github.com/halcyon-cloud/s3/internal/gateway"
	"github.com/halcyon-cloud/s3/internal/pool"
	"github.com/halcyon-cloud/s3/internal/transfer/multipart"
	"github.com/halcyon-cloud/s3/internal/transfer/streaming"
	"github.com/halcyon-cloud/s3/internal/validation"
	"github.com/halcyon-cloud/s3/s3types"
)

// The transfer manager drives streamed uploads through the gateway, so every
// part request crosses the same error-mapping boundary as everything else.
var _ manager.UploadAPIClient = (*gateway.Gateway)(nil)

// UploadStream is a live streamed upload: an io.WriteCloser feeding the
// backend, and a completion future resolving to the upload's outcome.
//
// Write pushes bytes into the transfer; it blocks while the backend is busy
// with earlier parts. Close signals end of data and blocks until every part
// is acknowledged, returning the terminal error if the upload failed. Done
// and Result expose the same outcome without requiring the closer to be the
// one waiting.
//
// The stream never aborts a failed session on its own. After a failure the
// session stays open on the backend; Session identifies it so the owner can
// abort it via AbortUploadSession (or resume it externally).
type UploadStream struct {
	bucket string
	key    string
	inner  *streaming.Upload
}

// OpenUploadStream starts a streamed upload to bucket/key and returns the
// write handle. Bytes written to the handle are cut into parts and uploaded
// as they accumulate; nothing is buffered beyond the in-flight parts, so the
// total object size is unbounded.
//
// The upload's outcome resolves only after Close: a successfully written and
// closed stream materializes the object, anything less leaves no object
// behind. ctx bounds the whole transfer, including parts still in flight.
//
// Part size and parallelism follow the client settings unless overridden via
// WithUploadPartSize and WithUploadConcurrency.
//
// Returns:
//   - *UploadStream: The write handle and completion future for the transfer
//   - error: Returns an error if the arguments are invalid
//
// Errors:
//   - ErrInvalidInput: If bucket is empty or key is invalid
//
// Transfer failures surface on Write, Close, and Result, wrapped in the
// Error type like every other operation.
//
// Example:
//
//	stream, err := client.OpenUploadStream(ctx, "my-bucket", "export.csv")
//	if err != nil {
//	    return err
//	}
//	if _, err := io.Copy(stream, source); err != nil {
//	    stream.CloseWithError(err)
//	    if session := stream.Session(); session != nil {
//	        client.AbortUploadSession(ctx, session)
//	    }
//	    return err
//	}
//	if err := stream.Close(); err != nil {
//	    return err
//	}
//	result, _ := stream.Result()
//	fmt.Printf("Uploaded %d bytes\n", result.Size)
func (c *Client) OpenUploadStream(
	ctx context.Context,
	bucket, key string,
	opts ...s3types.UploadOption,
) (*UploadStream, error) {
	if bucket == "" {
		return nil, s3errors.NewError("openUploadStream", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, s3errors.NewError("openUploadStream", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}

	config := c.applyUploadOptions(opts)

	inner := streaming.Start(ctx, c.gw, bucket, key, &streaming.Config{
		PartSize:    config.PartSize,
		Concurrency: config.Concurrency,
		Upload:      uploadConfigFromOptions(config),
	})

	return &UploadStream{
		bucket: bucket,
		key:    key,
		inner:  inner,
	}, nil
}

// Write pushes bytes into the stream, blocking while earlier parts are in
// flight. Writing to a closed stream fails with ErrInvalidInput; once the
// upload has failed, Write returns the terminal error.
func (s *UploadStream) Write(p []byte) (int, error) {
	return s.inner.Write(p)
}

// Close signals end of data and blocks until the backend has acknowledged
// every part. It returns nil only when the object has fully materialized.
// Closing again returns the same outcome.
func (s *UploadStream) Close() error {
	return s.inner.Close()
}

// CloseWithError ends the stream signalling that the data source failed.
// The upload fails instead of completing with truncated content, and any
// backend session is left open for the owner to abort.
func (s *UploadStream) CloseWithError(reason error) error {
	return s.inner.CloseWithError(reason)
}

// Done is closed once the upload's outcome is known, success or failure.
// It only resolves after Close or CloseWithError has been called.
func (s *UploadStream) Done() <-chan struct{} {
	return s.inner.Done()
}

// Result blocks until the outcome is known and returns it. On success the
// result carries the assembled object's ETag and total size.
func (s *UploadStream) Result() (*s3types.UploadResult, error) {
	return s.inner.Result()
}

// Session identifies the multipart session behind the stream, or nil when
// none exists yet (or the object went up in a single request). After a
// failure it names the session left open on the backend, ready to hand to
// AbortUploadSession.
func (s *UploadStream) Session() *s3types.UploadSession {
	id := s.inner.UploadID()
	if id == "" {
		return nil
	}
	return &s3types.UploadSession{
		Bucket:   s.bucket,
		Key:      s.key,
		UploadID: id,
	}
}

// uploadFileStreaming pumps a local file through the streaming bridge.
// UploadFile owns the stream it opens, so unlike OpenUploadStream callers
// it also aborts the session when the transfer fails.
func (c *Client) uploadFileStreaming(
	ctx context.Context,
	bucket, key string,
	file io.Reader,
	size int64,
	config *s3types.UploadConfig,
	startTime time.Time,
) (*s3types.UploadResult, error) {
	stream := streaming.Start(ctx, c.gw, bucket, key, &streaming.Config{
		PartSize:    config.PartSize,
		Concurrency: config.Concurrency,
		Upload:      config,
	})

	var src io.Reader = file
	if config.ProgressTracker != nil {
		src = &uploadProgressReader{
			reader:  file,
			tracker: config.ProgressTracker,
			total:   size,
		}
	}

	buf := pool.GetCopyBuffer()
	_, copyErr := io.CopyBuffer(stream, src, buf)
	pool.PutCopyBuffer(buf)

	var err error
	if copyErr != nil {
		// A source failure must not reach the stream as EOF, or a truncated
		// object would materialize.
		err = stream.CloseWithError(copyErr)
	} else {
		err = stream.Close()
	}
	if err != nil {
		c.abortStreamedSession(ctx, bucket, key, stream.UploadID())
		if config.ProgressTracker != nil {
			config.ProgressTracker.Error(err)
		}
		return nil, err
	}

	result, err := stream.Result()
	if err != nil {
		return nil, err
	}
	result.Duration = time.Since(startTime)

	if config.ProgressTracker != nil {
		config.ProgressTracker.Update(size, size)
		config.ProgressTracker.Complete()
	}

	return result, nil
}

// abortStreamedSession cleans up the session a failed file upload left open.
// The abort runs even when ctx is already canceled, and its own failure is
// dropped; the transfer error is the one reported.
func (c *Client) abortStreamedSession(ctx context.Context, bucket, key, uploadID string) {
	if uploadID == "" {
		return
	}

	controller := multipart.New(c.gw)
	//nolint:errcheck // best effort cleanup
	controller.Abort(context.WithoutCancel(ctx), &s3types.UploadSession{
		Bucket:   bucket,
		Key:      key,
		UploadID: uploadID,
	})
}

// uploadProgressReader reports bytes read from the upload source.
type uploadProgressReader struct {
	reader      io.Reader
	tracker     s3types.ProgressTracker
	total       int64
	transferred int64
}

func (r *uploadProgressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.transferred += int64(n)
		r.tracker.Update(r.transferred, r.total)
	}
	//nolint:wrapcheck // source errors pass through untouched
	return n, err
}

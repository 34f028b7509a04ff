// Package streaming bridges caller-driven writes onto managed multipart
// uploads.
//
// Callers receive a write handle and push bytes at their own pace. The bytes
// flow through an in-memory pipe to the transfer manager, which cuts them
// into parts and uploads the parts concurrently. The upload outcome resolves
// only after the handle is closed and the backend has acknowledged every
// part. On failure the session is left open on the backend so the owner can
// inspect or abort it; the bridge never aborts on its own.
package streaming

import (
	"context"
	stderrors "errors"
	"io"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/halcyon-cloud/s3/errors"
	"github.com/halcyon-cloud/s3/internal/operations/upload"
	"github.com/halcyon-cloud/s3/s3types"
)

// Config carries the tuning knobs for a streamed upload.
type Config struct {
	// PartSize is the target size of each uploaded part. Values below the
	// transfer manager's minimum are raised to that minimum.
	PartSize int64

	// Concurrency is the number of parts uploaded in parallel.
	Concurrency int

	// Upload holds the object-level settings (content type, metadata, tags,
	// storage class, encryption, ACL).
	Upload *s3types.UploadConfig
}

// Upload is a live streamed upload. It is both the write side of the stream
// and the handle on which the outcome resolves.
//
// Write and Close follow io.WriteCloser. Close flushes the stream, waits for
// the backend to acknowledge every part, and returns the final outcome.
// Result blocks until the outcome is known; Done exposes the same state as a
// channel for select loops.
type Upload struct {
	bucket string
	key    string

	pw *io.PipeWriter

	mu      sync.Mutex
	closed  bool
	written int64

	done      chan struct{}
	result    *s3types.UploadResult
	err       error
	uploadID  string
	startTime time.Time
}

// Start begins a streamed upload to bucket/key and returns the live handle.
// The supplied client carries every part request; ctx bounds the whole
// transfer, including parts still in flight when it is canceled.
func Start(
	ctx context.Context,
	client manager.UploadAPIClient,
	bucket, key string,
	cfg *Config,
) *Upload {
	pr, pw := io.Pipe()

	u := &Upload{
		bucket:    bucket,
		key:       key,
		pw:        pw,
		done:      make(chan struct{}),
		startTime: time.Now(),
	}

	uploader := manager.NewUploader(client, func(mu *manager.Uploader) {
		if cfg.PartSize > 0 {
			mu.PartSize = cfg.PartSize
			if mu.PartSize < manager.MinUploadPartSize {
				mu.PartSize = manager.MinUploadPartSize
			}
		}
		if cfg.Concurrency > 0 {
			mu.Concurrency = cfg.Concurrency
		}
		// Parts already on the backend stay there on failure. The session
		// owner decides whether to resume or abort.
		mu.LeavePartsOnError = true
	})

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   pr,
	}
	uploadCfg := cfg.Upload
	if uploadCfg == nil {
		uploadCfg = &s3types.UploadConfig{}
	}
	upload.ApplyUploadOptions(input, uploadCfg)

	go u.run(ctx, uploader, input, pr)

	return u
}

// run drives the managed upload and resolves the outcome exactly once.
func (u *Upload) run(
	ctx context.Context,
	uploader *manager.Uploader,
	input *s3.PutObjectInput,
	pr *io.PipeReader,
) {
	output, err := uploader.Upload(ctx, input)

	u.mu.Lock()
	if err != nil {
		var failure manager.MultiUploadFailure
		if stderrors.As(err, &failure) {
			u.uploadID = failure.UploadID()
		}
		u.err = errors.NewObjectError("streamUpload", u.bucket, u.key, err)
	} else {
		u.uploadID = output.UploadID
		u.result = &s3types.UploadResult{
			Bucket:    u.bucket,
			Key:       u.key,
			Size:      u.written,
			ETag:      aws.ToString(output.ETag),
			VersionID: aws.ToString(output.VersionID),
			UploadID:  output.UploadID,
			Duration:  time.Since(u.startTime),
		}
	}
	u.mu.Unlock()
	close(u.done)

	// Tear down the read side last so a writer blocked in Write wakes up
	// after the outcome is visible.
	if err != nil {
		pr.CloseWithError(err)
	}
}

// Write pushes bytes into the stream. It blocks while the transfer manager
// is busy cutting parts, and fails once the stream is closed or the upload
// has already failed.
func (u *Upload) Write(p []byte) (int, error) {
	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return 0, errors.NewObjectError("streamWrite", u.bucket, u.key, errors.ErrInvalidInput).
			WithMessage("stream is closed")
	}
	u.mu.Unlock()

	n, err := u.pw.Write(p)

	u.mu.Lock()
	u.written += int64(n)
	u.mu.Unlock()

	if err != nil {
		// The pipe only breaks after the upload goroutine resolves, so the
		// terminal error is already set.
		<-u.done
		u.mu.Lock()
		defer u.mu.Unlock()
		return n, u.err
	}
	return n, nil
}

// Close ends the stream, waits for every part to be acknowledged, and
// returns the final outcome. Closing an already closed stream returns the
// same outcome again.
func (u *Upload) Close() error {
	u.mu.Lock()
	alreadyClosed := u.closed
	u.closed = true
	u.mu.Unlock()

	if !alreadyClosed {
		//nolint:errcheck // pipe writer close never fails
		u.pw.Close()
	}

	<-u.done
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.err
}

// CloseWithError ends the stream signalling that the source failed. The
// transfer manager sees reason instead of EOF, so no truncated object can
// materialize; the outcome resolves to an error and any backend session is
// left open for the owner to abort. On an already closed stream it returns
// the existing outcome.
func (u *Upload) CloseWithError(reason error) error {
	u.mu.Lock()
	alreadyClosed := u.closed
	u.closed = true
	u.mu.Unlock()

	if !alreadyClosed {
		//nolint:errcheck // pipe writer close never fails
		u.pw.CloseWithError(reason)
	}

	<-u.done
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.err
}

// Done is closed once the outcome is known, whether success or failure.
func (u *Upload) Done() <-chan struct{} {
	return u.done
}

// Result blocks until the upload resolves and returns its outcome.
func (u *Upload) Result() (*s3types.UploadResult, error) {
	<-u.done
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.result, u.err
}

// UploadID reports the multipart session id once the outcome is known. It is
// empty when the object was small enough to go up in a single request. After
// a failure it identifies the session left open on the backend.
func (u *Upload) UploadID() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.uploadID
}

package s3

import (
	"context"

	s3errors "github.com/halcyon-cloud/s3/errors"
	"github.com/halcyon-cloud/s3/internal/operations/batch"
	"github.com/halcyon-cloud/s3/s3types"
)

// DeleteBatch deletes the given keys in chunks of at most 1000 per request,
// issued strictly one after another. There is no concurrency between chunks,
// so backend load from a large deletion stays bounded and predictable.
//
// On success the returned count equals len(keys). A failure stops the
// remaining chunks; the error is a *errors.BatchError whose Completed field
// counts the objects the backend confirmed deleted before the failure, and
// the count returns the same number. A per-key rejection inside an otherwise
// successful response counts as that chunk's failure.
//
// Returns:
//   - int: The number of objects the backend confirmed deleted
//   - error: nil on full success, *errors.BatchError on partial completion
//
// Errors:
//   - ErrInvalidInput: If bucket is empty or a key in the slice is empty
//   - *errors.BatchError: Wrapping the chunk failure, with the completed count
//
// Example:
//
//	deleted, err := client.DeleteBatch(ctx, "my-bucket", keys)
//	if err != nil {
//	    var batchErr *errors.BatchError
//	    if errors.As(err, &batchErr) {
//	        log.Printf("deleted %d of %d before failing", batchErr.Completed, len(keys))
//	    }
//	    return err
//	}
func (c *Client) DeleteBatch(ctx context.Context, bucket string, keys []string) (int, error) {
	if bucket == "" {
		return 0, s3errors.NewError("deleteBatch", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage("bucket name cannot be empty")
	}
	for _, key := range keys {
		if key == "" {
			return 0, s3errors.NewError("deleteBatch", s3errors.ErrInvalidInput).
				WithBucket(bucket).
				WithMessage("empty key in keys slice")
		}
	}

	deleter := batch.NewDeleter(c.gw)
	return deleter.DeleteAll(ctx, bucket, keys)
}

// CopyBatch copies every source key into destBucket under destPrefix, one
// server-side copy call per key. The destination key is destPrefix joined
// with the basename of the source key.
//
// Copy calls run under a sliding window of at most 1000 in-flight requests
// with first-in-first-out admission: calls are issued in input order, and
// once the window is full the oldest outstanding call must finish before the
// next is admitted. WithCopyWindow narrows the window.
//
// Every source key must have a basename; a key like "a/b/" fails the whole
// call with ErrMalformedKey before any copy is issued. The operation is
// all-or-nothing: the first failure stops further admissions, already-issued
// calls are drained, and the earliest failure is returned with a zero count.
// No partial progress is reported, by contrast with DeleteBatch.
//
// When WithCopyTags is supplied, every copy replaces the destination's tag
// set with the given tags; otherwise each destination inherits its source's
// tags verbatim.
//
// Returns:
//   - int: len(keys) on success, 0 on failure
//   - error: Returns nil on success, or the first failure in issue order
//
// Errors:
//   - ErrInvalidInput: If either bucket name is empty
//   - ErrMalformedKey: If a source key has no basename
//   - ErrObjectNotFound: If a source object doesn't exist
//   - ErrAccessDenied: If the credentials lack permission to copy
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	copied, err := client.CopyBatch(ctx, "staging", keys, "production", "imported/",
//	    s3.WithCopyTags(map[string]string{"source": "staging"}),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Copied %d objects\n", copied)
func (c *Client) CopyBatch(
	ctx context.Context,
	srcBucket string,
	keys []string,
	destBucket, destPrefix string,
	opts ...s3types.CopyBatchOption,
) (int, error) {
	if srcBucket == "" {
		return 0, s3errors.NewError("copyBatch", s3errors.ErrInvalidInput).
			WithBucket(srcBucket).
			WithMessage("source bucket name cannot be empty")
	}
	if destBucket == "" {
		return 0, s3errors.NewError("copyBatch", s3errors.ErrInvalidInput).
			WithBucket(destBucket).
			WithMessage("destination bucket name cannot be empty")
	}

	config := &s3types.CopyBatchOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	copier := batch.NewCopier(c.gw, config.Window)
	return copier.CopyAll(ctx, srcBucket, keys, destBucket, destPrefix, config.Tags)
}

package batch

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	s3errors "github.com/halcyon-cloud/s3/errors"
	"github.com/halcyon-cloud/s3/internal/gateway"
)

// MaxBatchSize is the backend's per-request key cap for batch deletion.
const MaxBatchSize = 1000

// Deleter removes objects in bounded, strictly sequential chunks.
type Deleter struct {
	gw           *gateway.Gateway
	maxBatchSize int
}

// NewDeleter creates a new Deleter.
func NewDeleter(gw *gateway.Gateway) *Deleter {
	return &Deleter{
		gw:           gw,
		maxBatchSize: MaxBatchSize,
	}
}

// DeleteAll removes the given keys in chunks of at most 1000, one batch call
// per chunk, processed in order with no inter-chunk concurrency. A chunk
// failure aborts the remaining chunks; the returned BatchError carries the
// number of objects the backend confirmed deleted before the failure. On
// full success the count equals len(keys).
func (d *Deleter) DeleteAll(ctx context.Context, bucket string, keys []string) (int, error) {
	deleted := 0

	for start := 0; start < len(keys); start += d.maxBatchSize {
		end := start + d.maxBatchSize
		if end > len(keys) {
			end = len(keys)
		}

		n, err := d.deleteChunk(ctx, bucket, keys[start:end])
		deleted += n
		if err != nil {
			return deleted, &s3errors.BatchError{Completed: deleted, Err: err}
		}
	}

	return deleted, nil
}

// deleteChunk issues one batch-delete call and returns the confirmed count.
// Per-key failures reported inside a successful response count as the
// chunk's failure; objects the same response confirmed deleted still count.
func (d *Deleter) deleteChunk(ctx context.Context, bucket string, keys []string) (int, error) {
	identifiers := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		identifiers = append(identifiers, types.ObjectIdentifier{
			Key: aws.String(key),
		})
	}

	input := &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{
			Objects: identifiers,
			Quiet:   aws.Bool(false), // per-key results drive the confirmed count
		},
	}

	output, err := d.gw.DeleteObjects(ctx, input)
	if err != nil {
		return 0, err
	}

	if len(output.Errors) > 0 {
		entry := output.Errors[0]
		cause := gateway.ClassifyEntry(aws.ToString(entry.Code), aws.ToString(entry.Message))
		return len(output.Deleted), s3errors.NewObjectError(
			"deleteObjects", bucket, aws.ToString(entry.Key), cause,
		)
	}

	return len(output.Deleted), nil
}

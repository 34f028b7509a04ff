package batch

import (
	"context"
	"net/url"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/halcyon-cloud/s3/internal/gateway"
	"github.com/halcyon-cloud/s3/internal/validation"
	"github.com/halcyon-cloud/s3/s3types"
)

// MaxCopyWindow is the cap on concurrently in-flight copy calls.
const MaxCopyWindow = 1000

// Copier copies objects one call per key under a sliding concurrency window.
type Copier struct {
	gw     *gateway.Gateway
	window int
}

// NewCopier creates a new Copier. The window is clamped to [1, MaxCopyWindow];
// zero or negative selects the maximum.
func NewCopier(gw *gateway.Gateway, window int) *Copier {
	if window <= 0 || window > MaxCopyWindow {
		window = MaxCopyWindow
	}
	return &Copier{
		gw:     gw,
		window: window,
	}
}

// CopyAll copies every source key to destPrefix/basename(key) in destBucket,
// one copy call per key. Source keys are validated eagerly: a key without a
// basename fails the whole call before any copy is issued.
//
// Admission is FIFO: calls are issued in input order, and once the window is
// full the oldest outstanding call gates the next admission. A failure stops
// further admissions, already-issued calls are drained, and the first
// failure in issue order is returned; the copy is all-or-nothing and reports
// no partial count. When tags is non-nil every copy replaces the destination
// tag set with it, otherwise tags are copied verbatim from each source.
func (c *Copier) CopyAll(
	ctx context.Context,
	srcBucket string,
	keys []string,
	destBucket, destPrefix string,
	tags map[string]string,
) (int, error) {
	for _, key := range keys {
		if err := validation.ValidateKeyHasBasename(key); err != nil {
			return 0, err
		}
	}

	tagging := ""
	if tags != nil {
		tagging = s3types.EncodeTags(tags)
	}

	// Completion signals queue up in issue order; receiving from the queue
	// always yields the oldest outstanding call.
	inflight := make(chan chan error, c.window)
	var firstErr error

	for _, key := range keys {
		if len(inflight) == cap(inflight) {
			oldest := <-inflight
			if err := <-oldest; err != nil {
				firstErr = err
				break
			}
		}

		done := make(chan error, 1)
		inflight <- done
		go func(srcKey string) {
			done <- c.copyOne(ctx, srcBucket, srcKey, destBucket, destPrefix, tagging, tags != nil)
		}(key)
	}

	// Drain whatever was already issued; the earliest failure wins.
	for len(inflight) > 0 {
		oldest := <-inflight
		if err := <-oldest; err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if firstErr != nil {
		return 0, firstErr
	}
	return len(keys), nil
}

// copyOne issues a single copy call for one source key.
func (c *Copier) copyOne(
	ctx context.Context,
	srcBucket, srcKey, destBucket, destPrefix, tagging string,
	replaceTags bool,
) error {
	input := &s3.CopyObjectInput{
		Bucket:     aws.String(destBucket),
		Key:        aws.String(path.Join(destPrefix, path.Base(srcKey))),
		CopySource: aws.String(copySource(srcBucket, srcKey)),
	}
	if replaceTags {
		input.Tagging = aws.String(tagging)
		input.TaggingDirective = awstypes.TaggingDirectiveReplace
	}

	_, err := c.gw.CopyObject(ctx, input)
	return err
}

// Copy performs a single server-side object copy.
func (c *Copier) Copy(
	ctx context.Context,
	srcBucket, srcKey, destBucket, destKey string,
	config *s3types.CopyOptionConfig,
) error {
	input := &s3.CopyObjectInput{
		Bucket:     aws.String(destBucket),
		Key:        aws.String(destKey),
		CopySource: aws.String(copySource(srcBucket, srcKey)),
	}
	applyCopyOptions(input, config)

	_, err := c.gw.CopyObject(ctx, input)
	return err
}

// applyCopyOptions applies configuration options to the copy input.
func applyCopyOptions(input *s3.CopyObjectInput, config *s3types.CopyOptionConfig) {
	if config == nil {
		return
	}

	if config.Metadata != nil {
		input.Metadata = config.Metadata
		if config.ReplaceMetadata {
			input.MetadataDirective = awstypes.MetadataDirectiveReplace
		} else {
			input.MetadataDirective = awstypes.MetadataDirectiveCopy
		}
	}
	if config.StorageClass != "" {
		input.StorageClass = awstypes.StorageClass(config.StorageClass)
	}
	if config.ACL != "" {
		input.ACL = awstypes.ObjectCannedACL(config.ACL)
	}
}

// copySource builds the URL-escaped source reference for a copy call.
func copySource(bucket, key string) string {
	u := url.URL{Path: bucket + "/" + key}
	return u.EscapedPath()
}

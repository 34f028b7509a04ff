package s3

import (
	"context"

	s3errors "github.com/halcyon-cloud/s3/errors"
	"github.com/halcyon-cloud/s3/internal/presign"
	"github.com/halcyon-cloud/s3/internal/validation"
	"github.com/halcyon-cloud/s3/s3types"
)

// PresignGet issues a time-boxed download URL for an object. The grant is
// valid for five minutes; anyone holding the URL can fetch the object within
// that window without credentials of their own.
//
// The returned FileName is a display-safe name derived from the key's
// basename: every character outside letters, digits, underscore, dot, and
// hyphen becomes an underscore. WithDownloadFileName overrides the base name
// before sanitizing, so overrides are made header-safe too.
//
// Returns:
//   - *PresignedDownload: The URL, sanitized file name, method, and signed-header set
//   - error: Returns an error if signing fails
//
// Errors:
//   - ErrInvalidInput: If bucket is empty or key is invalid
//   - ErrMalformedKey: If the key ends in a path separator and carries no basename
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	grant, err := client.PresignGet(ctx, "my-bucket", "reports/Q3 Summary.pdf")
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("download %s from %s\n", grant.FileName, grant.URL)
func (c *Client) PresignGet(
	ctx context.Context,
	bucket, key string,
	opts ...s3types.PresignOption,
) (*s3types.PresignedDownload, error) {
	if bucket == "" {
		return nil, s3errors.NewError("presignGet", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateKeyHasBasename(key); err != nil {
		return nil, s3errors.NewError("presignGet", err).
			WithBucket(bucket).
			WithKey(key)
	}

	config := &s3types.PresignOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	issuer := presign.New(c.gw)
	return issuer.Get(ctx, bucket, key, config.FileName)
}

// PresignPut issues a time-boxed upload URL for an object. The grant is valid
// for 24 hours, long enough for an external uploader (typically a browser) to
// push the object directly to storage.
//
// When WithPresignTags is supplied, the tag set is bound to the upload but
// its header is excluded from the signed-header set. The uploader sends the
// tagging header with the eventual PUT; the signature does not pin its value
// at issue time. Without tags, no tagging machinery is involved at all.
//
// Returns:
//   - *PresignedUpload: The URL, HTTP method, and signed-header set
//   - error: Returns an error if signing fails
//
// Errors:
//   - ErrInvalidInput: If bucket is empty or key is invalid
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	grant, err := client.PresignPut(ctx, "my-bucket", "incoming/upload.bin",
//	    s3.WithPresignTags(map[string]string{"source": "browser"}),
//	)
//	if err != nil {
//	    return err
//	}
//	// hand grant.URL to the uploader
func (c *Client) PresignPut(
	ctx context.Context,
	bucket, key string,
	opts ...s3types.PresignOption,
) (*s3types.PresignedUpload, error) {
	if bucket == "" {
		return nil, s3errors.NewError("presignPut", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, s3errors.NewError("presignPut", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}

	config := &s3types.PresignOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	issuer := presign.New(c.gw)
	return issuer.Put(ctx, bucket, key, config.Tags)
}

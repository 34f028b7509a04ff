package multipart

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/halcyon-cloud/s3/errors"
	"github.com/halcyon-cloud/s3/internal/gateway"
	"github.com/halcyon-cloud/s3/internal/validation"
	"github.com/halcyon-cloud/s3/s3types"
)

// Controller manages multipart upload sessions against the backend.
// It holds no session state itself; every query and transition is a
// backend call.
type Controller struct {
	gw *gateway.Gateway
}

// New creates a new session controller.
func New(gw *gateway.Gateway) *Controller {
	return &Controller{
		gw: gw,
	}
}

// Create opens a new multipart session for bucket/key and returns its
// handle. Object-level settings from config apply to the assembled object.
func (c *Controller) Create(
	ctx context.Context,
	bucket, key string,
	config *s3types.UploadConfig,
) (*s3types.UploadSession, error) {
	input := &s3.CreateMultipartUploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	applyCreateOptions(input, config)

	output, err := c.gw.CreateMultipartUpload(ctx, input)
	if err != nil {
		return nil, err
	}

	return &s3types.UploadSession{
		Bucket:   bucket,
		Key:      key,
		UploadID: aws.ToString(output.UploadId),
	}, nil
}

// ListParts returns every part the backend has acknowledged for the
// session, in part number order. The listing paginates until exhausted, so
// sessions with many parts come back whole.
func (c *Controller) ListParts(
	ctx context.Context,
	session *s3types.UploadSession,
) ([]s3types.PartRecord, error) {
	var parts []s3types.PartRecord
	var marker *string

	for {
		input := &s3.ListPartsInput{
			Bucket:           aws.String(session.Bucket),
			Key:              aws.String(session.Key),
			UploadId:         aws.String(session.UploadID),
			PartNumberMarker: marker,
		}

		output, err := c.gw.ListParts(ctx, input)
		if err != nil {
			return nil, err
		}

		for _, part := range output.Parts {
			parts = append(parts, s3types.PartRecord{
				PartNumber: aws.ToInt32(part.PartNumber),
				ETag:       aws.ToString(part.ETag),
				Size:       aws.ToInt64(part.Size),
			})
		}

		if !aws.ToBool(output.IsTruncated) {
			return parts, nil
		}
		marker = output.NextPartNumberMarker
	}
}

// SignPart issues a presigned request for uploading one part of the session
// directly to the backend. The URL stays valid for s3types.PresignPartTTL.
func (c *Controller) SignPart(
	ctx context.Context,
	session *s3types.UploadSession,
	partNumber int32,
) (*s3types.PresignedUpload, error) {
	input := &s3.UploadPartInput{
		Bucket:     aws.String(session.Bucket),
		Key:        aws.String(session.Key),
		UploadId:   aws.String(session.UploadID),
		PartNumber: aws.Int32(partNumber),
	}

	request, err := c.gw.PresignUploadPart(ctx, input, s3.WithPresignExpires(s3types.PresignPartTTL))
	if err != nil {
		return nil, err
	}

	return &s3types.PresignedUpload{
		URL:          request.URL,
		Method:       request.Method,
		SignedHeader: request.SignedHeader,
	}, nil
}

// Complete assembles the session's parts into the final object. The part
// list is validated locally first: it must be non-empty and the part
// numbers must ascend without gaps. Nothing is sent to the backend when
// validation fails, so the session stays usable.
func (c *Controller) Complete(
	ctx context.Context,
	session *s3types.UploadSession,
	parts []s3types.PartRecord,
) (*s3types.CompleteResult, error) {
	if err := validatePartSequence(session, parts); err != nil {
		return nil, err
	}

	completed := make([]awstypes.CompletedPart, len(parts))
	for i, part := range parts {
		completed[i] = awstypes.CompletedPart{
			ETag:       aws.String(part.ETag),
			PartNumber: aws.Int32(part.PartNumber),
		}
	}

	input := &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(session.Bucket),
		Key:      aws.String(session.Key),
		UploadId: aws.String(session.UploadID),
		MultipartUpload: &awstypes.CompletedMultipartUpload{
			Parts: completed,
		},
	}

	output, err := c.gw.CompleteMultipartUpload(ctx, input)
	if err != nil {
		return nil, err
	}

	return &s3types.CompleteResult{
		Bucket:   session.Bucket,
		Key:      session.Key,
		ETag:     aws.ToString(output.ETag),
		Location: aws.ToString(output.Location),
	}, nil
}

// Abort terminates the session and discards its parts on the backend.
// Aborting a session that no longer exists, including one that was already
// completed, surfaces the backend's verdict unchanged.
func (c *Controller) Abort(ctx context.Context, session *s3types.UploadSession) error {
	input := &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(session.Bucket),
		Key:      aws.String(session.Key),
		UploadId: aws.String(session.UploadID),
	}

	_, err := c.gw.AbortMultipartUpload(ctx, input)
	return err
}

// validatePartSequence rejects part lists the backend would refuse anyway:
// an empty list, or part numbers that do not ascend in steps of one from
// the first entry.
func validatePartSequence(session *s3types.UploadSession, parts []s3types.PartRecord) error {
	if len(parts) == 0 {
		return errors.NewObjectError("completeUpload", session.Bucket, session.Key, errors.ErrInvalidInput).
			WithMessage("part list is empty")
	}

	for i := 1; i < len(parts); i++ {
		if parts[i].PartNumber != parts[i-1].PartNumber+1 {
			return errors.NewObjectError("completeUpload", session.Bucket, session.Key, errors.ErrInvalidInput).
				WithMessage("part numbers must be contiguous and ascending")
		}
	}
	return nil
}

// applyCreateOptions copies the object-level upload settings onto the
// session creation request.
func applyCreateOptions(input *s3.CreateMultipartUploadInput, config *s3types.UploadConfig) {
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
	if config.SSE != nil {
		switch config.SSE.Type {
		case s3types.SSES3:
			input.ServerSideEncryption = awstypes.ServerSideEncryptionAes256
		case s3types.SSEKMS:
			input.ServerSideEncryption = awstypes.ServerSideEncryptionAwsKms
			if config.SSE.KMSKeyID != "" {
				input.SSEKMSKeyId = aws.String(config.SSE.KMSKeyID)
			}
		}
	}
}

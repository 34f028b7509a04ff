// Package gateway is the single boundary between this module and the backend
// API. Every backend RPC the module issues goes through a Gateway method,
// which forwards the call unchanged and translates failures into the error
// taxonomy with operation, bucket, and key context attached. The gateway
// performs no retries; retry policy belongs to the SDK configuration or to
// the caller.
package gateway

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	s3errors "github.com/halcyon-cloud/s3/errors"
	"github.com/halcyon-cloud/s3/internal/s3api"
)

// Gateway wraps the backend API and presigning clients.
type Gateway struct {
	api       s3api.S3API
	presigner s3api.Presigner
}

// New creates a Gateway over the given API client and presigner.
// The presigner may be nil when presigned operations are not needed.
func New(api s3api.S3API, presigner s3api.Presigner) *Gateway {
	return &Gateway{
		api:       api,
		presigner: presigner,
	}
}

// PutObject uploads an object.
func (g *Gateway) PutObject(
	ctx context.Context,
	params *s3.PutObjectInput,
	optFns ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	out, err := g.api.PutObject(ctx, params, optFns...)
	if err != nil {
		return nil, g.fail("putObject", params.Bucket, params.Key, err)
	}
	return out, nil
}

// GetObject retrieves an object.
func (g *Gateway) GetObject(
	ctx context.Context,
	params *s3.GetObjectInput,
	optFns ...func(*s3.Options),
) (*s3.GetObjectOutput, error) {
	out, err := g.api.GetObject(ctx, params, optFns...)
	if err != nil {
		return nil, g.fail("getObject", params.Bucket, params.Key, err)
	}
	return out, nil
}

// HeadObject retrieves object metadata.
func (g *Gateway) HeadObject(
	ctx context.Context,
	params *s3.HeadObjectInput,
	optFns ...func(*s3.Options),
) (*s3.HeadObjectOutput, error) {
	out, err := g.api.HeadObject(ctx, params, optFns...)
	if err != nil {
		return nil, g.fail("headObject", params.Bucket, params.Key, err)
	}
	return out, nil
}

// DeleteObject deletes a single object.
func (g *Gateway) DeleteObject(
	ctx context.Context,
	params *s3.DeleteObjectInput,
	optFns ...func(*s3.Options),
) (*s3.DeleteObjectOutput, error) {
	out, err := g.api.DeleteObject(ctx, params, optFns...)
	if err != nil {
		return nil, g.fail("deleteObject", params.Bucket, params.Key, err)
	}
	return out, nil
}

// DeleteObjects deletes a batch of at most 1000 objects.
func (g *Gateway) DeleteObjects(
	ctx context.Context,
	params *s3.DeleteObjectsInput,
	optFns ...func(*s3.Options),
) (*s3.DeleteObjectsOutput, error) {
	out, err := g.api.DeleteObjects(ctx, params, optFns...)
	if err != nil {
		return nil, g.fail("deleteObjects", params.Bucket, nil, err)
	}
	return out, nil
}

// ListObjectsV2 lists one page of objects.
func (g *Gateway) ListObjectsV2(
	ctx context.Context,
	params *s3.ListObjectsV2Input,
	optFns ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	out, err := g.api.ListObjectsV2(ctx, params, optFns...)
	if err != nil {
		return nil, g.fail("listObjectsV2", params.Bucket, nil, err)
	}
	return out, nil
}

// CopyObject copies a single object.
func (g *Gateway) CopyObject(
	ctx context.Context,
	params *s3.CopyObjectInput,
	optFns ...func(*s3.Options),
) (*s3.CopyObjectOutput, error) {
	out, err := g.api.CopyObject(ctx, params, optFns...)
	if err != nil {
		return nil, g.fail("copyObject", params.Bucket, params.Key, err)
	}
	return out, nil
}

// CreateMultipartUpload starts a multipart upload session.
func (g *Gateway) CreateMultipartUpload(
	ctx context.Context,
	params *s3.CreateMultipartUploadInput,
	optFns ...func(*s3.Options),
) (*s3.CreateMultipartUploadOutput, error) {
	out, err := g.api.CreateMultipartUpload(ctx, params, optFns...)
	if err != nil {
		return nil, g.fail("createMultipartUpload", params.Bucket, params.Key, err)
	}
	return out, nil
}

// UploadPart uploads one part of a multipart session.
func (g *Gateway) UploadPart(
	ctx context.Context,
	params *s3.UploadPartInput,
	optFns ...func(*s3.Options),
) (*s3.UploadPartOutput, error) {
	out, err := g.api.UploadPart(ctx, params, optFns...)
	if err != nil {
		return nil, g.fail("uploadPart", params.Bucket, params.Key, err)
	}
	return out, nil
}

// ListParts lists the backend-acknowledged parts of a multipart session.
func (g *Gateway) ListParts(
	ctx context.Context,
	params *s3.ListPartsInput,
	optFns ...func(*s3.Options),
) (*s3.ListPartsOutput, error) {
	out, err := g.api.ListParts(ctx, params, optFns...)
	if err != nil {
		return nil, g.fail("listParts", params.Bucket, params.Key, err)
	}
	return out, nil
}

// CompleteMultipartUpload finalizes a multipart session.
func (g *Gateway) CompleteMultipartUpload(
	ctx context.Context,
	params *s3.CompleteMultipartUploadInput,
	optFns ...func(*s3.Options),
) (*s3.CompleteMultipartUploadOutput, error) {
	out, err := g.api.CompleteMultipartUpload(ctx, params, optFns...)
	if err != nil {
		return nil, g.fail("completeMultipartUpload", params.Bucket, params.Key, err)
	}
	return out, nil
}

// AbortMultipartUpload aborts a multipart session.
func (g *Gateway) AbortMultipartUpload(
	ctx context.Context,
	params *s3.AbortMultipartUploadInput,
	optFns ...func(*s3.Options),
) (*s3.AbortMultipartUploadOutput, error) {
	out, err := g.api.AbortMultipartUpload(ctx, params, optFns...)
	if err != nil {
		return nil, g.fail("abortMultipartUpload", params.Bucket, params.Key, err)
	}
	return out, nil
}

// CreateBucket creates a bucket.
func (g *Gateway) CreateBucket(
	ctx context.Context,
	params *s3.CreateBucketInput,
	optFns ...func(*s3.Options),
) (*s3.CreateBucketOutput, error) {
	out, err := g.api.CreateBucket(ctx, params, optFns...)
	if err != nil {
		return nil, g.fail("createBucket", params.Bucket, nil, err)
	}
	return out, nil
}

// HeadBucket checks bucket existence and accessibility.
func (g *Gateway) HeadBucket(
	ctx context.Context,
	params *s3.HeadBucketInput,
	optFns ...func(*s3.Options),
) (*s3.HeadBucketOutput, error) {
	out, err := g.api.HeadBucket(ctx, params, optFns...)
	if err != nil {
		return nil, g.fail("headBucket", params.Bucket, nil, err)
	}
	return out, nil
}

// DeleteBucket deletes a bucket.
func (g *Gateway) DeleteBucket(
	ctx context.Context,
	params *s3.DeleteBucketInput,
	optFns ...func(*s3.Options),
) (*s3.DeleteBucketOutput, error) {
	out, err := g.api.DeleteBucket(ctx, params, optFns...)
	if err != nil {
		return nil, g.fail("deleteBucket", params.Bucket, nil, err)
	}
	return out, nil
}

// PresignGetObject produces a presigned GET request.
func (g *Gateway) PresignGetObject(
	ctx context.Context,
	params *s3.GetObjectInput,
	optFns ...func(*s3.PresignOptions),
) (*v4.PresignedHTTPRequest, error) {
	out, err := g.presigner.PresignGetObject(ctx, params, optFns...)
	if err != nil {
		return nil, g.fail("presignGetObject", params.Bucket, params.Key, err)
	}
	return out, nil
}

// PresignPutObject produces a presigned PUT request.
func (g *Gateway) PresignPutObject(
	ctx context.Context,
	params *s3.PutObjectInput,
	optFns ...func(*s3.PresignOptions),
) (*v4.PresignedHTTPRequest, error) {
	out, err := g.presigner.PresignPutObject(ctx, params, optFns...)
	if err != nil {
		return nil, g.fail("presignPutObject", params.Bucket, params.Key, err)
	}
	return out, nil
}

// PresignUploadPart produces a presigned part-upload request.
func (g *Gateway) PresignUploadPart(
	ctx context.Context,
	params *s3.UploadPartInput,
	optFns ...func(*s3.PresignOptions),
) (*v4.PresignedHTTPRequest, error) {
	out, err := g.presigner.PresignUploadPart(ctx, params, optFns...)
	if err != nil {
		return nil, g.fail("presignUploadPart", params.Bucket, params.Key, err)
	}
	return out, nil
}

// fail translates a backend failure into the error taxonomy with call context.
func (g *Gateway) fail(op string, bucket, key *string, err error) error {
	e := s3errors.NewError(op, Classify(err))
	if bucket != nil {
		e = e.WithBucket(aws.ToString(bucket))
	}
	if key != nil {
		e = e.WithKey(aws.ToString(key))
	}
	return e
}

// Classify builds a BackendError from an SDK failure. The service error code
// and HTTP status are extracted when present, a canonical sentinel is
// attached for known failure classes, and transient failures are marked
// retryable.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	be := &s3errors.BackendError{Message: err.Error()}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		be.Code = apiErr.ErrorCode()
		be.Message = apiErr.ErrorMessage()
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		be.StatusCode = respErr.HTTPStatusCode()
	}

	be.Err = sentinelFor(be.Code, be.StatusCode)
	be.Retryable = retryable(err, be.Code, be.StatusCode)

	return be
}

// ClassifyEntry builds a BackendError for a per-key failure entry reported
// inside an otherwise successful batch response.
func ClassifyEntry(code, message string) error {
	return &s3errors.BackendError{
		Code:      code,
		Message:   message,
		Err:       sentinelFor(code, 0),
		Retryable: retryable(nil, code, 0),
	}
}

// sentinelFor maps a service error code (or bare HTTP status) to the
// canonical sentinel for its failure class.
func sentinelFor(code string, status int) error {
	switch code {
	case "NoSuchKey", "NotFound":
		return s3errors.ErrObjectNotFound
	case "NoSuchBucket":
		return s3errors.ErrBucketNotFound
	case "NoSuchUpload":
		return s3errors.ErrSessionTerminal
	case "AccessDenied":
		return s3errors.ErrAccessDenied
	case "BucketAlreadyExists", "BucketAlreadyOwnedByYou":
		return s3errors.ErrBucketAlreadyExists
	case "BucketNotEmpty":
		return s3errors.ErrBucketNotEmpty
	case "PreconditionFailed":
		return s3errors.ErrPreconditionFailed
	case "SlowDown", "TooManyRequests", "RequestLimitExceeded":
		return s3errors.ErrTooManyRequests
	case "RequestTimeout":
		return s3errors.ErrTimeout
	case "InvalidRange":
		return s3errors.ErrInvalidRange
	}

	// HeadObject and HeadBucket failures carry no code, only a status.
	switch status {
	case http.StatusNotFound:
		return s3errors.ErrObjectNotFound
	case http.StatusForbidden:
		return s3errors.ErrAccessDenied
	}

	return nil
}

// retryable classifies transient failures. Caller-initiated cancellation is
// never retryable; I/O timeouts and throttling or server-side failures are.
func retryable(err error, code string, status int) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	switch code {
	case "SlowDown", "TooManyRequests", "RequestLimitExceeded",
		"RequestTimeout", "InternalError", "ServiceUnavailable":
		return true
	}

	switch {
	case status == http.StatusTooManyRequests:
		return true
	case status == http.StatusRequestTimeout:
		return true
	case status >= 500 && status != http.StatusNotImplemented:
		return true
	}

	return false
}

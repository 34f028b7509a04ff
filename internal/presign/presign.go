// Package presign issues time-limited URLs for direct backend access.
//
// Download URLs are short-lived and come paired with a display-safe file
// name derived from the object key. Upload URLs live long enough for
// external uploaders to push large objects, and can bind a tag set whose
// header stays outside the signature so the uploader supplies it at upload
// time.
package presign

import (
	"context"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/halcyon-cloud/s3/internal/gateway"
	"github.com/halcyon-cloud/s3/s3types"
)

// taggingHeader is the request header S3 reads object tags from.
const taggingHeader = "X-Amz-Tagging"

// Issuer creates presigned requests through the gateway's presigning
// collaborator.
type Issuer struct {
	gw *gateway.Gateway
}

// New creates a new Issuer.
func New(gw *gateway.Gateway) *Issuer {
	return &Issuer{
		gw: gw,
	}
}

// Get issues a presigned download URL for bucket/key, valid for
// s3types.PresignGetTTL. The returned FileName is fileName, or the key's
// basename when fileName is empty, sanitized so it can be displayed or
// embedded without escaping.
func (i *Issuer) Get(
	ctx context.Context,
	bucket, key, fileName string,
) (*s3types.PresignedDownload, error) {
	name := fileName
	if name == "" {
		name = path.Base(key)
	}
	name = SanitizeFileName(name)

	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	request, err := i.gw.PresignGetObject(ctx, input, s3.WithPresignExpires(s3types.PresignGetTTL))
	if err != nil {
		return nil, err
	}

	return &s3types.PresignedDownload{
		URL:          request.URL,
		FileName:     name,
		Method:       request.Method,
		SignedHeader: request.SignedHeader,
	}, nil
}

// Put issues a presigned upload URL for bucket/key, valid for
// s3types.PresignPutTTL. When tags is non-nil the tag header is bound to
// the request but removed from the canonical signed-header set, so the
// uploader sends it with the eventual PUT without the signature pinning
// its value at issue time.
func (i *Issuer) Put(
	ctx context.Context,
	bucket, key string,
	tags map[string]string,
) (*s3types.PresignedUpload, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	presignOpts := []func(*s3.PresignOptions){
		s3.WithPresignExpires(s3types.PresignPutTTL),
	}
	if tags != nil {
		input.Tagging = aws.String(s3types.EncodeTags(tags))
		presignOpts = append(presignOpts, withUnhoistedTagging())
	}

	request, err := i.gw.PresignPutObject(ctx, input, presignOpts...)
	if err != nil {
		return nil, err
	}

	return &s3types.PresignedUpload{
		URL:          request.URL,
		Method:       request.Method,
		SignedHeader: request.SignedHeader,
	}, nil
}

// SanitizeFileName maps every rune outside A-Za-z0-9, underscore, dot and
// hyphen to an underscore. The result is safe as a display name or header
// value without further escaping.
func SanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '_' || r == '.' || r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}

// withUnhoistedTagging strips the tagging header from the request right
// before signing. The header still reaches the backend when the uploader
// sets it on the eventual request; it is simply not part of the signature.
func withUnhoistedTagging() func(*s3.PresignOptions) {
	return func(po *s3.PresignOptions) {
		po.ClientOptions = append(po.ClientOptions, s3.WithAPIOptions(addUnhoistTagging))
	}
}

// addUnhoistTagging registers the header-stripping middleware at the front
// of the finalize step, ahead of the presign signer.
func addUnhoistTagging(stack *middleware.Stack) error {
	return stack.Finalize.Add(middleware.FinalizeMiddlewareFunc(
		"UnhoistTaggingHeader",
		func(
			ctx context.Context,
			in middleware.FinalizeInput,
			next middleware.FinalizeHandler,
		) (middleware.FinalizeOutput, middleware.Metadata, error) {
			if req, ok := in.Request.(*smithyhttp.Request); ok {
				req.Header.Del(taggingHeader)
			}
			return next.HandleFinalize(ctx, in)
		},
	), middleware.Before)
}

package s3

import (
	"context"

	s3errors "github.com/halcyon-cloud/s3/errors"
	"github.com/halcyon-cloud/s3/internal/transfer/multipart"
	"github.com/halcyon-cloud/s3/internal/validation"
	"github.com/halcyon-cloud/s3/s3types"
)

// CreateUploadSession opens a multipart upload session for bucket/key and
// returns its handle. The backend is the source of truth for the session
// from this point on: no local state is kept, and the handle is just the
// coordinates needed to address the session later.
//
// Sessions exist for parts to be uploaded out-of-process: hand part URLs
// from SignPartUpload to external uploaders, collect their part records,
// then finish with CompleteUploadSession or discard with AbortUploadSession.
// Upload options (content type, metadata, tags, storage class, SSE, ACL)
// bind to the object that materializes on completion.
//
// Returns:
//   - *UploadSession: The session handle (bucket, key, upload ID)
//   - error: Returns an error if the session cannot be created
//
// Errors:
//   - ErrInvalidInput: If bucket is empty or key is invalid
//   - ErrAccessDenied: If the credentials lack permission to upload
//   - ErrBucketNotFound: If the specified bucket doesn't exist
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	session, err := client.CreateUploadSession(ctx, "my-bucket", "big/archive.tar",
//	    s3.WithContentType("application/x-tar"),
//	)
//	if err != nil {
//	    return err
//	}
//	grant, err := client.SignPartUpload(ctx, session, 1)
//	// ... hand grant.URL to the external uploader ...
func (c *Client) CreateUploadSession(
	ctx context.Context,
	bucket, key string,
	opts ...s3types.UploadOption,
) (*s3types.UploadSession, error) {
	if bucket == "" {
		return nil, s3errors.NewError("createUploadSession", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, s3errors.NewError("createUploadSession", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}

	config := c.applyUploadOptions(opts)

	controller := multipart.New(c.gw)
	return controller.Create(ctx, bucket, key, uploadConfigFromOptions(config))
}

// ListUploadedParts returns the parts the backend has acknowledged for the
// session, in part-number order. The listing paginates internally, so
// sessions with many parts come back whole.
//
// This is the authoritative view of the session's progress; nothing is
// cached locally.
//
// Returns:
//   - []PartRecord: Part number, ETag, and size for each acknowledged part
//   - error: Returns an error if the listing fails
//
// Errors:
//   - ErrInvalidInput: If the session handle is nil or incomplete
//   - ErrSessionTerminal: If the session was already completed or aborted
//   - ErrAccessDenied: If the credentials lack permission
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	parts, err := client.ListUploadedParts(ctx, session)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d parts uploaded so far\n", len(parts))
func (c *Client) ListUploadedParts(
	ctx context.Context,
	session *s3types.UploadSession,
) ([]s3types.PartRecord, error) {
	if err := validateSession("listUploadedParts", session); err != nil {
		return nil, err
	}

	controller := multipart.New(c.gw)
	return controller.ListParts(ctx, session)
}

// SignPartUpload issues a presigned URL for uploading one part of the
// session. The grant is valid for 24 hours and covers exactly one part
// number; the holder PUTs the part's bytes to the URL and reads the part's
// ETag from the response for later completion.
//
// Returns:
//   - *PresignedUpload: The URL, HTTP method, and signed-header set
//   - error: Returns an error if signing fails
//
// Errors:
//   - ErrInvalidInput: If the session handle is nil/incomplete or partNumber < 1
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	grant, err := client.SignPartUpload(ctx, session, 3)
//	if err != nil {
//	    return err
//	}
//	req, _ := http.NewRequest(grant.Method, grant.URL, partData)
func (c *Client) SignPartUpload(
	ctx context.Context,
	session *s3types.UploadSession,
	partNumber int32,
) (*s3types.PresignedUpload, error) {
	if err := validateSession("signPartUpload", session); err != nil {
		return nil, err
	}
	if partNumber < 1 {
		return nil, s3errors.NewError("signPartUpload", s3errors.ErrInvalidInput).
			WithBucket(session.Bucket).
			WithKey(session.Key).
			WithMessage("part number must be at least 1")
	}

	controller := multipart.New(c.gw)
	return controller.SignPart(ctx, session, partNumber)
}

// CompleteUploadSession assembles the session's parts into the final object.
// The part list must be exactly what the caller wants assembled: non-empty,
// in ascending order, and contiguously numbered. Violations fail locally
// with ErrInvalidInput before any backend call; the list is never reordered
// or repaired here.
//
// On success the object materializes and the session ends. The part records
// come from whoever uploaded the parts (see ListUploadedParts for the
// backend's view).
//
// Returns:
//   - *CompleteResult: The assembled object's bucket, key, ETag, and location
//   - error: Returns an error if validation or completion fails
//
// Errors:
//   - ErrInvalidInput: If the session handle is invalid or the part list is
//     empty or not contiguously ascending
//   - ErrSessionTerminal: If the session was already completed or aborted
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	result, err := client.CompleteUploadSession(ctx, session, parts)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Assembled %s with ETag %s\n", result.Key, result.ETag)
func (c *Client) CompleteUploadSession(
	ctx context.Context,
	session *s3types.UploadSession,
	parts []s3types.PartRecord,
) (*s3types.CompleteResult, error) {
	if err := validateSession("completeUploadSession", session); err != nil {
		return nil, err
	}

	controller := multipart.New(c.gw)
	return controller.Complete(ctx, session, parts)
}

// AbortUploadSession discards the session and the parts uploaded under it.
// The backend's verdict is surfaced unchanged: aborting a session that was
// already completed or aborted returns ErrSessionTerminal rather than being
// treated as success, so a misordered teardown stays visible.
//
// Returns:
//   - error: Returns nil on success, or an error if the abort fails
//
// Errors:
//   - ErrInvalidInput: If the session handle is nil or incomplete
//   - ErrSessionTerminal: If the session was already completed or aborted
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	if err := client.AbortUploadSession(ctx, session); err != nil {
//	    return fmt.Errorf("failed to abort session: %w", err)
//	}
func (c *Client) AbortUploadSession(ctx context.Context, session *s3types.UploadSession) error {
	if err := validateSession("abortUploadSession", session); err != nil {
		return err
	}

	controller := multipart.New(c.gw)
	return controller.Abort(ctx, session)
}

// validateSession rejects nil or incomplete session handles.
func validateSession(op string, session *s3types.UploadSession) error {
	if session == nil {
		return s3errors.NewError(op, s3errors.ErrInvalidInput).
			WithMessage("session cannot be nil")
	}
	if session.Bucket == "" || session.Key == "" || session.UploadID == "" {
		return s3errors.NewError(op, s3errors.ErrInvalidInput).
			WithBucket(session.Bucket).
			WithKey(session.Key).
			WithMessage("session is missing bucket, key, or upload id")
	}
	return nil
}

// Package errors provides error types and handling for object storage operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a storage operation error with context about the operation that failed.
// It wraps the underlying backend error with additional context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "upload", "list", "completeUploadSession")
	Op string

	// Bucket is the bucket name (if applicable)
	Bucket string

	// Key is the object key (if applicable)
	Key string

	// Err is the underlying error from the backend SDK or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("s3.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("s3.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("s3.%s object %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("s3.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewBucketError creates a new Error with bucket context.
func NewBucketError(op, bucket string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Err:    err,
	}
}

// NewObjectError creates a new Error with bucket and key context.
func NewObjectError(op, bucket, key string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Key:    key,
		Err:    err,
	}
}

// NewValidationError creates a new Error describing rejected caller input.
func NewValidationError(message string) *Error {
	return &Error{
		Op:  "validate",
		Err: fmt.Errorf("%s: %w", message, ErrInvalidInput),
	}
}

// BackendError describes a failed backend RPC. It carries the service error
// code when one was returned, the HTTP status when the failure reached the
// wire, and a retryability classification. The zero Code means the failure
// never produced a service response (network error, cancelled context).
//
// BackendError.Err holds the canonical sentinel for the failure class when
// one applies (for example ErrObjectNotFound), so errors.Is checks keep
// working across the taxonomy.
type BackendError struct {
	// Code is the service error code (e.g., "NoSuchKey", "SlowDown")
	Code string

	// Message is the service or transport failure message
	Message string

	// StatusCode is the HTTP status of the response, 0 if none was received
	StatusCode int

	// Retryable reports whether the failure class is safe to retry
	Retryable bool

	// Err is the canonical sentinel classification, nil if none applies
	Err error
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the sentinel classification for errors.Is support.
func (e *BackendError) Unwrap() error {
	return e.Err
}

// BatchError reports a bulk operation that stopped partway through.
// Completed counts the objects successfully processed before the failure;
// Err is the failure that aborted the remainder.
type BatchError struct {
	Completed int
	Err       error
}

// Error implements the error interface.
func (e *BatchError) Error() string {
	return fmt.Sprintf("batch aborted after %d objects: %v", e.Completed, e.Err)
}

// Unwrap returns the underlying cause for error chaining support.
func (e *BatchError) Unwrap() error {
	return e.Err
}

// Sentinel errors for common storage operation failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrObjectNotFound indicates that the requested object does not exist
	ErrObjectNotFound = errors.New("s3: object not found")

	// ErrBucketNotFound indicates that the requested bucket does not exist
	ErrBucketNotFound = errors.New("s3: bucket not found")

	// ErrAccessDenied indicates that access to the resource is denied
	ErrAccessDenied = errors.New("s3: access denied")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("s3: invalid input")

	// ErrBucketAlreadyExists indicates that the bucket already exists
	ErrBucketAlreadyExists = errors.New("s3: bucket already exists")

	// ErrBucketNotEmpty indicates that the bucket is not empty and cannot be deleted
	ErrBucketNotEmpty = errors.New("s3: bucket not empty")

	// ErrInvalidBucketName indicates that the bucket name is invalid
	ErrInvalidBucketName = errors.New("s3: invalid bucket name")

	// ErrInvalidObjectKey indicates that the object key is invalid
	ErrInvalidObjectKey = errors.New("s3: invalid object key")

	// ErrMalformedKey indicates that a key has no basename where one is
	// required for derived naming (e.g., it ends with a path separator)
	ErrMalformedKey = errors.New("s3: key has no basename")

	// ErrSessionTerminal indicates an operation on a multipart upload session
	// that the backend no longer considers active (completed or aborted)
	ErrSessionTerminal = errors.New("s3: multipart session no longer active")

	// ErrPreconditionFailed indicates that a conditional request was not satisfied
	ErrPreconditionFailed = errors.New("s3: precondition failed")

	// ErrTooManyRequests indicates that the request rate is too high
	ErrTooManyRequests = errors.New("s3: too many requests")

	// ErrTimeout indicates that the operation timed out
	ErrTimeout = errors.New("s3: operation timeout")

	// ErrConnection indicates a connection error
	ErrConnection = errors.New("s3: connection error")

	// ErrInvalidRange indicates that the requested range is invalid
	ErrInvalidRange = errors.New("s3: invalid range")
)

// IsObjectNotFound checks if an error indicates that an object was not found.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsObjectNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}

// IsBucketNotFound checks if an error indicates that a bucket was not found.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsBucketNotFound(err error) bool {
	return errors.Is(err, ErrBucketNotFound)
}

// IsAccessDenied checks if an error indicates access was denied.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsInvalidInput checks if an error indicates invalid input.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsMalformedKey checks if an error indicates a key without a usable basename.
func IsMalformedKey(err error) bool {
	return errors.Is(err, ErrMalformedKey)
}

// IsSessionTerminal checks if an error indicates a multipart session in a
// terminal state (already completed or aborted on the backend).
func IsSessionTerminal(err error) bool {
	return errors.Is(err, ErrSessionTerminal)
}

// IsRetryable reports whether the error carries a backend failure classified
// as retryable. Errors that never reached the backend report false.
func IsRetryable(err error) bool {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Retryable
	}
	return false
}

// AsBackendError extracts the BackendError from an error chain, if present.
func AsBackendError(err error) (*BackendError, bool) {
	var be *BackendError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// Package s3types provides shared type definitions for the S3 module.
package s3types

import (
	"net/http"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
)

// StorageClass represents the S3 storage class for objects.
type StorageClass string

// Predefined S3 storage classes
const (
	// StorageClassStandard is the default S3 storage class
	StorageClassStandard StorageClass = "STANDARD"

	// StorageClassReducedRedundancy provides reduced redundancy storage
	StorageClassReducedRedundancy StorageClass = "REDUCED_REDUNDANCY"

	// StorageClassStandardIA provides infrequent access storage
	StorageClassStandardIA StorageClass = "STANDARD_IA"

	// StorageClassOneZoneIA provides one zone infrequent access storage
	StorageClassOneZoneIA StorageClass = "ONEZONE_IA"

	// StorageClassIntelligentTiering provides intelligent tiering storage
	StorageClassIntelligentTiering StorageClass = "INTELLIGENT_TIERING"

	// StorageClassGlacier provides Glacier archival storage
	StorageClassGlacier StorageClass = "GLACIER"

	// StorageClassDeepArchive provides Deep Archive storage
	StorageClassDeepArchive StorageClass = "DEEP_ARCHIVE"

	// StorageClassGlacierIR provides Glacier Instant Retrieval storage
	StorageClassGlacierIR StorageClass = "GLACIER_IR"
)

// SSEType represents the server-side encryption type for objects.
type SSEType string

// Predefined server-side encryption types
const (
	// SSES3 uses S3-managed encryption keys
	SSES3 SSEType = "AES256"

	// SSEKMS uses AWS KMS-managed encryption keys
	SSEKMS SSEType = "aws:kms"
)

// ObjectACL represents the access control list for S3 objects.
type ObjectACL string

// Predefined object ACLs
const (
	// ACLPrivate grants private access (default)
	ACLPrivate ObjectACL = "private"

	// ACLPublicRead grants public read access
	ACLPublicRead ObjectACL = "public-read"

	// ACLPublicReadWrite grants public read and write access
	ACLPublicReadWrite ObjectACL = "public-read-write"

	// ACLAuthenticatedRead grants authenticated users read access
	ACLAuthenticatedRead ObjectACL = "authenticated-read"

	// ACLOwnerRead grants bucket owner read access
	ACLOwnerRead ObjectACL = "bucket-owner-read"

	// ACLOwnerFullControl grants bucket owner full control
	ACLOwnerFullControl ObjectACL = "bucket-owner-full-control"
)

// Presigned URL lifetimes. GET grants are short-lived display links; PUT and
// part-upload grants cover long external transfers.
const (
	// PresignGetTTL is the fixed lifetime of presigned download URLs
	PresignGetTTL = 5 * time.Minute

	// PresignPutTTL is the fixed lifetime of presigned upload URLs
	PresignPutTTL = 24 * time.Hour

	// PresignPartTTL is the fixed lifetime of presigned part-upload URLs
	PresignPartTTL = 24 * time.Hour
)

// Object represents an S3 object with its basic metadata.
type Object struct {
	// Key is the S3 object key (path)
	Key string

	// Size is the object size in bytes
	Size int64

	// LastModified is when the object was last modified
	LastModified time.Time

	// ETag is the S3 entity tag for the object
	ETag string

	// StorageClass is the S3 storage class
	StorageClass string
}

// ObjectResult carries one object of a streamed enumeration, or the error
// that ended it. After an entry with Err set, the stream's channel is closed.
type ObjectResult struct {
	// Object is the enumerated object when Err is nil
	Object Object

	// Err is the failure that terminated the enumeration
	Err error
}

// ObjectDescriptor is the curated listing projection of an object.
// Name is the basename of Key; folder markers never appear as descriptors.
type ObjectDescriptor struct {
	// Name is the display name (basename of Key)
	Name string

	// Bucket is the bucket holding the object
	Bucket string

	// Key is the full object key
	Key string

	// Size is the object size in bytes
	Size int64

	// LastModified is when the object was last modified
	LastModified time.Time
}

// ObjectMetadata contains detailed metadata about an S3 object.
type ObjectMetadata struct {
	// ContentType is the MIME type of the object
	ContentType string

	// ContentLength is the size of the object in bytes
	ContentLength int64

	// LastModified is when the object was last modified
	LastModified time.Time

	// ETag is the S3 entity tag for the object
	ETag string

	// Metadata contains user-defined metadata
	Metadata map[string]string
}

// UploadSession identifies a backend-side multipart upload session.
// The backend is the source of truth for the session's parts and state;
// the session value itself carries no part bookkeeping.
type UploadSession struct {
	// Bucket is the bucket the session uploads into
	Bucket string

	// Key is the object key the session will materialize on completion
	Key string

	// UploadID is the backend-assigned session identifier
	UploadID string
}

// PartRecord describes one uploaded part of a multipart session.
// Records are supplied by whoever transferred the part's bytes (this
// process or an external agent holding a presigned part URL).
type PartRecord struct {
	// PartNumber is the 1-based part number
	PartNumber int32

	// ETag is the entity tag the backend returned for the part
	ETag string

	// Size is the part size in bytes
	Size int64
}

// PresignedDownload is a time-boxed delegated GET grant.
type PresignedDownload struct {
	// URL is the presigned download URL
	URL string

	// FileName is the sanitized display name derived from the key's basename
	FileName string

	// Method is the HTTP method the grant is valid for
	Method string

	// SignedHeader is the header set covered by the signature
	SignedHeader http.Header
}

// PresignedUpload is a time-boxed delegated PUT or part-upload grant.
type PresignedUpload struct {
	// URL is the presigned upload URL
	URL string

	// Method is the HTTP method the grant is valid for
	Method string

	// SignedHeader is the header set covered by the signature. Headers the
	// uploader supplies later (an un-hoisted tagging header) are absent here.
	SignedHeader http.Header
}

// ProgressTracker defines the interface for tracking transfer progress.
// Implementations can provide real-time progress updates during uploads and downloads.
type ProgressTracker interface {
	// Update is called periodically with transfer progress
	Update(bytesTransferred, totalBytes int64)

	// Complete is called when the transfer completes successfully
	Complete()

	// Error is called when the transfer fails
	Error(err error)
}

// SSEConfig contains server-side encryption configuration.
type SSEConfig struct {
	// Type is the encryption type (S3 or KMS)
	Type SSEType

	// KMSKeyID is the KMS key ID (required for SSE-KMS)
	KMSKeyID string
}

// UploadConfig holds configuration for upload operations.
type UploadConfig struct {
	ContentType     string
	Metadata        map[string]string
	Tags            map[string]string
	StorageClass    StorageClass
	SSE             *SSEConfig
	ACL             ObjectACL
	ProgressTracker ProgressTracker
	PartSize        int64
	Concurrency     int
}

// DownloadConfig holds configuration for download operations.
type DownloadConfig struct {
	ProgressTracker ProgressTracker
	RangeSpec       string
}

// UploadResult contains the result of an upload operation.
type UploadResult struct {
	// Bucket is the bucket the object was uploaded into
	Bucket string

	// Key is the S3 object key that was uploaded
	Key string

	// Size is the size of the uploaded object in bytes
	Size int64

	// ETag is the S3 entity tag for the uploaded object
	ETag string

	// VersionID is the version ID if versioning is enabled
	VersionID string

	// UploadID is the multipart session ID when the upload went multipart
	UploadID string

	// Duration is how long the upload took
	Duration time.Duration
}

// DownloadResult contains the result of a download operation.
type DownloadResult struct {
	// Key is the S3 object key that was downloaded
	Key string

	// Size is the size of the downloaded object in bytes
	Size int64

	// ETag is the S3 entity tag for the downloaded object
	ETag string

	// VersionID is the version ID if versioning is enabled
	VersionID string

	// Duration is how long the download took
	Duration time.Duration
}

// CompleteResult contains the result of completing a multipart session.
type CompleteResult struct {
	// Bucket is the bucket the object materialized in
	Bucket string

	// Key is the object key that materialized
	Key string

	// ETag is the entity tag of the assembled object
	ETag string

	// Location is the backend-reported object URL, if any
	Location string
}

// ListResult contains the result of a single-page list operation.
type ListResult struct {
	// Objects contains the listed objects
	Objects []Object

	// CommonPrefixes contains collapsed prefixes when a delimiter is set
	CommonPrefixes []string

	// IsTruncated indicates if the results were truncated
	IsTruncated bool

	// NextContinuationToken resumes enumeration at the next page
	NextContinuationToken string
}

// EncodeTags encodes a tag set into the URL-encoded form the backend expects
// in tagging headers and parameters. Keys are emitted in sorted order, so the
// encoding is deterministic.
func EncodeTags(tags map[string]string) string {
	values := make(url.Values, len(tags))
	for key, value := range tags {
		values.Set(key, value)
	}
	return values.Encode()
}

// Configuration types for functional options

// ClientConfig holds configuration for the S3 client.
type ClientConfig struct {
	Region          string
	Endpoint        string
	MaxRetries      int
	Timeout         time.Duration
	Concurrency     int
	PartSize        int64
	ForcePathStyle  bool
	CustomAWSConfig *aws.Config
	Filesystem      fs.Filesystem // Filesystem abstraction for file operations
}

// UploadOptionConfig holds configuration for upload operations via functional options.
type UploadOptionConfig struct {
	ContentType     string
	Metadata        map[string]string
	Tags            map[string]string
	StorageClass    StorageClass
	SSE             *SSEConfig
	ACL             ObjectACL
	ProgressTracker ProgressTracker
	PartSize        int64
	Concurrency     int
}

// DownloadOptionConfig holds configuration for download operations via functional options.
type DownloadOptionConfig struct {
	ProgressTracker ProgressTracker
	RangeSpec       string // renamed from "range" to avoid Go keyword conflict
}

// ListOptionConfig holds configuration for curated list operations via functional options.
type ListOptionConfig struct {
	// Search keeps only keys containing the substring when non-empty
	Search string

	// Limit truncates the accumulated result to its first Limit entries
	// when positive
	Limit int
}

// ListPageOptionConfig holds configuration for single-page list operations.
type ListPageOptionConfig struct {
	Delimiter         string
	MaxKeys           int32
	StartAfter        string
	ContinuationToken string
}

// CopyOptionConfig holds configuration for copy operations via functional options.
type CopyOptionConfig struct {
	Metadata        map[string]string
	StorageClass    StorageClass
	ACL             ObjectACL
	ReplaceMetadata bool
}

// CopyBatchOptionConfig holds configuration for batch copy operations.
type CopyBatchOptionConfig struct {
	// Tags replaces destination tags on every copy when non-nil;
	// nil copies tags verbatim from each source
	Tags map[string]string

	// Window caps concurrently in-flight copy calls, at most 1000
	Window int
}

// PresignOptionConfig holds configuration for presign operations.
type PresignOptionConfig struct {
	// FileName overrides the basename used for the download display name
	FileName string

	// Tags binds a tag set to a presigned upload; the tagging header stays
	// outside the signed-header set so the uploader can supply it later
	Tags map[string]string
}

// BucketOptionConfig holds configuration for bucket operations via functional options.
type BucketOptionConfig struct {
	Region string
}

// Option is a functional option for configuring the S3 client.
type (
	Option func(*ClientConfig)
	// UploadOption is a functional option for configuring S3 upload operations.
	UploadOption func(*UploadOptionConfig)
	// DownloadOption is a functional option for configuring S3 download operations.
	DownloadOption func(*DownloadOptionConfig)
	// CopyOption is a functional option for configuring S3 copy operations.
	CopyOption func(*CopyOptionConfig)
	// CopyBatchOption is a functional option for configuring batch copy operations.
	CopyBatchOption func(*CopyBatchOptionConfig)
	// ListOption is a functional option for configuring curated list operations.
	ListOption func(*ListOptionConfig)
	// ListPageOption is a functional option for configuring single-page list operations.
	ListPageOption func(*ListPageOptionConfig)
	// PresignOption is a functional option for configuring presign operations.
	PresignOption func(*PresignOptionConfig)
	// BucketOption is a functional option for configuring S3 bucket operations.
	BucketOption func(*BucketOptionConfig)
)

// Package s3 provides a high-level Go module for AWS S3 operations.
// It wraps AWS SDK v2 to provide an intuitive and efficient interface
// for common S3 operations while maintaining flexibility for advanced use cases.
//
// The module emphasizes developer experience through simple APIs while
// maintaining performance through intelligent defaults for concurrency,
// buffering, and retries.
//
// Key features:
//   - Simple, zero-configuration usage with AWS credential chain
//   - Progressive enhancement through functional options
//   - Streamed multipart uploads through an io.WriteCloser sink
//   - Bounded batch delete and copy for bulk maintenance
//   - Multipart session control for externally-uploaded parts
//   - Presigned URL issuance for delegated access
//   - Comprehensive error handling with context
//
// Example usage:
//
//	client, err := s3.New(ctx)
//	if err != nil {
//	    return err
//	}
//
//	// Upload a file
//	result, err := client.UploadFile(ctx, "my-bucket", "path/file.txt", "/local/file.txt")
//	if err != nil {
//	    return err
//	}
package s3

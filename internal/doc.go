// Package internal contains private implementation details for the S3 module.
// These packages are not intended for external use and may change without notice.
//
// The internal packages are organized as follows:
//   - gateway: The single boundary every backend request crosses
//   - s3api: Interface seams over the SDK clients for mocking
//   - operations: Core S3 operation implementations
//   - transfer: Streamed uploads and multipart session control
//   - presign: Time-limited delegated URL issuance
//   - validation: Input validation logic
//   - pool: Memory management optimizations
package internal

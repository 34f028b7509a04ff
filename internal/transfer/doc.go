// Package transfer manages multipart S3 transfers.
//
// The streaming subpackage bridges caller-driven writes onto managed
// multipart uploads; the multipart subpackage controls sessions whose part
// bytes are uploaded out-of-process. Both drive their sessions through the
// gateway and keep no durable state of their own.
package transfer

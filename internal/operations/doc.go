// Package operations contains the core S3 operation implementations.
// These packages handle the low-level request construction for upload,
// download, listing, and the bulk batch primitives; every request they
// build is sent through the gateway.
//
// Each operation is isolated into its own subpackage for better organization
// and testability.
package operations

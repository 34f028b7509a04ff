// Package validation provides centralized input validation logic.
// This includes bucket name validation, object key validation, and security checks.
//
// All caller inputs are validated before being sent to the backend to prevent
// injection attacks and ensure compliance with S3 requirements.
package validation

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/halcyon-cloud/s3/errors"
)

// MaxObjectTags is the backend's per-object tag cap.
const MaxObjectTags = 10

// ValidateBucketName validates that a bucket name is DNS-compliant according to S3 rules.
// Returns ErrInvalidBucketName if the bucket name is invalid.
func ValidateBucketName(bucket string) error {
	fail := func(msg string) error {
		return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
			WithBucket(bucket).
			WithMessage(msg)
	}

	if bucket == "" {
		return fail("bucket name cannot be empty")
	}
	if len(bucket) < 3 || len(bucket) > 63 {
		return fail("bucket name must be between 3 and 63 characters long")
	}
	for _, r := range bucket {
		if !isBucketRune(r) {
			return fail("bucket name can only contain lowercase letters, numbers, dots, and hyphens")
		}
	}
	if isEdgeRune(bucket[0]) || isEdgeRune(bucket[len(bucket)-1]) {
		return fail("bucket name cannot start or end with a hyphen or dot")
	}
	if looksLikeIPAddress(bucket) {
		return fail("bucket name cannot be formatted as an IP address")
	}
	if bucket[0] >= '0' && bucket[0] <= '9' {
		return fail("bucket name cannot start with a number")
	}
	if strings.Contains(bucket, "..") || strings.Contains(bucket, "--") {
		return fail("bucket name cannot contain two adjacent periods or hyphens")
	}
	if bucket == "localhost" {
		return fail("bucket name cannot be a reserved word")
	}

	return nil
}

// ValidateObjectKey validates that an object key is valid according to S3 rules.
// This includes preventing path traversal attacks and ensuring valid characters.
func ValidateObjectKey(key string) error {
	fail := func(msg string) error {
		return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
			WithKey(key).
			WithMessage(msg)
	}

	if key == "" {
		return fail("object key cannot be empty")
	}
	if hasPathTraversal(key) {
		return fail("object key cannot contain path traversal sequences")
	}
	// S3 caps keys at 1024 bytes
	if len(key) > 1024 {
		return fail("object key cannot exceed 1024 characters")
	}
	// Keys may hold any UTF-8 except control characters
	for _, r := range key {
		if unicode.IsControl(r) {
			return fail("object key cannot contain control characters")
		}
	}

	return nil
}

// ValidateKeyHasBasename validates that a key carries a usable basename for
// derived naming (batch-copy destination keys, presigned download names).
// Keys ending in a path separator have none and fail with ErrMalformedKey.
func ValidateKeyHasBasename(key string) error {
	if err := ValidateObjectKey(key); err != nil {
		return err
	}

	if strings.HasSuffix(key, "/") {
		return errors.NewError("validateObjectKey", errors.ErrMalformedKey).
			WithKey(key).
			WithMessage("key ends with a path separator")
	}
	if base := path.Base(key); base == "." || base == "/" {
		return errors.NewError("validateObjectKey", errors.ErrMalformedKey).
			WithKey(key).
			WithMessage("key has no basename")
	}

	return nil
}

// ValidateMetadata validates metadata keys and values according to S3 rules.
func ValidateMetadata(metadata map[string]string) error {
	if metadata == nil {
		return nil
	}

	for key, value := range metadata {
		if err := validateMetadataKey(key); err != nil {
			return err
		}
		if err := validateMetadataValue(value); err != nil {
			return err
		}
	}

	return nil
}

// SanitizeMetadata sanitizes metadata values to prevent injection attacks.
// This removes or escapes potentially dangerous characters.
func SanitizeMetadata(metadata map[string]string) map[string]string {
	if metadata == nil {
		return nil
	}

	sanitized := make(map[string]string, len(metadata))
	for key, value := range metadata {
		sanitized[sanitizeMetadataKey(key)] = sanitizeMetadataValue(value)
	}

	return sanitized
}

// ValidateTags validates an object tag set according to S3 rules.
func ValidateTags(tags map[string]string) error {
	if tags == nil {
		return nil
	}

	fail := func(msg string) error {
		return errors.NewError("validateTags", errors.ErrInvalidInput).WithMessage(msg)
	}

	if len(tags) > MaxObjectTags {
		return fail(fmt.Sprintf("an object can carry at most %d tags", MaxObjectTags))
	}
	for key, value := range tags {
		if key == "" {
			return fail("tag key cannot be empty")
		}
		if len(key) > 128 {
			return fail("tag key cannot exceed 128 characters")
		}
		if len(value) > 256 {
			return fail("tag value cannot exceed 256 characters")
		}
	}

	return nil
}

// ValidateContentType validates that a content type is a well-formed MIME type.
func ValidateContentType(contentType string) error {
	if contentType == "" {
		return nil // Empty content type is allowed
	}

	mimePattern := regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-+]*\/[a-zA-Z0-9][a-zA-Z0-9\-+.]*(\s*;.*)?$`)
	if !mimePattern.MatchString(contentType) {
		return errors.NewError("validateContentType", errors.ErrInvalidInput).
			WithMessage("content type must be a valid MIME type")
	}

	return nil
}

// isBucketRune checks if a rune is valid in a bucket name
func isBucketRune(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || r == '.' || r == '-'
}

// isEdgeRune checks if a byte is disallowed at a bucket name boundary
func isEdgeRune(b byte) bool {
	return b == '-' || b == '.'
}

// looksLikeIPAddress checks if a string is formatted as an IPv4 address
func looksLikeIPAddress(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}

	for _, part := range parts {
		if part == "" {
			return true // Empty part indicates IP-like format (e.g., "192.168..1")
		}
		num := 0
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
			num = num*10 + int(r-'0')
		}
		if num > 255 {
			return false
		}
	}

	return true
}

// hasPathTraversal checks for path traversal attempts in object keys
func hasPathTraversal(key string) bool {
	if strings.Contains(key, "..") {
		return true
	}

	cleaned := filepath.Clean(key)
	if strings.HasPrefix(cleaned, "..") || strings.HasPrefix(cleaned, "/") {
		return true
	}

	// Windows-style absolute paths
	if len(cleaned) >= 3 && cleaned[1] == ':' && (cleaned[2] == '\\' || cleaned[2] == '/') {
		return true
	}

	return false
}

// sanitizeMetadataKey strips non-printable characters from a metadata key
func sanitizeMetadataKey(key string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, key)
}

// sanitizeMetadataValue strips control characters, keeping newlines and tabs
func sanitizeMetadataValue(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, value)
}

// validateMetadataKey validates a metadata key according to S3 rules
func validateMetadataKey(key string) error {
	if key == "" {
		return errors.NewError("validateMetadata", errors.ErrInvalidInput).
			WithMessage("metadata key cannot be empty")
	}
	if len(key) > 128 {
		return errors.NewError("validateMetadata", errors.ErrInvalidInput).
			WithMessage("metadata key cannot exceed 128 characters")
	}

	// Backend-reserved prefixes
	lower := strings.ToLower(key)
	for _, prefix := range []string{"aws:", "x-amz-", "x-amz:"} {
		if strings.HasPrefix(lower, prefix) {
			return errors.NewError("validateMetadata", errors.ErrInvalidInput).
				WithMessage(fmt.Sprintf("metadata key cannot start with reserved prefix: %s", prefix))
		}
	}

	for _, r := range key {
		if r < 32 || r > 126 {
			return errors.NewError("validateMetadata", errors.ErrInvalidInput).
				WithMessage("metadata key can only contain printable ASCII characters")
		}
	}

	return nil
}

// validateMetadataValue validates a metadata value according to S3 rules
func validateMetadataValue(value string) error {
	if len(value) > 2048 {
		return errors.NewError("validateMetadata", errors.ErrInvalidInput).
			WithMessage("metadata value cannot exceed 2048 characters")
	}

	for _, r := range value {
		if !unicode.IsPrint(r) && r != '\n' && r != '\t' {
			return errors.NewError("validateMetadata", errors.ErrInvalidInput).
				WithMessage("metadata value can only contain printable characters")
		}
	}

	return nil
}

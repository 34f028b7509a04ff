package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-cloud/s3/errors"
)

func TestValidateBucketName(t *testing.T) {
	tests := []struct {
		name    string
		bucket  string
		wantErr bool
	}{
		{"valid simple", "my-bucket", false},
		{"valid with dots", "my.bucket.backup", false},
		{"valid with numbers", "bucket123", false},
		{"empty", "", true},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", 64), true},
		{"uppercase", "MyBucket", true},
		{"underscore", "my_bucket", true},
		{"leading hyphen", "-bucket", true},
		{"trailing dot", "bucket.", true},
		{"leading digit", "1bucket", true},
		{"adjacent periods", "my..bucket", true},
		{"adjacent hyphens", "my--bucket", true},
		{"ip address", "192.168.1.1", true},
		{"localhost", "localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBucketName(tt.bucket)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrInvalidBucketName)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid nested", "path/to/object.txt", false},
		{"valid with spaces", "my documents/report final.pdf", false},
		{"valid unicode", "données/café.txt", false},
		{"valid folder marker", "path/to/folder/", false},
		{"empty", "", true},
		{"path traversal", "path/../secret", true},
		{"leading traversal", "../outside", true},
		{"absolute path", "/etc/passwd", true},
		{"windows drive", "C:\\windows\\system32", true},
		{"too long", strings.Repeat("a", 1025), true},
		{"control character", "bad\x00key", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateObjectKey(tt.key)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrInvalidObjectKey)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateKeyHasBasename(t *testing.T) {
	t.Run("plain key passes", func(t *testing.T) {
		assert.NoError(t, ValidateKeyHasBasename("a/b/file.txt"))
	})

	t.Run("trailing separator fails", func(t *testing.T) {
		err := ValidateKeyHasBasename("a/b/folder/")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrMalformedKey)
	})

	t.Run("ordinary key rules still apply", func(t *testing.T) {
		err := ValidateKeyHasBasename("a/../b")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidObjectKey)
	})
}

func TestValidateMetadata(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]string
		wantErr  bool
	}{
		{"nil", nil, false},
		{"valid", map[string]string{"author": "team", "revision": "42"}, false},
		{"empty key", map[string]string{"": "value"}, true},
		{"reserved aws prefix", map[string]string{"aws:source": "x"}, true},
		{"reserved amz prefix", map[string]string{"X-Amz-Meta-Extra": "x"}, true},
		{"key too long", map[string]string{strings.Repeat("k", 129): "v"}, true},
		{"non-ascii key", map[string]string{"clé": "v"}, true},
		{"value too long", map[string]string{"k": strings.Repeat("v", 2049)}, true},
		{"value with newline", map[string]string{"k": "line one\nline two"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMetadata(tt.metadata)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeMetadata(t *testing.T) {
	got := SanitizeMetadata(map[string]string{
		"clean":      "value",
		"ctrl\x01key": "va\x00lue",
		"keep":       "tab\there\nand newline",
	})

	assert.Equal(t, map[string]string{
		"clean":   "value",
		"ctrlkey": "value",
		"keep":    "tab\there\nand newline",
	}, got)

	assert.Nil(t, SanitizeMetadata(nil))
}

func TestValidateTags(t *testing.T) {
	t.Run("nil passes", func(t *testing.T) {
		assert.NoError(t, ValidateTags(nil))
	})

	t.Run("within limits", func(t *testing.T) {
		assert.NoError(t, ValidateTags(map[string]string{"env": "prod", "team": "infra"}))
	})

	t.Run("too many tags", func(t *testing.T) {
		tags := make(map[string]string, MaxObjectTags+1)
		for i := 0; i <= MaxObjectTags; i++ {
			tags[strings.Repeat("k", i+1)] = "v"
		}
		err := ValidateTags(tags)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
	})

	t.Run("empty key", func(t *testing.T) {
		assert.Error(t, ValidateTags(map[string]string{"": "v"}))
	})

	t.Run("oversized value", func(t *testing.T) {
		assert.Error(t, ValidateTags(map[string]string{"k": strings.Repeat("v", 257)}))
	})
}

func TestValidateContentType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		wantErr     bool
	}{
		{"empty allowed", "", false},
		{"simple", "text/plain", false},
		{"with parameters", "text/html; charset=utf-8", false},
		{"vendor tree", "application/vnd.api+json", false},
		{"missing subtype", "text", true},
		{"leading slash", "/plain", true},
		{"spaces", "text / plain", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContentType(tt.contentType)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

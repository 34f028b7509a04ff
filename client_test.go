package s3

import (
	"testing"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-cloud/s3/internal/testutil"
	"github.com/halcyon-cloud/s3/s3types"
)

func TestNewWithClient(t *testing.T) {
	client := NewWithClient(&testutil.MockS3Client{})
	require.NotNil(t, client)

	assert.Equal(t, int64(defaultPartSize), client.partSize)
	assert.Equal(t, defaultConcurrency, client.concurrency)
	assert.NotNil(t, client.filesystem())
	assert.NoError(t, client.Close())
}

func TestClient_SetFilesystem(t *testing.T) {
	client := NewWithClient(&testutil.MockS3Client{})

	memFS := billy.NewInMemoryFS()
	client.SetFilesystem(memFS)
	assert.Equal(t, memFS, client.filesystem())
}

func TestClientOptions(t *testing.T) {
	config := &s3types.ClientConfig{}

	opts := []s3types.Option{
		WithRegion("eu-central-1"),
		WithEndpoint("http://localhost:4566"),
		WithMaxRetries(7),
		WithTimeout(30 * time.Second),
		WithConcurrency(9),
		WithPartSize(16 * 1024 * 1024),
		WithForcePathStyle(true),
	}
	for _, opt := range opts {
		opt(config)
	}

	assert.Equal(t, "eu-central-1", config.Region)
	assert.Equal(t, "http://localhost:4566", config.Endpoint)
	assert.Equal(t, 7, config.MaxRetries)
	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.Equal(t, 9, config.Concurrency)
	assert.Equal(t, int64(16*1024*1024), config.PartSize)
	assert.True(t, config.ForcePathStyle)
}

func TestClientOptions_IgnoreNonPositive(t *testing.T) {
	config := &s3types.ClientConfig{Concurrency: 5, PartSize: 1024}

	WithConcurrency(0)(config)
	WithPartSize(-1)(config)

	assert.Equal(t, 5, config.Concurrency)
	assert.Equal(t, int64(1024), config.PartSize)
}

func TestUploadOptions(t *testing.T) {
	config := &s3types.UploadOptionConfig{}

	WithContentType("text/plain")(config)
	WithMetadata(map[string]string{"a": "1"})(config)
	WithMetadata(map[string]string{"b": "2"})(config)
	WithTags(map[string]string{"env": "dev"})(config)
	WithStorageClass(s3types.StorageClassGlacier)(config)
	WithACL(s3types.ACLPrivate)(config)
	WithUploadPartSize(10 * 1024 * 1024)(config)
	WithUploadConcurrency(3)(config)

	assert.Equal(t, "text/plain", config.ContentType)
	// Metadata options merge rather than replace.
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, config.Metadata)
	assert.Equal(t, map[string]string{"env": "dev"}, config.Tags)
	assert.Equal(t, s3types.StorageClassGlacier, config.StorageClass)
	assert.Equal(t, s3types.ACLPrivate, config.ACL)
	assert.Equal(t, int64(10*1024*1024), config.PartSize)
	assert.Equal(t, 3, config.Concurrency)
}

func TestListOptions(t *testing.T) {
	config := &s3types.ListOptionConfig{}
	WithSearch("2024")(config)
	WithLimit(25)(config)

	assert.Equal(t, "2024", config.Search)
	assert.Equal(t, 25, config.Limit)
}

func TestCopyBatchOptions(t *testing.T) {
	config := &s3types.CopyBatchOptionConfig{}
	WithCopyTags(map[string]string{"k": "v"})(config)
	WithCopyWindow(50)(config)

	assert.Equal(t, map[string]string{"k": "v"}, config.Tags)
	assert.Equal(t, 50, config.Window)
}

func TestPresignOptions(t *testing.T) {
	config := &s3types.PresignOptionConfig{}
	WithDownloadFileName("custom.bin")(config)
	WithPresignTags(map[string]string{"origin": "web"})(config)

	assert.Equal(t, "custom.bin", config.FileName)
	assert.Equal(t, map[string]string{"origin": "web"}, config.Tags)
}

package s3

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	s3errors "github.com/halcyon-cloud/s3/errors"
	"github.com/halcyon-cloud/s3/internal/testutil"
)

func TestClient_PresignGet(t *testing.T) {
	presigner := &testutil.MockPresignClient{
		PresignGetObjectFunc: func(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
			assert.Equal(t, "test-bucket", aws.ToString(params.Bucket))
			return &v4.PresignedHTTPRequest{
				URL:    "https://example.com/signed-get",
				Method: "GET",
			}, nil
		},
	}
	client := NewWithClients(&testutil.MockS3Client{}, presigner)

	t.Run("file name derives from the key basename", func(t *testing.T) {
		grant, err := client.PresignGet(context.Background(), "test-bucket", "a/b/My File!.txt")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/signed-get", grant.URL)
		assert.Equal(t, "My_File_.txt", grant.FileName)
		assert.Equal(t, "GET", grant.Method)
	})

	t.Run("name override is sanitized too", func(t *testing.T) {
		grant, err := client.PresignGet(context.Background(), "test-bucket", "a/b/report.pdf",
			WithDownloadFileName("Q3 Summary (draft).pdf"))
		require.NoError(t, err)
		assert.Equal(t, "Q3_Summary__draft_.pdf", grant.FileName)
	})

	t.Run("key without a basename is rejected", func(t *testing.T) {
		_, err := client.PresignGet(context.Background(), "test-bucket", "a/b/")
		assert.ErrorIs(t, err, s3errors.ErrMalformedKey)
	})

	t.Run("empty bucket is rejected", func(t *testing.T) {
		_, err := client.PresignGet(context.Background(), "", "a/b/file.txt")
		assert.ErrorIs(t, err, s3errors.ErrInvalidInput)
	})
}

func TestClient_PresignPut(t *testing.T) {
	t.Run("binds tags to the grant", func(t *testing.T) {
		presigner := &testutil.MockPresignClient{
			PresignPutObjectFunc: func(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
				assert.Equal(t, "source=browser", aws.ToString(params.Tagging))
				return &v4.PresignedHTTPRequest{
					URL:    "https://example.com/signed-put",
					Method: "PUT",
				}, nil
			},
		}
		client := NewWithClients(&testutil.MockS3Client{}, presigner)

		grant, err := client.PresignPut(context.Background(), "test-bucket", "incoming/upload.bin",
			WithPresignTags(map[string]string{"source": "browser"}))
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/signed-put", grant.URL)
		assert.Equal(t, "PUT", grant.Method)
	})

	t.Run("input validation", func(t *testing.T) {
		client := NewWithClients(&testutil.MockS3Client{}, &testutil.MockPresignClient{})

		_, err := client.PresignPut(context.Background(), "", "k.bin")
		assert.ErrorIs(t, err, s3errors.ErrInvalidInput)

		_, err = client.PresignPut(context.Background(), "b", "../escape")
		assert.ErrorIs(t, err, s3errors.ErrInvalidInput)
	})
}

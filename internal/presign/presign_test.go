package presign

import (
	"context"
	"net/url"
	"strconv"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-cloud/s3/internal/gateway"
	"github.com/halcyon-cloud/s3/internal/testutil"
	"github.com/halcyon-cloud/s3/s3types"
)

// realPresigner signs against fixed credentials. Presigning is pure
// computation, so no endpoint is ever contacted.
func realPresigner() *s3.PresignClient {
	client := s3.New(s3.Options{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
	})
	return s3.NewPresignClient(client)
}

func expiresParam(t *testing.T, rawURL string) int {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	seconds, err := strconv.Atoi(u.Query().Get("X-Amz-Expires"))
	require.NoError(t, err)
	return seconds
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"My File!.txt", "My_File_.txt"},
		{"archive-2024_v2.tar.gz", "archive-2024_v2.tar.gz"},
		{"naïve résumé.doc", "na_ve_r_sum_.doc"},
		{"a b/c\\d", "a_b_c_d"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFileName(tt.in))
		})
	}
}

func TestGet_FileNameDerivation(t *testing.T) {
	mock := &testutil.MockPresignClient{
		PresignGetObjectFunc: func(_ context.Context, input *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
			assert.Equal(t, "bkt", aws.ToString(input.Bucket))
			assert.Equal(t, "docs/Q3 report!.pdf", aws.ToString(input.Key))
			return &v4.PresignedHTTPRequest{
				URL:    "https://example.com/get?sig=x",
				Method: "GET",
			}, nil
		},
	}

	issuer := New(gateway.New(&testutil.MockS3Client{}, mock))

	t.Run("default name comes from the key basename", func(t *testing.T) {
		got, err := issuer.Get(context.Background(), "bkt", "docs/Q3 report!.pdf", "")
		require.NoError(t, err)
		assert.Equal(t, "Q3_report_.pdf", got.FileName)
		assert.Equal(t, "https://example.com/get?sig=x", got.URL)
		assert.Equal(t, "GET", got.Method)
	})

	t.Run("explicit name is sanitized too", func(t *testing.T) {
		got, err := issuer.Get(context.Background(), "bkt", "docs/Q3 report!.pdf", "Quarterly (final).pdf")
		require.NoError(t, err)
		assert.Equal(t, "Quarterly__final_.pdf", got.FileName)
	})
}

func TestGet_TTL(t *testing.T) {
	issuer := New(gateway.New(&testutil.MockS3Client{}, realPresigner()))

	got, err := issuer.Get(context.Background(), "bkt", "docs/report.pdf", "")
	require.NoError(t, err)
	assert.Equal(t, "GET", got.Method)
	assert.Equal(t, int(s3types.PresignGetTTL.Seconds()), expiresParam(t, got.URL))
}

func TestPut_TTL(t *testing.T) {
	issuer := New(gateway.New(&testutil.MockS3Client{}, realPresigner()))

	got, err := issuer.Put(context.Background(), "bkt", "incoming/upload.bin", nil)
	require.NoError(t, err)
	assert.Equal(t, "PUT", got.Method)
	assert.Equal(t, int(s3types.PresignPutTTL.Seconds()), expiresParam(t, got.URL))
}

func TestPut_TaggingStaysOutsideSignature(t *testing.T) {
	tags := map[string]string{"env": "prod"}

	issuer := New(gateway.New(&testutil.MockS3Client{}, realPresigner()))
	got, err := issuer.Put(context.Background(), "bkt", "incoming/tagged.bin", tags)
	require.NoError(t, err)

	// The signature must not pin the tag header; the uploader supplies it
	// with the eventual PUT.
	assert.Empty(t, got.SignedHeader.Get(taggingHeader))
	u, err := url.Parse(got.URL)
	require.NoError(t, err)
	assert.NotContains(t, u.Query().Get("X-Amz-SignedHeaders"), "x-amz-tagging")

	// Without the stripping middleware the same request signs the header,
	// which is exactly what the issuer avoids.
	control, err := realPresigner().PresignPutObject(context.Background(), &s3.PutObjectInput{
		Bucket:  aws.String("bkt"),
		Key:     aws.String("incoming/tagged.bin"),
		Tagging: aws.String(s3types.EncodeTags(tags)),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, control.SignedHeader.Get(taggingHeader))
}

func TestPut_NilTagsLeaveRequestBare(t *testing.T) {
	mock := &testutil.MockPresignClient{
		PresignPutObjectFunc: func(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
			assert.Nil(t, input.Tagging)
			return &v4.PresignedHTTPRequest{URL: "https://example.com/put", Method: "PUT"}, nil
		},
	}

	issuer := New(gateway.New(&testutil.MockS3Client{}, mock))
	got, err := issuer.Put(context.Background(), "bkt", "incoming/plain.bin", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/put", got.URL)
}

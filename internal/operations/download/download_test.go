package download

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	s3errors "github.com/halcyon-cloud/s3/errors"
	"github.com/halcyon-cloud/s3/internal/gateway"
	"github.com/halcyon-cloud/s3/internal/testutil"
	"github.com/halcyon-cloud/s3/s3types"
)

func newDownloader(mock *testutil.MockS3Client) *Downloader {
	return New(gateway.New(mock, nil))
}

func bodyOutput(payload string) *s3.GetObjectOutput {
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(payload)),
		ContentLength: aws.Int64(int64(len(payload))),
		ETag:          aws.String(`"dl-etag"`),
		VersionId:     aws.String("v3"),
	}
}

func TestDownload_StreamsToWriter(t *testing.T) {
	mock := &testutil.MockS3Client{
		GetObjectFunc: func(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			assert.Equal(t, "bkt", aws.ToString(params.Bucket))
			assert.Equal(t, "dir/obj.bin", aws.ToString(params.Key))
			assert.Nil(t, params.Range)
			return bodyOutput("streamed content"), nil
		},
	}

	var buf bytes.Buffer
	downloader := newDownloader(mock)
	result, err := downloader.Download(context.Background(), "bkt", "dir/obj.bin", &buf,
		&s3types.DownloadConfig{}, time.Now())

	require.NoError(t, err)
	assert.Equal(t, "streamed content", buf.String())
	assert.Equal(t, "dir/obj.bin", result.Key)
	assert.Equal(t, int64(len("streamed content")), result.Size)
	assert.Equal(t, `"dl-etag"`, result.ETag)
	assert.Equal(t, "v3", result.VersionID)
}

func TestDownload_RangeRequest(t *testing.T) {
	mock := &testutil.MockS3Client{
		GetObjectFunc: func(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			assert.Equal(t, "bytes=0-99", aws.ToString(params.Range))
			return bodyOutput("first hundred"), nil
		},
	}

	var buf bytes.Buffer
	downloader := newDownloader(mock)
	_, err := downloader.Download(context.Background(), "bkt", "obj", &buf,
		&s3types.DownloadConfig{RangeSpec: "bytes=0-99"}, time.Now())
	require.NoError(t, err)
}

func TestDownload_SizeFallsBackToBytesWritten(t *testing.T) {
	mock := &testutil.MockS3Client{
		GetObjectFunc: func(_ context.Context, _ *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			// No ContentLength on the response.
			return &s3.GetObjectOutput{
				Body: io.NopCloser(strings.NewReader("untold length")),
			}, nil
		},
	}

	var buf bytes.Buffer
	downloader := newDownloader(mock)
	result, err := downloader.Download(context.Background(), "bkt", "obj", &buf,
		&s3types.DownloadConfig{}, time.Now())

	require.NoError(t, err)
	assert.Equal(t, int64(len("untold length")), result.Size)
}

func TestDownload_BackendError(t *testing.T) {
	mock := testutil.NewMockBuilder().WithObjectNotFound().Build()

	var buf bytes.Buffer
	downloader := newDownloader(mock)
	_, err := downloader.Download(context.Background(), "bkt", "obj", &buf,
		&s3types.DownloadConfig{}, time.Now())

	assert.ErrorIs(t, err, s3errors.ErrObjectNotFound)
	assert.Zero(t, buf.Len())
}

func TestDownload_CopyFailureReportsProgressError(t *testing.T) {
	tracker := &testutil.MockProgressTracker{}
	mock := &testutil.MockS3Client{
		GetObjectFunc: func(_ context.Context, _ *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			return &s3.GetObjectOutput{
				Body:          io.NopCloser(&brokenBody{}),
				ContentLength: aws.Int64(1024),
			}, nil
		},
	}

	var buf bytes.Buffer
	downloader := newDownloader(mock)
	_, err := downloader.Download(context.Background(), "bkt", "obj", &buf,
		&s3types.DownloadConfig{ProgressTracker: tracker}, time.Now())

	require.Error(t, err)
	assert.True(t, tracker.ErrorCalled)
	assert.False(t, tracker.CompleteCalled)
}

func TestDownload_ProgressTracking(t *testing.T) {
	tracker := &testutil.MockProgressTracker{}
	payload := "tracked payload"
	mock := &testutil.MockS3Client{
		GetObjectFunc: func(_ context.Context, _ *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			return bodyOutput(payload), nil
		},
	}

	var buf bytes.Buffer
	downloader := newDownloader(mock)
	_, err := downloader.Download(context.Background(), "bkt", "obj", &buf,
		&s3types.DownloadConfig{ProgressTracker: tracker}, time.Now())

	require.NoError(t, err)
	assert.True(t, tracker.UpdateCalled)
	assert.True(t, tracker.CompleteCalled)
	assert.Equal(t, int64(len(payload)), tracker.BytesTransferred)
	assert.Equal(t, int64(len(payload)), tracker.TotalBytes)
	require.NotEmpty(t, tracker.Updates)
	assert.Equal(t, int64(len(payload)), tracker.Updates[len(tracker.Updates)-1].Total)
}

func TestGet_ReturnsBytes(t *testing.T) {
	mock := &testutil.MockS3Client{
		GetObjectFunc: func(_ context.Context, _ *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			return bodyOutput("in-memory payload"), nil
		},
	}

	downloader := newDownloader(mock)
	data, err := downloader.Get(context.Background(), "bkt", "obj",
		&s3types.DownloadConfig{}, time.Now())

	require.NoError(t, err)
	assert.Equal(t, []byte("in-memory payload"), data)
}

// brokenBody fails partway through, simulating a dropped connection.
type brokenBody struct {
	read bool
}

func (b *brokenBody) Read(p []byte) (int, error) {
	if b.read {
		return 0, io.ErrUnexpectedEOF
	}
	b.read = true
	n := copy(p, "partial")
	return n, nil
}

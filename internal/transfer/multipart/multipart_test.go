package multipart

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	s3errors "github.com/halcyon-cloud/s3/errors"
	"github.com/halcyon-cloud/s3/internal/gateway"
	"github.com/halcyon-cloud/s3/internal/testutil"
	"github.com/halcyon-cloud/s3/s3types"
)

func session() *s3types.UploadSession {
	return &s3types.UploadSession{
		Bucket:   "bkt",
		Key:      "big/archive.tar",
		UploadID: "upload-1",
	}
}

func noSuchUpload() error {
	return &smithy.GenericAPIError{Code: "NoSuchUpload", Message: "The specified upload does not exist"}
}

func TestController_Create(t *testing.T) {
	mock := &testutil.MockS3Client{
		CreateMultipartUploadFunc: func(_ context.Context, input *s3.CreateMultipartUploadInput, _ ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
			assert.Equal(t, "bkt", aws.ToString(input.Bucket))
			assert.Equal(t, "big/archive.tar", aws.ToString(input.Key))
			assert.Equal(t, "application/x-tar", aws.ToString(input.ContentType))
			assert.Equal(t, "env=prod", aws.ToString(input.Tagging))
			return &s3.CreateMultipartUploadOutput{UploadId: aws.String("upload-1")}, nil
		},
	}

	controller := New(gateway.New(mock, nil))
	got, err := controller.Create(context.Background(), "bkt", "big/archive.tar", &s3types.UploadConfig{
		ContentType: "application/x-tar",
		Tags:        map[string]string{"env": "prod"},
	})

	require.NoError(t, err)
	assert.Equal(t, session(), got)
}

func TestController_ListParts_FollowsMarkers(t *testing.T) {
	call := 0
	mock := &testutil.MockS3Client{
		ListPartsFunc: func(_ context.Context, input *s3.ListPartsInput, _ ...func(*s3.Options)) (*s3.ListPartsOutput, error) {
			assert.Equal(t, "upload-1", aws.ToString(input.UploadId))
			call++
			switch call {
			case 1:
				assert.Nil(t, input.PartNumberMarker)
				return &s3.ListPartsOutput{
					Parts: []awstypes.Part{
						{PartNumber: aws.Int32(1), ETag: aws.String(`"e1"`), Size: aws.Int64(100)},
						{PartNumber: aws.Int32(2), ETag: aws.String(`"e2"`), Size: aws.Int64(100)},
					},
					IsTruncated:          aws.Bool(true),
					NextPartNumberMarker: aws.String("2"),
				}, nil
			default:
				assert.Equal(t, "2", aws.ToString(input.PartNumberMarker))
				return &s3.ListPartsOutput{
					Parts: []awstypes.Part{
						{PartNumber: aws.Int32(3), ETag: aws.String(`"e3"`), Size: aws.Int64(40)},
					},
					IsTruncated: aws.Bool(false),
				}, nil
			}
		},
	}

	controller := New(gateway.New(mock, nil))
	parts, err := controller.ListParts(context.Background(), session())

	require.NoError(t, err)
	assert.Equal(t, []s3types.PartRecord{
		{PartNumber: 1, ETag: `"e1"`, Size: 100},
		{PartNumber: 2, ETag: `"e2"`, Size: 100},
		{PartNumber: 3, ETag: `"e3"`, Size: 40},
	}, parts)
	assert.Equal(t, 2, call)
}

func TestController_ListParts_TerminalSession(t *testing.T) {
	mock := &testutil.MockS3Client{
		ListPartsFunc: func(_ context.Context, _ *s3.ListPartsInput, _ ...func(*s3.Options)) (*s3.ListPartsOutput, error) {
			return nil, noSuchUpload()
		},
	}

	controller := New(gateway.New(mock, nil))
	_, err := controller.ListParts(context.Background(), session())

	require.Error(t, err)
	assert.True(t, s3errors.IsSessionTerminal(err))
}

func TestController_SignPart(t *testing.T) {
	presigner := &testutil.MockPresignClient{
		PresignUploadPartFunc: func(_ context.Context, input *s3.UploadPartInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
			assert.Equal(t, "bkt", aws.ToString(input.Bucket))
			assert.Equal(t, "upload-1", aws.ToString(input.UploadId))
			assert.Equal(t, int32(7), aws.ToInt32(input.PartNumber))
			return &v4.PresignedHTTPRequest{
				URL:    "https://example.com/part?sig=abc",
				Method: "PUT",
			}, nil
		},
	}

	controller := New(gateway.New(&testutil.MockS3Client{}, presigner))
	grant, err := controller.SignPart(context.Background(), session(), 7)

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/part?sig=abc", grant.URL)
	assert.Equal(t, "PUT", grant.Method)
}

func TestController_Complete_PartValidation(t *testing.T) {
	tests := []struct {
		name    string
		parts   []s3types.PartRecord
		wantErr bool
	}{
		{"empty part list", nil, true},
		{"single part", []s3types.PartRecord{{PartNumber: 1, ETag: "e1"}}, false},
		{
			"contiguous ascending",
			[]s3types.PartRecord{{PartNumber: 1, ETag: "e1"}, {PartNumber: 2, ETag: "e2"}, {PartNumber: 3, ETag: "e3"}},
			false,
		},
		{
			"contiguous from an offset",
			[]s3types.PartRecord{{PartNumber: 4, ETag: "e4"}, {PartNumber: 5, ETag: "e5"}},
			false,
		},
		{
			"gap in numbering",
			[]s3types.PartRecord{{PartNumber: 1, ETag: "e1"}, {PartNumber: 3, ETag: "e3"}},
			true,
		},
		{
			"descending order",
			[]s3types.PartRecord{{PartNumber: 2, ETag: "e2"}, {PartNumber: 1, ETag: "e1"}},
			true,
		},
		{
			"duplicate part number",
			[]s3types.PartRecord{{PartNumber: 1, ETag: "e1"}, {PartNumber: 1, ETag: "e1b"}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			mock := &testutil.MockS3Client{
				CompleteMultipartUploadFunc: func(_ context.Context, input *s3.CompleteMultipartUploadInput, _ ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
					calls++
					require.NotNil(t, input.MultipartUpload)
					assert.Len(t, input.MultipartUpload.Parts, len(tt.parts))
					return &s3.CompleteMultipartUploadOutput{
						ETag:     aws.String(`"final"`),
						Location: aws.String("https://bkt.example.com/big/archive.tar"),
					}, nil
				},
			}

			controller := New(gateway.New(mock, nil))
			result, err := controller.Complete(context.Background(), session(), tt.parts)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, s3errors.ErrInvalidInput)
				// Validation failures never reach the backend.
				assert.Equal(t, 0, calls)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, 1, calls)
			assert.Equal(t, `"final"`, result.ETag)
			assert.Equal(t, "bkt", result.Bucket)
			assert.Equal(t, "big/archive.tar", result.Key)
		})
	}
}

func TestController_Complete_BackendRejection(t *testing.T) {
	mock := &testutil.MockS3Client{
		CompleteMultipartUploadFunc: func(_ context.Context, _ *s3.CompleteMultipartUploadInput, _ ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "InvalidPart", Message: "etag mismatch"}
		},
	}

	controller := New(gateway.New(mock, nil))
	_, err := controller.Complete(context.Background(), session(), []s3types.PartRecord{
		{PartNumber: 1, ETag: `"stale"`},
	})

	// The backend's verdict surfaces; the session stays non-terminal and the
	// caller may retry complete or abort.
	require.Error(t, err)
	var be *s3errors.BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "InvalidPart", be.Code)
}

func TestController_Abort(t *testing.T) {
	aborted := false
	mock := &testutil.MockS3Client{
		AbortMultipartUploadFunc: func(_ context.Context, input *s3.AbortMultipartUploadInput, _ ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
			aborted = true
			assert.Equal(t, "upload-1", aws.ToString(input.UploadId))
			return &s3.AbortMultipartUploadOutput{}, nil
		},
	}

	controller := New(gateway.New(mock, nil))
	require.NoError(t, controller.Abort(context.Background(), session()))
	assert.True(t, aborted)
}

func TestController_AbortAfterComplete(t *testing.T) {
	mock := &testutil.MockS3Client{
		AbortMultipartUploadFunc: func(_ context.Context, _ *s3.AbortMultipartUploadInput, _ ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
			return nil, noSuchUpload()
		},
	}

	controller := New(gateway.New(mock, nil))
	err := controller.Abort(context.Background(), session())

	// A repeat abort or an abort after completion is not suppressed.
	require.Error(t, err)
	assert.True(t, s3errors.IsSessionTerminal(err))
}

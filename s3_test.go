// Package s3 provides tests for core client operations.
package s3

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	s3errors "github.com/halcyon-cloud/s3/errors"
	"github.com/halcyon-cloud/s3/internal/testutil"
)

func TestClient_Upload(t *testing.T) {
	t.Run("uploads reader content", func(t *testing.T) {
		mock := &testutil.MockS3Client{
			PutObjectFunc: func(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
				assert.Equal(t, "test-bucket", aws.ToString(params.Bucket))
				assert.Equal(t, "docs/data.txt", aws.ToString(params.Key))
				body, err := io.ReadAll(params.Body)
				require.NoError(t, err)
				assert.Equal(t, "hello upload", string(body))
				return &s3.PutObjectOutput{ETag: aws.String(`"up"`)}, nil
			},
		}

		client := NewWithClient(mock)
		result, err := client.Upload(context.Background(), "test-bucket", "docs/data.txt",
			strings.NewReader("hello upload"))

		require.NoError(t, err)
		assert.Equal(t, `"up"`, result.ETag)
		assert.Equal(t, int64(len("hello upload")), result.Size)
	})

	t.Run("input validation", func(t *testing.T) {
		client := NewWithClient(&testutil.MockS3Client{})

		_, err := client.Upload(context.Background(), "", "k", strings.NewReader("x"))
		assert.ErrorIs(t, err, s3errors.ErrInvalidInput)

		_, err = client.Upload(context.Background(), "b", "../escape", strings.NewReader("x"))
		assert.ErrorIs(t, err, s3errors.ErrInvalidInput)

		_, err = client.Upload(context.Background(), "b", "k", nil)
		assert.ErrorIs(t, err, s3errors.ErrInvalidInput)
	})
}

func TestClient_Put_ContentTypeFromExtension(t *testing.T) {
	mock := &testutil.MockS3Client{
		PutObjectFunc: func(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			assert.Contains(t, aws.ToString(params.ContentType), "json")
			return &s3.PutObjectOutput{}, nil
		},
	}

	client := NewWithClient(mock)
	err := client.Put(context.Background(), "test-bucket", "config.json", []byte(`{"a":1}`))
	require.NoError(t, err)
}

func TestClient_Download(t *testing.T) {
	mock := &testutil.MockS3Client{
		GetObjectFunc: func(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			assert.Equal(t, "docs/data.txt", aws.ToString(params.Key))
			return &s3.GetObjectOutput{
				Body:          io.NopCloser(strings.NewReader("downloaded body")),
				ContentLength: aws.Int64(int64(len("downloaded body"))),
				ETag:          aws.String(`"dl"`),
			}, nil
		},
	}

	client := NewWithClient(mock)
	var buf bytes.Buffer
	result, err := client.Download(context.Background(), "test-bucket", "docs/data.txt", &buf)

	require.NoError(t, err)
	assert.Equal(t, "downloaded body", buf.String())
	assert.Equal(t, int64(len("downloaded body")), result.Size)
}

func TestClient_Download_Validation(t *testing.T) {
	client := NewWithClient(&testutil.MockS3Client{})

	_, err := client.Download(context.Background(), "b", "k", nil)
	assert.ErrorIs(t, err, s3errors.ErrInvalidInput)

	_, err = client.Download(context.Background(), "", "k", &bytes.Buffer{})
	assert.ErrorIs(t, err, s3errors.ErrInvalidInput)
}

func TestClient_Get(t *testing.T) {
	mock := &testutil.MockS3Client{
		GetObjectFunc: func(_ context.Context, _ *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			return &s3.GetObjectOutput{
				Body:          io.NopCloser(strings.NewReader("small object")),
				ContentLength: aws.Int64(int64(len("small object"))),
			}, nil
		},
	}

	client := NewWithClient(mock)
	data, err := client.Get(context.Background(), "test-bucket", "small.txt")

	require.NoError(t, err)
	assert.Equal(t, []byte("small object"), data)
}

func TestClient_List(t *testing.T) {
	mock := &testutil.MockS3Client{
		ListObjectsV2Func: func(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			assert.Equal(t, "photos/", aws.ToString(params.Prefix))
			return &s3.ListObjectsV2Output{
				Contents: []types.Object{
					{Key: aws.String("photos/"), Size: aws.Int64(0), LastModified: aws.Time(time.Now())},
					{Key: aws.String("photos/2024/summer.jpg"), Size: aws.Int64(100), LastModified: aws.Time(time.Now())},
					{Key: aws.String("photos/2023/winter.jpg"), Size: aws.Int64(200), LastModified: aws.Time(time.Now())},
				},
				IsTruncated: aws.Bool(false),
			}, nil
		},
	}

	client := NewWithClient(mock)

	t.Run("curated listing", func(t *testing.T) {
		got, err := client.List(context.Background(), "test-bucket", "photos/")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "summer.jpg", got[0].Name)
		assert.Equal(t, "test-bucket", got[0].Bucket)
	})

	t.Run("search and limit", func(t *testing.T) {
		got, err := client.List(context.Background(), "test-bucket", "photos/",
			WithSearch("2024"), WithLimit(1))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "photos/2024/summer.jpg", got[0].Key)
	})

	t.Run("empty bucket name", func(t *testing.T) {
		_, err := client.List(context.Background(), "", "photos/")
		assert.ErrorIs(t, err, s3errors.ErrInvalidInput)
	})
}

func TestClient_ListPage(t *testing.T) {
	mock := &testutil.MockS3Client{
		ListObjectsV2Func: func(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			assert.Equal(t, int32(2), aws.ToInt32(params.MaxKeys))
			assert.Equal(t, "resume-here", aws.ToString(params.ContinuationToken))
			return &s3.ListObjectsV2Output{
				Contents: []types.Object{
					{Key: aws.String("a/1"), Size: aws.Int64(1)},
					{Key: aws.String("a/2"), Size: aws.Int64(2)},
				},
				IsTruncated:           aws.Bool(true),
				NextContinuationToken: aws.String("next-token"),
			}, nil
		},
	}

	client := NewWithClient(mock)
	page, err := client.ListPage(context.Background(), "test-bucket", "a/",
		WithPageSize(2),
		WithContinuationToken("resume-here"),
	)

	require.NoError(t, err)
	assert.Len(t, page.Objects, 2)
	assert.True(t, page.IsTruncated)
	assert.Equal(t, "next-token", page.NextContinuationToken)
}

func TestClient_ListAll(t *testing.T) {
	mock := &testutil.MockS3Client{
		ListObjectsV2Func: func(_ context.Context, _ *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			return &s3.ListObjectsV2Output{
				Contents: []types.Object{
					{Key: aws.String("x/1"), Size: aws.Int64(1)},
					{Key: aws.String("x/2"), Size: aws.Int64(2)},
				},
				IsTruncated: aws.Bool(false),
			}, nil
		},
	}

	client := NewWithClient(mock)
	var keys []string
	for r := range client.ListAll(context.Background(), "test-bucket", "x/") {
		require.NoError(t, r.Err)
		keys = append(keys, r.Object.Key)
	}
	assert.Equal(t, []string{"x/1", "x/2"}, keys)
}

func TestClient_Delete(t *testing.T) {
	deleted := false
	mock := &testutil.MockS3Client{
		DeleteObjectFunc: func(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
			deleted = true
			assert.Equal(t, "old/file.txt", aws.ToString(params.Key))
			return &s3.DeleteObjectOutput{}, nil
		},
	}

	client := NewWithClient(mock)
	require.NoError(t, client.Delete(context.Background(), "test-bucket", "old/file.txt"))
	assert.True(t, deleted)

	assert.ErrorIs(t, client.Delete(context.Background(), "", "k"), s3errors.ErrInvalidInput)
}

func TestClient_Exists(t *testing.T) {
	t.Run("object present", func(t *testing.T) {
		client := NewWithClient(&testutil.MockS3Client{})
		exists, err := client.Exists(context.Background(), "test-bucket", "k.txt")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("object absent", func(t *testing.T) {
		mock := &testutil.MockS3Client{
			HeadObjectFunc: func(_ context.Context, _ *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
				return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "missing"}
			},
		}
		client := NewWithClient(mock)
		exists, err := client.Exists(context.Background(), "test-bucket", "k.txt")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("other failures surface", func(t *testing.T) {
		mock := &testutil.MockS3Client{
			HeadObjectFunc: func(_ context.Context, _ *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
				return nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}
			},
		}
		client := NewWithClient(mock)
		_, err := client.Exists(context.Background(), "test-bucket", "k.txt")
		assert.ErrorIs(t, err, s3errors.ErrAccessDenied)
	})
}

func TestClient_GetMetadata(t *testing.T) {
	modified := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock := &testutil.MockS3Client{
		HeadObjectFunc: func(_ context.Context, _ *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
			return &s3.HeadObjectOutput{
				ContentType:   aws.String("application/pdf"),
				ContentLength: aws.Int64(2048),
				LastModified:  aws.Time(modified),
				ETag:          aws.String(`"meta"`),
				Metadata:      map[string]string{"author": "team"},
			}, nil
		},
	}

	client := NewWithClient(mock)
	meta, err := client.GetMetadata(context.Background(), "test-bucket", "doc.pdf")

	require.NoError(t, err)
	assert.Equal(t, "application/pdf", meta.ContentType)
	assert.Equal(t, int64(2048), meta.ContentLength)
	assert.Equal(t, modified, meta.LastModified)
	assert.Equal(t, map[string]string{"author": "team"}, meta.Metadata)
}

func TestClient_Copy(t *testing.T) {
	t.Run("server-side copy", func(t *testing.T) {
		mock := &testutil.MockS3Client{
			CopyObjectFunc: func(_ context.Context, params *s3.CopyObjectInput, _ ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
				assert.Equal(t, "dst-bucket", aws.ToString(params.Bucket))
				assert.Equal(t, "new/path.txt", aws.ToString(params.Key))
				assert.Equal(t, "/src-bucket/old/path.txt", aws.ToString(params.CopySource))
				return &s3.CopyObjectOutput{}, nil
			},
		}

		client := NewWithClient(mock)
		err := client.Copy(context.Background(), "src-bucket", "old/path.txt", "dst-bucket", "new/path.txt")
		require.NoError(t, err)
	})

	t.Run("copy onto itself is rejected", func(t *testing.T) {
		client := NewWithClient(&testutil.MockS3Client{})
		err := client.Copy(context.Background(), "b", "same.txt", "b", "same.txt")
		assert.ErrorIs(t, err, s3errors.ErrInvalidInput)
	})
}

func TestClient_Move(t *testing.T) {
	t.Run("copies then deletes", func(t *testing.T) {
		var order []string
		mock := &testutil.MockS3Client{
			CopyObjectFunc: func(_ context.Context, _ *s3.CopyObjectInput, _ ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
				order = append(order, "copy")
				return &s3.CopyObjectOutput{}, nil
			},
			DeleteObjectFunc: func(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
				order = append(order, "delete")
				assert.Equal(t, "src-bucket", aws.ToString(params.Bucket))
				assert.Equal(t, "temp/file.txt", aws.ToString(params.Key))
				return &s3.DeleteObjectOutput{}, nil
			},
		}

		client := NewWithClient(mock)
		err := client.Move(context.Background(), "src-bucket", "temp/file.txt", "archive", "2024/file.txt")
		require.NoError(t, err)
		assert.Equal(t, []string{"copy", "delete"}, order)
	})

	t.Run("failed copy leaves the source alone", func(t *testing.T) {
		deletes := 0
		mock := &testutil.MockS3Client{
			CopyObjectFunc: func(_ context.Context, _ *s3.CopyObjectInput, _ ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
				return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "missing"}
			},
			DeleteObjectFunc: func(_ context.Context, _ *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
				deletes++
				return &s3.DeleteObjectOutput{}, nil
			},
		}

		client := NewWithClient(mock)
		err := client.Move(context.Background(), "src", "a.txt", "dst", "b.txt")
		require.Error(t, err)
		assert.ErrorIs(t, err, s3errors.ErrObjectNotFound)
		assert.Equal(t, 0, deletes)
	})
}

func TestClient_CreateBucket(t *testing.T) {
	t.Run("region becomes a location constraint", func(t *testing.T) {
		mock := &testutil.MockS3Client{
			CreateBucketFunc: func(_ context.Context, params *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
				require.NotNil(t, params.CreateBucketConfiguration)
				assert.Equal(t, types.BucketLocationConstraint("eu-west-1"),
					params.CreateBucketConfiguration.LocationConstraint)
				return &s3.CreateBucketOutput{}, nil
			},
		}

		client := NewWithClient(mock)
		err := client.CreateBucket(context.Background(), "my-new-bucket", WithBucketRegion("eu-west-1"))
		require.NoError(t, err)
	})

	t.Run("us-east-1 omits the constraint", func(t *testing.T) {
		mock := &testutil.MockS3Client{
			CreateBucketFunc: func(_ context.Context, params *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
				assert.Nil(t, params.CreateBucketConfiguration)
				return &s3.CreateBucketOutput{}, nil
			},
		}

		client := NewWithClient(mock)
		err := client.CreateBucket(context.Background(), "my-new-bucket", WithBucketRegion("us-east-1"))
		require.NoError(t, err)
	})

	t.Run("invalid name fails locally", func(t *testing.T) {
		client := NewWithClient(&testutil.MockS3Client{})
		err := client.CreateBucket(context.Background(), "Invalid_Bucket")
		assert.ErrorIs(t, err, s3errors.ErrInvalidBucketName)
	})
}

func TestClient_BucketExists(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		client := NewWithClient(&testutil.MockS3Client{})
		exists, err := client.BucketExists(context.Background(), "test-bucket")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("absent", func(t *testing.T) {
		mock := &testutil.MockS3Client{
			HeadBucketFunc: func(_ context.Context, _ *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
				return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "no bucket"}
			},
		}
		client := NewWithClient(mock)
		exists, err := client.BucketExists(context.Background(), "test-bucket")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestClient_DeleteBucket(t *testing.T) {
	mock := &testutil.MockS3Client{
		DeleteBucketFunc: func(_ context.Context, _ *s3.DeleteBucketInput, _ ...func(*s3.Options)) (*s3.DeleteBucketOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "BucketNotEmpty", Message: "objects remain"}
		},
	}

	client := NewWithClient(mock)
	err := client.DeleteBucket(context.Background(), "test-bucket")
	assert.ErrorIs(t, err, s3errors.ErrBucketNotEmpty)
}

package s3blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"

	"github.com/khianvictorycalderon/profilesync/internal/logging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(context.Background(), Config{
		Region:    "us-east-1",
		Endpoint:  "http://127.0.0.1:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "profiles",
	}, logging.NewJSONLogger(io.Discard))
	require.NoError(t, err)
	return s
}

func TestUploadReturnsPresignedURL(t *testing.T) {
	var gotKey string
	origPut, origPresign := putObject, presignGetObject
	t.Cleanup(func() { putObject, presignGetObject = origPut, origPresign })

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		gotKey = aws.ToString(in.Key)
		return &s3.PutObjectOutput{}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "https://example/" + aws.ToString(in.Key)}, nil
	}

	s := newTestStore(t)
	url, err := s.Upload(context.Background(), "files/avatar.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.Equal(t, "files/avatar.png", gotKey)
	require.Equal(t, "https://example/files/avatar.png", url)
}

func TestUploadErrorWraps(t *testing.T) {
	orig := putObject
	t.Cleanup(func() { putObject = orig })

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return nil, errors.New("denied")
	}

	s := newTestStore(t)
	_, err := s.Upload(context.Background(), "files/avatar.png", strings.NewReader("x"))
	require.ErrorContains(t, err, "upload files/avatar.png")
}

func TestDeleteCallsDeleteObject(t *testing.T) {
	var gotKey string
	orig := deleteObject
	t.Cleanup(func() { deleteObject = orig })

	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		gotKey = aws.ToString(in.Key)
		return &s3.DeleteObjectOutput{}, nil
	}

	s := newTestStore(t)
	require.NoError(t, s.Delete(context.Background(), "files/donation.zip"))
	require.Equal(t, "files/donation.zip", gotKey)
}

func TestRandomKeyIsDatePartitioned(t *testing.T) {
	key := RandomKey("files")
	require.True(t, strings.HasPrefix(key, "files/"))
	require.Contains(t, key, time.Now().Format("2006"))
	require.NotEqual(t, key, RandomKey("files"))
}

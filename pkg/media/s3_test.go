package media_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postcard/pkg/media"
)

type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func newS3(t *testing.T, client media.S3Client, cfg media.S3Config) *media.S3Uploader {
	t.Helper()

	if cfg.Bucket == "" {
		cfg.Bucket = "postcards-bucket"
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	u, err := media.NewS3Uploader(context.Background(), cfg, media.WithS3Client(client))
	require.NoError(t, err)
	return u
}

func TestNewS3Uploader_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := media.NewS3Uploader(context.Background(), media.S3Config{Region: "us-east-1"})
	assert.ErrorIs(t, err, media.ErrInvalidConfig)
}

func TestS3Uploader_Upload(t *testing.T) {
	t.Parallel()

	obj := media.Object{Name: "postcards/2025/03/10/abc.jpg", Data: []byte("jpeg-bytes"), ContentType: "image/jpeg"}

	t.Run("default public url", func(t *testing.T) {
		t.Parallel()

		client := &MockS3Client{}
		client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			body, _ := io.ReadAll(in.Body)
			return aws.ToString(in.Bucket) == "postcards-bucket" &&
				aws.ToString(in.Key) == obj.Name &&
				aws.ToString(in.ContentType) == "image/jpeg" &&
				aws.ToInt64(in.ContentLength) == int64(len(obj.Data)) &&
				aws.ToString(in.CacheControl) != "" &&
				string(body) == "jpeg-bytes"
		}), mock.Anything).Return(&s3.PutObjectOutput{}, nil)

		url, err := newS3(t, client, media.S3Config{}).Upload(context.Background(), obj)
		require.NoError(t, err)
		assert.Equal(t, "https://postcards-bucket.s3.us-east-1.amazonaws.com/postcards/2025/03/10/abc.jpg", url)
		client.AssertExpectations(t)
	})

	t.Run("custom endpoint", func(t *testing.T) {
		t.Parallel()

		client := &MockS3Client{}
		client.On("PutObject", mock.Anything, mock.Anything, mock.Anything).Return(&s3.PutObjectOutput{}, nil)

		url, err := newS3(t, client, media.S3Config{Endpoint: "http://minio:9000/"}).Upload(context.Background(), obj)
		require.NoError(t, err)
		assert.Equal(t, "http://minio:9000/postcards-bucket/postcards/2025/03/10/abc.jpg", url)
	})

	t.Run("public base url", func(t *testing.T) {
		t.Parallel()

		client := &MockS3Client{}
		client.On("PutObject", mock.Anything, mock.Anything, mock.Anything).Return(&s3.PutObjectOutput{}, nil)

		url, err := newS3(t, client, media.S3Config{BaseURL: "https://cdn.example.com"}).Upload(context.Background(), obj)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/postcards/2025/03/10/abc.jpg", url)
	})

	t.Run("empty object", func(t *testing.T) {
		t.Parallel()

		client := &MockS3Client{}
		_, err := newS3(t, client, media.S3Config{}).Upload(context.Background(), media.Object{Name: "x.jpg"})
		assert.ErrorIs(t, err, media.ErrInvalidObject)
		client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("path traversal", func(t *testing.T) {
		t.Parallel()

		_, err := newS3(t, &MockS3Client{}, media.S3Config{}).Upload(context.Background(),
			media.Object{Name: "../etc/passwd", Data: []byte("x")})
		assert.ErrorIs(t, err, media.ErrInvalidPath)
	})
}

func TestS3Uploader_ErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}, media.ErrAccessDenied},
		{"slow down", &smithy.GenericAPIError{Code: "SlowDown"}, media.ErrServiceUnavailable},
		{"no such bucket", &types.NoSuchBucket{}, media.ErrBucketNotFound},
		{"deadline", context.DeadlineExceeded, media.ErrOperationTimeout},
		{"canceled", context.Canceled, media.ErrOperationCanceled},
		{"other", errors.New("boom"), media.ErrUploadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := &MockS3Client{}
			client.On("PutObject", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			_, err := newS3(t, client, media.S3Config{}).Upload(context.Background(),
				media.Object{Name: "a.jpg", Data: []byte("x"), ContentType: "image/jpeg"})
			require.Error(t, err)
			assert.ErrorIs(t, err, media.ErrUploadFailed)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

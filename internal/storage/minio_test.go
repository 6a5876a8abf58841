package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type objectAPIMock struct {
	mock.Mock
}

func (m *objectAPIMock) BucketExists(ctx context.Context, bucket string) (bool, error) {
	args := m.Called(ctx, bucket)
	return args.Bool(0), args.Error(1)
}

func (m *objectAPIMock) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	return m.Called(ctx, bucket, opts).Error(0)
}

func (m *objectAPIMock) FPutObject(ctx context.Context, bucket, object, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucket, object, filePath, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func TestNewMinioPublisher_CreatesMissingBucket(t *testing.T) {
	api := &objectAPIMock{}
	api.On("BucketExists", mock.Anything, "videos").Return(false, nil)
	api.On("MakeBucket", mock.Anything, "videos", minio.MakeBucketOptions{}).Return(nil)

	_, err := newMinioPublisher(context.Background(), api, "videos")
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestNewMinioPublisher_BucketCheckFails(t *testing.T) {
	api := &objectAPIMock{}
	api.On("BucketExists", mock.Anything, "videos").Return(false, errors.New("denied"))

	_, err := newMinioPublisher(context.Background(), api, "videos")
	assert.Error(t, err)
	api.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func TestPublish(t *testing.T) {
	api := &objectAPIMock{}
	api.On("BucketExists", mock.Anything, "videos").Return(true, nil)
	api.On("FPutObject", mock.Anything, "videos", "BV1xx000000x/demo.mp4", "/tmp/out/demo.mp4",
		minio.PutObjectOptions{ContentType: "video/mp4"}).Return(minio.UploadInfo{Key: "BV1xx000000x/demo.mp4"}, nil)

	p, err := newMinioPublisher(context.Background(), api, "videos")
	require.NoError(t, err)
	key, err := p.Publish(context.Background(), "/tmp/out/demo.mp4", "BV1xx000000x")
	require.NoError(t, err)
	assert.Equal(t, "BV1xx000000x/demo.mp4", key)
	api.AssertExpectations(t)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "video/x-flv", contentType("a.flv"))
	assert.Equal(t, "application/octet-stream", contentType("a.bin"))
}

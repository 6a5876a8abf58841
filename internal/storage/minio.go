// Package storage publishes finished downloads to object storage.
package storage

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Publisher uploads a local file and returns its object key.
type Publisher interface {
	Publish(ctx context.Context, localPath, objectPrefix string) (string, error)
}

// MinioConfig addresses one bucket.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// objectAPI is the part of *minio.Client the publisher uses.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinioPublisher uploads files to a MinIO or S3-compatible bucket.
type MinioPublisher struct {
	client objectAPI
	bucket string
}

// NewMinioPublisher connects and creates the bucket if it does not exist.
func NewMinioPublisher(ctx context.Context, cfg MinioConfig) (*MinioPublisher, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: init minio client: %w", err)
	}
	return newMinioPublisher(ctx, client, cfg.Bucket)
}

func newMinioPublisher(ctx context.Context, client objectAPI, bucket string) (*MinioPublisher, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("storage: check bucket %q: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("storage: create bucket %q: %w", bucket, err)
		}
	}
	return &MinioPublisher{client: client, bucket: bucket}, nil
}

// Publish uploads localPath under objectPrefix/<base name>.
func (p *MinioPublisher) Publish(ctx context.Context, localPath, objectPrefix string) (string, error) {
	key := path.Join(objectPrefix, filepath.Base(localPath))
	_, err := p.client.FPutObject(ctx, p.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType(localPath),
	})
	if err != nil {
		return "", fmt.Errorf("storage: upload %q: %w", localPath, err)
	}
	return key, nil
}

func contentType(p string) string {
	switch filepath.Ext(p) {
	case ".mp4":
		return "video/mp4"
	case ".m4s":
		return "video/iso.segment"
	case ".flv":
		return "video/x-flv"
	case ".m4a":
		return "audio/mp4"
	default:
		return "application/octet-stream"
	}
}

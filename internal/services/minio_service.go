package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// blobOpTimeout bounds every blob store call. There is a single failure
// path: a timed-out or failed call aborts the enclosing operation, no retry.
const blobOpTimeout = 10 * time.Second

// BlobStore is the photo storage behind the category catalog.
type BlobStore interface {
	Upload(ctx context.Context, bucket, object, contentType string, reader io.Reader, size int64) error
	Remove(ctx context.Context, bucket, object string) error
	EnsureBucket(ctx context.Context, bucket string) error
	ObjectURL(bucket, object string) string
	Ping(ctx context.Context, bucket string) error
}

type minioBlobStore struct {
	client   *minio.Client
	endpoint string
	useSSL   bool
}

func NewMinioBlobStore(endpoint, accessKey, secretKey string, useSSL bool) (BlobStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioBlobStore{client: client, endpoint: endpoint, useSSL: useSSL}, nil
}

func (m *minioBlobStore) Upload(ctx context.Context, bucket, object, contentType string, reader io.Reader, size int64) error {
	ctx, cancel := context.WithTimeout(ctx, blobOpTimeout)
	defer cancel()
	_, err := m.client.PutObject(ctx, bucket, object, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *minioBlobStore) Remove(ctx context.Context, bucket, object string) error {
	ctx, cancel := context.WithTimeout(ctx, blobOpTimeout)
	defer cancel()
	return m.client.RemoveObject(ctx, bucket, object, minio.RemoveObjectOptions{})
}

func (m *minioBlobStore) EnsureBucket(ctx context.Context, bucket string) error {
	ctx, cancel := context.WithTimeout(ctx, blobOpTimeout)
	defer cancel()
	found, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// ObjectURL builds the public locator stored on the category row.
func (m *minioBlobStore) ObjectURL(bucket, object string) string {
	scheme := "http"
	if m.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, m.endpoint, bucket, object)
}

func (m *minioBlobStore) Ping(ctx context.Context, bucket string) error {
	ctx, cancel := context.WithTimeout(ctx, blobOpTimeout)
	defer cancel()
	_, err := m.client.BucketExists(ctx, bucket)
	return err
}

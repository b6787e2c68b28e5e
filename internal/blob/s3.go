package blob

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"tableqr-backend/config"
)

// S3Store talks to any S3-compatible object storage.
type S3Store struct {
	client        *minio.Client
	publicBaseURL string
}

// NewS3Store creates a blob store client from the storage configuration.
func NewS3Store(cfg *config.StorageConfig) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	base := cfg.PublicBaseURL
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}

	return &S3Store{
		client:        client,
		publicBaseURL: strings.TrimRight(base, "/"),
	}, nil
}

// Put uploads the object with its content type and cache headers.
func (s *S3Store) Put(ctx context.Context, obj Object) (string, error) {
	_, err := s.client.PutObject(ctx, obj.Bucket, obj.Path,
		bytes.NewReader(obj.Data), int64(len(obj.Data)),
		minio.PutObjectOptions{
			ContentType:  obj.ContentType,
			CacheControl: obj.CacheControl,
		})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s/%s: %w", obj.Bucket, obj.Path, err)
	}
	return s.URL(obj.Bucket, obj.Path), nil
}

// Remove deletes the listed paths. Removal of a missing object succeeds.
func (s *S3Store) Remove(ctx context.Context, bucket string, paths []string) error {
	for _, path := range paths {
		if err := s.client.RemoveObject(ctx, bucket, path, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to remove %s/%s: %w", bucket, path, err)
		}
	}
	return nil
}

// URL composes the public URL for an object.
func (s *S3Store) URL(bucket, path string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, bucket, path)
}

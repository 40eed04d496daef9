// Package blob wraps MinIO/S3 interactions for uploaded source material.
package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"

	"github.com/rcollings/studyforge/internal/config"
)

const (
	// Transient not-found reads against freshly written objects are retried a
	// bounded number of times with a fixed delay before the stage gives up.
	notFoundRetries    = 6
	notFoundRetryDelay = 2 * time.Second
)

// Storage wraps a MinIO client and the bucket uploads land in.
type Storage struct {
	client *minio.Client
	bucket string
	region string
}

// New creates a MinIO client from the Config.
func New(cfg *config.Config) (*Storage, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &Storage{client: client, bucket: cfg.FilesBucket, region: cfg.S3Region}, nil
}

// EnsureBucket makes sure the files bucket exists before use.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("make bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// Upload stores an object and returns its s3:// locator.
func (s *Storage) Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error) {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, s.bucket, objectKey, reader, size, opts); err != nil {
		return "", fmt.Errorf("upload object: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, objectKey), nil
}

// DownloadTemp resolves a locator and downloads the object to a scratch file,
// preserving the key's extension (falling back to fallbackExt when the key
// has none). The returned cleanup removes the scratch file and must run on
// every exit path. Transient not-found errors are retried before failing.
func (s *Storage) DownloadTemp(ctx context.Context, locator, fallbackExt string) (path string, cleanup func(), err error) {
	bucket, key, err := ParseLocator(locator)
	if err != nil {
		return "", nil, err
	}
	ext := filepath.Ext(key)
	if ext == "" {
		ext = fallbackExt
	}
	tmp, err := os.CreateTemp("", "studyforge-*"+ext)
	if err != nil {
		return "", nil, fmt.Errorf("create scratch file: %w", err)
	}
	path = tmp.Name()
	tmp.Close()
	cleanup = func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("failed to remove scratch file")
		}
	}
	if err := s.fetchWithRetry(ctx, bucket, key, path); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}

func (s *Storage) fetchWithRetry(ctx context.Context, bucket, key, path string) error {
	var lastErr error
	for attempt := 1; attempt <= notFoundRetries; attempt++ {
		lastErr = s.client.FGetObject(ctx, bucket, key, path, minio.GetObjectOptions{})
		if lastErr == nil {
			return nil
		}
		if !IsNotFound(lastErr) {
			return fmt.Errorf("download s3://%s/%s: %w", bucket, key, lastErr)
		}
		log.Warn().Str("bucket", bucket).Str("key", key).Int("attempt", attempt).Msg("object not found yet, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(notFoundRetryDelay):
		}
	}
	return fmt.Errorf("download s3://%s/%s: %w", bucket, key, lastErr)
}

// Delete removes the object a locator points to, when it lives in our bucket.
// Foreign locators (YouTube URLs, other buckets) are left alone.
func (s *Storage) Delete(ctx context.Context, locator string) error {
	bucket, key, err := ParseLocator(locator)
	if err != nil {
		return nil
	}
	if bucket != s.bucket {
		return nil
	}
	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

// PresignGet returns a signed GET URL for an object in our bucket.
func (s *Storage) PresignGet(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign object: %w", err)
	}
	return u.String(), nil
}

// IsNotFound reports whether err is the blob store's missing-object error.
func IsNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == 404
}

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ashwiniraykar1997/speech-to-text-app/pkg/config"
)

// ErrObjectNotFound is returned for keys that are not in the bucket
var ErrObjectNotFound = errors.New("object not found")

// AudioStore keeps uploaded audio in a MinIO (S3 compatible) bucket
type AudioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string // Public URL for generating accessible URLs (e.g., https://minio.example.com)
	expiry    time.Duration
}

// NewAudioStore creates a MinIO-backed audio store and makes sure the bucket exists
func NewAudioStore(ctx context.Context, cfg *config.StorageConfig) (*AudioStore, error) {
	store, err := newAudioStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := store.ensureBucket(ctx, cfg.Region); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}
	return store, nil
}

func newAudioStore(cfg *config.StorageConfig) (*AudioStore, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &AudioStore{
		client:    minioClient,
		bucket:    cfg.BucketName,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		expiry:    expiry,
	}, nil
}

// ensureBucket creates the bucket when missing. Audio stays private; reads go through presigned URLs.
func (m *AudioStore) ensureBucket(ctx context.Context, region string) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// ObjectKey builds the key of an uploaded audio object. Directory parts of filename are dropped.
func ObjectKey(prefix, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "audio"
	}
	return path.Join(prefix, name)
}

// Upload stores audio under key
func (m *AudioStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

// Exists reports whether key is stored
func (m *AudioStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat object: %w", err)
}

// DownloadURL returns a presigned GET URL for key, served as an attachment
func (m *AudioStore) DownloadURL(ctx context.Context, key string) (string, error) {
	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))

	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, m.expiry, params)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return m.rewritePublic(u), nil
}

// rewritePublic replaces the internal endpoint with the public URL when MinIO sits behind a proxy
func (m *AudioStore) rewritePublic(u *url.URL) string {
	if m.publicURL == "" {
		return u.String()
	}
	return m.publicURL + u.RequestURI()
}

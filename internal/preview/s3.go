package preview

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/logger"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/media"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/pkg/common"
)

const backendS3 = "s3"

// S3Config represents the configuration for the S3 preview backend
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Prefix    string
	URLExpiry time.Duration
}

// objectAPI is the part of *minio.Client the store needs
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// S3Store uploads previewed files to an S3-compatible bucket and hands out
// presigned GET URLs. Releasing a handle removes the object.
type S3Store struct {
	api    objectAPI
	config S3Config

	mu   sync.Mutex
	live map[string]struct{}
}

// NewS3 connects to the bucket described by cfg
func NewS3(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("S3 endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket name is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("S3 access key and secret key are required")
	}

	// Remove protocol prefix if present
	endpoint := cfg.Endpoint
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupAuto,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	store, err := newS3Store(ctx, client, cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("Previews stored in S3 endpoint %s, bucket %s", endpoint, cfg.Bucket)
	return store, nil
}

func newS3Store(ctx context.Context, api objectAPI, cfg S3Config) (*S3Store, error) {
	exists, err := api.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, common.NewStorageError(backendS3, "failed to check if bucket exists", err)
	}
	if !exists {
		return nil, common.NewStorageError(backendS3, fmt.Sprintf("bucket %s does not exist", cfg.Bucket), nil)
	}

	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = 15 * time.Minute
	}

	return &S3Store{
		api:    api,
		config: cfg,
		live:   make(map[string]struct{}),
	}, nil
}

// Create uploads the file and returns a presigned URL for it
func (s *S3Store) Create(ctx context.Context, f *media.File) (Handle, error) {
	key := s.objectKey(uuid.NewString(), f.Name)

	rc, err := f.Open()
	if err != nil {
		return Handle{}, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := s.api.PutObject(ctx, s.config.Bucket, key, rc, f.Size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"original-filename": f.Name},
	})
	if err != nil {
		return Handle{}, common.NewStorageError(backendS3, "failed to upload preview", err)
	}
	logger.Debug("Uploaded preview %s (%d bytes, etag: %s)", key, info.Size, info.ETag)

	u, err := s.api.PresignedGetObject(ctx, s.config.Bucket, key, s.config.URLExpiry, nil)
	if err != nil {
		if rmErr := s.api.RemoveObject(ctx, s.config.Bucket, key, minio.RemoveObjectOptions{}); rmErr != nil {
			logger.Warn("Failed to remove orphaned preview %s: %v", key, rmErr)
		}
		return Handle{}, common.NewStorageError(backendS3, "failed to generate presigned URL", err)
	}

	s.mu.Lock()
	s.live[key] = struct{}{}
	s.mu.Unlock()

	return Handle{ID: key, URL: u.String()}, nil
}

// Release removes the object behind h
func (s *S3Store) Release(ctx context.Context, h Handle) error {
	s.mu.Lock()
	_, ok := s.live[h.ID]
	delete(s.live, h.ID)
	s.mu.Unlock()

	if !ok {
		return nil
	}

	if err := s.api.RemoveObject(ctx, s.config.Bucket, h.ID, minio.RemoveObjectOptions{}); err != nil {
		return common.NewStorageError(backendS3, "failed to delete preview", err)
	}
	logger.Debug("Deleted preview object %s", h.ID)
	return nil
}

// Live returns the number of objects not yet released
func (s *S3Store) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.live)
}

// objectKey returns the full object key with prefix
func (s *S3Store) objectKey(id, name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	prefix := strings.Trim(s.config.Prefix, "/")
	if prefix == "" {
		return path.Join(id, name)
	}
	return path.Join(prefix, id, name)
}

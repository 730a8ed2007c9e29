// Package minio implements the object store port with minio-go, for MinIO
// and other S3-compatible providers.
package minio

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"gallery/internal/config"
	"gallery/internal/domain"
	"gallery/internal/port"
	"gallery/internal/storage"
)

const (
	metaOriginalFilename = "original-filename"
	defaultPresignExpiry = 15 * time.Minute
)

var errNoEndpoint = errors.New("minio: storage endpoint is not configured")

func init() {
	storage.RegisterProvider("minio", func(cfg *config.StorageConfig) (port.ObjectStorage, error) {
		return NewMinioStorage(cfg)
	})
}

// MinioStorage implements port.ObjectStorage on top of a minio-go client.
type MinioStorage struct {
	client        *minio.Client
	initErr       error
	prefix        string
	publicBase    string
	presignExpiry time.Duration
}

// NewMinioStorage creates a MinioStorage. An empty endpoint does not fail
// construction; every call then reports the missing endpoint instead.
func NewMinioStorage(cfg *config.StorageConfig) (*MinioStorage, error) {
	s := &MinioStorage{
		prefix:        cfg.KeyPrefix(),
		publicBase:    strings.TrimRight(cfg.PublicBaseURL, "/"),
		presignExpiry: time.Duration(cfg.PresignExpiry) * time.Second,
	}
	if s.presignExpiry <= 0 {
		s.presignExpiry = defaultPresignExpiry
	}

	host, secure, err := splitEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	if host == "" {
		s.initErr = errNoEndpoint
		return s, nil
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		// A fixed region keeps presigning local instead of looking up the
		// bucket location.
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	s.client = client
	return s, nil
}

// splitEndpoint accepts "host:port" or a URL and reports whether TLS is used.
func splitEndpoint(endpoint string) (host string, secure bool, err error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", false, nil
	}
	if !strings.Contains(endpoint, "://") {
		return strings.TrimRight(endpoint, "/"), false, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("parse minio endpoint %q: %w", endpoint, err)
	}
	return u.Host, u.Scheme == "https", nil
}

func (s *MinioStorage) key(id string) string {
	return s.prefix + id
}

func (s *MinioStorage) Create(ctx context.Context, input port.CreateInput) (*port.StoredObject, error) {
	if s.client == nil {
		return nil, s.initErr
	}

	id := domain.NewObjectID(input.ID)
	size := input.Size
	if size <= 0 {
		size = -1
	}

	info, err := s.client.PutObject(ctx, input.Bucket, s.key(id), input.Body, size, minio.PutObjectOptions{
		ContentType: input.ContentType,
		UserMetadata: map[string]string{
			metaOriginalFilename: url.PathEscape(input.Name),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("put object %q: %w", id, err)
	}

	created := info.LastModified
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return &port.StoredObject{
		ID:          id,
		Name:        input.Name,
		ContentType: input.ContentType,
		Size:        info.Size,
		CreatedAt:   created,
	}, nil
}

func (s *MinioStorage) List(ctx context.Context, bucket string) ([]port.StoredObject, error) {
	if s.client == nil {
		return nil, s.initErr
	}

	ctx, cancel := context.WithCancel(ctx)
	objectCh := s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:       s.prefix,
		WithMetadata: true,
	})
	// The lister goroutine exits only once the channel is closed.
	defer func() {
		cancel()
		for range objectCh {
		}
	}()

	objects := []port.StoredObject{}
	for info := range objectCh {
		if info.Err != nil {
			return nil, fmt.Errorf("list objects: %w", info.Err)
		}
		id := strings.TrimPrefix(info.Key, s.prefix)
		if id == "" || strings.Contains(id, "/") {
			continue
		}

		name, ok := originalName(info.UserMetadata)
		contentType := info.ContentType
		if contentType == "" {
			contentType, _ = userMeta(info.UserMetadata, "content-type")
		}
		if !ok {
			// Metadata in listings is a MinIO extension; other providers need a stat.
			stat, err := s.client.StatObject(ctx, bucket, info.Key, minio.StatObjectOptions{})
			if err != nil {
				return nil, fmt.Errorf("stat object %q: %w", info.Key, err)
			}
			name, _ = originalName(stat.UserMetadata)
			contentType = stat.ContentType
		}

		objects = append(objects, port.StoredObject{
			ID:          id,
			Name:        name,
			ContentType: contentType,
			Size:        info.Size,
			CreatedAt:   info.LastModified,
		})
	}
	return objects, nil
}

func (s *MinioStorage) ResolveViewURL(ctx context.Context, bucket, id string) (string, error) {
	if s.publicBase != "" {
		return s.publicBase + "/" + s.key(id), nil
	}
	if s.client == nil {
		return "", s.initErr
	}

	u, err := s.client.PresignedGetObject(ctx, bucket, s.key(id), s.presignExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign object %q: %w", id, err)
	}
	return u.String(), nil
}

// userMeta looks key up in user metadata, whose keys come back either bare
// or with the X-Amz-Meta- prefix depending on the call.
func userMeta(meta map[string]string, key string) (string, bool) {
	for k, v := range meta {
		k = strings.TrimPrefix(strings.ToLower(k), "x-amz-meta-")
		if k == key {
			return v, true
		}
	}
	return "", false
}

func originalName(meta map[string]string) (string, bool) {
	v, ok := userMeta(meta, metaOriginalFilename)
	if !ok {
		return "", false
	}
	name, err := url.PathUnescape(v)
	if err != nil {
		return v, true
	}
	return name, true
}

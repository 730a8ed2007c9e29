// Package memory provides an in-process object store, useful for local runs
// without a storage service and for tests.
package memory

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"gallery/internal/config"
	"gallery/internal/domain"
	"gallery/internal/port"
	"gallery/internal/storage"
)

func init() {
	storage.RegisterProvider("memory", func(cfg *config.StorageConfig) (port.ObjectStorage, error) {
		return NewStore(cfg.PublicBaseURL), nil
	})
}

type object struct {
	meta port.StoredObject
	data []byte
}

// Store keeps objects per bucket in creation order.
type Store struct {
	publicBase string
	now        func() time.Time

	mu      sync.RWMutex
	buckets map[string][]object
}

// NewStore creates an empty Store. View URLs are built from publicBase, or use
// the memory:// scheme when it is empty.
func NewStore(publicBase string) *Store {
	return &Store{
		publicBase: strings.TrimRight(publicBase, "/"),
		now:        time.Now,
		buckets:    make(map[string][]object),
	}
}

func (s *Store) Create(ctx context.Context, input port.CreateInput) (*port.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if input.Body == nil {
		return nil, fmt.Errorf("memory create: nil body")
	}
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, fmt.Errorf("memory create read: %w", err)
	}

	id := domain.NewObjectID(input.ID)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.buckets[input.Bucket] {
		if o.meta.ID == id {
			return nil, fmt.Errorf("memory create: object %s already exists", id)
		}
	}

	meta := port.StoredObject{
		ID:          id,
		Name:        input.Name,
		ContentType: input.ContentType,
		Size:        int64(len(data)),
		CreatedAt:   s.now(),
	}
	s.buckets[input.Bucket] = append(s.buckets[input.Bucket], object{meta: meta, data: data})

	out := meta
	return &out, nil
}

func (s *Store) List(ctx context.Context, bucket string) ([]port.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	objects := s.buckets[bucket]
	out := make([]port.StoredObject, 0, len(objects))
	for _, o := range objects {
		out = append(out, o.meta)
	}
	return out, nil
}

func (s *Store) ResolveViewURL(_ context.Context, bucket, id string) (string, error) {
	if s.publicBase == "" {
		return fmt.Sprintf("memory://%s/%s", bucket, id), nil
	}
	return fmt.Sprintf("%s/%s/%s", s.publicBase, bucket, id), nil
}

// Read returns a copy of the stored bytes for id and their content type.
func (s *Store) Read(bucket, id string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.buckets[bucket] {
		if o.meta.ID == id {
			return append([]byte(nil), o.data...), o.meta.ContentType, true
		}
	}
	return nil, "", false
}

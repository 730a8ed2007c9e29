package port

import (
	"context"
	"io"
	"time"
)

// CreateInput encapsulates the parameters needed to store a new object.
type CreateInput struct {
	Bucket      string
	ID          string // domain.UniqueID lets the store pick the identifier
	Name        string
	Body        io.Reader
	ContentType string
	Size        int64
}

// StoredObject describes an object held by the store.
type StoredObject struct {
	ID          string
	Name        string
	ContentType string
	Size        int64
	CreatedAt   time.Time
}

// ObjectStorage abstracts the remote object store the gallery reads from and
// writes to.
type ObjectStorage interface {
	Create(ctx context.Context, input CreateInput) (*StoredObject, error)
	List(ctx context.Context, bucket string) ([]StoredObject, error)
	ResolveViewURL(ctx context.Context, bucket, id string) (string, error)
}

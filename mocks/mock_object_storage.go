package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gallery/internal/port"
)

// MockObjectStorage is a mock implementation of port.ObjectStorage.
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Create(ctx context.Context, input port.CreateInput) (*port.StoredObject, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.StoredObject), args.Error(1)
}

func (m *MockObjectStorage) List(ctx context.Context, bucket string) ([]port.StoredObject, error) {
	args := m.Called(ctx, bucket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.StoredObject), args.Error(1)
}

func (m *MockObjectStorage) ResolveViewURL(ctx context.Context, bucket, id string) (string, error) {
	args := m.Called(ctx, bucket, id)
	return args.String(0), args.Error(1)
}

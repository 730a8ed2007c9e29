package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gallery/internal/domain"
)

// MockGallerySync is a mock implementation of service.GallerySync.
type MockGallerySync struct {
	mock.Mock
}

func (m *MockGallerySync) Reload(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGallerySync) Upload(ctx context.Context, sel *domain.PendingSelection) (*domain.UploadResult, error) {
	args := m.Called(ctx, sel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadResult), args.Error(1)
}

func (m *MockGallerySync) Images() []domain.ImageRecord {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.ImageRecord)
}

func (m *MockGallerySync) State() domain.SyncState {
	args := m.Called()
	return args.Get(0).(domain.SyncState)
}

func (m *MockGallerySync) UploadInFlight() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockGallerySync) Snapshot() domain.GallerySnapshot {
	args := m.Called()
	return args.Get(0).(domain.GallerySnapshot)
}

package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// MockGalleryMetrics is a mock implementation of port.GalleryMetrics.
type MockGalleryMetrics struct {
	mock.Mock
}

func (m *MockGalleryMetrics) ObserveUpload(outcome string, elapsed time.Duration) {
	m.Called(outcome, elapsed)
}

func (m *MockGalleryMetrics) ObserveReload(outcome string, elapsed time.Duration) {
	m.Called(outcome, elapsed)
}

func (m *MockGalleryMetrics) SetImageCount(n int) {
	m.Called(n)
}

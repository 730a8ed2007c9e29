package mocks

import (
	"github.com/stretchr/testify/mock"

	"gallery/internal/domain"
	"gallery/internal/service"
)

// MockSelectionGuard is a mock implementation of service.SelectionGuard.
type MockSelectionGuard struct {
	mock.Mock
}

func (m *MockSelectionGuard) Select(input service.SelectionInput) (*domain.PendingSelection, error) {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingSelection), args.Error(1)
}

func (m *MockSelectionGuard) Clear() {
	m.Called()
}

func (m *MockSelectionGuard) Current() *domain.PendingSelection {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.PendingSelection)
}

func (m *MockSelectionGuard) DisplayName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockSelectionGuard) ClearIfCurrent(token uint64) bool {
	args := m.Called(token)
	return args.Bool(0)
}

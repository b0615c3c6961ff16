package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/folio/internal/models"
)

// MockContextReadingRepository is a mock implementation of repository.ContextReadingRepository
type MockContextReadingRepository struct {
	mock.Mock
}

func (m *MockContextReadingRepository) FindByUserAndFolder(ctx context.Context, userID, folderID string) (*models.ContextReadingState, error) {
	args := m.Called(ctx, userID, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContextReadingState), args.Error(1)
}

func (m *MockContextReadingRepository) Save(ctx context.Context, state models.ContextReadingState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockContextReadingRepository) Reset(ctx context.Context, userID, folderID string) error {
	args := m.Called(ctx, userID, folderID)
	return args.Error(0)
}

package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/folio/internal/errors"
	"github.com/vytor/folio/internal/logger"
	"github.com/vytor/folio/internal/models"
	"github.com/vytor/folio/internal/repository"
)

// FolderService handles folder-related business logic. Folders owned by
// another user are reported as not found.
type FolderService interface {
	Create(ctx context.Context, userID, name string) (*models.Folder, error)
	List(ctx context.Context, userID string) ([]models.Folder, error)
	Get(ctx context.Context, userID, id string) (*models.Folder, error)
	Rename(ctx context.Context, userID, id, name string) (*models.Folder, error)
	Delete(ctx context.Context, userID, id string) error
	Stats(ctx context.Context, userID, id string) (*models.FolderStats, error)
}

type folderService struct {
	folderRepo repository.FolderRepository
	now        func() time.Time
}

// NewFolderService creates a new FolderService
func NewFolderService(folderRepo repository.FolderRepository) FolderService {
	return &folderService{folderRepo: folderRepo, now: time.Now}
}

func (s *folderService) Create(ctx context.Context, userID, name string) (*models.Folder, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating folder: user_id=%s", userID)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}

	folder := models.Folder{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		CreatedAt: s.now(),
	}
	if err := s.folderRepo.Insert(ctx, folder); err != nil {
		log.Error("failed to create folder: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &folder, nil
}

func (s *folderService) List(ctx context.Context, userID string) ([]models.Folder, error) {
	folders, err := s.folderRepo.ListByUser(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list folders: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return folders, nil
}

func (s *folderService) Get(ctx context.Context, userID, id string) (*models.Folder, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting folder: id=%s", id)

	folder, err := s.folderRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get folder: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if folder == nil || folder.UserID != userID {
		return nil, errors.NewNotFoundError("folder", id)
	}
	return folder, nil
}

func (s *folderService) Rename(ctx context.Context, userID, id, name string) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}

	folder, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.folderRepo.Rename(ctx, id, name); err != nil {
		logger.FromContext(ctx).Error("failed to rename folder: %v", err)
		return nil, errors.NewInternalError(err)
	}
	folder.Name = name
	return folder, nil
}

func (s *folderService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return err
	}
	if err := s.folderRepo.Delete(ctx, id); err != nil {
		logger.FromContext(ctx).Error("failed to delete folder: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *folderService) Stats(ctx context.Context, userID, id string) (*models.FolderStats, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	stats, err := s.folderRepo.Stats(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to compute folder stats: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return stats, nil
}

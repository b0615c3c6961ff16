package repository

import (
	"context"
	"time"

	"github.com/vytor/folio/internal/models"
)

// Lookups return (nil, nil) when the row does not exist. Any other error is a
// storage failure and is passed through untouched.

// CardRepository handles card data access
type CardRepository interface {
	Insert(ctx context.Context, card models.Card) error
	// InsertBatch inserts all cards or none.
	InsertBatch(ctx context.Context, cards []models.Card) error
	Get(ctx context.Context, id string) (*models.Card, error)
	Update(ctx context.Context, card models.Card) error
	Delete(ctx context.Context, id string) error
	ListByFolder(ctx context.Context, folderID string) ([]models.Card, error)
	// FindUnlearnedByFolder returns the unlearned cards of folderID, provided
	// the folder belongs to userID.
	FindUnlearnedByFolder(ctx context.Context, userID, folderID string) ([]models.Card, error)
}

// FolderRepository handles folder data access
type FolderRepository interface {
	Insert(ctx context.Context, folder models.Folder) error
	Get(ctx context.Context, id string) (*models.Folder, error)
	ListByUser(ctx context.Context, userID string) ([]models.Folder, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, id string) (*models.FolderStats, error)
}

// ContextReadingRepository stores one progress state per (user, folder).
type ContextReadingRepository interface {
	FindByUserAndFolder(ctx context.Context, userID, folderID string) (*models.ContextReadingState, error)
	// Save inserts or replaces the state for its (user, folder) pair in one statement.
	Save(ctx context.Context, state models.ContextReadingState) error
	// Reset deletes the state if present.
	Reset(ctx context.Context, userID, folderID string) error
}

// UserRepository handles user accounts
type UserRepository interface {
	Insert(ctx context.Context, user models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// SessionRepository handles bearer sessions
type SessionRepository interface {
	Insert(ctx context.Context, session models.Session) error
	Get(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

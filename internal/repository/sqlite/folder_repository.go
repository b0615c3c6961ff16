package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/folio/internal/logger"
	"github.com/vytor/folio/internal/models"
	"github.com/vytor/folio/internal/repository"
)

type folderRepository struct {
	db *sql.DB
}

// NewFolderRepository creates a new FolderRepository implementation
func NewFolderRepository(db *sql.DB) repository.FolderRepository {
	return &folderRepository{db: db}
}

func (r *folderRepository) Insert(ctx context.Context, f models.Folder) error {
	log := logger.FromContext(ctx).WithPrefix("folder_repo")
	log.Debug("inserting folder: id=%s, user_id=%s", f.ID, f.UserID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO folders (id, user_id, name, created_at)
VALUES (?, ?, ?, ?)
`, f.ID, f.UserID, f.Name, utc(f.CreatedAt))
	if err != nil {
		log.Error("failed to insert folder: %v", err)
	}
	return err
}

func (r *folderRepository) Get(ctx context.Context, id string) (*models.Folder, error) {
	log := logger.FromContext(ctx).WithPrefix("folder_repo")
	log.Debug("getting folder: id=%s", id)

	var f models.Folder
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, name, created_at
FROM folders
WHERE id = ?
`, id).Scan(&f.ID, &f.UserID, &f.Name, &f.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("folder not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get folder: %v", err)
		return nil, err
	}
	return &f, nil
}

func (r *folderRepository) ListByUser(ctx context.Context, userID string) ([]models.Folder, error) {
	log := logger.FromContext(ctx).WithPrefix("folder_repo")
	log.Debug("listing folders: user_id=%s", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, name, created_at
FROM folders
WHERE user_id = ?
ORDER BY created_at ASC, id ASC
`, userID)
	if err != nil {
		log.Error("failed to list folders: %v", err)
		return nil, err
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		var f models.Folder
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.CreatedAt); err != nil {
			log.Error("failed to scan folder row: %v", err)
			return nil, err
		}
		folders = append(folders, f)
	}
	log.Debug("found %d folders", len(folders))
	return folders, rows.Err()
}

func (r *folderRepository) Rename(ctx context.Context, id, name string) error {
	log := logger.FromContext(ctx).WithPrefix("folder_repo")
	log.Debug("renaming folder: id=%s", id)

	if _, err := r.db.ExecContext(ctx, `UPDATE folders SET name = ? WHERE id = ?`, name, id); err != nil {
		log.Error("failed to rename folder: %v", err)
		return err
	}
	return nil
}

// Delete removes the folder; cards and reading progress go with it through
// ON DELETE CASCADE.
func (r *folderRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("folder_repo")
	log.Debug("deleting folder: id=%s", id)

	if _, err := r.db.ExecContext(ctx, `DELETE FROM folders WHERE id = ?`, id); err != nil {
		log.Error("failed to delete folder: %v", err)
		return err
	}
	return nil
}

func (r *folderRepository) Stats(ctx context.Context, id string) (*models.FolderStats, error) {
	log := logger.FromContext(ctx).WithPrefix("folder_repo")
	log.Debug("computing folder stats: id=%s", id)

	stats := models.FolderStats{FolderID: id}
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*),
       COALESCE(SUM(CASE WHEN is_learned THEN 1 ELSE 0 END), 0)
FROM cards
WHERE folder_id = ?
`, id).Scan(&stats.TotalCards, &stats.LearnedCards)
	if err != nil {
		log.Error("failed to compute folder stats: %v", err)
		return nil, err
	}
	stats.UnlearnedCards = stats.TotalCards - stats.LearnedCards
	return &stats, nil
}

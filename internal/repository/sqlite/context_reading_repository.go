package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vytor/folio/internal/logger"
	"github.com/vytor/folio/internal/models"
	"github.com/vytor/folio/internal/repository"
)

type contextReadingRepository struct {
	db *sql.DB
}

// NewContextReadingRepository creates a new ContextReadingRepository implementation
func NewContextReadingRepository(db *sql.DB) repository.ContextReadingRepository {
	return &contextReadingRepository{db: db}
}

func (r *contextReadingRepository) FindByUserAndFolder(ctx context.Context, userID, folderID string) (*models.ContextReadingState, error) {
	log := logger.FromContext(ctx).WithPrefix("context_reading_repo")
	log.Debug("loading state: user_id=%s, folder_id=%s", userID, folderID)

	var (
		state models.ContextReadingState
		raw   string
	)
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, folder_id, used_card_ids, updated_at
FROM context_reading_states
WHERE user_id = ? AND folder_id = ?
`, userID, folderID).Scan(&state.UserID, &state.FolderID, &raw, &state.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no state stored")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to load state: %v", err)
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &state.UsedCardIDs); err != nil {
		log.Error("failed to decode used card ids: %v", err)
		return nil, fmt.Errorf("decode used_card_ids: %w", err)
	}
	if state.UsedCardIDs == nil {
		state.UsedCardIDs = []string{}
	}
	log.Debug("state loaded: used=%d", len(state.UsedCardIDs))
	return &state, nil
}

func (r *contextReadingRepository) Save(ctx context.Context, state models.ContextReadingState) error {
	log := logger.FromContext(ctx).WithPrefix("context_reading_repo")
	log.Debug("saving state: user_id=%s, folder_id=%s, used=%d", state.UserID, state.FolderID, len(state.UsedCardIDs))

	ids := state.UsedCardIDs
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode used_card_ids: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO context_reading_states (user_id, folder_id, used_card_ids, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(user_id, folder_id) DO UPDATE SET
    used_card_ids = excluded.used_card_ids,
    updated_at = excluded.updated_at
`, state.UserID, state.FolderID, string(raw), utc(state.UpdatedAt))
	if err != nil {
		log.Error("failed to save state: %v", err)
	}
	return err
}

func (r *contextReadingRepository) Reset(ctx context.Context, userID, folderID string) error {
	log := logger.FromContext(ctx).WithPrefix("context_reading_repo")
	log.Debug("resetting state: user_id=%s, folder_id=%s", userID, folderID)

	res, err := r.db.ExecContext(ctx, `DELETE FROM context_reading_states WHERE user_id = ? AND folder_id = ?`, userID, folderID)
	if err != nil {
		log.Error("failed to reset state: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil {
		log.Debug("reset removed %d rows", n)
	}
	return nil
}

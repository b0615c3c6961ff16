package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/folio/internal/errors"
	"github.com/vytor/folio/internal/logger"
)

const defaultContextReadingLimit = 3

// parseLimit reads ?limit=, defaulting when absent. Values outside
// 1..ContextReadingMaxLimit are rejected, not clamped.
func (s *Server) parseLimit(r *http.Request) (int, error) {
	maxLimit := s.ContextReadingMaxLimit
	if maxLimit < 1 {
		maxLimit = 5
	}

	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return min(defaultContextReadingLimit, maxLimit), nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewBadRequestError("limit must be an integer")
	}
	if err := validate.Var(limit, fmt.Sprintf("min=1,max=%d", maxLimit)); err != nil {
		return 0, errors.NewValidationError("limit", fmt.Sprintf("must be between 1 and %d", maxLimit))
	}
	return limit, nil
}

func (s *Server) handleNextContextCards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(ctx)
	folderID := chi.URLParam(r, "folderID")

	limit, err := s.parseLimit(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if _, err := s.Folders.Get(ctx, user.ID, folderID); err != nil {
		handleError(w, r, err)
		return
	}

	batch, err := s.ContextReading.GetNext(ctx, user.ID, folderID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(ctx).Debug("context batch: folder_id=%s, cards=%d, used=%d, total=%d, completed=%t",
		folderID, len(batch.Cards), batch.Progress.Used, batch.Progress.Total, batch.Completed)
	writeJSON(w, r, http.StatusOK, batch)
}

func (s *Server) handleResetContextReading(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(ctx)
	folderID := chi.URLParam(r, "folderID")

	if _, err := s.Folders.Get(ctx, user.ID, folderID); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.ContextReading.Reset(ctx, user.ID, folderID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

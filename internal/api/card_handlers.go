package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"github.com/vytor/folio/internal/errors"
	"github.com/vytor/folio/internal/models"
	"github.com/vytor/folio/internal/services"
)

type cardRequest struct {
	Question          string  `json:"question" validate:"required,max=2000"`
	Answer            string  `json:"answer" validate:"required,max=2000"`
	QuestionSentences *string `json:"question_sentences" validate:"omitempty,max=20000"`
	AnswerSentences   *string `json:"answer_sentences" validate:"omitempty,max=20000"`
}

func (c cardRequest) toNewCard() services.NewCard {
	return services.NewCard{
		Question:          c.Question,
		Answer:            c.Answer,
		QuestionSentences: c.QuestionSentences,
		AnswerSentences:   c.AnswerSentences,
	}
}

type cardBatchRequest struct {
	Cards []cardRequest `json:"cards" validate:"required,min=1,max=500,dive"`
}

type cardPatchRequest struct {
	Question          *string `json:"question" validate:"omitempty,min=1,max=2000"`
	Answer            *string `json:"answer" validate:"omitempty,min=1,max=2000"`
	QuestionSentences *string `json:"question_sentences" validate:"omitempty,max=20000"`
	AnswerSentences   *string `json:"answer_sentences" validate:"omitempty,max=20000"`
}

type moveCardRequest struct {
	FolderID string `json:"folder_id" validate:"required"`
}

// ownedCard loads a card and checks that its folder belongs to the caller.
// Cards in someone else's folder are reported as missing.
func (s *Server) ownedCard(ctx context.Context, cardID string) (*models.Card, error) {
	card, err := s.Cards.Get(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Folders.Get(ctx, userFromContext(ctx).ID, card.FolderID); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewNotFoundError("card", cardID)
		}
		return nil, err
	}
	return card, nil
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	folderID := chi.URLParam(r, "folderID")
	if _, err := s.Folders.Get(ctx, userFromContext(ctx).ID, folderID); err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.Cards.ListByFolder(ctx, folderID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cards)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	folderID := chi.URLParam(r, "folderID")

	var req cardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if _, err := s.Folders.Get(ctx, userFromContext(ctx).ID, folderID); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Cards.Create(ctx, folderID, req.toNewCard())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, card)
}

func (s *Server) handleCreateCardBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	folderID := chi.URLParam(r, "folderID")

	var req cardBatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if _, err := s.Folders.Get(ctx, userFromContext(ctx).ID, folderID); err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.Cards.CreateBatch(ctx, folderID, lo.Map(req.Cards, func(c cardRequest, _ int) services.NewCard {
		return c.toNewCard()
	}))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, cards)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	card, err := s.ownedCard(r.Context(), chi.URLParam(r, "cardID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cardID := chi.URLParam(r, "cardID")

	var req cardPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	patch := models.CardPatch(req)
	if patch.Empty() {
		handleError(w, r, errors.NewBadRequestError("no fields to update"))
		return
	}
	if _, err := s.ownedCard(ctx, cardID); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Cards.Update(ctx, cardID, patch)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cardID := chi.URLParam(r, "cardID")

	if _, err := s.ownedCard(ctx, cardID); err != nil {
		if errors.IsNotFound(err) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		handleError(w, r, err)
		return
	}
	if err := s.Cards.Delete(ctx, cardID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cardID := chi.URLParam(r, "cardID")

	var req moveCardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if _, err := s.ownedCard(ctx, cardID); err != nil {
		handleError(w, r, err)
		return
	}
	if _, err := s.Folders.Get(ctx, userFromContext(ctx).ID, req.FolderID); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Cards.MoveToFolder(ctx, cardID, req.FolderID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

// cardAction adapts a bodiless card transition into a handler.
func (s *Server) cardAction(op func(ctx context.Context, id string) (*models.Card, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		cardID := chi.URLParam(r, "cardID")

		if _, err := s.ownedCard(ctx, cardID); err != nil {
			handleError(w, r, err)
			return
		}
		card, err := op(ctx, cardID)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, card)
	}
}

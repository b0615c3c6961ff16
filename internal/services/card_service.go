package services

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/vytor/folio/internal/errors"
	"github.com/vytor/folio/internal/flashcard"
	"github.com/vytor/folio/internal/logger"
	"github.com/vytor/folio/internal/models"
	"github.com/vytor/folio/internal/repository"
)

// NewCard is the input for creating a card.
type NewCard struct {
	Question          string
	Answer            string
	QuestionSentences *string
	AnswerSentences   *string
}

// CardService handles card lifecycle and review bookkeeping. Every mutating
// method returns the stored card or a NOT_FOUND error.
type CardService interface {
	Create(ctx context.Context, folderID string, in NewCard) (*models.Card, error)
	CreateBatch(ctx context.Context, folderID string, in []NewCard) ([]models.Card, error)
	Get(ctx context.Context, id string) (*models.Card, error)
	ListByFolder(ctx context.Context, folderID string) ([]models.Card, error)
	Update(ctx context.Context, id string, patch models.CardPatch) (*models.Card, error)
	MoveToFolder(ctx context.Context, id, folderID string) (*models.Card, error)
	MarkLearned(ctx context.Context, id string) (*models.Card, error)
	MarkUnlearned(ctx context.Context, id string) (*models.Card, error)
	RecordShown(ctx context.Context, id string) (*models.Card, error)
	RecordCorrect(ctx context.Context, id string) (*models.Card, error)
	RecordIncorrect(ctx context.Context, id string) (*models.Card, error)
	// Delete succeeds whether or not the card exists.
	Delete(ctx context.Context, id string) error
}

type cardService struct {
	cardRepo repository.CardRepository
	now      func() time.Time
	locks    *keyedMutex
}

// NewCardService creates a new CardService
func NewCardService(cardRepo repository.CardRepository) CardService {
	return newCardService(cardRepo, time.Now)
}

func newCardService(cardRepo repository.CardRepository, now func() time.Time) *cardService {
	return &cardService{cardRepo: cardRepo, now: now, locks: newKeyedMutex()}
}

func (s *cardService) Create(ctx context.Context, folderID string, in NewCard) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating card: folder_id=%s", folderID)

	card := flashcard.New(folderID, in.Question, in.Answer, in.QuestionSentences, in.AnswerSentences, s.now())
	if err := s.cardRepo.Insert(ctx, card); err != nil {
		log.Error("failed to insert card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &card, nil
}

func (s *cardService) CreateBatch(ctx context.Context, folderID string, in []NewCard) ([]models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating %d cards: folder_id=%s", len(in), folderID)

	now := s.now()
	cards := lo.Map(in, func(c NewCard, _ int) models.Card {
		return flashcard.New(folderID, c.Question, c.Answer, c.QuestionSentences, c.AnswerSentences, now)
	})
	if err := s.cardRepo.InsertBatch(ctx, cards); err != nil {
		log.Error("failed to insert cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *cardService) Get(ctx context.Context, id string) (*models.Card, error) {
	log := logger.FromContext(ctx)

	card, err := s.cardRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", id)
	}
	return card, nil
}

func (s *cardService) ListByFolder(ctx context.Context, folderID string) ([]models.Card, error) {
	cards, err := s.cardRepo.ListByFolder(ctx, folderID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *cardService) Update(ctx context.Context, id string, patch models.CardPatch) (*models.Card, error) {
	return s.mutate(ctx, id, "update", func(c models.Card) models.Card {
		return flashcard.ApplyPatch(c, patch)
	})
}

func (s *cardService) MoveToFolder(ctx context.Context, id, folderID string) (*models.Card, error) {
	return s.mutate(ctx, id, "move", func(c models.Card) models.Card {
		return flashcard.MoveTo(c, folderID)
	})
}

func (s *cardService) MarkLearned(ctx context.Context, id string) (*models.Card, error) {
	return s.mutate(ctx, id, "mark_learned", func(c models.Card) models.Card {
		return flashcard.MarkLearned(c, s.now())
	})
}

func (s *cardService) MarkUnlearned(ctx context.Context, id string) (*models.Card, error) {
	return s.mutate(ctx, id, "mark_unlearned", flashcard.MarkUnlearned)
}

func (s *cardService) RecordShown(ctx context.Context, id string) (*models.Card, error) {
	return s.mutate(ctx, id, "record_shown", func(c models.Card) models.Card {
		return flashcard.RecordShown(c, s.now())
	})
}

func (s *cardService) RecordCorrect(ctx context.Context, id string) (*models.Card, error) {
	return s.mutate(ctx, id, "record_correct", flashcard.RecordCorrect)
}

func (s *cardService) RecordIncorrect(ctx context.Context, id string) (*models.Card, error) {
	return s.mutate(ctx, id, "record_incorrect", flashcard.RecordIncorrect)
}

func (s *cardService) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting card: id=%s", id)

	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.cardRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete card: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

// mutate loads the card, applies fn and stores the result while holding the
// card's lock, so concurrent counter updates are not lost.
func (s *cardService) mutate(ctx context.Context, id, op string, fn func(models.Card) models.Card) (*models.Card, error) {
	log := logger.FromContext(ctx).WithField("card_id", id)
	log.Debug("card %s", op)

	unlock := s.locks.Lock(id)
	defer unlock()

	card, err := s.cardRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to load card for %s: %v", op, err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", id)
	}

	updated := fn(*card)
	if err := s.cardRepo.Update(ctx, updated); err != nil {
		log.Error("failed to store card after %s: %v", op, err)
		return nil, errors.NewInternalError(err)
	}
	return &updated, nil
}

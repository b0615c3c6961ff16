package services

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/vytor/folio/internal/errors"
	"github.com/vytor/folio/internal/logger"
	"github.com/vytor/folio/internal/models"
	"github.com/vytor/folio/internal/repository"
)

// Shuffler permutes cards in place.
type Shuffler func(cards []models.Card)

// RandomShuffler is a uniform shuffle backed by math/rand.
func RandomShuffler(cards []models.Card) {
	lo.Shuffle(cards)
}

// ContextReadingService serves successive batches of unseen, unlearned cards
// from a folder until every one of them has been shown once.
type ContextReadingService interface {
	// GetNext returns up to limit cards not yet served in the current cycle.
	// limit is not clamped here; callers validate it.
	GetNext(ctx context.Context, userID, folderID string, limit int) (*models.ContextBatch, error)
	// Reset forgets all progress for the pair. Resetting twice is harmless.
	Reset(ctx context.Context, userID, folderID string) error
}

type contextReadingService struct {
	cardRepo  repository.CardRepository
	stateRepo repository.ContextReadingRepository
	shuffle   Shuffler
	now       func() time.Time
	locks     *keyedMutex
}

// ContextReadingOption configures a ContextReadingService.
type ContextReadingOption func(*contextReadingService)

// WithShuffler replaces the random shuffle, mainly for deterministic tests.
func WithShuffler(s Shuffler) ContextReadingOption {
	return func(svc *contextReadingService) {
		svc.shuffle = s
	}
}

// WithClock overrides the time source used for UpdatedAt.
func WithClock(now func() time.Time) ContextReadingOption {
	return func(svc *contextReadingService) {
		svc.now = now
	}
}

// NewContextReadingService creates a new ContextReadingService
func NewContextReadingService(cardRepo repository.CardRepository, stateRepo repository.ContextReadingRepository, opts ...ContextReadingOption) ContextReadingService {
	svc := &contextReadingService{
		cardRepo:  cardRepo,
		stateRepo: stateRepo,
		shuffle:   RandomShuffler,
		now:       time.Now,
		locks:     newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func stateKey(userID, folderID string) string {
	return userID + "\x00" + folderID
}

func (s *contextReadingService) GetNext(ctx context.Context, userID, folderID string, limit int) (*models.ContextBatch, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"user_id":   userID,
		"folder_id": folderID,
	})
	log.Debug("getting next context cards: limit=%d", limit)

	// The load-append-save below must not interleave for the same pair.
	unlock := s.locks.Lock(stateKey(userID, folderID))
	defer unlock()

	unlearned, err := s.cardRepo.FindUnlearnedByFolder(ctx, userID, folderID)
	if err != nil {
		log.Error("failed to load unlearned cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	total := len(unlearned)

	state, err := s.stateRepo.FindByUserAndFolder(ctx, userID, folderID)
	if err != nil {
		log.Error("failed to load context reading state: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if state == nil {
		state = &models.ContextReadingState{UserID: userID, FolderID: folderID, UsedCardIDs: []string{}}
	}

	used := lo.Associate(state.UsedCardIDs, func(id string) (string, struct{}) {
		return id, struct{}{}
	})
	unused := lo.Filter(unlearned, func(c models.Card, _ int) bool {
		_, seen := used[c.ID]
		return !seen
	})

	if len(unused) == 0 {
		log.Debug("context reading completed: used=%d, total=%d", len(state.UsedCardIDs), total)
		return &models.ContextBatch{
			Cards:     []models.Card{},
			Progress:  models.ContextProgress{Used: len(state.UsedCardIDs), Total: total},
			Completed: true,
		}, nil
	}

	s.shuffle(unused)
	n := min(max(limit, 0), len(unused))
	selected := unused[:n]

	state.UsedCardIDs = append(state.UsedCardIDs, lo.Map(selected, func(c models.Card, _ int) string {
		return c.ID
	})...)
	state.UpdatedAt = s.now()

	if err := s.stateRepo.Save(ctx, *state); err != nil {
		log.Error("failed to save context reading state: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Debug("served %d cards: used=%d, total=%d", len(selected), len(state.UsedCardIDs), total)
	return &models.ContextBatch{
		Cards:     selected,
		Progress:  models.ContextProgress{Used: len(state.UsedCardIDs), Total: total},
		Completed: false,
	}, nil
}

func (s *contextReadingService) Reset(ctx context.Context, userID, folderID string) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"user_id":   userID,
		"folder_id": folderID,
	})
	log.Debug("resetting context reading progress")

	unlock := s.locks.Lock(stateKey(userID, folderID))
	defer unlock()

	if err := s.stateRepo.Reset(ctx, userID, folderID); err != nil {
		log.Error("failed to reset context reading state: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

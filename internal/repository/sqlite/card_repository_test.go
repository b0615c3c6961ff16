package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/folio/internal/flashcard"
	"github.com/vytor/folio/internal/models"
	"github.com/vytor/folio/internal/repository"
	"github.com/vytor/folio/internal/repository/sqlite"
	"github.com/vytor/folio/internal/testutil"
)

type CardRepositorySuite struct {
	suite.Suite
	db       *sql.DB
	repo     repository.CardRepository
	userID   string
	folderID string
}

func (s *CardRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewCardRepository(s.db)
	s.userID = testutil.InsertUser(s.T(), s.db, "reader")
	s.folderID = testutil.InsertFolder(s.T(), s.db, s.userID, "spanish")
}

func (s *CardRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *CardRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	sentences := "El perro corre."
	card := flashcard.New(s.folderID, "perro", "dog", &sentences, nil, time.Now())

	s.Require().NoError(s.repo.Insert(ctx, card))

	got, err := s.repo.Get(ctx, card.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(card.ID, got.ID)
	s.Assert().Equal("perro", got.Question)
	s.Assert().Equal("dog", got.Answer)
	s.Require().NotNil(got.QuestionSentences)
	s.Assert().Equal(sentences, *got.QuestionSentences)
	s.Assert().Nil(got.AnswerSentences)
	s.Assert().False(got.IsLearned)
	s.Assert().Equal(models.DefaultEaseFactor, got.EaseFactor)
	s.Assert().Nil(got.LastRating)
	s.Assert().Nil(got.LastShownAt)
	s.Assert().WithinDuration(card.CreatedAt, got.CreatedAt, time.Second)
}

func (s *CardRepositorySuite) TestGetMissingReturnsNil() {
	got, err := s.repo.Get(context.Background(), "missing")
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *CardRepositorySuite) TestUpdate() {
	ctx := context.Background()
	card := flashcard.New(s.folderID, "gato", "cat", nil, nil, time.Now())
	s.Require().NoError(s.repo.Insert(ctx, card))

	now := time.Now()
	card = flashcard.MarkLearned(card, now)
	card = flashcard.RecordCorrect(card)
	card = flashcard.RecordShown(card, now)
	s.Require().NoError(s.repo.Update(ctx, card))

	got, err := s.repo.Get(ctx, card.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().True(got.IsLearned)
	s.Assert().Equal(1, got.ReviewCount)
	s.Assert().Equal(1, got.CorrectCount)
	s.Require().NotNil(got.LastRating)
	s.Assert().Equal(5, *got.LastRating)
	s.Assert().InDelta(5.0, got.AverageRating, 1e-9)
	s.Require().NotNil(got.LastLearnedAt)
	s.Assert().WithinDuration(now, *got.LastLearnedAt, time.Second)
	s.Require().NotNil(got.LastShownAt)
}

func (s *CardRepositorySuite) TestDeleteIsIdempotent() {
	ctx := context.Background()
	card := flashcard.New(s.folderID, "casa", "house", nil, nil, time.Now())
	s.Require().NoError(s.repo.Insert(ctx, card))

	s.Require().NoError(s.repo.Delete(ctx, card.ID))
	s.Require().NoError(s.repo.Delete(ctx, card.ID))

	got, err := s.repo.Get(ctx, card.ID)
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *CardRepositorySuite) TestFindUnlearnedByFolder() {
	ctx := context.Background()
	otherFolder := testutil.InsertFolder(s.T(), s.db, s.userID, "french")
	otherUser := testutil.InsertUser(s.T(), s.db, "someone-else")

	unlearned1 := testutil.InsertCard(s.T(), s.db, s.folderID, "uno", false)
	unlearned2 := testutil.InsertCard(s.T(), s.db, s.folderID, "dos", false)
	testutil.InsertCard(s.T(), s.db, s.folderID, "tres", true)
	testutil.InsertCard(s.T(), s.db, otherFolder, "un", false)

	cards, err := s.repo.FindUnlearnedByFolder(ctx, s.userID, s.folderID)
	s.Require().NoError(err)
	s.Require().Len(cards, 2)
	s.Assert().ElementsMatch([]string{unlearned1, unlearned2}, []string{cards[0].ID, cards[1].ID})

	cards, err = s.repo.FindUnlearnedByFolder(ctx, otherUser, s.folderID)
	s.Require().NoError(err)
	s.Assert().Empty(cards, "folder of another user must not leak cards")
}

func (s *CardRepositorySuite) TestListByFolderAndBatchInsert() {
	ctx := context.Background()
	cards := []models.Card{
		flashcard.New(s.folderID, "rojo", "red", nil, nil, time.Now()),
		flashcard.New(s.folderID, "azul", "blue", nil, nil, time.Now().Add(time.Millisecond)),
	}
	s.Require().NoError(s.repo.InsertBatch(ctx, cards))

	listed, err := s.repo.ListByFolder(ctx, s.folderID)
	s.Require().NoError(err)
	s.Require().Len(listed, 2)
	s.Assert().Equal("rojo", listed[0].Question)
	s.Assert().Equal("azul", listed[1].Question)
}

func (s *CardRepositorySuite) TestBatchInsertIsAtomic() {
	ctx := context.Background()
	good := flashcard.New(s.folderID, "verde", "green", nil, nil, time.Now())
	bad := flashcard.New("no-such-folder", "negro", "black", nil, nil, time.Now())
	s.Require().Error(s.repo.InsertBatch(ctx, []models.Card{good, bad}))

	listed, err := s.repo.ListByFolder(ctx, s.folderID)
	s.Require().NoError(err)
	s.Assert().Empty(listed)
}

func TestCardRepositorySuite(t *testing.T) {
	suite.Run(t, new(CardRepositorySuite))
}

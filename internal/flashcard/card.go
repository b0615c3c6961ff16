package flashcard

import (
	"time"

	"github.com/google/uuid"
	"github.com/vytor/folio/internal/models"
)

// Ratings recorded for a review outcome. They feed AverageRating only; no
// interval or ease scheduling is derived from them.
const (
	RatingCorrect   = 5
	RatingIncorrect = 1
)

// New builds an unlearned card with zeroed counters and the default ease.
func New(folderID, question, answer string, questionSentences, answerSentences *string, now time.Time) models.Card {
	return models.Card{
		ID:                uuid.NewString(),
		FolderID:          folderID,
		Question:          question,
		Answer:            answer,
		QuestionSentences: questionSentences,
		AnswerSentences:   answerSentences,
		EaseFactor:        models.DefaultEaseFactor,
		CreatedAt:         now,
	}
}

// ApplyPatch copies the non-nil fields of p onto card.
func ApplyPatch(card models.Card, p models.CardPatch) models.Card {
	if p.Question != nil {
		card.Question = *p.Question
	}
	if p.Answer != nil {
		card.Answer = *p.Answer
	}
	if p.QuestionSentences != nil {
		card.QuestionSentences = p.QuestionSentences
	}
	if p.AnswerSentences != nil {
		card.AnswerSentences = p.AnswerSentences
	}
	return card
}

func MoveTo(card models.Card, folderID string) models.Card {
	card.FolderID = folderID
	return card
}

func MarkLearned(card models.Card, now time.Time) models.Card {
	card.IsLearned = true
	card.LastLearnedAt = &now
	return card
}

func MarkUnlearned(card models.Card) models.Card {
	card.IsLearned = false
	return card
}

func RecordShown(card models.Card, now time.Time) models.Card {
	card.LastShownAt = &now
	return card
}

// RecordCorrect counts a successful review.
func RecordCorrect(card models.Card) models.Card {
	card.CorrectCount++
	return recordOutcome(card, RatingCorrect)
}

// RecordIncorrect counts a failed review.
func RecordIncorrect(card models.Card) models.Card {
	card.IncorrectCount++
	return recordOutcome(card, RatingIncorrect)
}

// recordOutcome bumps the review total and folds rating into the running mean.
// ReviewCount always equals CorrectCount+IncorrectCount afterwards.
func recordOutcome(card models.Card, rating int) models.Card {
	card.ReviewCount++
	n := float64(card.ReviewCount)
	card.AverageRating = (card.AverageRating*(n-1) + float64(rating)) / n
	card.LastRating = &rating
	return card
}

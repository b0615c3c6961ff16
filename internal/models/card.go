package models

import "time"

// DefaultEaseFactor is the SM-2 starting ease for a new card.
const DefaultEaseFactor = 2.5

type Card struct {
	ID                string     `json:"id"`
	FolderID          string     `json:"folder_id"`
	Question          string     `json:"question"`
	Answer            string     `json:"answer"`
	QuestionSentences *string    `json:"question_sentences"`
	AnswerSentences   *string    `json:"answer_sentences"`
	IsLearned         bool       `json:"is_learned"`
	CreatedAt         time.Time  `json:"created_at"`
	LastShownAt       *time.Time `json:"last_shown_at"`
	LastLearnedAt     *time.Time `json:"last_learned_at"`
	NextReviewAt      *time.Time `json:"next_review_at"`
	ReviewCount       int        `json:"review_count"`
	CorrectCount      int        `json:"correct_count"`
	IncorrectCount    int        `json:"incorrect_count"`
	CurrentInterval   int        `json:"current_interval"`
	Repetitions       int        `json:"repetitions"`
	EaseFactor        float64    `json:"ease_factor"`
	LastRating        *int       `json:"last_rating"`
	AverageRating     float64    `json:"average_rating"`
}

// CardPatch carries a partial card edit. Nil fields are left unchanged.
type CardPatch struct {
	Question          *string `json:"question"`
	Answer            *string `json:"answer"`
	QuestionSentences *string `json:"question_sentences"`
	AnswerSentences   *string `json:"answer_sentences"`
}

// Empty reports whether the patch changes nothing.
func (p CardPatch) Empty() bool {
	return p.Question == nil && p.Answer == nil && p.QuestionSentences == nil && p.AnswerSentences == nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/folio/internal/logger"
	"github.com/vytor/folio/internal/models"
	"github.com/vytor/folio/internal/repository"
)

var cardColumns = []string{
	"c.id", "c.folder_id", "c.question", "c.answer", "c.question_sentences", "c.answer_sentences",
	"c.is_learned", "c.created_at", "c.last_shown_at", "c.last_learned_at", "c.next_review_at",
	"c.review_count", "c.correct_count", "c.incorrect_count",
	"c.current_interval", "c.repetitions", "c.ease_factor", "c.last_rating", "c.average_rating",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (models.Card, error) {
	var c models.Card
	err := row.Scan(&c.ID, &c.FolderID, &c.Question, &c.Answer, &c.QuestionSentences, &c.AnswerSentences,
		&c.IsLearned, &c.CreatedAt, &c.LastShownAt, &c.LastLearnedAt, &c.NextReviewAt,
		&c.ReviewCount, &c.CorrectCount, &c.IncorrectCount,
		&c.CurrentInterval, &c.Repetitions, &c.EaseFactor, &c.LastRating, &c.AverageRating)
	return c, err
}

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: id=%s, folder_id=%s", c.ID, c.FolderID)

	if _, err := r.insertQuery(c).RunWith(r.db).ExecContext(ctx); err != nil {
		log.Error("failed to insert card: %v", err)
		return err
	}
	return nil
}

func (r *cardRepository) InsertBatch(ctx context.Context, cards []models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting %d cards", len(cards))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		for _, c := range cards {
			if _, err := r.insertQuery(c).RunWith(tx).ExecContext(ctx); err != nil {
				log.Error("failed to insert card %s: %v", c.ID, err)
				return err
			}
		}
		return nil
	})
}

func (r *cardRepository) insertQuery(c models.Card) squirrel.InsertBuilder {
	return sqlBuilder.Insert("cards").
		Columns("id", "folder_id", "question", "answer", "question_sentences", "answer_sentences",
			"is_learned", "created_at", "last_shown_at", "last_learned_at", "next_review_at",
			"review_count", "correct_count", "incorrect_count",
			"current_interval", "repetitions", "ease_factor", "last_rating", "average_rating").
		Values(c.ID, c.FolderID, c.Question, c.Answer, c.QuestionSentences, c.AnswerSentences,
			c.IsLearned, utc(c.CreatedAt), utcPtr(c.LastShownAt), utcPtr(c.LastLearnedAt), utcPtr(c.NextReviewAt),
			c.ReviewCount, c.CorrectCount, c.IncorrectCount,
			c.CurrentInterval, c.Repetitions, c.EaseFactor, c.LastRating, c.AverageRating)
}

func (r *cardRepository) Get(ctx context.Context, id string) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%s", id)

	query, args, err := sqlBuilder.Select(cardColumns...).From("cards c").Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	c, err := scanCard(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *cardRepository) Update(ctx context.Context, c models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card: id=%s, learned=%t, reviews=%d", c.ID, c.IsLearned, c.ReviewCount)

	_, err := sqlBuilder.Update("cards").
		SetMap(map[string]any{
			"folder_id":          c.FolderID,
			"question":           c.Question,
			"answer":             c.Answer,
			"question_sentences": c.QuestionSentences,
			"answer_sentences":   c.AnswerSentences,
			"is_learned":         c.IsLearned,
			"last_shown_at":      utcPtr(c.LastShownAt),
			"last_learned_at":    utcPtr(c.LastLearnedAt),
			"next_review_at":     utcPtr(c.NextReviewAt),
			"review_count":       c.ReviewCount,
			"correct_count":      c.CorrectCount,
			"incorrect_count":    c.IncorrectCount,
			"current_interval":   c.CurrentInterval,
			"repetitions":        c.Repetitions,
			"ease_factor":        c.EaseFactor,
			"last_rating":        c.LastRating,
			"average_rating":     c.AverageRating,
		}).
		Where(squirrel.Eq{"id": c.ID}).
		RunWith(r.db).
		ExecContext(ctx)
	if err != nil {
		log.Error("failed to update card: %v", err)
	}
	return err
}

func (r *cardRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("deleting card: id=%s", id)

	if _, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id); err != nil {
		log.Error("failed to delete card: %v", err)
		return err
	}
	return nil
}

func (r *cardRepository) ListByFolder(ctx context.Context, folderID string) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: folder_id=%s", folderID)

	return r.list(ctx, sqlBuilder.Select(cardColumns...).
		From("cards c").
		Where(squirrel.Eq{"c.folder_id": folderID}).
		OrderBy("c.created_at ASC", "c.id ASC"))
}

func (r *cardRepository) FindUnlearnedByFolder(ctx context.Context, userID, folderID string) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("finding unlearned cards: user_id=%s, folder_id=%s", userID, folderID)

	return r.list(ctx, sqlBuilder.Select(cardColumns...).
		From("cards c").
		Join("folders f ON f.id = c.folder_id").
		Where(squirrel.Eq{"c.folder_id": folderID, "f.user_id": userID, "c.is_learned": false}).
		OrderBy("c.created_at ASC", "c.id ASC"))
}

func (r *cardRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	query, args, err := q.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

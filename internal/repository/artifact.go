package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rcollings/studyforge/internal/model"
)

// ArtifactRepository persists flash cards and quiz questions.
type ArtifactRepository struct {
	pool *pgxpool.Pool
}

// NewArtifactRepository constructs a repository.
func NewArtifactRepository(pool *pgxpool.Pool) *ArtifactRepository {
	return &ArtifactRepository{pool: pool}
}

// CreateFlashCards inserts a batch of flash cards in one transaction. A
// mid-batch failure rolls the whole batch back.
func (r *ArtifactRepository) CreateFlashCards(ctx context.Context, cards []*model.FlashCard) error {
	if len(cards) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin flash card batch: %w", err)
	}
	defer tx.Rollback(ctx)
	now := time.Now().UTC()
	for _, card := range cards {
		if card.ID == "" {
			card.ID = uuid.NewString()
		}
		card.CreatedAt = now
		card.UpdatedAt = now
		if _, err := tx.Exec(ctx, `
			INSERT INTO flash_cards (id, user_id, resource_id, front, back, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, card.ID, card.UserID, card.ResourceID, card.Front, card.Back, card.CreatedAt, card.UpdatedAt); err != nil {
			return fmt.Errorf("insert flash card: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// CreateFlashCard inserts a single, manually authored flash card.
func (r *ArtifactRepository) CreateFlashCard(ctx context.Context, card *model.FlashCard) error {
	return r.CreateFlashCards(ctx, []*model.FlashCard{card})
}

// ListFlashCards returns a resource's flash cards, newest first.
func (r *ArtifactRepository) ListFlashCards(ctx context.Context, resourceID, userID string) ([]*model.FlashCard, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, resource_id, front, back, created_at, updated_at
		FROM flash_cards WHERE resource_id=$1 AND user_id=$2
		ORDER BY created_at DESC
	`, resourceID, userID)
	if err != nil {
		return nil, fmt.Errorf("select flash cards: %w", err)
	}
	defer rows.Close()
	var out []*model.FlashCard
	for rows.Next() {
		card := &model.FlashCard{}
		if err := rows.Scan(&card.ID, &card.UserID, &card.ResourceID, &card.Front, &card.Back, &card.CreatedAt, &card.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan flash card: %w", err)
		}
		out = append(out, card)
	}
	return out, rows.Err()
}

// FlashCardsExist reports whether any flash cards exist for the resource.
func (r *ArtifactRepository) FlashCardsExist(ctx context.Context, resourceID, userID string) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM flash_cards WHERE resource_id=$1 AND user_id=$2
	`, resourceID, userID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count flash cards: %w", err)
	}
	return count > 0, nil
}

// CreateQuizQuestions inserts a batch of quiz questions in one transaction.
// Options are stored as an ordered, separator-joined list so reads reproduce
// the original sequence.
func (r *ArtifactRepository) CreateQuizQuestions(ctx context.Context, questions []*model.QuizQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin quiz batch: %w", err)
	}
	defer tx.Rollback(ctx)
	now := time.Now().UTC()
	for _, q := range questions {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		q.CreatedAt = now
		q.UpdatedAt = now
		if _, err := tx.Exec(ctx, `
			INSERT INTO quiz_questions (id, user_id, resource_id, question, options, correct_option, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`, q.ID, q.UserID, q.ResourceID, q.Question, model.JoinOptions(q.Options), q.CorrectOption, q.CreatedAt, q.UpdatedAt); err != nil {
			return fmt.Errorf("insert quiz question: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// ListQuizQuestions returns a resource's quiz questions, newest first.
func (r *ArtifactRepository) ListQuizQuestions(ctx context.Context, resourceID, userID string) ([]*model.QuizQuestion, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, resource_id, question, options, correct_option, created_at, updated_at
		FROM quiz_questions WHERE resource_id=$1 AND user_id=$2
		ORDER BY created_at DESC
	`, resourceID, userID)
	if err != nil {
		return nil, fmt.Errorf("select quiz questions: %w", err)
	}
	defer rows.Close()
	var out []*model.QuizQuestion
	for rows.Next() {
		q := &model.QuizQuestion{}
		var options string
		if err := rows.Scan(&q.ID, &q.UserID, &q.ResourceID, &q.Question, &options, &q.CorrectOption, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan quiz question: %w", err)
		}
		q.Options = model.SplitOptions(options)
		out = append(out, q)
	}
	return out, rows.Err()
}

// QuizQuestionsExist reports whether any quiz questions exist for the
// resource.
func (r *ArtifactRepository) QuizQuestionsExist(ctx context.Context, resourceID, userID string) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM quiz_questions WHERE resource_id=$1 AND user_id=$2
	`, resourceID, userID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count quiz questions: %w", err)
	}
	return count > 0, nil
}

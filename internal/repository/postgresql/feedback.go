package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pupkingeorgij/artmarket/internal/db"
	"github.com/pupkingeorgij/artmarket/internal/repository"
	"github.com/pupkingeorgij/artmarket/internal/storage"
)

type FeedbackRepo struct {
	db db.DB
}

func NewFeedbackRepo(db db.DB) storage.FeedbackRepository {
	return &FeedbackRepo{db: db}
}

func (r *FeedbackRepo) Create(ctx context.Context, feedback *repository.Feedback) error {
	return r.create(ctx, r.db, feedback)
}

func (r *FeedbackRepo) CreateTx(ctx context.Context, tx db.Tx, feedback *repository.Feedback) error {
	return r.create(ctx, tx, feedback)
}

func (r *FeedbackRepo) create(ctx context.Context, q getter, feedback *repository.Feedback) error {
	err := q.Get(ctx, feedback, `
        INSERT INTO feedback (star, text, executor_id, customer_id, order_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING *
    `, feedback.Star, feedback.Text, feedback.ExecutorID, feedback.CustomerID, feedback.OrderID)
	return mapError(err)
}

func (r *FeedbackRepo) ListByExecutor(ctx context.Context, executorID uuid.UUID) ([]*repository.Feedback, error) {
	var feedback []*repository.Feedback
	err := r.db.Select(ctx, &feedback, "SELECT * FROM feedback WHERE executor_id = $1 ORDER BY id", executorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback of executor %s: %w", executorID, err)
	}
	return feedback, nil
}

package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/pupkingeorgij/artmarket/internal/db"
	"github.com/pupkingeorgij/artmarket/internal/repository"
	"github.com/pupkingeorgij/artmarket/internal/storage"
)

// getter is satisfied by both db.DB and db.Tx.
type getter interface {
	Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

type ExecutorRepo struct {
	db db.DB
}

func NewExecutorRepo(db db.DB) storage.ExecutorRepository {
	return &ExecutorRepo{db: db}
}

// GetByID returns (nil, nil) when the id is well formed but unknown.
func (r *ExecutorRepo) GetByID(ctx context.Context, s db.Session, id string) (*repository.Executor, error) {
	executorID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", repository.ErrInvalidID, id)
	}

	var executor repository.Executor
	err = s.Get(ctx, &executor, "SELECT * FROM executors WHERE id = $1", executorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &executor, nil
}

func (r *ExecutorRepo) List(ctx context.Context, s db.Session, limit int) ([]*repository.Executor, error) {
	if limit <= 0 {
		return []*repository.Executor{}, nil
	}

	executors := make([]*repository.Executor, 0, limit)
	err := s.Select(ctx, &executors, "SELECT * FROM executors ORDER BY created_at, id LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	return executors, nil
}

// Create fills the generated id and created_at back into executor.
func (r *ExecutorRepo) Create(ctx context.Context, executor *repository.Executor) error {
	return r.create(ctx, r.db, executor)
}

func (r *ExecutorRepo) CreateTx(ctx context.Context, tx db.Tx, executor *repository.Executor) error {
	return r.create(ctx, tx, executor)
}

func (r *ExecutorRepo) create(ctx context.Context, q getter, executor *repository.Executor) error {
	err := q.Get(ctx, executor, `
        INSERT INTO executors (
            user_id, name, age, rating, description, image_url, price, experience, completed_orders, works
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, 0), $10)
        RETURNING *
    `, executor.UserID, executor.Name, executor.Age, executor.Rating, executor.Description, executor.ImageURL,
		executor.Price, executor.Experience, executor.CompletedOrders, executor.Works)
	return mapError(err)
}

func (r *ExecutorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM executors WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

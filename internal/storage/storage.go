//go:generate mockgen -source ./storage.go -destination=./mocks/storage.go -package=mock_storage
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pupkingeorgij/artmarket/internal/db"
	"github.com/pupkingeorgij/artmarket/internal/metrics"
	"github.com/pupkingeorgij/artmarket/internal/repository"
)

type SessionProvider interface {
	WithSession(ctx context.Context, fn func(ctx context.Context, s db.Session) error) error
}

type TxBeginner interface {
	BeginTx(ctx context.Context) (db.Tx, error)
}

type ExecutorRepository interface {
	GetByID(ctx context.Context, s db.Session, id string) (*repository.Executor, error)
	List(ctx context.Context, s db.Session, limit int) ([]*repository.Executor, error)
	Create(ctx context.Context, executor *repository.Executor) error
	CreateTx(ctx context.Context, tx db.Tx, executor *repository.Executor) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, user *repository.User) error
	CreateTx(ctx context.Context, tx db.Tx, user *repository.User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*repository.User, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *repository.Order) error
	CreateTx(ctx context.Context, tx db.Tx, order *repository.Order) error
	GetByID(ctx context.Context, id int64) (*repository.Order, error)
	Delete(ctx context.Context, id int64) error
}

type OfferRepository interface {
	Create(ctx context.Context, offer *repository.Offer) error
	CreateTx(ctx context.Context, tx db.Tx, offer *repository.Offer) error
	ListByOrder(ctx context.Context, orderID int64) ([]*repository.Offer, error)
}

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *repository.Feedback) error
	CreateTx(ctx context.Context, tx db.Tx, feedback *repository.Feedback) error
	ListByExecutor(ctx context.Context, executorID uuid.UUID) ([]*repository.Feedback, error)
}

// ExecutorStorage serves the read side of the marketplace. Every call runs in
// its own session.
type ExecutorStorage struct {
	sessions SessionProvider
	repo     ExecutorRepository
}

func NewExecutorStorage(sessions SessionProvider, repo ExecutorRepository) *ExecutorStorage {
	return &ExecutorStorage{
		sessions: sessions,
		repo:     repo,
	}
}

// GetExecutor returns (nil, nil) when no executor has the given id and an
// error wrapping repository.ErrInvalidID when id is not a UUID.
func (s *ExecutorStorage) GetExecutor(ctx context.Context, id string) (*ExecutorOut, error) {
	var out *ExecutorOut
	err := s.sessions.WithSession(ctx, func(ctx context.Context, sess db.Session) error {
		executor, err := s.repo.GetByID(ctx, sess, id)
		if err != nil {
			return err
		}
		out = NewExecutorOut(executor)
		return nil
	})
	switch {
	case errors.Is(err, repository.ErrInvalidID):
		metrics.ExecutorLookupsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("failed to get executor: %w", err)
	case err != nil:
		metrics.OperationErrorsTotal.WithLabelValues("get_executor").Inc()
		return nil, fmt.Errorf("failed to get executor: %w", err)
	case out == nil:
		metrics.ExecutorLookupsTotal.WithLabelValues("absent").Inc()
	default:
		metrics.ExecutorLookupsTotal.WithLabelValues("found").Inc()
	}
	return out, nil
}

func (s *ExecutorStorage) ListExecutors(ctx context.Context, limit int) (*ExecutorsListOut, error) {
	var out *ExecutorsListOut
	err := s.sessions.WithSession(ctx, func(ctx context.Context, sess db.Session) error {
		executors, err := s.repo.List(ctx, sess, limit)
		if err != nil {
			return err
		}
		out = NewExecutorsListOut(executors)
		return nil
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("list_executors").Inc()
		return nil, fmt.Errorf("failed to list executors: %w", err)
	}
	metrics.ExecutorsListedTotal.Add(float64(len(out.Executors)))
	return out, nil
}

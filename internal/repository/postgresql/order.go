package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/pupkingeorgij/artmarket/internal/db"
	"github.com/pupkingeorgij/artmarket/internal/repository"
	"github.com/pupkingeorgij/artmarket/internal/storage"
)

type OrderRepo struct {
	db db.DB
}

func NewOrderRepo(db db.DB) storage.OrderRepository {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) Create(ctx context.Context, order *repository.Order) error {
	return r.create(ctx, r.db, order)
}

func (r *OrderRepo) CreateTx(ctx context.Context, tx db.Tx, order *repository.Order) error {
	return r.create(ctx, tx, order)
}

func (r *OrderRepo) create(ctx context.Context, q getter, order *repository.Order) error {
	if order.Status == "" {
		order.Status = repository.OrderStatusPending
	}
	err := q.Get(ctx, order, `
        INSERT INTO orders (
            description, urgency, status, group_message_id, accepted_price, accepted_executor_id, customer_id
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING *
    `, order.Description, order.Urgency, order.Status, order.GroupMessageID, order.AcceptedPrice,
		order.AcceptedExecutorID, order.CustomerID)
	return mapError(err)
}

func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*repository.Order, error) {
	var order repository.Order
	err := r.db.Get(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Delete removes the order together with its offers.
func (r *OrderRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

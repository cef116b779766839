package postgresql

import (
	"context"
	"fmt"

	"github.com/pupkingeorgij/artmarket/internal/db"
	"github.com/pupkingeorgij/artmarket/internal/repository"
	"github.com/pupkingeorgij/artmarket/internal/storage"
)

type OfferRepo struct {
	db db.DB
}

func NewOfferRepo(db db.DB) storage.OfferRepository {
	return &OfferRepo{db: db}
}

func (r *OfferRepo) Create(ctx context.Context, offer *repository.Offer) error {
	return r.create(ctx, r.db, offer)
}

func (r *OfferRepo) CreateTx(ctx context.Context, tx db.Tx, offer *repository.Offer) error {
	return r.create(ctx, tx, offer)
}

func (r *OfferRepo) create(ctx context.Context, q getter, offer *repository.Offer) error {
	if offer.Status == "" {
		offer.Status = repository.OfferStatusSent
	}
	err := q.Get(ctx, offer, `
        INSERT INTO offers (price, comment, status, customer_message_id, executor_id, order_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING *
    `, offer.Price, offer.Comment, offer.Status, offer.CustomerMessageID, offer.ExecutorID, offer.OrderID)
	return mapError(err)
}

func (r *OfferRepo) ListByOrder(ctx context.Context, orderID int64) ([]*repository.Offer, error) {
	var offers []*repository.Offer
	err := r.db.Select(ctx, &offers, "SELECT * FROM offers WHERE order_id = $1 ORDER BY created_at, id", orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers of order %d: %w", orderID, err)
	}
	return offers, nil
}

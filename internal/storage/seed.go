package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pupkingeorgij/artmarket/internal/db"
	"github.com/pupkingeorgij/artmarket/internal/repository"
)

var (
	demoNames = []string{"Jane", "Mark", "Olga", "Ivan", "Sara", "Timur", "Lena", "Pavel"}
	demoWorks = []string{"portrait", "tattoo", "illustration", "calligraphy", "mural", "plumbing"}
)

type SeedResult struct {
	Users     int
	Executors int
	Orders    int
	Offers    int
	Feedback  int
}

// Seeder fills an empty store with demo marketplace data: one customer and,
// per executor, a user, a profile, an order, an offer and a feedback entry.
type Seeder struct {
	txs       TxBeginner
	users     UserRepository
	executors ExecutorRepository
	orders    OrderRepository
	offers    OfferRepository
	feedback  FeedbackRepository
	logger    *zap.Logger
}

func NewSeeder(
	txs TxBeginner,
	users UserRepository,
	executors ExecutorRepository,
	orders OrderRepository,
	offers OfferRepository,
	feedback FeedbackRepository,
	logger *zap.Logger,
) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		txs:       txs,
		users:     users,
		executors: executors,
		orders:    orders,
		offers:    offers,
		feedback:  feedback,
		logger:    logger,
	}
}

// Seed inserts count executors in a single transaction, so a failed run
// leaves nothing behind. Telegram ids and group message ids are taken from
// baseID upwards, so two successful runs with the same baseID collide on the
// unique constraints.
func (s *Seeder) Seed(ctx context.Context, count int, baseID int64) (SeedResult, error) {
	tx, err := s.txs.BeginTx(ctx)
	if err != nil {
		return SeedResult{}, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	res, err := s.seed(ctx, tx, count, baseID)
	if err != nil {
		return SeedResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return SeedResult{}, fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	return res, nil
}

func (s *Seeder) seed(ctx context.Context, tx db.Tx, count int, baseID int64) (SeedResult, error) {
	var res SeedResult

	customer := &repository.User{
		TelegramID: baseID,
		Name:       ptr("Customer"),
		Role:       repository.RoleCustomer,
	}
	if err := s.users.CreateTx(ctx, tx, customer); err != nil {
		return res, fmt.Errorf("failed to create customer: %w", err)
	}
	res.Users++

	for i := 0; i < count; i++ {
		name := demoNames[i%len(demoNames)]

		user := &repository.User{
			TelegramID: baseID + 1 + int64(i),
			Name:       ptr(name),
			Role:       repository.RoleExecutor,
		}
		if err := s.users.CreateTx(ctx, tx, user); err != nil {
			return res, fmt.Errorf("failed to create executor user %d: %w", user.TelegramID, err)
		}
		res.Users++

		executor := &repository.Executor{
			UserID:          user.ID,
			Name:            name,
			Age:             20 + i%30,
			Rating:          float64(30+i%21) / 10,
			Description:     ptr(fmt.Sprintf("%s works on %s commissions.", name, demoWorks[i%len(demoWorks)])),
			Price:           ptr(1000 + 500*(i%10)),
			Experience:      ptr(1 + i%15),
			CompletedOrders: ptr(i % 40),
			Works:           ptr(demoWorks[i%len(demoWorks)]),
		}
		if err := s.executors.CreateTx(ctx, tx, executor); err != nil {
			return res, fmt.Errorf("failed to create executor profile for %s: %w", name, err)
		}
		res.Executors++

		order := &repository.Order{
			Description:    fmt.Sprintf("Demo order #%d", i+1),
			Urgency:        "normal",
			Status:         repository.OrderStatusPending,
			GroupMessageID: baseID + int64(i),
			CustomerID:     customer.TelegramID,
		}
		if err := s.orders.CreateTx(ctx, tx, order); err != nil {
			return res, fmt.Errorf("failed to create order: %w", err)
		}
		res.Orders++

		offer := &repository.Offer{
			Price:             *executor.Price,
			Comment:           "Ready to start this week.",
			Status:            repository.OfferStatusSent,
			CustomerMessageID: baseID + int64(i),
			ExecutorID:        user.TelegramID,
			OrderID:           order.ID,
		}
		if err := s.offers.CreateTx(ctx, tx, offer); err != nil {
			return res, fmt.Errorf("failed to create offer: %w", err)
		}
		res.Offers++

		fb := &repository.Feedback{
			Star:       ptr(3 + i%3),
			Text:       ptr("Great work, thank you!"),
			ExecutorID: executor.ID,
			CustomerID: customer.TelegramID,
			OrderID:    &order.ID,
		}
		if err := s.feedback.CreateTx(ctx, tx, fb); err != nil {
			return res, fmt.Errorf("failed to create feedback: %w", err)
		}
		res.Feedback++

		s.logger.Debug("seeded executor",
			zap.String("executor_id", executor.ID.String()),
			zap.String("name", name),
		)
	}

	return res, nil
}

func ptr[T any](v T) *T {
	return &v
}

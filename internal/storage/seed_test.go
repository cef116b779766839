package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pupkingeorgij/artmarket/internal/db"
	mock_database "github.com/pupkingeorgij/artmarket/internal/db/mocks"
	"github.com/pupkingeorgij/artmarket/internal/repository"
	"github.com/pupkingeorgij/artmarket/internal/storage"
	mock_storage "github.com/pupkingeorgij/artmarket/internal/storage/mocks"
)

type seedMocks struct {
	txs       *mock_storage.MockTxBeginner
	tx        *mock_database.MockTx
	users     *mock_storage.MockUserRepository
	executors *mock_storage.MockExecutorRepository
	orders    *mock_storage.MockOrderRepository
	offers    *mock_storage.MockOfferRepository
	feedback  *mock_storage.MockFeedbackRepository
}

func newSeeder(ctrl *gomock.Controller) (*storage.Seeder, seedMocks) {
	m := seedMocks{
		txs:       mock_storage.NewMockTxBeginner(ctrl),
		tx:        mock_database.NewMockTx(ctrl),
		users:     mock_storage.NewMockUserRepository(ctrl),
		executors: mock_storage.NewMockExecutorRepository(ctrl),
		orders:    mock_storage.NewMockOrderRepository(ctrl),
		offers:    mock_storage.NewMockOfferRepository(ctrl),
		feedback:  mock_storage.NewMockFeedbackRepository(ctrl),
	}
	return storage.NewSeeder(m.txs, m.users, m.executors, m.orders, m.offers, m.feedback, nil), m
}

func TestSeeder_Seed(t *testing.T) {
	ctx := context.Background()

	t.Run("links every row to its parents", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		seeder, m := newSeeder(ctrl)

		m.txs.EXPECT().BeginTx(gomock.Any()).Return(m.tx, nil)

		var nextUserID int64
		m.users.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.Tx, u *repository.User) error {
				nextUserID++
				u.ID = nextUserID
				return nil
			}).Times(3)

		var executors []*repository.Executor
		m.executors.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.Tx, e *repository.Executor) error {
				e.ID = uuid.New()
				executors = append(executors, e)
				return nil
			}).Times(2)

		var nextOrderID int64
		m.orders.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.Tx, o *repository.Order) error {
				nextOrderID++
				o.ID = nextOrderID
				assert.Equal(t, int64(500), o.CustomerID)
				return nil
			}).Times(2)

		var offers []*repository.Offer
		m.offers.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.Tx, o *repository.Offer) error {
				offers = append(offers, o)
				return nil
			}).Times(2)

		var feedback []*repository.Feedback
		m.feedback.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.Tx, f *repository.Feedback) error {
				feedback = append(feedback, f)
				return nil
			}).Times(2)

		commit := m.tx.EXPECT().Commit(gomock.Any()).Return(nil)
		m.tx.EXPECT().Rollback(gomock.Any()).Return(nil).After(commit)

		res, err := seeder.Seed(ctx, 2, 500)
		require.NoError(t, err)
		assert.Equal(t, storage.SeedResult{Users: 3, Executors: 2, Orders: 2, Offers: 2, Feedback: 2}, res)

		require.Len(t, executors, 2)
		assert.Equal(t, int64(2), executors[0].UserID)
		assert.Equal(t, int64(3), executors[1].UserID)

		assert.Equal(t, int64(501), offers[0].ExecutorID)
		assert.Equal(t, int64(1), offers[0].OrderID)
		assert.Equal(t, int64(502), offers[1].ExecutorID)
		assert.Equal(t, int64(2), offers[1].OrderID)

		assert.Equal(t, executors[1].ID, feedback[1].ExecutorID)
		assert.Equal(t, int64(500), feedback[1].CustomerID)
		require.NotNil(t, feedback[1].OrderID)
		assert.Equal(t, int64(2), *feedback[1].OrderID)
	})

	t.Run("stops at the first failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		seeder, m := newSeeder(ctrl)

		m.txs.EXPECT().BeginTx(gomock.Any()).Return(m.tx, nil)
		m.users.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(repository.ErrDuplicate)
		m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)

		res, err := seeder.Seed(ctx, 5, 500)
		assert.True(t, errors.Is(err, repository.ErrDuplicate))
		assert.Equal(t, storage.SeedResult{}, res)
	})

	t.Run("failure partway rolls back rows already written", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		seeder, m := newSeeder(ctrl)

		m.txs.EXPECT().BeginTx(gomock.Any()).Return(m.tx, nil)
		m.users.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil).Times(2)
		m.executors.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.orders.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(repository.ErrDuplicate)
		m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)

		res, err := seeder.Seed(ctx, 3, 500)
		assert.ErrorIs(t, err, repository.ErrDuplicate)
		assert.Equal(t, storage.SeedResult{}, res)
	})

	t.Run("begin error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		seeder, m := newSeeder(ctrl)

		expectedErr := errors.New("pool exhausted")
		m.txs.EXPECT().BeginTx(gomock.Any()).Return(nil, expectedErr)

		_, err := seeder.Seed(ctx, 1, 500)
		assert.ErrorIs(t, err, expectedErr)
	})

	t.Run("commit error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		seeder, m := newSeeder(ctrl)

		m.txs.EXPECT().BeginTx(gomock.Any()).Return(m.tx, nil)
		m.users.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil).Times(2)
		m.executors.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.orders.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.offers.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.feedback.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)

		expectedErr := errors.New("connection reset")
		m.tx.EXPECT().Commit(gomock.Any()).Return(expectedErr)
		m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)

		res, err := seeder.Seed(ctx, 1, 500)
		assert.ErrorIs(t, err, expectedErr)
		assert.Equal(t, storage.SeedResult{}, res)
	})
}

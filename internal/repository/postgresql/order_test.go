package postgresql_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_database "github.com/pupkingeorgij/artmarket/internal/db/mocks"
	"github.com/pupkingeorgij/artmarket/internal/repository"
	"github.com/pupkingeorgij/artmarket/internal/repository/postgresql"
)

func TestOrderRepo_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOrderRepo(mockDB)

		order := &repository.Order{
			Description:    "Paint a fence",
			Urgency:        "high",
			GroupMessageID: 42,
			CustomerID:     100,
		}
		stored := *order
		stored.ID = 9
		stored.Status = repository.OrderStatusPending

		mockDB.EXPECT().Get(
			gomock.Any(),
			gomock.Any(),
			gomock.Any(),
			gomock.Eq(order.Description),
			gomock.Eq(order.Urgency),
			gomock.Eq(repository.OrderStatusPending),
			gomock.Eq(order.GroupMessageID),
			gomock.Eq(order.AcceptedPrice),
			gomock.Eq(order.AcceptedExecutorID),
			gomock.Eq(order.CustomerID),
		).SetArg(1, stored).Return(nil)

		require.NoError(t, repo.Create(ctx, order))
		assert.Equal(t, int64(9), order.ID)
	})

	t.Run("duplicate group message id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOrderRepo(mockDB)

		mockDB.EXPECT().Get(
			gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
		).Return(&pgconn.PgError{Code: "23505"})

		err := repo.Create(ctx, &repository.Order{GroupMessageID: 42})
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})
}

func TestOrderRepo_CreateTx(t *testing.T) {
	ctx := context.Background()

	t.Run("runs inside the transaction", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewOrderRepo(mockDB)

		order := &repository.Order{Description: "Paint a fence", Urgency: "low", GroupMessageID: 43, CustomerID: 100}
		stored := *order
		stored.ID = 10
		stored.Status = repository.OrderStatusPending

		mockTx.EXPECT().Get(
			gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Eq(repository.OrderStatusPending),
			gomock.Eq(int64(43)), gomock.Any(), gomock.Any(), gomock.Eq(int64(100)),
		).SetArg(1, stored).Return(nil)

		require.NoError(t, repo.CreateTx(ctx, mockTx, order))
		assert.Equal(t, int64(10), order.ID)
	})

	t.Run("unknown customer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewOrderRepo(mockDB)

		mockTx.EXPECT().Get(
			gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
		).Return(&pgconn.PgError{Code: "23503"})

		err := repo.CreateTx(ctx, mockTx, &repository.Order{GroupMessageID: 44, CustomerID: 999})
		assert.ErrorIs(t, err, repository.ErrForeignKey)
	})
}

func TestOrderRepo_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOrderRepo(mockDB)

		expected := repository.Order{ID: 9, Description: "Paint a fence", CustomerID: 100}
		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(int64(9))).
			SetArg(1, expected).
			Return(nil)

		order, err := repo.GetByID(ctx, 9)
		require.NoError(t, err)
		assert.Equal(t, &expected, order)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOrderRepo(mockDB)

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(pgx.ErrNoRows)

		order, err := repo.GetByID(ctx, 9)
		assert.Equal(t, repository.ErrObjectNotFound, err)
		assert.Nil(t, order)
	})
}

func TestOrderRepo_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOrderRepo(mockDB)

		mockDB.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq(int64(9))).Return(pgconn.CommandTag("DELETE 1"), nil)

		assert.NoError(t, repo.Delete(ctx, 9))
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOrderRepo(mockDB)

		mockDB.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any()).Return(pgconn.CommandTag("DELETE 0"), nil)

		assert.Equal(t, repository.ErrObjectNotFound, repo.Delete(ctx, 9))
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOrderRepo(mockDB)

		expectedErr := errors.New("database error")
		mockDB.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, expectedErr)

		assert.Equal(t, expectedErr, repo.Delete(ctx, 9))
	})
}

package postgresql_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_database "github.com/pupkingeorgij/artmarket/internal/db/mocks"
	"github.com/pupkingeorgij/artmarket/internal/repository"
	"github.com/pupkingeorgij/artmarket/internal/repository/postgresql"
)

func TestOfferRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("create defaults status to sent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOfferRepo(mockDB)

		offer := &repository.Offer{Price: 1500, Comment: "ok", CustomerMessageID: 1, ExecutorID: 101, OrderID: 9}
		mockDB.EXPECT().Get(
			gomock.Any(),
			gomock.Any(),
			gomock.Any(),
			gomock.Eq(1500),
			gomock.Eq("ok"),
			gomock.Eq(repository.OfferStatusSent),
			gomock.Eq(int64(1)),
			gomock.Eq(int64(101)),
			gomock.Eq(int64(9)),
		).Return(nil)

		require.NoError(t, repo.Create(ctx, offer))
		assert.Equal(t, repository.OfferStatusSent, offer.Status)
	})

	t.Run("create for unknown order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOfferRepo(mockDB)

		mockDB.EXPECT().Get(
			gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
		).Return(&pgconn.PgError{Code: "23503"})

		err := repo.Create(ctx, &repository.Offer{OrderID: 404})
		assert.ErrorIs(t, err, repository.ErrForeignKey)
	})

	t.Run("list by order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOfferRepo(mockDB)

		rows := []*repository.Offer{{ID: 1, OrderID: 9}, {ID: 2, OrderID: 9}}
		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(int64(9))).
			SetArg(1, rows).
			Return(nil)

		offers, err := repo.ListByOrder(ctx, 9)
		require.NoError(t, err)
		assert.Equal(t, rows, offers)
	})

	t.Run("list error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOfferRepo(mockDB)

		expectedErr := errors.New("database error")
		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(expectedErr)

		offers, err := repo.ListByOrder(ctx, 9)
		assert.ErrorIs(t, err, expectedErr)
		assert.Nil(t, offers)
	})
}

func TestFeedbackRepo(t *testing.T) {
	ctx := context.Background()
	executorID := uuid.New()

	t.Run("create", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewFeedbackRepo(mockDB)

		fb := &repository.Feedback{Star: ptr(5), Text: ptr("great"), ExecutorID: executorID, CustomerID: 100}
		stored := *fb
		stored.ID = 4

		mockDB.EXPECT().Get(
			gomock.Any(),
			gomock.Any(),
			gomock.Any(),
			gomock.Eq(fb.Star),
			gomock.Eq(fb.Text),
			gomock.Eq(executorID),
			gomock.Eq(int64(100)),
			gomock.Eq(fb.OrderID),
		).SetArg(1, stored).Return(nil)

		require.NoError(t, repo.Create(ctx, fb))
		assert.Equal(t, int64(4), fb.ID)
	})

	t.Run("list by executor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewFeedbackRepo(mockDB)

		rows := []*repository.Feedback{{ID: 4, ExecutorID: executorID}}
		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(executorID)).
			SetArg(1, rows).
			Return(nil)

		feedback, err := repo.ListByExecutor(ctx, executorID)
		require.NoError(t, err)
		assert.Equal(t, rows, feedback)
	})
}

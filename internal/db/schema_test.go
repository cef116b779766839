package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pupkingeorgij/artmarket/internal/db"
	mock_database "github.com/pupkingeorgij/artmarket/internal/db/mocks"
)

func TestMigrate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates every table in one transaction", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)

		var statements []string
		gomock.InOrder(
			mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil),
			mockTx.EXPECT().Exec(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, query string, _ ...any) (pgconn.CommandTag, error) {
					statements = append(statements, query)
					return nil, nil
				}).Times(5),
			mockTx.EXPECT().Commit(gomock.Any()).Return(nil),
		)

		require.NoError(t, db.Migrate(ctx, mockDB))
		require.Len(t, statements, 5)
		for i, table := range []string{"users", "orders", "offers", "executors", "feedback"} {
			assert.Contains(t, statements[i], "CREATE TABLE IF NOT EXISTS "+table)
		}
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		dbErr := errors.New("permission denied")

		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any()).Return(nil, dbErr)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		err := db.Migrate(ctx, mockDB)
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("begin error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		dbErr := errors.New("connection refused")
		mockDB.EXPECT().BeginTx(gomock.Any()).Return(nil, dbErr)

		assert.ErrorIs(t, db.Migrate(ctx, mockDB), dbErr)
	})
}

func TestDatabase_Lifecycle(t *testing.T) {
	ctx := context.Background()
	database := db.NewDatabase(nil)

	err := database.WithSession(ctx, func(context.Context, db.Session) error {
		t.Fatal("session must not be handed out before initialization")
		return nil
	})
	assert.ErrorIs(t, err, db.ErrNotReady)

	database.Close()
	database.Close()

	err = database.WithSession(ctx, func(context.Context, db.Session) error {
		t.Fatal("session must not be handed out after close")
		return nil
	})
	assert.ErrorIs(t, err, db.ErrClosed)
	assert.ErrorIs(t, database.Initialize(ctx), db.ErrClosed)
	assert.ErrorIs(t, database.Ping(ctx), db.ErrClosed)
}

package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/pupkingeorgij/artmarket/internal/db"
	"github.com/pupkingeorgij/artmarket/internal/repository"
	"github.com/pupkingeorgij/artmarket/internal/storage"
)

type UserRepo struct {
	db db.DB
}

func NewUserRepo(db db.DB) storage.UserRepository {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *repository.User) error {
	return r.create(ctx, r.db, user)
}

func (r *UserRepo) CreateTx(ctx context.Context, tx db.Tx, user *repository.User) error {
	return r.create(ctx, tx, user)
}

func (r *UserRepo) create(ctx context.Context, q getter, user *repository.User) error {
	if user.Role == "" {
		user.Role = repository.RoleCustomer
	}
	err := q.Get(ctx, user, `
        INSERT INTO users (telegram_id, name, role, birth_day)
        VALUES ($1, $2, $3, $4)
        RETURNING *
    `, user.TelegramID, user.Name, user.Role, user.BirthDay)
	return mapError(err)
}

func (r *UserRepo) GetByTelegramID(ctx context.Context, telegramID int64) (*repository.User, error) {
	var user repository.User
	err := r.db.Get(ctx, &user, "SELECT * FROM users WHERE telegram_id = $1", telegramID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &user, nil
}

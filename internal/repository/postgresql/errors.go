package postgresql

import (
	"errors"

	"github.com/jackc/pgconn"

	"github.com/pupkingeorgij/artmarket/internal/repository"
)

const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

// mapError translates constraint violations into repository errors and keeps
// the driver error in the chain.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case uniqueViolation:
		return errors.Join(repository.ErrDuplicate, err)
	case foreignKeyViolation:
		return errors.Join(repository.ErrForeignKey, err)
	}
	return err
}

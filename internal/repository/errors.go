package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrConflict        = errors.New("username or email already in use")
	ErrResetTokenTaken = errors.New("reset token already pending for another user")
)

const resetTokenIndex = "users_password_reset_token_key"

// translateError maps postgres constraint violations onto repository sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	if pgErr.Code != pgerrcode.UniqueViolation {
		return err
	}
	if pgErr.ConstraintName == resetTokenIndex {
		return ErrResetTokenTaken
	}
	return ErrConflict
}

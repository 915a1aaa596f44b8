package db

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	apperrors "github.com/vytor/flashy/internal/errors"
)

const pgUniqueViolation = "23505"

// NewPersistenceError is a shorthand used by the gateway and repositories.
func NewPersistenceError(op string, err error) error {
	return apperrors.NewPersistenceError(op, err)
}

// MapError converts a driver failure into a typed application error. Errors
// that are already typed pass through unchanged.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFoundError("record", op)
	}
	if IsUniqueViolation(err) {
		return apperrors.NewConflictError(op, err)
	}
	return apperrors.NewPersistenceError(op, err)
}

// MapLookupError is MapError for single-row reads: no row means the entity is missing.
func MapLookupError(resource string, id any, op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFoundError(resource, id)
	}
	return MapError(op, err)
}

// IsUniqueViolation reports unique and primary key violations for both drivers.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// CheckRowsAffected turns a mutation that touched nothing into a NotFound error.
func CheckRowsAffected(res sql.Result, resource string, id any, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewPersistenceError(op, err)
	}
	if n == 0 {
		return apperrors.NewNotFoundError(resource, id)
	}
	return nil
}

package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Error taxonomy surfaced to callers. Handlers map these to HTTP statuses;
// everything else is treated as an internal error.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidInput       = errors.New("invalid input")
)

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

// classify folds low-level persistence errors into the taxonomy so raw store
// errors never reach a client. Rows that exist but fall outside the caller's
// scope surface as ErrNotFound by construction: scoped queries simply do not
// match them.
func classify(err error, context string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", context, ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", context, ErrConflict)
	}
	return fmt.Errorf("%s: %w", context, err)
}

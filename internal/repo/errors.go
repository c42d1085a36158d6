package repo

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is wrapped by every entity-specific not-found error.
var ErrNotFound = errors.New("not found")

var (
	ErrProductNotFound  = fmt.Errorf("product %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrSupplierNotFound = fmt.Errorf("supplier %w", ErrNotFound)
	ErrMovementNotFound = fmt.Errorf("movement %w", ErrNotFound)
	ErrAlertNotFound    = fmt.Errorf("alert %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrSessionNotFound  = fmt.Errorf("session %w", ErrNotFound)
	ErrSettingNotFound  = fmt.Errorf("setting %w", ErrNotFound)
)

var ErrDuplicatedValueUnique = errors.New("duplicated value for unique field")

const pgUniqueViolation = "23505"

// uniqueErr maps a Postgres unique violation to ErrDuplicatedValueUnique.
func uniqueErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicatedValueUnique, pgErr.ConstraintName)
	}
	return err
}

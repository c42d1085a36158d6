package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// PostgresStore backs every repository with Postgres through sqlx.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Repos() Repositories {
	return postgresRepos(s.db)
}

func postgresRepos(db sqlx.ExtContext) Repositories {
	return Repositories{
		Products:   NewPostgresProductRepository(db),
		Categories: NewPostgresCategoryRepository(db),
		Suppliers:  NewPostgresSupplierRepository(db),
		Movements:  NewPostgresMovementRepository(db),
		Alerts:     NewPostgresAlertRepository(db),
		Users:      NewPostgresUserRepository(db),
		Sessions:   NewPostgresSessionRepository(db),
		Settings:   NewPostgresSettingRepository(db),
	}
}

func (s *PostgresStore) WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, postgresRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// namedGet runs a named query and scans the single row into dest.
func namedGet(ctx context.Context, db sqlx.ExtContext, dest any, query string, arg any) error {
	q, args, err := sqlx.Named(query, arg)
	if err != nil {
		return err
	}
	return sqlx.GetContext(ctx, db, dest, db.Rebind(q), args...)
}

// whereClause joins conditions into a WHERE clause, or returns "" when there are none.
func whereClause(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conditions, " AND ")
}

func limitOffset(query string, args []any, offset, limit *int) (string, []any) {
	if limit != nil && *limit > 0 {
		args = append(args, *limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset != nil && *offset > 0 {
		args = append(args, *offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return query, args
}

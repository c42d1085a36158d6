package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/stocktrack/internal/models"
)

const movementColumns = `id, product_id, user_id, kind, quantity, stock_before, stock_after, unit_cost,
	reason, reference, cancels_id, created_at`

type PostgresMovementRepository struct {
	db sqlx.ExtContext
}

func NewPostgresMovementRepository(db sqlx.ExtContext) *PostgresMovementRepository {
	return &PostgresMovementRepository{db: db}
}

func (r *PostgresMovementRepository) Create(ctx context.Context, m models.Movement) (models.Movement, error) {
	query := `INSERT INTO movements (product_id, user_id, kind, quantity, stock_before, stock_after, unit_cost,
		reason, reference, cancels_id, created_at)
		VALUES (:product_id, :user_id, :kind, :quantity, :stock_before, :stock_after, :unit_cost,
		:reason, :reference, :cancels_id, :created_at)
		RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if err := namedGet(ctx, r.db, &m.ID, query, m); err != nil {
		return models.Movement{}, uniqueErr(err)
	}
	return m, nil
}

func (r *PostgresMovementRepository) GetByID(ctx context.Context, id int) (models.Movement, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var m models.Movement
	err := sqlx.GetContext(ctx, r.db, &m, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Movement{}, ErrMovementNotFound
	}
	return m, err
}

func (r *PostgresMovementRepository) Filter(ctx context.Context, mf MovementFilter) ([]models.Movement, int, error) {
	conditions := []string{}
	args := []any{}

	if mf.ProductID != nil {
		args = append(args, *mf.ProductID)
		conditions = append(conditions, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if mf.Kind != nil {
		args = append(args, *mf.Kind)
		conditions = append(conditions, fmt.Sprintf("kind = $%d", len(args)))
	}
	if mf.Since != nil {
		args = append(args, *mf.Since)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if mf.Until != nil {
		args = append(args, *mf.Until)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	where := whereClause(conditions)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var total int
	if err := sqlx.GetContext(ctx, r.db, &total, "SELECT COUNT(*) FROM movements"+where, args...); err != nil {
		return nil, 0, err
	}

	query, args := limitOffset("SELECT "+movementColumns+" FROM movements"+where+" ORDER BY created_at DESC, id DESC", args, mf.Offset, mf.Limit)
	movements := []models.Movement{}
	if err := sqlx.SelectContext(ctx, r.db, &movements, query, args...); err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

func (r *PostgresMovementRepository) CountByProduct(ctx context.Context, productID int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int
	err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM movements WHERE product_id = $1`, productID)
	return n, err
}

func (r *PostgresMovementRepository) GetCancellation(ctx context.Context, movementID int) (models.Movement, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var m models.Movement
	err := sqlx.GetContext(ctx, r.db, &m, `SELECT `+movementColumns+` FROM movements WHERE cancels_id = $1`, movementID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Movement{}, ErrMovementNotFound
	}
	return m, err
}

package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/stocktrack/internal/models"
)

const alertColumns = `id, product_id, kind, priority, message, resolved, resolved_at, responsible_id, created_at`

const alertPriorityOrder = `CASE priority WHEN 'critical' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END`

type PostgresAlertRepository struct {
	db sqlx.ExtContext
}

func NewPostgresAlertRepository(db sqlx.ExtContext) *PostgresAlertRepository {
	return &PostgresAlertRepository{db: db}
}

// Create relies on the partial unique index over unresolved (product_id, kind).
func (r *PostgresAlertRepository) Create(ctx context.Context, a models.Alert) (models.Alert, error) {
	query := `INSERT INTO alerts (product_id, kind, priority, message, resolved, resolved_at, responsible_id, created_at)
		VALUES (:product_id, :kind, :priority, :message, :resolved, :resolved_at, :responsible_id, :created_at)
		RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if err := namedGet(ctx, r.db, &a.ID, query, a); err != nil {
		return models.Alert{}, uniqueErr(err)
	}
	return a, nil
}

func (r *PostgresAlertRepository) GetByID(ctx context.Context, id int) (models.Alert, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var a models.Alert
	err := sqlx.GetContext(ctx, r.db, &a, `SELECT `+alertColumns+` FROM alerts WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Alert{}, ErrAlertNotFound
	}
	return a, err
}

func (r *PostgresAlertRepository) Update(ctx context.Context, a models.Alert) (models.Alert, error) {
	query := `UPDATE alerts SET priority = :priority, message = :message, resolved = :resolved,
		resolved_at = :resolved_at, responsible_id = :responsible_id
		WHERE id = :id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := sqlx.NamedExecContext(ctx, r.db, query, a)
	if err != nil {
		return models.Alert{}, uniqueErr(err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Alert{}, ErrAlertNotFound
	}
	return a, nil
}

func (r *PostgresAlertRepository) FindOpen(ctx context.Context, productID int, kind models.AlertKind) (models.Alert, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var a models.Alert
	err := sqlx.GetContext(ctx, r.db, &a,
		`SELECT `+alertColumns+` FROM alerts WHERE product_id = $1 AND kind = $2 AND NOT resolved`, productID, kind)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Alert{}, ErrAlertNotFound
	}
	return a, err
}

func (r *PostgresAlertRepository) Filter(ctx context.Context, af AlertFilter) ([]models.Alert, int, error) {
	conditions := []string{}
	args := []any{}

	if af.ProductID != nil {
		args = append(args, *af.ProductID)
		conditions = append(conditions, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if af.Kind != nil {
		args = append(args, *af.Kind)
		conditions = append(conditions, fmt.Sprintf("kind = $%d", len(args)))
	}
	if af.Priority != nil {
		args = append(args, *af.Priority)
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)))
	}
	if af.Resolved != nil {
		args = append(args, *af.Resolved)
		conditions = append(conditions, fmt.Sprintf("resolved = $%d", len(args)))
	}
	where := whereClause(conditions)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var total int
	if err := sqlx.GetContext(ctx, r.db, &total, "SELECT COUNT(*) FROM alerts"+where, args...); err != nil {
		return nil, 0, err
	}

	query, args := limitOffset("SELECT "+alertColumns+" FROM alerts"+where+
		" ORDER BY "+alertPriorityOrder+" DESC, created_at DESC, id DESC", args, af.Offset, af.Limit)
	alerts := []models.Alert{}
	if err := sqlx.SelectContext(ctx, r.db, &alerts, query, args...); err != nil {
		return nil, 0, err
	}
	return alerts, total, nil
}

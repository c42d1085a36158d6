package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/stocktrack/internal/models"
)

const productColumns = `id, code, name, description, category_id, supplier_id, purchase_price, sale_price,
	stock_minimum, stock_current, location, unit, weight, dimensions, qr_payload, qr_data_url,
	active, created_at, updated_at`

type PostgresProductRepository struct {
	db sqlx.ExtContext
}

func NewPostgresProductRepository(db sqlx.ExtContext) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func (r *PostgresProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	query := `INSERT INTO products (code, name, description, category_id, supplier_id, purchase_price, sale_price,
		stock_minimum, stock_current, location, unit, weight, dimensions, qr_payload, qr_data_url, active, created_at, updated_at)
		VALUES (:code, :name, :description, :category_id, :supplier_id, :purchase_price, :sale_price,
		:stock_minimum, :stock_current, :location, :unit, :weight, :dimensions, :qr_payload, :qr_data_url, :active, :created_at, :updated_at)
		RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if err := namedGet(ctx, r.db, &p.ID, query, p); err != nil {
		return models.Product{}, uniqueErr(err)
	}
	return p, nil
}

func (r *PostgresProductRepository) get(ctx context.Context, query string, arg any) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p models.Product
	err := sqlx.GetContext(ctx, r.db, &p, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

func (r *PostgresProductRepository) GetByIDForUpdate(ctx context.Context, id int) (models.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresProductRepository) GetByCode(ctx context.Context, code string) (models.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE upper(code) = upper($1)`, code)
}

func (r *PostgresProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	query := `UPDATE products SET code = :code, name = :name, description = :description, category_id = :category_id,
		supplier_id = :supplier_id, purchase_price = :purchase_price, sale_price = :sale_price,
		stock_minimum = :stock_minimum, stock_current = :stock_current, location = :location, unit = :unit,
		weight = :weight, dimensions = :dimensions, qr_payload = :qr_payload, qr_data_url = :qr_data_url,
		active = :active, updated_at = :updated_at
		WHERE id = :id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := sqlx.NamedExecContext(ctx, r.db, query, p)
	if err != nil {
		return models.Product{}, uniqueErr(err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (r *PostgresProductRepository) Delete(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func productConditions(pf ProductFilter) ([]string, []any) {
	conditions := []string{}
	args := []any{}

	if pf.Search != "" {
		args = append(args, "%"+pf.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(code ILIKE $%d OR name ILIKE $%d OR description ILIKE $%d)", n, n, n))
	}
	if pf.CategoryID != nil {
		args = append(args, *pf.CategoryID)
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if pf.SupplierID != nil {
		args = append(args, *pf.SupplierID)
		conditions = append(conditions, fmt.Sprintf("supplier_id = $%d", len(args)))
	}
	if pf.LowStockOnly {
		conditions = append(conditions, "stock_current <= stock_minimum")
	}
	if pf.Active != nil {
		args = append(args, *pf.Active)
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)))
	}
	return conditions, args
}

func (r *PostgresProductRepository) Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error) {
	conditions, args := productConditions(pf)
	where := whereClause(conditions)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var total int
	if err := sqlx.GetContext(ctx, r.db, &total, "SELECT COUNT(*) FROM products"+where, args...); err != nil {
		return nil, 0, err
	}

	query, args := limitOffset("SELECT "+productColumns+" FROM products"+where+" ORDER BY name, id", args, pf.Offset, pf.Limit)
	products := []models.Product{}
	if err := sqlx.SelectContext(ctx, r.db, &products, query, args...); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *PostgresProductRepository) CountByCategory(ctx context.Context, categoryID int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int
	err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID)
	return n, err
}

func (r *PostgresProductRepository) CountBySupplier(ctx context.Context, supplierID int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int
	err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM products WHERE supplier_id = $1`, supplierID)
	return n, err
}

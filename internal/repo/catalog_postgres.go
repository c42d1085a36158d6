package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/stocktrack/internal/models"
)

const categoryColumns = `id, name, description, color, active, created_at`

type PostgresCategoryRepository struct {
	db sqlx.ExtContext
}

func NewPostgresCategoryRepository(db sqlx.ExtContext) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

func (r *PostgresCategoryRepository) Create(ctx context.Context, c models.Category) (models.Category, error) {
	query := `INSERT INTO categories (name, description, color, active, created_at)
		VALUES (:name, :description, :color, :active, :created_at) RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if err := namedGet(ctx, r.db, &c.ID, query, c); err != nil {
		return models.Category{}, uniqueErr(err)
	}
	return c, nil
}

func (r *PostgresCategoryRepository) get(ctx context.Context, query string, arg any) (models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c models.Category
	err := sqlx.GetContext(ctx, r.db, &c, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Category{}, ErrCategoryNotFound
	}
	return c, err
}

func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id int) (models.Category, error) {
	return r.get(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
}

func (r *PostgresCategoryRepository) GetByName(ctx context.Context, name string) (models.Category, error) {
	return r.get(ctx, `SELECT `+categoryColumns+` FROM categories WHERE lower(name) = lower($1)`, name)
}

func (r *PostgresCategoryRepository) Update(ctx context.Context, c models.Category) (models.Category, error) {
	query := `UPDATE categories SET name = :name, description = :description, color = :color, active = :active WHERE id = :id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := sqlx.NamedExecContext(ctx, r.db, query, c)
	if err != nil {
		return models.Category{}, uniqueErr(err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Category{}, ErrCategoryNotFound
	}
	return c, nil
}

func (r *PostgresCategoryRepository) Delete(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *PostgresCategoryRepository) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT ` + categoryColumns + ` FROM categories`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name`

	categories := []models.Category{}
	err := sqlx.SelectContext(ctx, r.db, &categories, query)
	return categories, err
}

const supplierColumns = `id, name, contact, phone, email, address, active, created_at`

type PostgresSupplierRepository struct {
	db sqlx.ExtContext
}

func NewPostgresSupplierRepository(db sqlx.ExtContext) *PostgresSupplierRepository {
	return &PostgresSupplierRepository{db: db}
}

func (r *PostgresSupplierRepository) Create(ctx context.Context, s models.Supplier) (models.Supplier, error) {
	query := `INSERT INTO suppliers (name, contact, phone, email, address, active, created_at)
		VALUES (:name, :contact, :phone, :email, :address, :active, :created_at) RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if err := namedGet(ctx, r.db, &s.ID, query, s); err != nil {
		return models.Supplier{}, uniqueErr(err)
	}
	return s, nil
}

func (r *PostgresSupplierRepository) get(ctx context.Context, query string, arg any) (models.Supplier, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var s models.Supplier
	err := sqlx.GetContext(ctx, r.db, &s, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Supplier{}, ErrSupplierNotFound
	}
	return s, err
}

func (r *PostgresSupplierRepository) GetByID(ctx context.Context, id int) (models.Supplier, error) {
	return r.get(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
}

func (r *PostgresSupplierRepository) GetByName(ctx context.Context, name string) (models.Supplier, error) {
	return r.get(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE lower(name) = lower($1)`, name)
}

func (r *PostgresSupplierRepository) Update(ctx context.Context, s models.Supplier) (models.Supplier, error) {
	query := `UPDATE suppliers SET name = :name, contact = :contact, phone = :phone, email = :email,
		address = :address, active = :active WHERE id = :id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := sqlx.NamedExecContext(ctx, r.db, query, s)
	if err != nil {
		return models.Supplier{}, uniqueErr(err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Supplier{}, ErrSupplierNotFound
	}
	return s, nil
}

func (r *PostgresSupplierRepository) Delete(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrSupplierNotFound
	}
	return nil
}

func (r *PostgresSupplierRepository) List(ctx context.Context, activeOnly bool) ([]models.Supplier, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT ` + supplierColumns + ` FROM suppliers`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name`

	suppliers := []models.Supplier{}
	err := sqlx.SelectContext(ctx, r.db, &suppliers, query)
	return suppliers, err
}

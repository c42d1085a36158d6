package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/stocktrack/internal/models"
)

const settingColumns = `key, value, description, type, updated_at, updated_by`

type PostgresSettingRepository struct {
	db sqlx.ExtContext
}

func NewPostgresSettingRepository(db sqlx.ExtContext) *PostgresSettingRepository {
	return &PostgresSettingRepository{db: db}
}

func (r *PostgresSettingRepository) Get(ctx context.Context, key string) (models.Setting, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var s models.Setting
	err := sqlx.GetContext(ctx, r.db, &s, `SELECT `+settingColumns+` FROM settings WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Setting{}, ErrSettingNotFound
	}
	return s, err
}

func (r *PostgresSettingRepository) List(ctx context.Context, prefix string) ([]models.Setting, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	settings := []models.Setting{}
	err := sqlx.SelectContext(ctx, r.db, &settings,
		`SELECT `+settingColumns+` FROM settings WHERE key LIKE $1 ORDER BY key`, prefix+"%")
	return settings, err
}

func (r *PostgresSettingRepository) Upsert(ctx context.Context, s models.Setting) (models.Setting, error) {
	query := `INSERT INTO settings (key, value, description, type, updated_at, updated_by)
		VALUES (:key, :value, :description, :type, :updated_at, :updated_by)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			description = EXCLUDED.description,
			type = EXCLUDED.type,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := sqlx.NamedExecContext(ctx, r.db, query, s)
	return s, err
}

func (r *PostgresSettingRepository) CreateIfMissing(ctx context.Context, s models.Setting) (bool, error) {
	query := `INSERT INTO settings (key, value, description, type, updated_at, updated_by)
		VALUES (:key, :value, :description, :type, :updated_at, :updated_by)
		ON CONFLICT (key) DO NOTHING`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := sqlx.NamedExecContext(ctx, r.db, query, s)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *PostgresSettingRepository) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = $1`, key)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrSettingNotFound
	}
	return nil
}

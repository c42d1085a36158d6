package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/stocktrack/internal/models"
)

const userColumns = `id, email, password_hash, name, role, active, failed_attempts, locked_until,
	reset_token, reset_token_expires_at, last_access_at, created_at`

type PostgresUserRepository struct {
	db sqlx.ExtContext
}

func NewPostgresUserRepository(db sqlx.ExtContext) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u models.User) (models.User, error) {
	query := `INSERT INTO users (email, password_hash, name, role, active, failed_attempts, locked_until,
		reset_token, reset_token_expires_at, last_access_at, created_at)
		VALUES (:email, :password_hash, :name, :role, :active, :failed_attempts, :locked_until,
		:reset_token, :reset_token_expires_at, :last_access_at, :created_at)
		RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if err := namedGet(ctx, r.db, &u.ID, query, u); err != nil {
		return models.User{}, uniqueErr(err)
	}
	return u, nil
}

func (r *PostgresUserRepository) get(ctx context.Context, query string, arg any) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u models.User
	err := sqlx.GetContext(ctx, r.db, &u, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return u, err
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int) (models.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *PostgresUserRepository) GetByResetToken(ctx context.Context, token string) (models.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE reset_token = $1`, token)
}

func (r *PostgresUserRepository) Update(ctx context.Context, u models.User) (models.User, error) {
	query := `UPDATE users SET email = :email, password_hash = :password_hash, name = :name, role = :role,
		active = :active, failed_attempts = :failed_attempts, locked_until = :locked_until,
		reset_token = :reset_token, reset_token_expires_at = :reset_token_expires_at,
		last_access_at = :last_access_at
		WHERE id = :id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := sqlx.NamedExecContext(ctx, r.db, query, u)
	if err != nil {
		return models.User{}, uniqueErr(err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.User{}, ErrUserNotFound
	}
	return u, nil
}

func (r *PostgresUserRepository) List(ctx context.Context, f UserFilter) ([]models.User, error) {
	conditions := []string{}
	args := []any{}
	if f.Role != nil {
		args = append(args, *f.Role)
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)))
	}
	if f.Active != nil {
		args = append(args, *f.Active)
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)))
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	users := []models.User{}
	err := sqlx.SelectContext(ctx, r.db, &users, "SELECT "+userColumns+" FROM users"+whereClause(conditions)+" ORDER BY name", args...)
	return users, err
}

const sessionColumns = `id, user_id, issued_at, expires_at, client_ip, user_agent, active`

type PostgresSessionRepository struct {
	db sqlx.ExtContext
}

func NewPostgresSessionRepository(db sqlx.ExtContext) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

func (r *PostgresSessionRepository) Create(ctx context.Context, s models.Session) error {
	query := `INSERT INTO sessions (id, user_id, issued_at, expires_at, client_ip, user_agent, active)
		VALUES (:id, :user_id, :issued_at, :expires_at, :client_ip, :user_agent, :active)`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := sqlx.NamedExecContext(ctx, r.db, query, s)
	return uniqueErr(err)
}

func (r *PostgresSessionRepository) GetByID(ctx context.Context, id string) (models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var s models.Session
	err := sqlx.GetContext(ctx, r.db, &s, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, ErrSessionNotFound
	}
	return s, err
}

func (r *PostgresSessionRepository) Update(ctx context.Context, s models.Session) error {
	query := `UPDATE sessions SET expires_at = :expires_at, active = :active WHERE id = :id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := sqlx.NamedExecContext(ctx, r.db, query, s)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *PostgresSessionRepository) ListActiveByUser(ctx context.Context, userID int) ([]models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	sessions := []models.Session{}
	err := sqlx.SelectContext(ctx, r.db, &sessions,
		`SELECT `+sessionColumns+` FROM sessions WHERE user_id = $1 AND active`, userID)
	return sessions, err
}

func (r *PostgresSessionRepository) CountActive(ctx context.Context, now time.Time) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int
	err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM sessions WHERE active AND expires_at > $1`, now)
	return n, err
}

func (r *PostgresSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

package postgres

import (
	"catalog/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS categories (
	id         BIGSERIAL PRIMARY KEY,
	name       VARCHAR(255) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

func MustConnect(host, database, user, password, port, sslMode string) *sqlx.DB {
	db := sqlx.MustConnect("postgres", fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslMode,
	))

	// With 3 replicas × 15 conns = 45 total connections (safer for default PG max_connections=100)
	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return db
}

type PgRepository struct {
	db *sqlx.DB
}

func NewPgRepository(db *sqlx.DB) *PgRepository {
	return &PgRepository{db: db}
}

func (r *PgRepository) Close() error {
	return r.db.Close()
}

func (r *PgRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create categories table: %w", err)
	}
	return nil
}

// GetPoolStats returns current connection pool statistics
func (r *PgRepository) GetPoolStats() map[string]interface{} {
	stats := r.db.Stats()
	return map[string]interface{}{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
		"max_idle_closed":      stats.MaxIdleClosed,
		"max_lifetime_closed":  stats.MaxLifetimeClosed,
	}
}

// conn returns the transaction bound to ctx, or the pool when there is none.
func (r *PgRepository) conn(ctx context.Context) sqlx.ExtContext {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return r.db
}

func (r *PgRepository) Store(ctx context.Context, record domain.CategoryRecord) (domain.Category, error) {
	var c domain.Category
	query := `INSERT INTO categories (name) VALUES (:name) RETURNING *`

	query, args, err := sqlx.Named(query, record)
	if err != nil {
		return c, err
	}
	query = r.db.Rebind(query)

	if err := sqlx.GetContext(ctx, r.conn(ctx), &c, query, args...); err != nil {
		return c, fmt.Errorf("failed to insert category: %w", err)
	}
	return c, nil
}

func (r *PgRepository) Update(ctx context.Context, id int64, record domain.CategoryRecord) error {
	query := `UPDATE categories SET name = $1, updated_at = NOW() WHERE id = $2`

	res, err := r.conn(ctx).ExecContext(ctx, query, record.Name, id)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return expectAffected(res)
}

func (r *PgRepository) Destroy(ctx context.Context, id int64) error {
	query := `DELETE FROM categories WHERE id = $1`

	res, err := r.conn(ctx).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return expectAffected(res)
}

func (r *PgRepository) List(ctx context.Context) ([]domain.Category, error) {
	categories := make([]domain.Category, 0)
	query := `SELECT * FROM categories ORDER BY id ASC`

	if err := sqlx.SelectContext(ctx, r.conn(ctx), &categories, query); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *PgRepository) Show(ctx context.Context, id int64) (domain.Category, error) {
	var c domain.Category
	query := `SELECT * FROM categories WHERE id = $1`

	err := sqlx.GetContext(ctx, r.conn(ctx), &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return c, domain.ErrCategoryNotFound
	}
	if err != nil {
		return c, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

func expectAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

package postgres

import (
	"catalog/domain"
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var categoryColumns = []string{"id", "name", "created_at", "updated_at"}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := sqlx.NewDb(mockDB, "postgres")
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func TestPgRepository_Store(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO categories (name) VALUES ($1) RETURNING *`)).
		WithArgs("Books").
		WillReturnRows(sqlmock.NewRows(categoryColumns).AddRow(int64(1), "Books", now, now))

	category, err := repo.Store(context.Background(), domain.CategoryRecord{Name: "Books"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), category.ID)
	assert.Equal(t, "Books", category.Name)
}

func TestPgRepository_Show(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPgRepository(db)
		now := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM categories WHERE id = $1`)).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(categoryColumns).AddRow(int64(5), "Music", now, now))

		category, err := repo.Show(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, "Music", category.Name)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPgRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM categories WHERE id = $1`)).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows(categoryColumns))

		_, err := repo.Show(context.Background(), 404)
		assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
	})
}

func TestPgRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM categories ORDER BY id ASC`)).
		WillReturnRows(sqlmock.NewRows(categoryColumns).
			AddRow(int64(1), "Books", now, now).
			AddRow(int64(2), "Music", now, now))

	categories, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Music", categories[1].Name)
}

func TestPgRepository_Update(t *testing.T) {
	query := regexp.QuoteMeta(`UPDATE categories SET name = $1, updated_at = NOW() WHERE id = $2`)

	t.Run("updated", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(query).WithArgs("Novels", int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewPgRepository(db).Update(context.Background(), 1, domain.CategoryRecord{Name: "Novels"})
		assert.NoError(t, err)
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(query).WithArgs("Novels", int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewPgRepository(db).Update(context.Background(), 9, domain.CategoryRecord{Name: "Novels"})
		assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
	})
}

func TestPgRepository_Destroy(t *testing.T) {
	query := regexp.QuoteMeta(`DELETE FROM categories WHERE id = $1`)

	t.Run("deleted", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(query).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, NewPgRepository(db).Destroy(context.Background(), 1))
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(query).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, NewPgRepository(db).Destroy(context.Background(), 3), domain.ErrCategoryNotFound)
	})

	t.Run("driver failure is wrapped", func(t *testing.T) {
		db, mock := newMockDB(t)
		driverErr := errors.New("connection refused")
		mock.ExpectExec(query).WithArgs(int64(3)).WillReturnError(driverErr)

		err := NewPgRepository(db).Destroy(context.Background(), 3)
		assert.ErrorIs(t, err, driverErr)
		assert.NotErrorIs(t, err, domain.ErrCategoryNotFound)
	})
}

func TestPgRepository_EnsureSchema(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS categories`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, NewPgRepository(db).EnsureSchema(context.Background()))
}

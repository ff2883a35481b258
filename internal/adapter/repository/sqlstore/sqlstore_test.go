package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/vadimbarashkov/og-shortener/internal/entity"
)

var errUnknown = errors.New("unknown error")

func setupRecordRepository(t testing.TB, driverName string) (*RecordRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}

	db := sqlx.NewDb(mockDB, driverName)
	repo := NewRecordRepository(db)

	t.Cleanup(func() {
		db.Close()
	})

	return repo, mock
}

func TestRecordRepository_Get(t *testing.T) {
	t.Run("link not found", func(t *testing.T) {
		repo, mock := setupRecordRepository(t, "sqlite")

		mock.ExpectQuery(`SELECT value FROM link_records WHERE slug = \?`).
			WithArgs("abc").
			WillReturnError(sql.ErrNoRows)

		value, err := repo.Get(context.TODO(), "abc")

		assert.ErrorIs(t, err, entity.ErrLinkNotFound)
		assert.Empty(t, value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown error", func(t *testing.T) {
		repo, mock := setupRecordRepository(t, "sqlite")

		mock.ExpectQuery(`SELECT value FROM link_records`).
			WithArgs("abc").
			WillReturnError(errUnknown)

		value, err := repo.Get(context.TODO(), "abc")

		assert.ErrorIs(t, err, errUnknown)
		assert.NotErrorIs(t, err, entity.ErrLinkNotFound)
		assert.Empty(t, value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		repo, mock := setupRecordRepository(t, "sqlite")

		rows := sqlmock.NewRows([]string{"value"}).AddRow("https://example.com")

		mock.ExpectQuery(`SELECT value FROM link_records`).
			WithArgs("abc").
			WillReturnRows(rows)

		value, err := repo.Get(context.TODO(), "abc")

		assert.NoError(t, err)
		assert.Equal(t, "https://example.com", value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("postgres placeholders", func(t *testing.T) {
		repo, mock := setupRecordRepository(t, "pgx")

		rows := sqlmock.NewRows([]string{"value"}).AddRow("https://example.com")

		mock.ExpectQuery(`SELECT value FROM link_records WHERE slug = \$1`).
			WithArgs("abc").
			WillReturnRows(rows)

		value, err := repo.Get(context.TODO(), "abc")

		assert.NoError(t, err)
		assert.Equal(t, "https://example.com", value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRecordRepository_Set(t *testing.T) {
	t.Run("unknown error", func(t *testing.T) {
		repo, mock := setupRecordRepository(t, "sqlite")

		mock.ExpectExec(`INSERT INTO link_records`).
			WithArgs("abc", "https://example.com").
			WillReturnError(errUnknown)

		err := repo.Set(context.TODO(), "abc", "https://example.com")

		assert.ErrorIs(t, err, errUnknown)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		repo, mock := setupRecordRepository(t, "pgx")

		mock.ExpectExec(`INSERT INTO link_records \(slug, value\) VALUES \(\$1, \$2\)\s+ON CONFLICT \(slug\) DO UPDATE`).
			WithArgs("abc", "https://example.com").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Set(context.TODO(), "abc", "https://example.com")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRecordRepository_EnsureSchema(t *testing.T) {
	t.Run("unknown error", func(t *testing.T) {
		repo, mock := setupRecordRepository(t, "sqlite")

		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS link_records`).
			WillReturnError(errUnknown)

		err := repo.EnsureSchema(context.TODO())

		assert.ErrorIs(t, err, errUnknown)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		repo, mock := setupRecordRepository(t, "sqlite")

		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS link_records`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.EnsureSchema(context.TODO())

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLDriverMock(t *testing.T) (*SQLDriver, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS collections").WillReturnResult(sqlmock.NewResult(0, 0))
	driver, err := NewSQLDriver(context.Background(), sqlx.NewDb(db, "sqlmock"))
	require.NoError(t, err)
	return driver, mock
}

func TestSQLDriverReadMissingCollection(t *testing.T) {
	driver, mock := newSQLDriverMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM collections WHERE name = ?")).
		WithArgs("tasks").
		WillReturnError(sql.ErrNoRows)

	raw, err := driver.Read(context.Background(), "tasks")
	require.NoError(t, err)
	assert.Nil(t, raw)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLDriverReadAndWrite(t *testing.T) {
	driver, mock := newSQLDriverMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM collections WHERE name = ?")).
		WithArgs("branches").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(`[{"id":1}]`))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO collections (name, payload) VALUES (?, ?)")).
		WithArgs("branches", "[]").
		WillReturnResult(sqlmock.NewResult(1, 1))

	raw, err := driver.Read(context.Background(), "branches")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(raw))

	require.NoError(t, driver.Write(context.Background(), "branches", []byte("[]")))
	assert.Equal(t, "sqlmock", driver.Name())
	assert.NoError(t, mock.ExpectationsWereMet())
}

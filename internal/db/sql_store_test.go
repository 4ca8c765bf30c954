package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"busticket/internal/domain"
)

func TestSQLStoreMySQLEnsureSchemaCreatesTable(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery("information_schema\\.tables").WithArgs("documents").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS documents").
		WillReturnResult(sqlmock.NewResult(0, 0))

	s, err := NewSQLStore(sqlDB, DialectMySQL)
	require.NoError(t, err)
	require.NoError(t, s.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreMySQLEnsureSchemaSkipsExistingTable(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery("information_schema\\.tables").WithArgs("documents").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("documents"))

	s := SQLStore{DB: sqlDB, Dialect: DialectMySQL}
	require.NoError(t, s.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreMySQLReadWrite(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	ctx := context.Background()
	s := SQLStore{DB: sqlDB, Dialect: DialectMySQL}

	mock.ExpectExec("INSERT INTO documents .* ON DUPLICATE KEY UPDATE").
		WithArgs(domain.DocTickets, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, s.Write(ctx, domain.DocTickets, []json.RawMessage{json.RawMessage(`{"id":"TCK-1"}`)}))

	mock.ExpectQuery("SELECT body FROM documents").WithArgs(domain.DocTickets).
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(`[{"id":"TCK-1"}]`))
	records, err := s.Read(ctx, domain.DocTickets)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.JSONEq(t, `{"id":"TCK-1"}`, string(records[0]))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreMySQLReadMissingAndBroken(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	ctx := context.Background()
	s := SQLStore{DB: sqlDB, Dialect: DialectMySQL}

	mock.ExpectQuery("SELECT body FROM documents").WithArgs(domain.DocPayments).
		WillReturnRows(sqlmock.NewRows([]string{"body"}))
	records, err := s.Read(ctx, domain.DocPayments)
	require.NoError(t, err)
	assert.Empty(t, records)

	mock.ExpectQuery("SELECT body FROM documents").WithArgs(domain.DocPayments).
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(`garbage`))
	records, err = s.Read(ctx, domain.DocPayments)
	require.NoError(t, err)
	assert.Empty(t, records)

	mock.ExpectQuery("SELECT body FROM documents").WithArgs(domain.DocPayments).
		WillReturnError(errors.New("connection refused"))
	_, err = s.Read(ctx, domain.DocPayments)
	require.Error(t, err)
	assert.True(t, domain.IsDocumentIO(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreMySQLWriteFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectExec("INSERT INTO documents").WillReturnError(errors.New("read-only"))

	s := SQLStore{DB: sqlDB, Dialect: DialectMySQL}
	err = s.Write(context.Background(), domain.DocTickets, nil)
	require.Error(t, err)
	assert.True(t, domain.IsDocumentIO(err))
}

func TestSQLStoreSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "documents.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	s, err := NewSQLStore(sqlDB, DialectSQLite)
	require.NoError(t, err)
	require.NoError(t, s.EnsureSchema(ctx))
	require.NoError(t, s.EnsureSchema(ctx))

	records, err := s.Read(ctx, domain.DocTickets)
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, s.Write(ctx, domain.DocTickets, []json.RawMessage{json.RawMessage(`{"id":"a"}`)}))
	require.NoError(t, s.Write(ctx, domain.DocTickets, []json.RawMessage{json.RawMessage(`{"id":"a"}`), json.RawMessage(`{"id":"b"}`)}))

	records, err = s.Read(ctx, domain.DocTickets)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestNewSQLStoreRejectsUnknownDialect(t *testing.T) {
	_, err := NewSQLStore(&sql.DB{}, "postgres")
	assert.Error(t, err)
}

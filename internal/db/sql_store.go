package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"busticket/internal/domain"
)

const (
	DialectMySQL  = "mysql"
	DialectSQLite = "sqlite"

	documentsTable = "documents"
)

// SQLStore keeps each document as one row of the documents table.
type SQLStore struct {
	DB      *sql.DB
	Dialect string
}

func NewSQLStore(db *sql.DB, dialect string) (SQLStore, error) {
	switch dialect {
	case DialectMySQL, DialectSQLite:
	default:
		return SQLStore{}, fmt.Errorf("unsupported sql dialect %q", dialect)
	}
	if db == nil {
		return SQLStore{}, errors.New("sql store: nil db")
	}
	return SQLStore{DB: db, Dialect: dialect}, nil
}

// EnsureSchema creates the documents table when missing.
func (s SQLStore) EnsureSchema(ctx context.Context) error {
	if HasTable(ctx, s.DB, s.Dialect, documentsTable) {
		return nil
	}
	ddl := `
CREATE TABLE IF NOT EXISTS documents (
	name VARCHAR(64) NOT NULL PRIMARY KEY,
	body LONGTEXT NOT NULL,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	if s.Dialect == DialectSQLite {
		ddl = `
CREATE TABLE IF NOT EXISTS documents (
	name TEXT NOT NULL PRIMARY KEY,
	body TEXT NOT NULL,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`
	}
	if _, err := s.DB.ExecContext(ctx, ddl); err != nil {
		return domain.DocumentIOError{Document: documentsTable, Op: "create", Err: err}
	}
	return nil
}

func (s SQLStore) Read(ctx context.Context, name string) ([]json.RawMessage, error) {
	var body string
	err := s.DB.QueryRowContext(ctx, `SELECT body FROM documents WHERE name = ? LIMIT 1`, name).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []json.RawMessage{}, nil
		}
		return nil, domain.DocumentIOError{Document: name, Op: "read", Err: err}
	}
	return decodeDocument(name, []byte(body)), nil
}

func (s SQLStore) Write(ctx context.Context, name string, records []json.RawMessage) error {
	body, err := encodeDocument(records)
	if err != nil {
		return domain.DocumentIOError{Document: name, Op: "encode", Err: err}
	}
	stmt := `INSERT INTO documents (name, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON DUPLICATE KEY UPDATE body = VALUES(body), updated_at = CURRENT_TIMESTAMP`
	if s.Dialect == DialectSQLite {
		stmt = `INSERT INTO documents (name, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP`
	}
	if _, err := s.DB.ExecContext(ctx, stmt, name, string(body)); err != nil {
		return domain.DocumentIOError{Document: name, Op: "write", Err: err}
	}
	return nil
}

// Ping checks the connection for health reporting.
func (s SQLStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

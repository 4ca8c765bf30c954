package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	intdb "busticket/internal/db"
	"busticket/internal/utils"
)

// OpenStore builds the document store selected by env. The returned close
// function releases the SQL connection when there is one.
func OpenStore(ctx context.Context, env Env) (intdb.Store, func(), error) {
	noop := func() {}

	switch env.StoreDriver {
	case "memory":
		utils.LogWarn("", "store", "open", "memory store: documents are lost on restart")
		return intdb.NewMemoryStore(), noop, nil
	case "", "file":
		s, err := intdb.NewFileStore(env.DataDir)
		if err != nil {
			return nil, noop, err
		}
		utils.LogEvent("", "store", "open", "file store at "+env.DataDir)
		return s, noop, nil
	case intdb.DialectMySQL, intdb.DialectSQLite:
		conn, err := connectDB(ctx, env.StoreDriver, env.DBDSN)
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() { _ = conn.Close() }
		s, err := intdb.NewSQLStore(conn, env.StoreDriver)
		if err != nil {
			closeFn()
			return nil, noop, err
		}
		if err := s.EnsureSchema(ctx); err != nil {
			closeFn()
			return nil, noop, err
		}
		utils.LogEvent("", "store", "open", env.StoreDriver+" store connected")
		return s, closeFn, nil
	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", env.StoreDriver)
	}
}

func connectDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == intdb.DialectMySQL {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(25)
		conn.SetConnMaxLifetime(10 * time.Minute)
		conn.SetConnMaxIdleTime(5 * time.Minute)
	} else {
		// single writer keeps sqlite away from SQLITE_BUSY
		conn.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return conn, nil
}

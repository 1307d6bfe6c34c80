package config

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// SQLiteDB opens and pings a *sql.DB on the go-sqlite3 driver.
//
// For in-memory DSNs (see InMemorySQLiteDSN) connections are never expired,
// because the database is gone as soon as its last connection closes.
func SQLiteDB(ctx context.Context, dsn string, maxOpenConns int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	maxOpenConns = max(maxOpenConns, 1)
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxOpenConns)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, errors.Join(ErrOpeningDatabaseFailed, pingErr)
	}

	return db, nil
}

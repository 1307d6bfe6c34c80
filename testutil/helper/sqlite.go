package helper

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/querycache-stress-go/config"
)

// GivenInMemorySQLite opens a fresh in-memory SQLite database that is closed when the test ends.
func GivenInMemorySQLite(t testing.TB) *sql.DB {
	db, err := config.SQLiteDB(context.Background(), config.InMemorySQLiteDSN("querycache-"+uuid.NewString()), 8)
	require.NoError(t, err, "error in arranging test data")

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

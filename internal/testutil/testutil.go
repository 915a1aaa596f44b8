package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vytor/flashy/internal/db"
	"github.com/vytor/flashy/internal/logger"
	"github.com/vytor/flashy/internal/repository"
	"github.com/vytor/flashy/internal/repository/sqlstore"
)

func init() {
	logger.SetDefault(logger.New(logger.WithLevel(logger.ERROR), logger.WithColors(false)))
}

// NewTestDB opens a fresh SQLite database in a temp dir with all migrations applied.
// It is closed automatically when the test ends.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	database, err := db.Open(context.Background(), db.Options{Driver: db.DriverSQLite, DSN: "file:" + path})
	require.NoError(t, err)
	t.Cleanup(func() { MustClose(t, database) })
	return database
}

// NewTestStore returns a store over a fresh test database.
func NewTestStore(t *testing.T) (repository.Store, *db.DB) {
	t.Helper()
	database := NewTestDB(t)
	return sqlstore.NewStore(database), database
}

// FailOn installs a trigger that aborts every op ("INSERT", "UPDATE" or "DELETE")
// on table, so tests can force a failure in the middle of a transaction.
func FailOn(t *testing.T, database *db.DB, op, table string) {
	t.Helper()
	stmt := fmt.Sprintf(`CREATE TRIGGER fail_%[1]s_%[2]s BEFORE %[1]s ON %[2]s
BEGIN SELECT RAISE(ABORT, 'injected %[1]s failure'); END;`, op, table)
	_, err := database.ExecContext(context.Background(), stmt)
	require.NoError(t, err)
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	t.Helper()
	require.NoError(t, closer.Close())
}

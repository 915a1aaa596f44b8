package db_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashy/internal/db"
	apperrors "github.com/vytor/flashy/internal/errors"
	"github.com/vytor/flashy/internal/logger"
	"github.com/vytor/flashy/internal/testutil"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gateway.db")
	database, err := db.Open(context.Background(), db.Options{Driver: db.DriverSQLite, DSN: "file:" + path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func countDecks(t *testing.T, database *db.DB) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM decks`).Scan(&n))
	return n
}

func TestOpen_AppliesSchema(t *testing.T) {
	database := openTestDB(t)

	for _, table := range []string{"decks", "flashcards", "flashcard_deck"} {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
	assert.Equal(t, db.DriverSQLite, database.Driver())
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := db.Open(context.Background(), db.Options{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)
}

func TestTx_CommitAndRollback(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	err := database.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO decks (name) VALUES ('kept')`)
		return err
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = database.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO decks (name) VALUES ('discarded')`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, countDecks(t, database))
}

func TestTx_RollsBackOnPanic(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = database.Tx(ctx, func(tx *sql.Tx) error {
			_, _ = tx.ExecContext(ctx, `INSERT INTO decks (name) VALUES ('panicky')`)
			panic("bad")
		})
	})
	assert.Equal(t, 0, countDecks(t, database))

	// The connection must be usable again after the rollback.
	_, err := database.ExecContext(ctx, `INSERT INTO decks (name) VALUES ('after')`)
	assert.NoError(t, err)
}

func TestTx_ClosedDatabaseLogsCause(t *testing.T) {
	database := testutil.NewTestDB(t)
	testutil.MustClose(t, database)
	require.Error(t, database.PingContext(context.Background()))

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(false))
	ctx := logger.NewContext(context.Background(), log)

	called := false
	err := database.Tx(ctx, func(*sql.Tx) error {
		called = true
		return nil
	})

	assert.False(t, called)
	assert.True(t, apperrors.IsPersistence(err))
	assert.Contains(t, buf.String(), "failed to begin transaction")
	assert.Contains(t, buf.String(), "error=sql: database is closed")
}

func TestMapError_UniqueViolationIsConflict(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	_, err := database.ExecContext(ctx, `INSERT INTO decks (name) VALUES ('dup')`)
	require.NoError(t, err)
	_, err = database.ExecContext(ctx, `INSERT INTO decks (name) VALUES ('dup')`)
	require.Error(t, err)

	mapped := db.MapError("insert deck", err)
	assert.True(t, apperrors.IsConflict(mapped))
	assert.True(t, apperrors.IsPersistence(mapped))
	assert.Contains(t, mapped.Error(), "UNIQUE")
}

func TestMapError_Passthrough(t *testing.T) {
	nf := apperrors.NewNotFoundError("deck", 1)
	assert.Same(t, nf, db.MapError("x", nf))
	assert.Nil(t, db.MapError("x", nil))
	assert.True(t, apperrors.IsNotFound(db.MapError("x", sql.ErrNoRows)))
	assert.True(t, apperrors.IsPersistence(db.MapError("x", errors.New("disk full"))))
}

func TestBuilder_PlaceholderFormat(t *testing.T) {
	database := openTestDB(t)

	query, _, err := database.Builder().Select("id").From("decks").Where("name = ?", "a").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM decks WHERE name = ?", query)
}

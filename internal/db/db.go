package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/vytor/flashy/internal/logger"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

const sqliteParams = "_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL"

// DBTX is satisfied by both *sql.DB and *sql.Tx, so repositories run unchanged
// on the pool or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Options struct {
	Driver string
	DSN    string
}

type DB struct {
	*sql.DB
	driver string
	log    *logger.Logger
}

// Open connects to the configured database and brings its schema up to date.
func Open(ctx context.Context, opts Options) (*DB, error) {
	log := logger.Default().WithPrefix("db").WithField("driver", opts.Driver)

	var (
		sqlName string
		dsn     string
	)
	switch opts.Driver {
	case DriverSQLite, "":
		opts.Driver = DriverSQLite
		sqlName = "sqlite3"
		dsn = sqliteDSN(opts.DSN)
	case DriverPostgres:
		sqlName = "pgx"
		dsn = opts.DSN
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	log.Info("opening database: %s", opts.DSN)
	sqlDB, err := sql.Open(sqlName, dsn)
	if err != nil {
		log.Error("failed to open database: %v", err)
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		log.Error("failed to reach database: %v", err)
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := &DB{DB: sqlDB, driver: opts.Driver, log: log}

	log.Debug("applying migrations")
	if err := db.migrate(ctx); err != nil {
		_ = sqlDB.Close()
		log.Error("failed to apply migrations: %v", err)
		return nil, err
	}

	if opts.Driver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1) // single writer
	}

	log.Info("database ready")
	return db, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + sqliteParams
	}
	return path + "?" + sqliteParams
}

func (db *DB) Driver() string { return db.driver }

// Builder returns a squirrel builder using the placeholder style of the driver.
func (db *DB) Builder() squirrel.StatementBuilderType {
	if db.driver == DriverPostgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

// Tx runs fn in a transaction. The transaction is committed when fn returns nil
// and rolled back when it returns an error or panics; panics are re-raised.
func (db *DB) Tx(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	log := logger.FromContext(ctx).WithPrefix("db")

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.WithError(err).Error("failed to begin transaction")
		return NewPersistenceError("begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.WithError(rbErr).Error("failed to roll back transaction after panic")
			} else {
				log.Error("rolled back transaction after panic: %v", p)
			}
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.WithError(rbErr).Error("failed to roll back transaction (original error: %v)", err)
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		log.Debug("transaction rolled back due to error: %v", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		log.WithError(err).Error("failed to commit transaction")
		return NewPersistenceError("commit transaction", err)
	}
	log.Debug("transaction committed")
	return nil
}

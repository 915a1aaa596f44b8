package db

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"github.com/vytor/flashy/internal/logger"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// goose keeps its dialect and filesystem in package globals.
var gooseMu sync.Mutex

type gooseLogger struct {
	log *logger.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Info(format, v...)
}

// Fatalf logs without exiting; the error is returned by goose to the caller.
func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Error(format, v...)
}

func (db *DB) migrate(ctx context.Context) error {
	dir := "migrations/sqlite"
	if db.driver == DriverPostgres {
		dir = "migrations/postgres"
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{log: db.log.WithPrefix("migrations")})
	if err := goose.SetDialect(db.driver); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.DB, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

package sqlstore

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/flashy/internal/db"
	"github.com/vytor/flashy/internal/repository"
)

type store struct {
	db *db.DB
}

// NewStore returns a repository.Store backed by the given database.
func NewStore(database *db.DB) repository.Store {
	return &store{db: database}
}

func bind(conn db.DBTX, sb squirrel.StatementBuilderType) repository.Repositories {
	return repository.Repositories{
		Decks:        NewDeckRepository(conn, sb),
		Flashcards:   NewFlashcardRepository(conn, sb),
		Associations: NewAssociationRepository(conn, sb),
	}
}

func (s *store) Repos() repository.Repositories {
	return bind(s.db, s.db.Builder())
}

func (s *store) InTx(ctx context.Context, fn func(repository.Repositories) error) error {
	sb := s.db.Builder()
	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		return fn(bind(tx, sb))
	})
}

func (s *store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return db.NewPersistenceError("ping database", err)
	}
	return nil
}

package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/flashy/internal/db"
	"github.com/vytor/flashy/internal/logger"
	"github.com/vytor/flashy/internal/models"
	"github.com/vytor/flashy/internal/repository"
)

var deckColumns = []string{"id", "name", "description"}

type deckRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(conn db.DBTX, sb squirrel.StatementBuilderType) repository.DeckRepository {
	return &deckRepository{db: conn, sb: sb}
}

func scanDeck(row interface{ Scan(...any) error }) (models.Deck, error) {
	var d models.Deck
	var description sql.NullString
	if err := row.Scan(&d.ID, &d.Name, &description); err != nil {
		return d, err
	}
	d.Description = description.String
	return d, nil
}

func (r *deckRepository) Add(ctx context.Context, d *models.Deck) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: name=%s", d.Name)

	id, err := insertReturningID(ctx, r.db, r.sb.Insert("decks").
		Columns("name", "description").
		Values(d.Name, nullString(d.Description)))
	if err != nil {
		log.Error("failed to insert deck: %v", err)
		return 0, db.MapError("insert deck", err)
	}
	d.ID = id
	log.Debug("deck inserted: id=%d", id)
	return id, nil
}

func (r *deckRepository) GetByID(ctx context.Context, id int64) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: id=%d", id)

	q, args, err := r.sb.Select(deckColumns...).From("decks").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, db.MapError("get deck", err)
	}
	d, err := scanDeck(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found: id=%d", id)
		} else {
			log.Error("failed to get deck: %v", err)
		}
		return nil, db.MapLookupError("deck", id, "get deck", err)
	}
	return &d, nil
}

func (r *deckRepository) GetByName(ctx context.Context, name string) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: name=%s", name)

	q, args, err := r.sb.Select(deckColumns...).From("decks").
		Where(squirrel.Eq{"name": name}).
		OrderBy("id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, db.MapError("get deck by name", err)
	}
	d, err := scanDeck(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found: name=%s", name)
		} else {
			log.Error("failed to get deck by name: %v", err)
		}
		return nil, db.MapLookupError("deck", name, "get deck by name", err)
	}
	return &d, nil
}

func (r *deckRepository) GetAll(ctx context.Context) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")

	q, args, err := r.sb.Select(deckColumns...).From("decks").OrderBy("id").ToSql()
	if err != nil {
		return nil, db.MapError("list decks", err)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, db.MapError("list decks", err)
	}
	defer rows.Close()

	decks := []models.Deck{}
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, db.MapError("list decks", err)
		}
		decks = append(decks, d)
	}
	if err := rows.Err(); err != nil {
		return nil, db.MapError("list decks", err)
	}
	log.Debug("found %d decks", len(decks))
	return decks, nil
}

func (r *deckRepository) Update(ctx context.Context, d models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("updating deck: id=%d", d.ID)

	res, err := exec(ctx, r.db, r.sb.Update("decks").
		Set("name", d.Name).
		Set("description", nullString(d.Description)).
		Where(squirrel.Eq{"id": d.ID}))
	if err != nil {
		log.Error("failed to update deck: %v", err)
		return db.MapError("update deck", err)
	}
	return db.CheckRowsAffected(res, "deck", d.ID, "update deck")
}

func (r *deckRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck: id=%d", id)

	res, err := exec(ctx, r.db, r.sb.Delete("decks").Where(squirrel.Eq{"id": id}))
	if err != nil {
		log.Error("failed to delete deck: %v", err)
		return db.MapError("delete deck", err)
	}
	return db.CheckRowsAffected(res, "deck", id, "delete deck")
}

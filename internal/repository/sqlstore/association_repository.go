package sqlstore

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/flashy/internal/db"
	"github.com/vytor/flashy/internal/logger"
	"github.com/vytor/flashy/internal/models"
	"github.com/vytor/flashy/internal/repository"
)

type associationRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewAssociationRepository creates a new AssociationRepository implementation
func NewAssociationRepository(conn db.DBTX, sb squirrel.StatementBuilderType) repository.AssociationRepository {
	return &associationRepository{db: conn, sb: sb}
}

func (r *associationRepository) Add(ctx context.Context, flashcardID, deckID int64) error {
	log := logger.FromContext(ctx).WithPrefix("association_repo")
	log.Debug("linking flashcard %d to deck %d", flashcardID, deckID)

	_, err := exec(ctx, r.db, r.sb.Insert("flashcard_deck").
		Columns("flashcard_id", "deck_id").
		Values(flashcardID, deckID))
	if err != nil {
		log.Error("failed to insert association: %v", err)
		return db.MapError("insert association", err)
	}
	return nil
}

func (r *associationRepository) Exists(ctx context.Context, flashcardID, deckID int64) (bool, error) {
	q, args, err := r.sb.Select("COUNT(*)").From("flashcard_deck").
		Where(squirrel.Eq{"flashcard_id": flashcardID, "deck_id": deckID}).
		ToSql()
	if err != nil {
		return false, db.MapError("check association", err)
	}
	var n int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		logger.FromContext(ctx).WithPrefix("association_repo").Error("failed to check association: %v", err)
		return false, db.MapError("check association", err)
	}
	return n > 0, nil
}

func (r *associationRepository) GetAll(ctx context.Context) ([]models.Association, error) {
	log := logger.FromContext(ctx).WithPrefix("association_repo")

	q, args, err := r.sb.Select("flashcard_id", "deck_id").From("flashcard_deck").
		OrderBy("flashcard_id", "deck_id").
		ToSql()
	if err != nil {
		return nil, db.MapError("list associations", err)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		log.Error("failed to list associations: %v", err)
		return nil, db.MapError("list associations", err)
	}
	defer rows.Close()

	links := []models.Association{}
	for rows.Next() {
		var a models.Association
		if err := rows.Scan(&a.FlashcardID, &a.DeckID); err != nil {
			return nil, db.MapError("list associations", err)
		}
		links = append(links, a)
	}
	if err := rows.Err(); err != nil {
		return nil, db.MapError("list associations", err)
	}
	return links, nil
}

func (r *associationRepository) Remove(ctx context.Context, flashcardID, deckID int64) error {
	log := logger.FromContext(ctx).WithPrefix("association_repo")
	log.Debug("unlinking flashcard %d from deck %d", flashcardID, deckID)

	res, err := exec(ctx, r.db, r.sb.Delete("flashcard_deck").
		Where(squirrel.Eq{"flashcard_id": flashcardID, "deck_id": deckID}))
	if err != nil {
		log.Error("failed to delete association: %v", err)
		return db.MapError("delete association", err)
	}
	return db.CheckRowsAffected(res, "association", fmt.Sprintf("%d/%d", flashcardID, deckID), "delete association")
}

func (r *associationRepository) RemoveAllForDeck(ctx context.Context, deckID int64) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("association_repo")
	log.Debug("unlinking all flashcards from deck %d", deckID)

	res, err := exec(ctx, r.db, r.sb.Delete("flashcard_deck").Where(squirrel.Eq{"deck_id": deckID}))
	if err != nil {
		log.Error("failed to delete deck associations: %v", err)
		return 0, db.MapError("delete deck associations", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, db.MapError("delete deck associations", err)
	}
	return n, nil
}

func (r *associationRepository) DeckIDsForFlashcard(ctx context.Context, flashcardID int64) ([]int64, error) {
	ids, err := queryIDs(ctx, r.db, r.sb.Select("deck_id").From("flashcard_deck").
		Where(squirrel.Eq{"flashcard_id": flashcardID}).
		OrderBy("deck_id"))
	if err != nil {
		logger.FromContext(ctx).WithPrefix("association_repo").Error("failed to list decks of flashcard %d: %v", flashcardID, err)
		return nil, db.MapError("list flashcard decks", err)
	}
	return ids, nil
}

func (r *associationRepository) FlashcardIDsInDeck(ctx context.Context, deckID int64) ([]int64, error) {
	ids, err := queryIDs(ctx, r.db, r.sb.Select("flashcard_id").From("flashcard_deck").
		Where(squirrel.Eq{"deck_id": deckID}).
		OrderBy("flashcard_id"))
	if err != nil {
		logger.FromContext(ctx).WithPrefix("association_repo").Error("failed to list flashcards of deck %d: %v", deckID, err)
		return nil, db.MapError("list deck flashcards", err)
	}
	return ids, nil
}

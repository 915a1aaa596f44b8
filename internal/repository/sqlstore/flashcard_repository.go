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

var flashcardColumns = []string{"id", "question", "answer", "hint", "state", "difficulty"}

type flashcardRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewFlashcardRepository creates a new FlashcardRepository implementation
func NewFlashcardRepository(conn db.DBTX, sb squirrel.StatementBuilderType) repository.FlashcardRepository {
	return &flashcardRepository{db: conn, sb: sb}
}

func scanFlashcard(row interface{ Scan(...any) error }) (models.Flashcard, error) {
	var c models.Flashcard
	var hint sql.NullString
	if err := row.Scan(&c.ID, &c.Question, &c.Answer, &hint, &c.State, &c.Difficulty); err != nil {
		return c, err
	}
	c.Hint = hint.String
	return c, nil
}

func (r *flashcardRepository) Add(ctx context.Context, c *models.Flashcard) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("inserting flashcard: state=%s, difficulty=%s", c.State, c.Difficulty)

	id, err := insertReturningID(ctx, r.db, r.sb.Insert("flashcards").
		Columns("question", "answer", "hint", "state", "difficulty").
		Values(c.Question, c.Answer, nullString(c.Hint), c.State, c.Difficulty))
	if err != nil {
		log.Error("failed to insert flashcard: %v", err)
		return 0, db.MapError("insert flashcard", err)
	}
	c.ID = id
	log.Debug("flashcard inserted: id=%d", id)
	return id, nil
}

func (r *flashcardRepository) GetByID(ctx context.Context, id int64) (*models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("getting flashcard: id=%d", id)

	q, args, err := r.sb.Select(flashcardColumns...).From("flashcards").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, db.MapError("get flashcard", err)
	}
	c, err := scanFlashcard(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("flashcard not found: id=%d", id)
		} else {
			log.Error("failed to get flashcard: %v", err)
		}
		return nil, db.MapLookupError("flashcard", id, "get flashcard", err)
	}
	return &c, nil
}

func (r *flashcardRepository) GetAll(ctx context.Context) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")

	q, args, err := r.sb.Select(flashcardColumns...).From("flashcards").OrderBy("id").ToSql()
	if err != nil {
		return nil, db.MapError("list flashcards", err)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		log.Error("failed to list flashcards: %v", err)
		return nil, db.MapError("list flashcards", err)
	}
	defer rows.Close()

	cards := []models.Flashcard{}
	for rows.Next() {
		c, err := scanFlashcard(rows)
		if err != nil {
			log.Error("failed to scan flashcard row: %v", err)
			return nil, db.MapError("list flashcards", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, db.MapError("list flashcards", err)
	}
	log.Debug("found %d flashcards", len(cards))
	return cards, nil
}

func (r *flashcardRepository) Update(ctx context.Context, c models.Flashcard) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("updating flashcard: id=%d", c.ID)

	res, err := exec(ctx, r.db, r.sb.Update("flashcards").
		Set("question", c.Question).
		Set("answer", c.Answer).
		Set("hint", nullString(c.Hint)).
		Set("state", c.State).
		Set("difficulty", c.Difficulty).
		Where(squirrel.Eq{"id": c.ID}))
	if err != nil {
		log.Error("failed to update flashcard: %v", err)
		return db.MapError("update flashcard", err)
	}
	return db.CheckRowsAffected(res, "flashcard", c.ID, "update flashcard")
}

func (r *flashcardRepository) UpdateState(ctx context.Context, id int64, state models.State) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("updating flashcard state: id=%d, state=%s", id, state)

	res, err := exec(ctx, r.db, r.sb.Update("flashcards").Set("state", state).Where(squirrel.Eq{"id": id}))
	if err != nil {
		log.Error("failed to update flashcard state: %v", err)
		return db.MapError("update flashcard state", err)
	}
	return db.CheckRowsAffected(res, "flashcard", id, "update flashcard state")
}

func (r *flashcardRepository) UpdateDifficulty(ctx context.Context, id int64, difficulty models.Difficulty) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("updating flashcard difficulty: id=%d, difficulty=%s", id, difficulty)

	res, err := exec(ctx, r.db, r.sb.Update("flashcards").Set("difficulty", difficulty).Where(squirrel.Eq{"id": id}))
	if err != nil {
		log.Error("failed to update flashcard difficulty: %v", err)
		return db.MapError("update flashcard difficulty", err)
	}
	return db.CheckRowsAffected(res, "flashcard", id, "update flashcard difficulty")
}

func (r *flashcardRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("deleting flashcard: id=%d", id)

	res, err := exec(ctx, r.db, r.sb.Delete("flashcards").Where(squirrel.Eq{"id": id}))
	if err != nil {
		log.Error("failed to delete flashcard: %v", err)
		return db.MapError("delete flashcard", err)
	}
	return db.CheckRowsAffected(res, "flashcard", id, "delete flashcard")
}

func (r *flashcardRepository) CountByState(ctx context.Context) (models.StateCounts, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")

	var counts models.StateCounts
	err := r.countBy(ctx, "state", func(rows *sql.Rows) error {
		var s models.State
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return err
		}
		counts[s] = n
		return nil
	})
	if err != nil {
		log.Error("failed to count flashcards by state: %v", err)
		return counts, db.MapError("count flashcards by state", err)
	}
	return counts, nil
}

func (r *flashcardRepository) CountByDifficulty(ctx context.Context) (models.DifficultyCounts, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")

	var counts models.DifficultyCounts
	err := r.countBy(ctx, "difficulty", func(rows *sql.Rows) error {
		var d models.Difficulty
		var n int
		if err := rows.Scan(&d, &n); err != nil {
			return err
		}
		counts[d] = n
		return nil
	})
	if err != nil {
		log.Error("failed to count flashcards by difficulty: %v", err)
		return counts, db.MapError("count flashcards by difficulty", err)
	}
	return counts, nil
}

func (r *flashcardRepository) countBy(ctx context.Context, column string, scan func(*sql.Rows) error) error {
	q, args, err := r.sb.Select(column, "COUNT(*)").From("flashcards").GroupBy(column).ToSql()
	if err != nil {
		return err
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

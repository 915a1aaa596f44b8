package repository

import (
	"context"

	"github.com/vytor/flashy/internal/models"
)

// DeckRepository handles deck data access
type DeckRepository interface {
	// Add inserts the deck and writes the assigned id back into it.
	Add(ctx context.Context, deck *models.Deck) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Deck, error)
	// GetByName returns the first deck with the given name, by lowest id.
	GetByName(ctx context.Context, name string) (*models.Deck, error)
	GetAll(ctx context.Context) ([]models.Deck, error)
	Update(ctx context.Context, deck models.Deck) error
	Delete(ctx context.Context, id int64) error
}

// FlashcardRepository handles flashcard data access
type FlashcardRepository interface {
	// Add inserts the card with its state and difficulty and writes the assigned id back into it.
	Add(ctx context.Context, card *models.Flashcard) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Flashcard, error)
	GetAll(ctx context.Context) ([]models.Flashcard, error)
	Update(ctx context.Context, card models.Flashcard) error
	UpdateState(ctx context.Context, id int64, state models.State) error
	UpdateDifficulty(ctx context.Context, id int64, difficulty models.Difficulty) error
	Delete(ctx context.Context, id int64) error
	CountByState(ctx context.Context) (models.StateCounts, error)
	CountByDifficulty(ctx context.Context) (models.DifficultyCounts, error)
}

// AssociationRepository handles the flashcard/deck membership table
type AssociationRepository interface {
	Add(ctx context.Context, flashcardID, deckID int64) error
	Exists(ctx context.Context, flashcardID, deckID int64) (bool, error)
	GetAll(ctx context.Context) ([]models.Association, error)
	Remove(ctx context.Context, flashcardID, deckID int64) error
	RemoveAllForDeck(ctx context.Context, deckID int64) (int64, error)
	DeckIDsForFlashcard(ctx context.Context, flashcardID int64) ([]int64, error)
	FlashcardIDsInDeck(ctx context.Context, deckID int64) ([]int64, error)
}

// Repositories is one consistent set of repositories, bound either to the
// connection pool or to a single transaction.
type Repositories struct {
	Decks        DeckRepository
	Flashcards   FlashcardRepository
	Associations AssociationRepository
}

// Store hands out repositories and runs units of work.
type Store interface {
	Repos() Repositories
	// InTx runs fn with repositories bound to one transaction. fn's error
	// rolls everything back.
	InTx(ctx context.Context, fn func(Repositories) error) error
	Ping(ctx context.Context) error
}

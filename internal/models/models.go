package models

import (
	"strings"

	apperrors "github.com/vytor/flashy/internal/errors"
)

// UnsavedID marks an entity that has not been written to the store yet.
const UnsavedID int64 = -1

type Deck struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewDeck returns a transient deck. The name must not be blank.
func NewDeck(name, description string) (*Deck, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("name", "cannot be blank")
	}
	return &Deck{ID: UnsavedID, Name: name, Description: description}, nil
}

func (d Deck) Persisted() bool { return d.ID > 0 }

// Equal compares by id. Transient decks are never equal to anything.
func (d Deck) Equal(other Deck) bool {
	return d.Persisted() && other.Persisted() && d.ID == other.ID
}

// Association links a flashcard to a deck.
type Association struct {
	FlashcardID int64 `json:"flashcard_id"`
	DeckID      int64 `json:"deck_id"`
}

package models

import (
	"strings"

	apperrors "github.com/vytor/flashy/internal/errors"
)

type Flashcard struct {
	ID         int64      `json:"id"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	Hint       string     `json:"hint,omitempty"`
	State      State      `json:"state"`
	Difficulty Difficulty `json:"difficulty"`
}

// NewFlashcard returns a transient card in the CREATED state with DEFAULT difficulty.
func NewFlashcard(question, answer, hint string) (*Flashcard, error) {
	card := &Flashcard{
		ID:         UnsavedID,
		Question:   question,
		Answer:     answer,
		Hint:       hint,
		State:      StateCreated,
		Difficulty: DifficultyDefault,
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}
	return card, nil
}

// Validate checks the fields a card must always carry.
func (f Flashcard) Validate() error {
	if strings.TrimSpace(f.Question) == "" {
		return apperrors.NewValidationError("question", "cannot be blank")
	}
	if strings.TrimSpace(f.Answer) == "" {
		return apperrors.NewValidationError("answer", "cannot be blank")
	}
	if !f.State.Valid() {
		return apperrors.NewValidationError("state", "unknown value")
	}
	if !f.Difficulty.Valid() {
		return apperrors.NewValidationError("difficulty", "unknown value")
	}
	return nil
}

func (f Flashcard) Persisted() bool { return f.ID > 0 }

func (f Flashcard) HasHint() bool { return f.Hint != "" }

// Equal compares by id only.
func (f Flashcard) Equal(other Flashcard) bool {
	return f.Persisted() && other.Persisted() && f.ID == other.ID
}

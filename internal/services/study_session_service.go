package services

import (
	"context"

	"github.com/vytor/flashy/internal/events"
	"github.com/vytor/flashy/internal/logger"
	"github.com/vytor/flashy/internal/models"
	"github.com/vytor/flashy/internal/repository"
)

// StudySessionService is the data access a study session needs
type StudySessionService interface {
	FlashcardIDsInDeck(ctx context.Context, deckID int64) ([]int64, error)
	FlashcardByID(ctx context.Context, id int64) (*models.Flashcard, error)
	SetFlashcardState(ctx context.Context, card *models.Flashcard, state models.State) error
	SetFlashcardDifficulty(ctx context.Context, card *models.Flashcard, difficulty models.Difficulty) error
}

type studySessionService struct {
	store repository.Store
	bus   events.Publisher
}

// NewStudySessionService creates a new StudySessionService
func NewStudySessionService(store repository.Store, bus events.Publisher) StudySessionService {
	return &studySessionService{store: store, bus: bus}
}

func (s *studySessionService) FlashcardIDsInDeck(ctx context.Context, deckID int64) ([]int64, error) {
	return s.store.Repos().Associations.FlashcardIDsInDeck(ctx, deckID)
}

func (s *studySessionService) FlashcardByID(ctx context.Context, id int64) (*models.Flashcard, error) {
	return s.store.Repos().Flashcards.GetByID(ctx, id)
}

// SetFlashcardState persists the new state and, once stored, applies it to card.
func (s *studySessionService) SetFlashcardState(ctx context.Context, card *models.Flashcard, state models.State) error {
	log := logger.FromContext(ctx).WithPrefix("study_service")

	if err := s.store.Repos().Flashcards.UpdateState(ctx, card.ID, state); err != nil {
		log.Error("failed to set state of flashcard %d: %v", card.ID, err)
		return err
	}
	card.State = state
	log.Debug("flashcard %d state set to %s", card.ID, state)
	return s.bus.Publish(ctx, events.UpdateFlashcard, *card)
}

func (s *studySessionService) SetFlashcardDifficulty(ctx context.Context, card *models.Flashcard, difficulty models.Difficulty) error {
	log := logger.FromContext(ctx).WithPrefix("study_service")

	if err := s.store.Repos().Flashcards.UpdateDifficulty(ctx, card.ID, difficulty); err != nil {
		log.Error("failed to set difficulty of flashcard %d: %v", card.ID, err)
		return err
	}
	card.Difficulty = difficulty
	log.Debug("flashcard %d difficulty set to %s", card.ID, difficulty)
	return s.bus.Publish(ctx, events.UpdateFlashcard, *card)
}

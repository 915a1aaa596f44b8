package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashy/internal/models"
)

// MockStudySessionService is a mock implementation of services.StudySessionService
type MockStudySessionService struct {
	mock.Mock
}

func (m *MockStudySessionService) FlashcardIDsInDeck(ctx context.Context, deckID int64) ([]int64, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockStudySessionService) FlashcardByID(ctx context.Context, id int64) (*models.Flashcard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flashcard), args.Error(1)
}

func (m *MockStudySessionService) SetFlashcardState(ctx context.Context, card *models.Flashcard, state models.State) error {
	args := m.Called(ctx, card, state)
	return args.Error(0)
}

func (m *MockStudySessionService) SetFlashcardDifficulty(ctx context.Context, card *models.Flashcard, difficulty models.Difficulty) error {
	args := m.Called(ctx, card, difficulty)
	return args.Error(0)
}

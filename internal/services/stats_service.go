package services

import (
	"context"

	"github.com/vytor/flashy/internal/logger"
	"github.com/vytor/flashy/internal/models"
	"github.com/vytor/flashy/internal/repository"
)

// StatsService aggregates flashcard counts for reporting
type StatsService interface {
	GetStats(ctx context.Context) (models.Stats, error)
	GetDeckStats(ctx context.Context, deckID int64) (models.Stats, error)
}

type statsService struct {
	store repository.Store
}

// NewStatsService creates a new StatsService
func NewStatsService(store repository.Store) StatsService {
	return &statsService{store: store}
}

func (s *statsService) GetStats(ctx context.Context) (models.Stats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_service")
	repos := s.store.Repos()

	byState, err := repos.Flashcards.CountByState(ctx)
	if err != nil {
		log.Error("failed to count flashcards by state: %v", err)
		return models.Stats{}, err
	}
	byDifficulty, err := repos.Flashcards.CountByDifficulty(ctx)
	if err != nil {
		log.Error("failed to count flashcards by difficulty: %v", err)
		return models.Stats{}, err
	}
	return models.NewStats(byState, byDifficulty), nil
}

// GetDeckStats counts only the cards associated with the deck.
func (s *statsService) GetDeckStats(ctx context.Context, deckID int64) (models.Stats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_service")
	repos := s.store.Repos()

	if _, err := repos.Decks.GetByID(ctx, deckID); err != nil {
		return models.Stats{}, err
	}
	cards, err := loadDeckCards(ctx, repos, deckID)
	if err != nil {
		log.Error("failed to load cards of deck %d: %v", deckID, err)
		return models.Stats{}, err
	}

	var byState models.StateCounts
	var byDifficulty models.DifficultyCounts
	for _, c := range cards {
		byState[c.State]++
		byDifficulty[c.Difficulty]++
	}
	log.Debug("deck %d stats: %d cards", deckID, len(cards))
	return models.NewStats(byState, byDifficulty), nil
}

package services

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vytor/flashy/internal/csvio"
	apperrors "github.com/vytor/flashy/internal/errors"
	"github.com/vytor/flashy/internal/events"
	"github.com/vytor/flashy/internal/logger"
	"github.com/vytor/flashy/internal/models"
	"github.com/vytor/flashy/internal/repository"
)

// FlashcardService handles deck and flashcard management
type FlashcardService interface {
	AddFlashcardWithoutDeck(ctx context.Context, card *models.Flashcard) error
	AddFlashcardWithDeck(ctx context.Context, card *models.Flashcard, deck models.Deck) error
	AddFlashcardWithNewDeck(ctx context.Context, card *models.Flashcard, deck *models.Deck) error
	UpdateFlashcard(ctx context.Context, card models.Flashcard) error
	DeleteFlashcardWithDecks(ctx context.Context, id int64) error

	AddDeck(ctx context.Context, deck *models.Deck) error
	DeleteDeck(ctx context.Context, deck models.Deck) error
	DeleteDeckByName(ctx context.Context, name string) error

	GetAllFlashcards(ctx context.Context) ([]models.Flashcard, error)
	GetAllDecks(ctx context.Context) ([]models.Deck, error)
	GetDeckByName(ctx context.Context, name string) (*models.Deck, error)
	GetDeckByID(ctx context.Context, id int64) (*models.Deck, error)
	GetFlashcard(ctx context.Context, id int64) (*models.Flashcard, error)
	FlashcardsInDeck(ctx context.Context, deckID int64) ([]models.Flashcard, error)

	GetFlashcardsByState(ctx context.Context) (models.StateCounts, error)
	GetFlashcardsByDifficulty(ctx context.Context) (models.DifficultyCounts, error)

	ExportDeckToCSV(ctx context.Context, deckName, fileName string) (string, error)
	WriteDeckCSV(ctx context.Context, deckName string, w io.Writer) error
	ImportDeckFromCSV(ctx context.Context, deck *models.Deck, fileName string) (int, error)
	ImportDeckCSV(ctx context.Context, deck *models.Deck, r io.Reader) (int, error)
}

type flashcardService struct {
	store     repository.Store
	bus       events.Publisher
	exportDir string
}

// NewFlashcardService creates a new FlashcardService. Exports are written to
// and imports read from exportDir.
func NewFlashcardService(store repository.Store, bus events.Publisher, exportDir string) FlashcardService {
	return &flashcardService{store: store, bus: bus, exportDir: exportDir}
}

func (s *flashcardService) AddFlashcardWithoutDeck(ctx context.Context, card *models.Flashcard) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_service")

	if err := card.Validate(); err != nil {
		return err
	}
	if _, err := s.store.Repos().Flashcards.Add(ctx, card); err != nil {
		log.Error("failed to add flashcard: %v", err)
		return err
	}
	log.Info("flashcard added without deck: id=%d", card.ID)
	return nil
}

func (s *flashcardService) AddFlashcardWithDeck(ctx context.Context, card *models.Flashcard, deck models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_service")

	if err := card.Validate(); err != nil {
		return err
	}
	err := s.store.InTx(ctx, func(r repository.Repositories) error {
		if _, err := r.Decks.GetByID(ctx, deck.ID); err != nil {
			return err
		}
		if _, err := r.Flashcards.Add(ctx, card); err != nil {
			return err
		}
		return r.Associations.Add(ctx, card.ID, deck.ID)
	})
	if err != nil {
		card.ID = models.UnsavedID
		log.Error("failed to add flashcard to deck %d: %v", deck.ID, err)
		return err
	}

	log.Info("flashcard added: id=%d, deck_id=%d", card.ID, deck.ID)
	return s.bus.Publish(ctx, events.AddFlashcard, *card)
}

func (s *flashcardService) AddFlashcardWithNewDeck(ctx context.Context, card *models.Flashcard, deck *models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_service")

	if err := card.Validate(); err != nil {
		return err
	}
	if err := validateDeck(*deck); err != nil {
		return err
	}
	err := s.store.InTx(ctx, func(r repository.Repositories) error {
		if _, err := r.Decks.Add(ctx, deck); err != nil {
			return err
		}
		if _, err := r.Flashcards.Add(ctx, card); err != nil {
			return err
		}
		return r.Associations.Add(ctx, card.ID, deck.ID)
	})
	if err != nil {
		card.ID = models.UnsavedID
		deck.ID = models.UnsavedID
		log.Error("failed to add flashcard with new deck %q: %v", deck.Name, err)
		return err
	}

	log.Info("flashcard added with new deck: id=%d, deck_id=%d", card.ID, deck.ID)
	if err := s.bus.Publish(ctx, events.AddFlashcard, *card); err != nil {
		return err
	}
	return s.bus.Publish(ctx, events.AddDeck, *deck)
}

func (s *flashcardService) UpdateFlashcard(ctx context.Context, card models.Flashcard) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_service")

	if err := card.Validate(); err != nil {
		return err
	}
	if !card.Persisted() {
		return apperrors.NewNotFoundError("flashcard", card.ID)
	}
	if err := s.store.Repos().Flashcards.Update(ctx, card); err != nil {
		log.Error("failed to update flashcard %d: %v", card.ID, err)
		return err
	}

	log.Info("flashcard updated: id=%d", card.ID)
	return s.bus.Publish(ctx, events.UpdateFlashcard, card)
}

func (s *flashcardService) DeleteFlashcardWithDecks(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_service")

	var snapshot models.Flashcard
	err := s.store.InTx(ctx, func(r repository.Repositories) error {
		deckIDs, err := r.Associations.DeckIDsForFlashcard(ctx, id)
		if err != nil {
			return err
		}
		for _, deckID := range deckIDs {
			if err := r.Associations.Remove(ctx, id, deckID); err != nil {
				return err
			}
		}
		card, err := r.Flashcards.GetByID(ctx, id)
		if err != nil {
			return err
		}
		snapshot = *card
		return r.Flashcards.Delete(ctx, id)
	})
	if err != nil {
		log.Error("failed to delete flashcard %d: %v", id, err)
		return err
	}

	log.Info("flashcard deleted: id=%d", id)
	return s.bus.Publish(ctx, events.RemoveFlashcard, snapshot)
}

func validateDeck(d models.Deck) error {
	if strings.TrimSpace(d.Name) == "" {
		return apperrors.NewValidationError("name", "cannot be blank")
	}
	return nil
}

func (s *flashcardService) AddDeck(ctx context.Context, deck *models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_service")

	if err := validateDeck(*deck); err != nil {
		return err
	}
	if _, err := s.store.Repos().Decks.Add(ctx, deck); err != nil {
		log.Error("failed to add deck %q: %v", deck.Name, err)
		return err
	}

	log.Info("deck added: id=%d, name=%s", deck.ID, deck.Name)
	return s.bus.Publish(ctx, events.AddDeck, *deck)
}

func (s *flashcardService) DeleteDeck(ctx context.Context, deck models.Deck) error {
	return s.deleteDeck(ctx, func(r repository.Repositories) (*models.Deck, error) {
		return r.Decks.GetByID(ctx, deck.ID)
	})
}

func (s *flashcardService) DeleteDeckByName(ctx context.Context, name string) error {
	return s.deleteDeck(ctx, func(r repository.Repositories) (*models.Deck, error) {
		return r.Decks.GetByName(ctx, name)
	})
}

// deleteDeck removes the deck's memberships and then the deck itself. The
// deck's flashcards are kept.
func (s *flashcardService) deleteDeck(ctx context.Context, resolve func(repository.Repositories) (*models.Deck, error)) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_service")

	var removed models.Deck
	err := s.store.InTx(ctx, func(r repository.Repositories) error {
		deck, err := resolve(r)
		if err != nil {
			return err
		}
		removed = *deck
		if _, err := r.Associations.RemoveAllForDeck(ctx, deck.ID); err != nil {
			return err
		}
		return r.Decks.Delete(ctx, deck.ID)
	})
	if err != nil {
		log.Error("failed to delete deck: %v", err)
		return err
	}

	log.Info("deck deleted: id=%d, name=%s", removed.ID, removed.Name)
	return s.bus.Publish(ctx, events.RemoveDeck, removed)
}

func (s *flashcardService) GetAllFlashcards(ctx context.Context) ([]models.Flashcard, error) {
	return s.store.Repos().Flashcards.GetAll(ctx)
}

func (s *flashcardService) GetAllDecks(ctx context.Context) ([]models.Deck, error) {
	return s.store.Repos().Decks.GetAll(ctx)
}

func (s *flashcardService) GetDeckByName(ctx context.Context, name string) (*models.Deck, error) {
	return s.store.Repos().Decks.GetByName(ctx, name)
}

func (s *flashcardService) GetDeckByID(ctx context.Context, id int64) (*models.Deck, error) {
	return s.store.Repos().Decks.GetByID(ctx, id)
}

func (s *flashcardService) GetFlashcard(ctx context.Context, id int64) (*models.Flashcard, error) {
	return s.store.Repos().Flashcards.GetByID(ctx, id)
}

func (s *flashcardService) FlashcardsInDeck(ctx context.Context, deckID int64) ([]models.Flashcard, error) {
	repos := s.store.Repos()
	if _, err := repos.Decks.GetByID(ctx, deckID); err != nil {
		return nil, err
	}
	return loadDeckCards(ctx, repos, deckID)
}

func loadDeckCards(ctx context.Context, r repository.Repositories, deckID int64) ([]models.Flashcard, error) {
	ids, err := r.Associations.FlashcardIDsInDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	cards := make([]models.Flashcard, 0, len(ids))
	for _, id := range ids {
		card, err := r.Flashcards.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *card)
	}
	return cards, nil
}

func (s *flashcardService) GetFlashcardsByState(ctx context.Context) (models.StateCounts, error) {
	return s.store.Repos().Flashcards.CountByState(ctx)
}

func (s *flashcardService) GetFlashcardsByDifficulty(ctx context.Context) (models.DifficultyCounts, error) {
	return s.store.Repos().Flashcards.CountByDifficulty(ctx)
}

// exportPath resolves fileName inside the export directory.
func (s *flashcardService) exportPath(fileName string) (string, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return "", apperrors.NewValidationError("file name", "cannot be blank")
	}
	if fileName != filepath.Base(fileName) {
		return "", apperrors.NewValidationError("file name", "must not contain a directory")
	}
	return filepath.Join(s.exportDir, fileName), nil
}

func (s *flashcardService) ExportDeckToCSV(ctx context.Context, deckName, fileName string) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_service")

	if !strings.HasSuffix(strings.ToLower(fileName), ".csv") {
		fileName += ".csv"
	}
	path, err := s.exportPath(fileName)
	if err != nil {
		return "", err
	}

	repos := s.store.Repos()
	deck, err := repos.Decks.GetByName(ctx, deckName)
	if err != nil {
		return "", err
	}
	cards, err := loadDeckCards(ctx, repos, deck.ID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", apperrors.NewPersistenceError("create export directory", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", apperrors.NewPersistenceError("create export file", err)
	}
	if err := csvio.Write(f, cards); err != nil {
		_ = f.Close()
		return "", apperrors.NewPersistenceError("write export file", err)
	}
	if err := f.Close(); err != nil {
		return "", apperrors.NewPersistenceError("close export file", err)
	}

	log.Info("deck exported: name=%s, cards=%d, path=%s", deck.Name, len(cards), path)
	return path, nil
}

func (s *flashcardService) WriteDeckCSV(ctx context.Context, deckName string, w io.Writer) error {
	repos := s.store.Repos()
	deck, err := repos.Decks.GetByName(ctx, deckName)
	if err != nil {
		return err
	}
	cards, err := loadDeckCards(ctx, repos, deck.ID)
	if err != nil {
		return err
	}
	return csvio.Write(w, cards)
}

func (s *flashcardService) ImportDeckFromCSV(ctx context.Context, deck *models.Deck, fileName string) (int, error) {
	path, err := s.exportPath(fileName)
	if err != nil {
		return 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, apperrors.NewNotFoundError("file", fileName)
		}
		return 0, apperrors.NewPersistenceError("open import file", err)
	}
	defer f.Close()
	return s.ImportDeckCSV(ctx, deck, f)
}

func (s *flashcardService) ImportDeckCSV(ctx context.Context, deck *models.Deck, r io.Reader) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_service")

	if err := validateDeck(*deck); err != nil {
		return 0, err
	}
	rows, err := csvio.Read(r, log)
	if err != nil {
		return 0, apperrors.NewBadRequestError("unreadable csv: " + err.Error())
	}

	var imported []models.Flashcard
	err = s.store.InTx(ctx, func(repos repository.Repositories) error {
		if _, err := repos.Decks.Add(ctx, deck); err != nil {
			return err
		}
		for _, row := range rows {
			card, err := row.Flashcard()
			if err != nil {
				return err
			}
			if _, err := repos.Flashcards.Add(ctx, card); err != nil {
				return err
			}
			if err := repos.Associations.Add(ctx, card.ID, deck.ID); err != nil {
				return err
			}
			imported = append(imported, *card)
		}
		return nil
	})
	if err != nil {
		deck.ID = models.UnsavedID
		log.Error("failed to import deck %q: %v", deck.Name, err)
		return 0, err
	}

	log.Info("deck imported: id=%d, name=%s, cards=%d", deck.ID, deck.Name, len(imported))
	for _, card := range imported {
		if err := s.bus.Publish(ctx, events.AddFlashcard, card); err != nil {
			return len(imported), err
		}
	}
	return len(imported), s.bus.Publish(ctx, events.AddDeck, *deck)
}

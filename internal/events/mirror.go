package events

import (
	"context"
	"sync"

	"github.com/vytor/flashy/internal/models"
)

// DeckMirror keeps an in-memory list of decks in sync with deck events.
type DeckMirror struct {
	mu    sync.RWMutex
	decks []models.Deck
}

// NewDeckMirror creates a new, empty DeckMirror
func NewDeckMirror() *DeckMirror {
	return &DeckMirror{}
}

// Reset replaces the mirrored list, typically with a fresh read from the store.
func (m *DeckMirror) Reset(decks []models.Deck) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decks = append([]models.Deck(nil), decks...)
}

func (m *DeckMirror) Decks() []models.Deck {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Deck, len(m.decks))
	copy(out, m.decks)
	return out
}

func (m *DeckMirror) HandleEvent(_ context.Context, e Event) error {
	d, ok := e.Deck()
	if !ok {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	switch e.Type {
	case AddDeck:
		m.decks = append(m.decks, d)
	case RemoveDeck:
		for i := range m.decks {
			if m.decks[i].ID == d.ID {
				m.decks = append(m.decks[:i], m.decks[i+1:]...)
				break
			}
		}
	}
	return nil
}

// FlashcardMirror keeps an in-memory list of flashcards in sync with flashcard events.
type FlashcardMirror struct {
	mu    sync.RWMutex
	cards []models.Flashcard
}

// NewFlashcardMirror creates a new, empty FlashcardMirror
func NewFlashcardMirror() *FlashcardMirror {
	return &FlashcardMirror{}
}

func (m *FlashcardMirror) Reset(cards []models.Flashcard) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards = append([]models.Flashcard(nil), cards...)
}

func (m *FlashcardMirror) Flashcards() []models.Flashcard {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Flashcard, len(m.cards))
	copy(out, m.cards)
	return out
}

func (m *FlashcardMirror) indexOf(id int64) int {
	for i := range m.cards {
		if m.cards[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *FlashcardMirror) HandleEvent(_ context.Context, e Event) error {
	c, ok := e.Flashcard()
	if !ok {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	switch e.Type {
	case AddFlashcard:
		m.cards = append(m.cards, c)
	case RemoveFlashcard:
		if i := m.indexOf(c.ID); i >= 0 {
			m.cards = append(m.cards[:i], m.cards[i+1:]...)
		}
	case UpdateFlashcard:
		if i := m.indexOf(c.ID); i >= 0 {
			m.cards[i] = c
		}
	}
	return nil
}

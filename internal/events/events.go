package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/flashy/internal/models"
)

// EventType names a change to persisted state.
type EventType string

const (
	AddDeck         EventType = "ADD_DECK"
	RemoveDeck      EventType = "REMOVE_DECK"
	AddFlashcard    EventType = "ADD_FLASHCARD"
	RemoveFlashcard EventType = "REMOVE_FLASHCARD"
	UpdateFlashcard EventType = "UPDATE_FLASHCARD"
)

// Event is delivered to every subscribed observer. Payload is a models.Deck
// for deck events and a models.Flashcard for flashcard events.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Type      EventType `json:"type"`
	Payload   any       `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEvent stamps a new event with a fresh id and the current UTC time.
func NewEvent(eventType EventType, payload any) Event {
	return Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

// Deck returns the payload as a deck.
func (e Event) Deck() (models.Deck, bool) {
	d, ok := e.Payload.(models.Deck)
	return d, ok
}

// Flashcard returns the payload as a flashcard.
func (e Event) Flashcard() (models.Flashcard, bool) {
	c, ok := e.Payload.(models.Flashcard)
	return c, ok
}

// Observer receives events synchronously on the publisher's goroutine.
// Observers are compared by identity, so use pointer receivers.
type Observer interface {
	HandleEvent(ctx context.Context, event Event) error
}

// Publisher is the sending side of the bus.
type Publisher interface {
	Publish(ctx context.Context, eventType EventType, payload any) error
}

package events_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashy/internal/events"
	"github.com/vytor/flashy/internal/models"
)

func TestDeckMirror(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()
	mirror := events.NewDeckMirror()
	mirror.Reset([]models.Deck{{ID: 1, Name: "a"}})
	bus.Subscribe(mirror)

	require.NoError(t, bus.Publish(ctx, events.AddDeck, models.Deck{ID: 2, Name: "b"}))
	require.NoError(t, bus.Publish(ctx, events.RemoveDeck, models.Deck{ID: 1, Name: "a"}))
	require.NoError(t, bus.Publish(ctx, events.AddFlashcard, models.Flashcard{ID: 9}))

	assert.Equal(t, []models.Deck{{ID: 2, Name: "b"}}, mirror.Decks())
}

func TestFlashcardMirror(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()
	mirror := events.NewFlashcardMirror()
	bus.Subscribe(mirror)

	require.NoError(t, bus.Publish(ctx, events.AddFlashcard, models.Flashcard{ID: 1, Question: "q1"}))
	require.NoError(t, bus.Publish(ctx, events.AddFlashcard, models.Flashcard{ID: 2, Question: "q2"}))
	require.NoError(t, bus.Publish(ctx, events.UpdateFlashcard, models.Flashcard{ID: 1, Question: "edited", State: models.StateLearnt}))
	require.NoError(t, bus.Publish(ctx, events.RemoveFlashcard, models.Flashcard{ID: 2}))
	require.NoError(t, bus.Publish(ctx, events.UpdateFlashcard, models.Flashcard{ID: 42}))

	cards := mirror.Flashcards()
	require.Len(t, cards, 1)
	assert.Equal(t, "edited", cards[0].Question)
	assert.Equal(t, models.StateLearnt, cards[0].State)

	cards[0].Question = "mutated copy"
	assert.Equal(t, "edited", mirror.Flashcards()[0].Question)
}

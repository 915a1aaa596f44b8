package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/flashy/internal/errors"
	"github.com/vytor/flashy/internal/events"
	"github.com/vytor/flashy/internal/models"
	"github.com/vytor/flashy/internal/services"
	"github.com/vytor/flashy/internal/testutil"
)

func TestStudySessionService_Setters(t *testing.T) {
	ctx := context.Background()
	store, _ := testutil.NewTestStore(t)
	bus := events.NewBus()
	recorder := &testutil.EventRecorder{}
	bus.Subscribe(recorder)
	svc := services.NewStudySessionService(store, bus)

	card, err := models.NewFlashcard("Q", "A", "")
	require.NoError(t, err)
	_, err = store.Repos().Flashcards.Add(ctx, card)
	require.NoError(t, err)

	require.NoError(t, svc.SetFlashcardState(ctx, card, models.StateLearnt))
	require.NoError(t, svc.SetFlashcardDifficulty(ctx, card, models.DifficultyHard))

	assert.Equal(t, models.StateLearnt, card.State)
	assert.Equal(t, models.DifficultyHard, card.Difficulty)

	stored, err := svc.FlashcardByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, *card, *stored)

	assert.Equal(t, []events.EventType{events.UpdateFlashcard, events.UpdateFlashcard}, recorder.Types())
	last, _ := recorder.Events()[1].Flashcard()
	assert.Equal(t, models.DifficultyHard, last.Difficulty)
}

func TestStudySessionService_FailedWriteLeavesCardUntouched(t *testing.T) {
	ctx := context.Background()
	store, _ := testutil.NewTestStore(t)
	bus := events.NewBus()
	recorder := &testutil.EventRecorder{}
	bus.Subscribe(recorder)
	svc := services.NewStudySessionService(store, bus)

	ghost := &models.Flashcard{ID: 99, Question: "Q", Answer: "A", State: models.StateCreated}
	err := svc.SetFlashcardState(ctx, ghost, models.StateLearning)

	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, models.StateCreated, ghost.State)
	assert.Empty(t, recorder.Events())
}

func TestStudySessionService_FlashcardIDsInDeck(t *testing.T) {
	ctx := context.Background()
	store, _ := testutil.NewTestStore(t)
	svc := services.NewStudySessionService(store, events.NewBus())
	repos := store.Repos()

	deck, _ := models.NewDeck("D", "")
	_, err := repos.Decks.Add(ctx, deck)
	require.NoError(t, err)

	var want []int64
	for _, q := range []string{"a", "b", "c"} {
		card, _ := models.NewFlashcard(q, q, "")
		_, err := repos.Flashcards.Add(ctx, card)
		require.NoError(t, err)
		require.NoError(t, repos.Associations.Add(ctx, card.ID, deck.ID))
		want = append(want, card.ID)
	}

	ids, err := svc.FlashcardIDsInDeck(ctx, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, want, ids)

	empty, err := svc.FlashcardIDsInDeck(ctx, 12345)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

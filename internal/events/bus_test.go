package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashy/internal/events"
	"github.com/vytor/flashy/internal/models"
)

type recorder struct {
	name  string
	log   *[]string
	err   error
	onRun func()
}

func (r *recorder) HandleEvent(_ context.Context, e events.Event) error {
	*r.log = append(*r.log, r.name+":"+string(e.Type))
	if r.onRun != nil {
		r.onRun()
	}
	return r.err
}

func TestBus_DeliversInSubscriptionOrder(t *testing.T) {
	var log []string
	bus := events.NewBus()
	a := &recorder{name: "a", log: &log}
	b := &recorder{name: "b", log: &log}
	bus.Subscribe(a)
	bus.Subscribe(b)
	bus.Subscribe(a)

	require.NoError(t, bus.Publish(context.Background(), events.AddDeck, models.Deck{ID: 1}))

	assert.Equal(t, []string{"a:ADD_DECK", "b:ADD_DECK"}, log)
	assert.Equal(t, 2, bus.Len())
}

func TestBus_FirstErrorStopsDelivery(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	bus := events.NewBus()
	bus.Subscribe(&recorder{name: "a", log: &log, err: boom})
	bus.Subscribe(&recorder{name: "b", log: &log})

	err := bus.Publish(context.Background(), events.RemoveDeck, models.Deck{ID: 1})

	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, events.ErrDelivery)
	assert.Equal(t, []string{"a:REMOVE_DECK"}, log)
}

func TestBus_Unsubscribe(t *testing.T) {
	var log []string
	bus := events.NewBus()
	a := &recorder{name: "a", log: &log}
	bus.Subscribe(a)

	bus.Unsubscribe(&recorder{name: "stranger", log: &log})
	assert.Equal(t, 1, bus.Len())

	bus.Unsubscribe(a)
	require.NoError(t, bus.Publish(context.Background(), events.AddDeck, models.Deck{}))
	assert.Empty(t, log)
}

func TestBus_SnapshotsObserversBeforeDelivery(t *testing.T) {
	var log []string
	bus := events.NewBus()
	late := &recorder{name: "late", log: &log}
	first := &recorder{name: "first", log: &log, onRun: func() { bus.Subscribe(late) }}
	bus.Subscribe(first)

	require.NoError(t, bus.Publish(context.Background(), events.AddDeck, models.Deck{}))
	assert.Equal(t, []string{"first:ADD_DECK"}, log)
	assert.Equal(t, 2, bus.Len())
}

func TestEvent_PayloadAccessors(t *testing.T) {
	e := events.NewEvent(events.AddFlashcard, models.Flashcard{ID: 7})
	card, ok := e.Flashcard()
	assert.True(t, ok)
	assert.Equal(t, int64(7), card.ID)

	_, ok = e.Deck()
	assert.False(t, ok)
	assert.NotEmpty(t, e.ID.String())
}

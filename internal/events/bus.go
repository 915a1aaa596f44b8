package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vytor/flashy/internal/logger"
)

// ErrDelivery marks a publish that reached the bus but failed in an observer.
// Whatever triggered the event has already happened.
var ErrDelivery = errors.New("event delivery failed")

// Bus fans events out to its observers in subscription order.
type Bus struct {
	mu        sync.Mutex
	observers []Observer
}

// NewBus creates a new Bus with no observers
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers o. Subscribing the same observer twice has no effect.
func (b *Bus) Subscribe(o Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.observers {
		if existing == o {
			return
		}
	}
	b.observers = append(b.observers, o)
}

// Unsubscribe removes o. Unknown observers are ignored.
func (b *Bus) Unsubscribe(o Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, existing := range b.observers {
		if existing == o {
			b.observers = append(b.observers[:i:i], b.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of subscribed observers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.observers)
}

// Publish delivers one event to a snapshot of the observers. Delivery stops at
// the first observer error, which is returned to the caller.
func (b *Bus) Publish(ctx context.Context, eventType EventType, payload any) error {
	b.mu.Lock()
	observers := make([]Observer, len(b.observers))
	copy(observers, b.observers)
	b.mu.Unlock()

	event := NewEvent(eventType, payload)
	log := logger.FromContext(ctx).WithPrefix("bus").WithFields(map[string]any{
		"event_id":   event.ID,
		"event_type": event.Type,
	})
	log.Debug("publishing to %d observers", len(observers))

	for i, o := range observers {
		if err := o.HandleEvent(ctx, event); err != nil {
			log.Error("observer %d failed: %v", i, err)
			return fmt.Errorf("%w: %s: %w", ErrDelivery, eventType, err)
		}
	}
	return nil
}

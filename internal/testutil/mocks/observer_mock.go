package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashy/internal/events"
)

// MockObserver is a mock implementation of events.Observer
type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) HandleEvent(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"storefront/internal/events"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishJSON(eventType string, payload interface{}) error {
	args := m.Called(eventType, payload)
	return args.Error(0)
}

func TestForward(t *testing.T) {
	d := events.NewInMemoryDispatcher()
	pub := new(MockPublisher)
	ctx := context.Background()

	registered := events.Event{Type: events.EventUserRegistered, Payload: events.UserPayload{UserID: "u1", Email: "a@x.com"}}
	pub.On("PublishJSON", "user.registered", registered).Return(errors.New("broker down")).Once()

	stop := events.Forward(d, pub, zap.NewNop(), events.EventUserRegistered)

	// Broker errors are swallowed.
	assert.NoError(t, d.Publish(ctx, registered))
	// Types not forwarded are ignored.
	assert.NoError(t, d.Publish(ctx, events.Event{Type: events.EventCartUpdated}))

	stop()
	assert.NoError(t, d.Publish(ctx, registered))
	pub.AssertExpectations(t)
}

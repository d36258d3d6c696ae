package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/events"
)

func TestDispatcher_PublishInOrder(t *testing.T) {
	d := events.NewInMemoryDispatcher()
	var got []string

	d.Subscribe(events.EventCartUpdated, func(_ context.Context, e events.Event) error {
		got = append(got, "first:"+e.Payload.(string))
		return nil
	})
	d.Subscribe(events.EventCartUpdated, func(_ context.Context, e events.Event) error {
		got = append(got, "second:"+e.Payload.(string))
		return nil
	})
	d.Subscribe(events.EventUserRegistered, func(context.Context, events.Event) error {
		got = append(got, "wrong type")
		return nil
	})

	err := d.Publish(context.Background(), events.Event{Type: events.EventCartUpdated, Payload: "x"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"first:x", "second:x"}, got)
}

func TestDispatcher_ErrorsDoNotStopDelivery(t *testing.T) {
	d := events.NewInMemoryDispatcher()
	boom := errors.New("boom")
	delivered := false

	d.Subscribe(events.EventUserLoggedIn, func(context.Context, events.Event) error { return boom })
	d.Subscribe(events.EventUserLoggedIn, func(context.Context, events.Event) error {
		delivered = true
		return nil
	})

	err := d.Publish(context.Background(), events.Event{Type: events.EventUserLoggedIn})
	assert.ErrorIs(t, err, boom)
	assert.True(t, delivered)
}

func TestDispatcher_Unsubscribe(t *testing.T) {
	d := events.NewInMemoryDispatcher()
	calls := 0
	unsubscribe := d.Subscribe(events.EventCartUpdated, func(context.Context, events.Event) error {
		calls++
		return nil
	})

	_ = d.Publish(context.Background(), events.Event{Type: events.EventCartUpdated})
	unsubscribe()
	unsubscribe()
	_ = d.Publish(context.Background(), events.Event{Type: events.EventCartUpdated})

	assert.Equal(t, 1, calls)
}

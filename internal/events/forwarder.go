package events

import (
	"context"

	"go.uber.org/zap"
)

// Publisher sends an event to an external broker.
type Publisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Forward subscribes pub to every given event type. Broker failures are logged
// and never reach the publisher of the original event.
func Forward(d Dispatcher, pub Publisher, logger *zap.Logger, types ...EventType) (unsubscribe func()) {
	unsubs := make([]func(), 0, len(types))
	for _, t := range types {
		unsubs = append(unsubs, d.Subscribe(t, func(_ context.Context, e Event) error {
			if err := pub.PublishJSON(string(e.Type), e); err != nil {
				logger.Warn("failed to forward event", zap.String("event", string(e.Type)), zap.Error(err))
			}
			return nil
		}))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

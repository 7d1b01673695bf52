package events

import (
	"context"

	"go.uber.org/zap"
)

// Publisher defines the interface for publishing domain events
type Publisher interface {
	// Publish publishes an event to the message broker
	Publish(ctx context.Context, exchange string, event *Event, headers Headers) error

	// Close closes the publisher connection
	Close() error
}

// Emit publishes a v1 event on the category exchange. A nil publisher is a
// no-op and publish failures are only logged: the write has already committed.
func Emit(ctx context.Context, publisher Publisher, service, eventName string, payload interface{}) {
	if publisher == nil {
		return
	}

	headers := NewHeaders(service)
	event := NewEvent(eventName, EventVersionV1, payload, headers)

	if err := publisher.Publish(ctx, CategoryExchange, event, headers); err != nil {
		zap.L().Error("Failed to publish event",
			zap.String("event", eventName),
			zap.String("traceId", headers.TraceID),
			zap.Error(err),
		)
	}
}

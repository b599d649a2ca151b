package events

import (
	"context"
	"time"
)

//go:generate go tool mockgen -destination=./mocks/mock_events.go -package=mocks github.com/txkit-go/txkit/transaction/events IHandlerSource,IDeduplicationStore,IEventPublisher
//go:generate go tool mockgen -destination=./mock_test.go -package=events github.com/txkit-go/txkit/transaction/events IHandlerSource,IDeduplicationStore,IEventPublisher

// IHandlerSource answers whether anything consumes a given event type. Sources may be
// local registries or remote subscription catalogues.
type IHandlerSource interface {
	HasHandlers(ctx context.Context, eventType string) (bool, error)
}

// IDeduplicationStore remembers which events were published. Implementations must be
// safe for concurrent use; marking an already marked event must keep the original
// publication time.
type IDeduplicationStore interface {
	// IsPublished states whether the event was already published.
	IsPublished(ctx context.Context, eventID string) (bool, error)
	// MarkPublished records that the event was published at the given time.
	MarkPublished(ctx context.Context, eventID string, at time.Time) error
	// DeletePublishedBefore forgets events published strictly before cutoff and
	// returns how many were removed.
	DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// IEventPublisher delivers events to the outside world, e.g. a broker producer or a
// webhook dispatcher. Publish must not retry internally unless it can do so without
// duplicating deliveries; the transaction retry layer already re-runs failed attempts.
type IEventPublisher interface {
	Publish(ctx context.Context, event *EventMessage) error
}

package events

import (
	"context"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v3"
	"github.com/sasha-s/go-deadlock"

	"github.com/txkit-go/txkit/collection"
	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/parallelisation"
)

var _ IHandlerSource = (*HandlerRegistry)(nil)

// HandlerRegistry tracks which consumers subscribe to which event types. A
// subscription is either an exact type ("user.created") or a doublestar pattern
// ("user.*", "billing.invoice.**").
type HandlerRegistry struct {
	mu            deadlock.RWMutex
	subscriptions map[string][]string
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		subscriptions: map[string][]string{},
	}
}

// Subscribe records that consumer handles the event types matching patterns, merging
// with any previous subscription of the same consumer.
func (r *HandlerRegistry) Subscribe(consumer string, patterns ...string) error {
	if strings.TrimSpace(consumer) == "" {
		return commonerrors.New(commonerrors.ErrInvalid, "consumers must be named")
	}
	if len(patterns) == 0 {
		return commonerrors.Newf(commonerrors.ErrInvalid, "consumer [%v] must subscribe to at least one event type", consumer)
	}
	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			return commonerrors.Newf(commonerrors.ErrInvalid, "consumer [%v] cannot subscribe to a blank event type", consumer)
		}
		if _, err := doublestar.Match(pattern, ""); err != nil {
			return commonerrors.WrapErrorf(commonerrors.ErrInvalid, err, "consumer [%v] subscribed to a malformed pattern [%v]", consumer, pattern)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscriptions[consumer] = collection.Union(r.subscriptions[consumer], patterns)
	return nil
}

// Unsubscribe drops every subscription of consumer.
func (r *HandlerRegistry) Unsubscribe(consumer string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subscriptions, consumer)
}

// HasHandlers states whether at least one consumer subscribes to eventType.
func (r *HandlerRegistry) HasHandlers(ctx context.Context, eventType string) (bool, error) {
	handlers, err := r.Handlers(ctx, eventType)
	if err != nil {
		return false, err
	}
	return len(handlers) > 0, nil
}

// Handlers returns the names of the consumers subscribing to eventType, sorted.
func (r *HandlerRegistry) Handlers(ctx context.Context, eventType string) ([]string, error) {
	err := parallelisation.DetermineContextError(ctx)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var handlers []string
	for consumer, patterns := range r.subscriptions {
		for _, pattern := range patterns {
			if matchesEventType(pattern, eventType) {
				handlers = append(handlers, consumer)
				break
			}
		}
	}
	slices.Sort(handlers)
	return handlers, nil
}

func matchesEventType(pattern, eventType string) bool {
	if pattern == eventType {
		return true
	}
	// Patterns were vetted at subscription time.
	matched, err := doublestar.Match(pattern, eventType)
	return err == nil && matched
}

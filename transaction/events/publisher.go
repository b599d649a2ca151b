package events

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/transaction"
)

var _ transaction.IAdapter = (*PublishingAdapter)(nil)

// PublishingAdapter publishes the staged events during PRE_COMMIT: check the
// deduplication store, publish, then mark. Marking only after a successful publish
// means a crash in between risks a duplicate on the next attempt, never a lost event.
// The adapter is critical since an unpublished event under a committed transaction
// would be exactly such a loss.
type PublishingAdapter struct {
	logger    logr.Logger
	publisher IEventPublisher
	store     IDeduplicationStore
	priority  int
}

func NewPublishingAdapter(logger logr.Logger, publisher IEventPublisher, store IDeduplicationStore, priority int) (*PublishingAdapter, error) {
	if publisher == nil {
		return nil, commonerrors.UndefinedVariable("event publisher")
	}
	if store == nil {
		return nil, commonerrors.UndefinedVariable("deduplication store")
	}
	return &PublishingAdapter{
		logger:    logger,
		publisher: publisher,
		store:     store,
		priority:  priority,
	}, nil
}

func (a *PublishingAdapter) Name() string {
	return "event-publisher"
}

func (a *PublishingAdapter) Priority() int {
	return a.priority
}

func (a *PublishingAdapter) IsCritical() bool {
	return true
}

func (a *PublishingAdapter) Phases() []transaction.Phase {
	return []transaction.Phase{transaction.PhasePreCommit}
}

func (a *PublishingAdapter) Execute(ctx context.Context, _ transaction.Phase, scope *transaction.WorkflowScope) error {
	if scope == nil {
		return commonerrors.UndefinedVariable("workflow scope")
	}
	logger := a.logger.WithValues("workflow", scope.WorkflowID())
	for _, event := range StagedEvents(scope) {
		published, err := a.store.IsPublished(ctx, event.ID)
		if err != nil {
			return commonerrors.WrapIfNotCommonError(commonerrors.ErrUnexpected, err, fmt.Sprintf("could not check whether event [%v] was already published", event.ID))
		}
		if published {
			logger.Info("skipping the already published event", "event", event.ID, "type", event.Type)
			continue
		}
		err = commonerrors.ConvertContextError(a.publisher.Publish(ctx, event))
		if err != nil {
			return commonerrors.WrapIfNotCommonError(commonerrors.ErrUnexpected, err, fmt.Sprintf("could not publish event [%v] of type [%v]", event.ID, event.Type))
		}
		err = a.store.MarkPublished(ctx, event.ID, time.Now().UTC())
		if err != nil {
			return commonerrors.WrapIfNotCommonError(commonerrors.ErrUnexpected, err, fmt.Sprintf("could not mark event [%v] as published", event.ID))
		}
	}
	return nil
}

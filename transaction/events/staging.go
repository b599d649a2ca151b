package events

import (
	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/transaction"
)

// scopeKeyStagedEvents is where the unit of work shares staged events with the
// pre-commit adapters.
const scopeKeyStagedEvents = "events.staged"

// StageEvents queues events on the scope for publication at pre-commit. Staged events
// live and die with the attempt: a retried attempt stages its own.
func StageEvents(scope *transaction.WorkflowScope, events ...*EventMessage) error {
	if scope == nil {
		return commonerrors.UndefinedVariable("workflow scope")
	}
	for _, event := range events {
		if event == nil {
			return commonerrors.UndefinedVariable("event")
		}
		if err := event.Validate(); err != nil {
			return commonerrors.WrapError(commonerrors.ErrInvalid, err, "invalid event")
		}
	}
	scope.SetValue(scopeKeyStagedEvents, append(StagedEvents(scope), events...))
	return nil
}

// StagedEvents returns the events staged on the scope so far, in staging order.
func StagedEvents(scope *transaction.WorkflowScope) []*EventMessage {
	if scope == nil {
		return nil
	}
	raw, found := scope.Value(scopeKeyStagedEvents)
	if !found {
		return nil
	}
	staged, ok := raw.([]*EventMessage)
	if !ok {
		return nil
	}
	return staged
}

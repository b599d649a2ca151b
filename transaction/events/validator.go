package events

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/parallelisation"
	"github.com/txkit-go/txkit/transaction"
)

// ValidationResult is the outcome of validating one event before publication.
type ValidationResult struct {
	Valid       bool
	ErrorDetail string
}

// EventPublishingValidator refuses events nothing consumes: an event published into
// the void is almost always a naming mistake, and cheaper to catch before the commit
// than in production dashboards.
type EventPublishingValidator struct {
	logger logr.Logger
	source IHandlerSource
}

func NewEventPublishingValidator(logger logr.Logger, source IHandlerSource) (*EventPublishingValidator, error) {
	if source == nil {
		return nil, commonerrors.UndefinedVariable("handler source")
	}
	return &EventPublishingValidator{
		logger: logger,
		source: source,
	}, nil
}

// Validate checks that event can be published. A missing consumer yields an invalid
// result, not an error; errors mean the check itself could not run.
func (v *EventPublishingValidator) Validate(ctx context.Context, event *EventMessage) (result ValidationResult, err error) {
	err = parallelisation.DetermineContextError(ctx)
	if err != nil {
		return
	}
	if event == nil {
		err = commonerrors.UndefinedVariable("event")
		return
	}
	err = event.Validate()
	if err != nil {
		err = commonerrors.WrapError(commonerrors.ErrInvalid, err, "invalid event")
		return
	}
	found, err := v.source.HasHandlers(ctx, event.Type)
	if err != nil {
		err = commonerrors.WrapIfNotCommonError(commonerrors.ErrUnexpected, err, fmt.Sprintf("could not determine the handlers for event type [%v]", event.Type))
		return
	}
	if !found {
		v.logger.Info("rejecting an event without handlers", "event", event.ID, "type", event.Type)
		result = ValidationResult{ErrorDetail: fmt.Sprintf("no handlers registered for event type [%v]", event.Type)}
		return
	}
	result = ValidationResult{Valid: true}
	return
}

var _ transaction.IAdapter = (*ValidationAdapter)(nil)

// ValidationAdapter validates every staged event during PRE_COMMIT_VALIDATION. It is
// critical: a single unconsumable event aborts the transaction before any side effect
// of the PRE_COMMIT phase happens.
type ValidationAdapter struct {
	validator *EventPublishingValidator
	priority  int
}

func NewValidationAdapter(validator *EventPublishingValidator, priority int) (*ValidationAdapter, error) {
	if validator == nil {
		return nil, commonerrors.UndefinedVariable("event validator")
	}
	return &ValidationAdapter{
		validator: validator,
		priority:  priority,
	}, nil
}

func (a *ValidationAdapter) Name() string {
	return "event-validation"
}

func (a *ValidationAdapter) Priority() int {
	return a.priority
}

func (a *ValidationAdapter) IsCritical() bool {
	return true
}

func (a *ValidationAdapter) Phases() []transaction.Phase {
	return []transaction.Phase{transaction.PhasePreCommitValidation}
}

func (a *ValidationAdapter) Execute(ctx context.Context, _ transaction.Phase, scope *transaction.WorkflowScope) error {
	for _, event := range StagedEvents(scope) {
		result, err := a.validator.Validate(ctx, event)
		if err != nil {
			return commonerrors.WrapErrorf(commonerrors.ErrEventValidation, err, "could not validate event [%v]", event.ID)
		}
		if !result.Valid {
			return commonerrors.WrapErrorf(commonerrors.ErrEventValidation,
				commonerrors.New(commonerrors.ErrNoHandlers, result.ErrorDetail),
				"event [%v] of type [%v] cannot be published", event.ID, event.Type)
		}
	}
	return nil
}

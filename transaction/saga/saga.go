package saga

import (
	"context"
	"strings"

	"github.com/go-logr/logr"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/idgen"
	"github.com/txkit-go/txkit/parallelisation"
	"github.com/txkit-go/txkit/transaction"
	"github.com/txkit-go/txkit/transaction/workflow"
)

// recordedStep is a completed step held for compensation.
type recordedStep struct {
	name       string
	result     any
	compensate CompensateFunc
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithSagaID pins the saga identifier instead of generating one, e.g. to drive the saga
// under the workflow record of a previous process.
func WithSagaID(sagaID string) Option {
	return func(o *Orchestrator) {
		o.sagaID = sagaID
	}
}

// WithConfiguration sets the transaction configuration every step's coordinator run
// uses. Nil keeps the coordinator default.
func WithConfiguration(cfg *transaction.TransactionConfiguration) Option {
	return func(o *Orchestrator) {
		o.cfg = cfg
	}
}

// Orchestrator drives saga steps through a transaction coordinator, one coordinator run
// per step, all scoped to the saga's identifier. The first failing step compensates the
// completed steps in reverse order; compensation failures are recorded and never stop
// the sweep. An orchestrator drives exactly one saga and is owned by a single caller.
type Orchestrator struct {
	logger       logr.Logger
	coordinator  *transaction.TransactionCoordinator
	cfg          *transaction.TransactionConfiguration
	sagaID       string
	state        *SagaContext
	compensation *parallelisation.ExecutionGroup[*recordedStep]
}

// NewOrchestrator returns an orchestrator for one new saga. Without WithSagaID the saga
// gets a generated identifier.
func NewOrchestrator(logger logr.Logger, coordinator *transaction.TransactionCoordinator, options ...Option) (*Orchestrator, error) {
	if coordinator == nil {
		return nil, commonerrors.UndefinedVariable("transaction coordinator")
	}
	orchestrator := &Orchestrator{
		logger:      logger,
		coordinator: coordinator,
	}
	for _, option := range options {
		if option != nil {
			option(orchestrator)
		}
	}
	if strings.TrimSpace(orchestrator.sagaID) == "" {
		sagaID, err := idgen.GenerateTimeOrderedUUID()
		if err != nil {
			return nil, err
		}
		orchestrator.sagaID = sagaID
	}
	orchestrator.state = newSagaContext(orchestrator.sagaID)
	orchestrator.compensation = parallelisation.NewExecutionGroup[*recordedStep](func(ctx context.Context, step *recordedStep) error {
		if step == nil {
			return commonerrors.UndefinedVariable("saga step")
		}
		if step.compensate == nil {
			return nil
		}
		err := compensateStep(ctx, step)
		if err != nil {
			err = commonerrors.WrapErrorf(commonerrors.ErrUndoFailure, err, "compensation of step [%v] failed", step.name)
			orchestrator.state.recordError(err)
			orchestrator.logger.Error(err, "saga compensation failed", "saga", orchestrator.sagaID, "step", step.name)
		}
		return err
	}, parallelisation.JoinErrors, parallelisation.SequentialInReverse, parallelisation.OnlyOnce)
	return orchestrator, nil
}

// compensateStep runs one step's compensation, turning a panic into an error so one
// misbehaving compensation cannot abort the sweep.
func compensateStep(ctx context.Context, step *recordedStep) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = commonerrors.Newf(commonerrors.ErrUnexpected, "compensation of step [%v] panicked: %v", step.name, recovered)
		}
	}()
	err = commonerrors.ConvertContextError(step.compensate(ctx, step.result))
	return
}

// Context returns the saga's progress record.
func (o *Orchestrator) Context() *SagaContext {
	return o.state
}

// Step drives execute through a coordinator run scoped to the saga and records its
// result for compensation. A nil compensate marks the step as having nothing to undo.
// The first failing step settles the saga: every previously recorded step is compensated
// newest first and the step failure is returned first, joined with any compensation
// failures so the caller can still match the cause.
func (o *Orchestrator) Step(ctx context.Context, name string, execute ExecuteFunc, compensate CompensateFunc) (result any, err error) {
	err = parallelisation.DetermineContextError(ctx)
	if err != nil {
		return
	}
	if strings.TrimSpace(name) == "" {
		err = commonerrors.New(commonerrors.ErrInvalid, "saga steps must be named")
		return
	}
	if execute == nil {
		err = commonerrors.UndefinedVariable("step execution")
		return
	}
	if status := o.state.Status(); status != workflow.StatusStarted {
		err = commonerrors.Newf(commonerrors.ErrConflict, "saga [%v] has already settled as %v", o.sagaID, status)
		return
	}
	result, err = o.coordinator.Run(ctx, o.sagaID, o.cfg, func(runCtx context.Context, _ *transaction.WorkflowScope) (any, error) {
		return execute(runCtx)
	})
	if err != nil {
		result = nil
		err = o.fail(ctx, name, err)
		return
	}
	o.state.recordStep(name, result)
	o.compensation.RegisterFunction(&recordedStep{name: name, result: result, compensate: compensate})
	return
}

// RunStep drives a prepared step.
func (o *Orchestrator) RunStep(ctx context.Context, step ISagaStep) (any, error) {
	if step == nil {
		return nil, commonerrors.UndefinedVariable("saga step")
	}
	return o.Step(ctx, step.Name(), step.Execute, step.Compensate)
}

// fail compensates the recorded steps newest first and settles the saga. The sweep runs
// detached from the caller's context: a cancelled step must still unwind.
func (o *Orchestrator) fail(ctx context.Context, name string, cause error) error {
	o.logger.Error(cause, "saga step failed, compensating the completed steps", "saga", o.sagaID, "step", name, "completed", len(o.state.Steps()))
	o.state.setStatus(workflow.StatusCompensating)
	sweepErr := o.compensation.Execute(context.WithoutCancel(ctx))
	status := o.state.settleCompensation()
	o.logger.Info("saga settled", "saga", o.sagaID, "status", status)
	return commonerrors.Join(cause, sweepErr)
}

// Commit settles the saga as COMMITTED when every step succeeded. A saga that already
// settled keeps its verdict, so calling Commit again just returns it. A sweep
// interrupted mid-compensation is finished first, skipping the steps already undone.
func (o *Orchestrator) Commit(ctx context.Context) (workflow.Status, error) {
	err := parallelisation.DetermineContextError(ctx)
	if err != nil {
		return o.state.Status(), err
	}
	switch status := o.state.Status(); status {
	case workflow.StatusStarted:
		o.state.setStatus(workflow.StatusCommitted)
		o.logger.Info("saga committed", "saga", o.sagaID, "steps", len(o.state.Steps()))
		return workflow.StatusCommitted, nil
	case workflow.StatusCompensating:
		sweepErr := o.compensation.Execute(context.WithoutCancel(ctx))
		return o.state.settleCompensation(), sweepErr
	default:
		return status, nil
	}
}

// Step drives execute through orchestrator preserving the step result type; compensate
// receives the typed result when the saga later unwinds. See Orchestrator.Step for the
// semantics.
func Step[T any](ctx context.Context, orchestrator *Orchestrator, name string, execute func(context.Context) (T, error), compensate func(context.Context, T) error) (result T, err error) {
	if orchestrator == nil {
		err = commonerrors.UndefinedVariable("saga orchestrator")
		return
	}
	if execute == nil {
		err = commonerrors.UndefinedVariable("step execution")
		return
	}
	var compensation CompensateFunc
	if compensate != nil {
		compensation = func(ctx context.Context, raw any) error {
			typed, ok := raw.(T)
			if !ok {
				return commonerrors.Newf(commonerrors.ErrUnexpected, "step [%v] recorded an unexpected result type %T", name, raw)
			}
			return compensate(ctx, typed)
		}
	}
	raw, err := orchestrator.Step(ctx, name, func(ctx context.Context) (any, error) {
		return execute(ctx)
	}, compensation)
	if err != nil || raw == nil {
		return
	}
	typed, ok := raw.(T)
	if !ok {
		err = commonerrors.Newf(commonerrors.ErrUnexpected, "step [%v] returned an unexpected type %T", name, raw)
		return
	}
	result = typed
	return
}

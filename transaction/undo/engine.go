package undo

import (
	"context"
	"slices"
	"time"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-multierror"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/parallelisation"
	"github.com/txkit-go/txkit/reflection"
	"github.com/txkit-go/txkit/retry"
	"github.com/txkit-go/txkit/transaction"
	"github.com/txkit-go/txkit/transaction/workflow"
)

const (
	defaultUndoAttempts     = 3
	defaultUndoInitialDelay = 100 * time.Millisecond
	defaultUndoMaxDelay     = 2 * time.Second
	defaultUndoJitter       = 0.25
)

// UndoResult sums up one sweep. Operations already marked UNDONE are skipped and
// count towards neither tally.
type UndoResult struct {
	// Succeeded counts the operations whose inverse was applied.
	Succeeded int
	// Failed counts the operations which stayed in place.
	Failed int
	// ErrorsByOperation maps the sequence numbers which could not be undone to what
	// went wrong.
	ErrorsByOperation map[uint64]error
}

// Err combines the per operation failures into one error, newest operation first,
// or returns nil for a clean sweep.
func (r *UndoResult) Err() error {
	if r == nil || len(r.ErrorsByOperation) == 0 {
		return nil
	}
	sequences := make([]uint64, 0, len(r.ErrorsByOperation))
	for sequence := range r.ErrorsByOperation {
		sequences = append(sequences, sequence)
	}
	slices.Sort(sequences)
	slices.Reverse(sequences)
	var sweepErr *multierror.Error
	for _, sequence := range sequences {
		sweepErr = multierror.Append(sweepErr, commonerrors.WrapErrorf(commonerrors.ErrUndoFailure, r.ErrorsByOperation[sequence], "operation [%v] was not undone", sequence))
	}
	return sweepErr.ErrorOrNil()
}

// Engine replays a workflow's recorded operations newest first, resolving an undo
// strategy for each and retrying every invocation under the configured policy
// before counting it failed. Sweeps are best-effort: one stubborn operation never
// stops the remaining ones from being tried. The engine is the compensator
// coordinators and recovery scans are wired with.
type Engine struct {
	logger   logr.Logger
	store    workflow.IStore
	registry *StrategyRegistry
	policy   retry.IRetryPolicy
	source   IOperationSource
}

var _ transaction.ICompensator = (*Engine)(nil)

// EngineOption tweaks an engine.
type EngineOption func(*Engine)

// WithRetryPolicy overrides the policy wrapped around every strategy invocation.
func WithRetryPolicy(policy retry.IRetryPolicy) EngineOption {
	return func(e *Engine) {
		if e == nil || policy == nil {
			return
		}
		e.policy = policy
	}
}

// WithOperationSource overrides where sweeps read operations from; the default
// reads the store. Wire a RecorderSource when the failing attempt's rows may still
// be in flight to the store.
func WithOperationSource(source IOperationSource) EngineOption {
	return func(e *Engine) {
		if e == nil || source == nil {
			return
		}
		e.source = source
	}
}

// NewEngine returns an engine sweeping operations from store with the strategies
// registered in registry. The default retry policy backs off exponentially on the
// transient error categories.
func NewEngine(logger logr.Logger, store workflow.IStore, registry *StrategyRegistry, options ...EngineOption) (*Engine, error) {
	if store == nil {
		return nil, commonerrors.UndefinedVariable("workflow store")
	}
	if registry == nil {
		return nil, commonerrors.UndefinedVariable("strategy registry")
	}
	engine := &Engine{
		logger:   logger,
		store:    store,
		registry: registry,
		policy:   retry.NewExponentialBackoffPolicy(defaultUndoInitialDelay, defaultUndoMaxDelay, defaultUndoJitter, defaultUndoAttempts, nil),
		source:   &storeSource{store: store},
	}
	for i := range options {
		options[i](engine)
	}
	return engine, nil
}

// UndoWorkflow sweeps every operation recorded for workflowID, newest first.
func (e *Engine) UndoWorkflow(ctx context.Context, workflowID string) (*UndoResult, error) {
	err := checkEngineArguments(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	operations, err := e.source.OperationsDescending(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	return e.UndoOperations(ctx, workflowID, operations)
}

// UndoOperations sweeps the supplied operations, which must come ordered newest
// first. A cancelled context stops the sweep and returns the partial result
// alongside the context error; everything else is collected per operation.
func (e *Engine) UndoOperations(ctx context.Context, workflowID string, operationsDescending []*workflow.Operation) (*UndoResult, error) {
	err := checkEngineArguments(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	logger := e.logger.WithValues("workflow", workflowID)
	logger.Info("undoing the recorded operations", "count", len(operationsDescending))
	result := &UndoResult{ErrorsByOperation: make(map[uint64]error)}
	for i := range operationsDescending {
		err = parallelisation.DetermineContextError(ctx)
		if err != nil {
			return result, err
		}
		operation := operationsDescending[i]
		if operation == nil || operation.Status == workflow.OperationUndone {
			continue
		}
		err = e.undoOne(ctx, logger, workflowID, operation)
		if err != nil {
			result.Failed++
			result.ErrorsByOperation[operation.Sequence] = err
			e.markOperation(ctx, logger, workflowID, operation.Sequence, workflow.OperationFailedUndo)
			continue
		}
		result.Succeeded++
		e.markOperation(ctx, logger, workflowID, operation.Sequence, workflow.OperationUndone)
	}
	logger.Info("undo sweep finished", "succeeded", result.Succeeded, "failed", result.Failed)
	return result, nil
}

func (e *Engine) undoOne(ctx context.Context, logger logr.Logger, workflowID string, operation *workflow.Operation) error {
	if operation.WorkflowID != workflowID {
		return commonerrors.Newf(commonerrors.ErrInvalid, "operation [%v] belongs to workflow [%v]", operation.Sequence, operation.WorkflowID)
	}
	err := operation.VerifyIntegrity()
	if err != nil {
		return err
	}
	strategy := e.registry.Resolve(operation.Kind, operation.ResourceKind)
	return retry.Execute(ctx, logger.WithValues("sequence", operation.Sequence, "strategy", strategy.Name()), e.policy, func(retryCtx context.Context) error {
		return strategy.Undo(retryCtx, operation)
	}, "could not undo the operation")
}

// markOperation records the outcome of one undo. A lost mark only risks a
// redundant repeat, which strategies tolerate, so failures are logged and the
// sweep keeps going.
func (e *Engine) markOperation(ctx context.Context, logger logr.Logger, workflowID string, sequence uint64, status workflow.OperationStatus) {
	err := e.store.UpdateOperationStatus(ctx, workflowID, sequence, status)
	if err != nil {
		logger.Error(err, "could not record the outcome of an undo", "sequence", sequence, "status", status)
	}
}

// CompensateWorkflow sweeps everything recorded for workflowID and settles the
// workflow record with the verdict: COMPENSATED when every operation was undone,
// FAILED_COMPENSATION otherwise. An unsettled record stays COMPENSATING and is
// picked up again by the next recovery scan.
func (e *Engine) CompensateWorkflow(ctx context.Context, workflowID string) error {
	err := checkEngineArguments(ctx, workflowID)
	if err != nil {
		return err
	}
	logger := e.logger.WithValues("workflow", workflowID)
	err = e.store.UpdateWorkflowStatus(ctx, workflowID, workflow.StatusUpdate{Status: workflow.StatusCompensating})
	if err != nil {
		// The sweep still runs; the mark is visibility, not a precondition.
		logger.Error(err, "could not mark the workflow as compensating")
	}
	result, err := e.UndoWorkflow(ctx, workflowID)
	if err != nil {
		return err
	}
	sweepErr := result.Err()
	now := time.Now().UTC()
	update := workflow.StatusUpdate{Status: workflow.StatusCompensated, CompletedAt: &now}
	if result.Failed > 0 {
		update.Status = workflow.StatusFailedCompensation
		update.ErrorMessage = sweepErr.Error()
	}
	err = e.store.UpdateWorkflowStatus(ctx, workflowID, update)
	if err != nil {
		return commonerrors.WrapErrorf(commonerrors.ErrUnexpected, err, "the undo sweep of workflow [%v] finished but its verdict could not be recorded", workflowID)
	}
	return sweepErr
}

func checkEngineArguments(ctx context.Context, workflowID string) error {
	err := parallelisation.DetermineContextError(ctx)
	if err != nil {
		return err
	}
	if reflection.IsEmpty(workflowID) {
		return commonerrors.New(commonerrors.ErrInvalid, "workflows must have an identifier")
	}
	return nil
}

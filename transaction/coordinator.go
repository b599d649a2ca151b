package transaction

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/idgen"
	"github.com/txkit-go/txkit/parallelisation"
	"github.com/txkit-go/txkit/retry"
)

// UnitOfWork is the business logic driven through the lifecycle, returning a typed
// result. It must be idempotent under retry, or scoped to the native transaction so
// that a rollback atomically discards its effects.
type UnitOfWork[T any] func(ctx context.Context, scope *WorkflowScope) (T, error)

// UnitOfWorkFunc is the untyped unit of work accepted by the coordinator method form.
type UnitOfWorkFunc func(ctx context.Context, scope *WorkflowScope) (any, error)

// CoordinatorOption customises a TransactionCoordinator.
type CoordinatorOption func(*TransactionCoordinator)

// WithWorkflowTracker makes the coordinator maintain a workflow record for every run.
func WithWorkflowTracker(tracker IWorkflowTracker) CoordinatorOption {
	return func(c *TransactionCoordinator) {
		c.tracker = tracker
	}
}

// WithCompensator makes the failure path of every attempt compensate the operations
// already recorded for the workflow.
func WithCompensator(compensator ICompensator) CoordinatorOption {
	return func(c *TransactionCoordinator) {
		c.compensator = compensator
	}
}

// WithErrorClassifier overrides the classification deciding which attempt errors are
// worth retrying.
func WithErrorClassifier(classifier *retry.ErrorClassifier) CoordinatorOption {
	return func(c *TransactionCoordinator) {
		c.classifier = classifier
	}
}

// TransactionCoordinator drives units of work through the lifecycle
// BEGIN → AFTER_BEGIN → unit of work → PRE_COMMIT_VALIDATION → PRE_COMMIT →
// native commit → AFTER_COMMIT, unwinding through ON_ROLLBACK and AFTER_ROLLBACK on
// failure. A coordinator is safe for concurrent use; each Run is independent.
type TransactionCoordinator struct {
	logger      logr.Logger
	executor    IResourceExecutor
	registry    *AdapterRegistry
	classifier  *retry.ErrorClassifier
	tracker     IWorkflowTracker
	compensator ICompensator
}

// NewTransactionCoordinator returns a coordinator driving executor. A nil registry is
// replaced with an empty one.
func NewTransactionCoordinator(logger logr.Logger, executor IResourceExecutor, registry *AdapterRegistry, opts ...CoordinatorOption) (*TransactionCoordinator, error) {
	if executor == nil {
		return nil, commonerrors.UndefinedVariable("resource executor")
	}
	if registry == nil {
		registry = NewAdapterRegistry(logger)
	}
	coordinator := &TransactionCoordinator{
		logger:   logger,
		executor: executor,
		registry: registry,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(coordinator)
		}
	}
	return coordinator, nil
}

// Registry returns the adapter registry the coordinator executes phases through.
func (c *TransactionCoordinator) Registry() *AdapterRegistry {
	return c.registry
}

// Run drives unitOfWork through the transaction lifecycle described by cfg. An empty
// workflowID gets a generated one; a nil cfg falls back to
// DefaultTransactionConfiguration. Each attempt runs under its own deadline derived
// from cfg.Timeout and the whole lifecycle re-enters from BEGIN on retry. Run fails
// with a timeout error, a critical adapter error, or the unit of work error unchanged
// (unwinding errors are joined behind it, never masking it).
func (c *TransactionCoordinator) Run(ctx context.Context, workflowID string, cfg *TransactionConfiguration, unitOfWork UnitOfWorkFunc) (result any, err error) {
	err = parallelisation.DetermineContextError(ctx)
	if err != nil {
		return
	}
	if unitOfWork == nil {
		err = commonerrors.UndefinedVariable("unit of work")
		return
	}
	if cfg == nil {
		cfg = DefaultTransactionConfiguration()
	}
	err = cfg.Validate()
	if err != nil {
		err = commonerrors.WrapError(commonerrors.ErrInvalid, err, "invalid transaction configuration")
		return
	}
	if strings.TrimSpace(workflowID) == "" {
		// Time ordered identifiers keep the stored records roughly in key order.
		workflowID, err = idgen.GenerateTimeOrderedUUID()
		if err != nil {
			return
		}
	}
	policy, err := retry.NewPolicyFromConfiguration(cfg.Retry, c.classifier)
	if err != nil {
		return
	}
	logger := c.logger.WithValues("workflow", workflowID)
	if c.tracker != nil {
		err = commonerrors.WrapIfNotCommonError(commonerrors.ErrUnexpected, c.tracker.WorkflowStarted(ctx, workflowID), "could not record the workflow start")
		if err != nil {
			return
		}
	}
	attempt := uint(0)
	err = retry.Execute(ctx, logger, policy, func(runCtx context.Context) error {
		attempt++
		attemptResult, attemptErr := c.attempt(runCtx, logger, workflowID, attempt, cfg, unitOfWork)
		if attemptErr != nil {
			return attemptErr
		}
		result = attemptResult
		return nil
	}, fmt.Sprintf("transaction attempt against workflow [%v] failed", workflowID))
	if err != nil {
		result = nil
	}
	if c.tracker != nil {
		c.track(ctx, logger, workflowID, err)
	}
	return
}

func (c *TransactionCoordinator) track(ctx context.Context, logger logr.Logger, workflowID string, runErr error) {
	trackingCtx := context.WithoutCancel(ctx)
	var err error
	if runErr == nil {
		err = c.tracker.WorkflowCommitted(trackingCtx, workflowID)
	} else {
		err = c.tracker.WorkflowFailed(trackingCtx, workflowID, runErr)
	}
	if err != nil {
		logger.Error(err, "could not update the workflow record")
	}
}

func (c *TransactionCoordinator) attempt(ctx context.Context, logger logr.Logger, workflowID string, attempt uint, cfg *TransactionConfiguration, unitOfWork UnitOfWorkFunc) (result any, err error) {
	attemptCtx := ctx
	cancel := context.CancelFunc(func() {})
	if cfg.Timeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
	}
	defer cancel()
	scope := NewWorkflowScope(workflowID, attempt)
	logger = logger.WithValues("attempt", attempt)
	begun := false
	fail := func(cause error) error {
		// Unwinding runs detached from the attempt deadline: an expired deadline is
		// often the very failure being unwound.
		return c.failAttempt(context.WithoutCancel(ctx), logger, scope, begun, cause)
	}

	if summary := c.registry.Execute(attemptCtx, PhaseBegin, scope, false); summary.HasCriticalFailure() {
		err = fail(summary.CriticalFailure())
		return
	}
	if summary := c.registry.Execute(attemptCtx, PhaseAfterBegin, scope, false); summary.HasCriticalFailure() {
		err = fail(summary.CriticalFailure())
		return
	}
	err = commonerrors.ConvertContextError(c.executor.BeginNative(attemptCtx))
	if err != nil {
		err = fail(commonerrors.WrapIfNotCommonError(commonerrors.ErrUnexpected, err, "could not begin the native transaction"))
		return
	}
	begun = true
	result, err = unitOfWork(attemptCtx, scope)
	if err != nil {
		result = nil
		err = fail(commonerrors.ConvertContextError(err))
		return
	}
	if summary := c.registry.Execute(attemptCtx, PhasePreCommitValidation, scope, true); summary.HasCriticalFailure() {
		result = nil
		err = fail(summary.CriticalFailure())
		return
	}
	if summary := c.registry.Execute(attemptCtx, PhasePreCommit, scope, true); summary.HasCriticalFailure() {
		result = nil
		err = fail(summary.CriticalFailure())
		return
	}
	err = parallelisation.DetermineContextError(attemptCtx)
	if err != nil {
		result = nil
		err = fail(err)
		return
	}
	err = commonerrors.ConvertContextError(c.executor.CommitNative(attemptCtx))
	if err != nil {
		result = nil
		err = fail(commonerrors.WrapIfNotCommonError(commonerrors.ErrUnexpected, err, "could not commit the native transaction"))
		return
	}
	// Post-commit adapters are not bound by the attempt deadline: the commit already
	// happened and nothing can un-commit it. Their failures are recorded and logged by
	// the registry only.
	if summary := c.registry.Execute(ctx, PhaseAfterCommit, scope, false); len(summary.Failures()) > 0 {
		logger.Info("ignoring post commit adapter failures", "failed", len(summary.Failures()))
	}
	return
}

// failAttempt unwinds a failed attempt: native rollback when a native transaction was
// begun, then the rollback phases, then compensation of the operations recorded for the
// workflow. The cause is returned joined with any unwinding errors, cause first, so the
// caller can still match it.
func (c *TransactionCoordinator) failAttempt(ctx context.Context, logger logr.Logger, scope *WorkflowScope, begun bool, cause error) error {
	logger.Error(cause, "transaction attempt failed, rolling back")
	unwinding := make([]error, 0, 4)
	if begun {
		if err := commonerrors.ConvertContextError(c.executor.RollbackNative(ctx)); err != nil {
			unwinding = append(unwinding, commonerrors.WrapIfNotCommonError(commonerrors.ErrUnexpected, err, "native rollback failed"))
		}
	}
	if summary := c.registry.Execute(ctx, PhaseOnRollback, scope, false); summary.HasCriticalFailure() {
		unwinding = append(unwinding, summary.CriticalFailure())
	}
	if summary := c.registry.Execute(ctx, PhaseAfterRollback, scope, false); summary.HasCriticalFailure() {
		unwinding = append(unwinding, summary.CriticalFailure())
	}
	if c.compensator != nil {
		if err := c.compensator.CompensateWorkflow(ctx, scope.WorkflowID()); err != nil {
			unwinding = append(unwinding, commonerrors.WrapIfNotCommonError(commonerrors.ErrUndoFailure, err, "compensation failed"))
		}
	}
	return commonerrors.Join(append([]error{cause}, unwinding...)...)
}

// Run drives unitOfWork through the coordinator's transaction lifecycle, preserving the
// unit of work result type. See TransactionCoordinator.Run for the semantics.
func Run[T any](ctx context.Context, coordinator *TransactionCoordinator, workflowID string, cfg *TransactionConfiguration, unitOfWork UnitOfWork[T]) (result T, err error) {
	if coordinator == nil {
		err = commonerrors.UndefinedVariable("transaction coordinator")
		return
	}
	if unitOfWork == nil {
		err = commonerrors.UndefinedVariable("unit of work")
		return
	}
	raw, err := coordinator.Run(ctx, workflowID, cfg, func(ctx context.Context, scope *WorkflowScope) (any, error) {
		return unitOfWork(ctx, scope)
	})
	if err != nil || raw == nil {
		return
	}
	typed, ok := raw.(T)
	if !ok {
		err = commonerrors.Newf(commonerrors.ErrUnexpected, "the unit of work returned an unexpected type %T", raw)
		return
	}
	result = typed
	return
}

// Package undo replays the operations recorded for a failed workflow backwards,
// applying the inverse of each mutation so a retry re-enters from a clean slate.
// Strategies define what the inverse of an operation is; the engine resolves one
// per operation, drives them newest first and collects whatever could not be
// undone without ever halting the sweep.
package undo

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/parallelisation"
	"github.com/txkit-go/txkit/reflection"
	"github.com/txkit-go/txkit/transaction/workflow"
)

//go:generate go tool mockgen -destination=./mocks/mock_undo.go -package=mocks github.com/txkit-go/txkit/transaction/undo IUndoStrategy,IResourceUndoer,IInverseCaller,IOperationSource
//go:generate go tool mockgen -destination=./mock_test.go -package=undo github.com/txkit-go/txkit/transaction/undo IUndoStrategy,IResourceUndoer,IInverseCaller,IOperationSource

// IUndoStrategy reverts the side effect of one recorded operation. Implementations
// must tolerate being invoked again for an operation already undone: crash recovery
// and lost status marks both lead to repeats.
type IUndoStrategy interface {
	// Name identifies the strategy in logs and results.
	Name() string
	// Undo applies the inverse of operation.
	Undo(ctx context.Context, operation *workflow.Operation) error
}

// IResourceUndoer applies inverse writes to the resource a workflow touched. The
// built-in strategies drive it; implementations are typically thin shims over the
// native store the transaction ran against.
type IResourceUndoer interface {
	// DeleteResource removes the resource an insert wrote.
	DeleteResource(ctx context.Context, resourceKind, resourceID string) error
	// InsertResource restores a deleted resource from its previous image.
	InsertResource(ctx context.Context, resourceKind, resourceID string, previous []byte) error
	// UpdateResource re-applies the previous image of an updated resource.
	UpdateResource(ctx context.Context, resourceKind, resourceID string, previous []byte) error
}

// IInverseCaller performs the inverse of a recorded external call.
type IInverseCaller interface {
	// CallInverse asks the external party to revert what the recorded call did,
	// handing over the operation's undo payload.
	CallInverse(ctx context.Context, operation *workflow.Operation) error
}

// AnyResourceKind registers a strategy for an operation kind regardless of the
// resource kind it acted on.
const AnyResourceKind = ""

type strategyKey struct {
	kind         workflow.OperationKind
	resourceKind string
}

// StrategyRegistry resolves the strategy undoing an operation from its kind and
// resource kind. Resolution prefers an exact (kind, resource kind) registration,
// then a kind-wide one, and finally a no-op which warns and reports success so an
// operation nobody knows how to undo does not pin its workflow in
// FAILED_COMPENSATION forever.
type StrategyRegistry struct {
	strategies *xsync.MapOf[strategyKey, IUndoStrategy]
	fallback   IUndoStrategy
}

// NewStrategyRegistry returns an empty registry falling back to a no-op warning
// through logger.
func NewStrategyRegistry(logger logr.Logger) *StrategyRegistry {
	return &StrategyRegistry{
		strategies: xsync.NewMapOf[strategyKey, IUndoStrategy](),
		fallback:   NewNoOpStrategy(logger),
	}
}

// Register binds strategy to operations of kind acting on resourceKind;
// AnyResourceKind binds it kind-wide. The last registration for a key wins.
func (r *StrategyRegistry) Register(kind workflow.OperationKind, resourceKind string, strategy IUndoStrategy) error {
	if strategy == nil {
		return commonerrors.UndefinedVariable("undo strategy")
	}
	if reflection.IsEmpty(string(kind)) {
		return commonerrors.New(commonerrors.ErrInvalid, "strategies must be registered for an operation kind")
	}
	r.strategies.Store(strategyKey{kind: kind, resourceKind: resourceKind}, strategy)
	return nil
}

// Resolve returns the strategy undoing (kind, resourceKind) operations. It never
// returns nil: unmatched lookups get the no-op fallback.
func (r *StrategyRegistry) Resolve(kind workflow.OperationKind, resourceKind string) IUndoStrategy {
	if strategy, ok := r.strategies.Load(strategyKey{kind: kind, resourceKind: resourceKind}); ok {
		return strategy
	}
	if strategy, ok := r.strategies.Load(strategyKey{kind: kind, resourceKind: AnyResourceKind}); ok {
		return strategy
	}
	return r.fallback
}

type noOpStrategy struct {
	logger logr.Logger
}

// NewNoOpStrategy returns the strategy applied when nothing matches an operation:
// it warns that the side effect stays in place and reports success.
func NewNoOpStrategy(logger logr.Logger) IUndoStrategy {
	return &noOpStrategy{logger: logger}
}

func (s *noOpStrategy) Name() string {
	return "no-op"
}

func (s *noOpStrategy) Undo(ctx context.Context, operation *workflow.Operation) error {
	err := checkUndoArguments(ctx, operation)
	if err != nil {
		return err
	}
	s.logger.Info("WARNING: no undo strategy registered, the side effect stays in place",
		"workflow", operation.WorkflowID, "sequence", operation.Sequence, "kind", operation.Kind, "resource", operation.ResourceKind)
	return nil
}

func checkUndoArguments(ctx context.Context, operation *workflow.Operation) error {
	err := parallelisation.DetermineContextError(ctx)
	if err != nil {
		return err
	}
	if operation == nil {
		return commonerrors.UndefinedVariable("operation")
	}
	return nil
}

package transaction

import (
	"context"
)

//go:generate go tool mockgen -destination=./mocks/mock_transaction.go -package=mocks github.com/txkit-go/txkit/transaction IAdapter,IResourceExecutor,IWorkflowTracker,ICompensator
//go:generate go tool mockgen -destination=./mock_test.go -package=transaction github.com/txkit-go/txkit/transaction IAdapter,IResourceExecutor,IWorkflowTracker,ICompensator

// IAdapter is a lifecycle hook registered with the AdapterRegistry and invoked at each
// phase it subscribes to. Adapters observe or enrich the transaction (auditing,
// validation, event publication, cache invalidation...) but never drive it.
type IAdapter interface {
	// Name identifies the adapter in execution results and logs.
	Name() string
	// Priority orders adapters within a phase: lower values run first, ties run in
	// registration order.
	Priority() int
	// IsCritical states whether a failure of this adapter must abort the attempt.
	IsCritical() bool
	// Phases lists the lifecycle phases the adapter subscribes to.
	Phases() []Phase
	// Execute runs the adapter for phase within scope.
	Execute(ctx context.Context, phase Phase, scope *WorkflowScope) error
}

// IResourceExecutor abstracts the native transactional resource the coordinator drives,
// e.g. a database handle. Implementations must tolerate repeated begin/rollback cycles
// as the coordinator re-enters the whole lifecycle on retry.
type IResourceExecutor interface {
	// BeginNative starts a native transaction.
	BeginNative(ctx context.Context) error
	// CommitNative commits the native transaction.
	CommitNative(ctx context.Context) error
	// RollbackNative discards the native transaction.
	RollbackNative(ctx context.Context) error
}

// IWorkflowTracker persists the lifecycle of coordinated workflows so that crashed or
// failed runs can be found again and compensated.
type IWorkflowTracker interface {
	// WorkflowStarted records that the workflow entered the lifecycle.
	WorkflowStarted(ctx context.Context, workflowID string) error
	// WorkflowCommitted records that the workflow committed.
	WorkflowCommitted(ctx context.Context, workflowID string) error
	// WorkflowFailed records that the workflow failed with cause after exhausting retries.
	WorkflowFailed(ctx context.Context, workflowID string, cause error) error
}

// ICompensator undoes the side effects already recorded for a workflow. It is invoked on
// the failure path of every attempt so that a retry re-enters from a clean slate.
type ICompensator interface {
	CompensateWorkflow(ctx context.Context, workflowID string) error
}

package workflow

import (
	"context"
	"time"

	"github.com/go-logr/logr"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/transaction"
)

var _ transaction.IWorkflowTracker = (*Tracker)(nil)

// Tracker records coordinated workflow lifecycles in a store so crashed or failed runs
// can be found and compensated later. It is what a coordinator gets configured with
// when workflow tracking is on. An optional audit trail mirrors every transition.
type Tracker struct {
	logger logr.Logger
	store  IStore
	audit  *AuditTrail
	name   string
}

// NewTracker returns a tracker persisting to store. name describes the workflows this
// tracker records, for instance the service or saga family; audit may be nil.
func NewTracker(logger logr.Logger, store IStore, audit *AuditTrail, name string) (*Tracker, error) {
	if store == nil {
		return nil, commonerrors.UndefinedVariable("workflow store")
	}
	return &Tracker{logger: logger, store: store, audit: audit, name: name}, nil
}

// WorkflowStarted creates the workflow record, or re-arms it when the identifier is
// already known: a saga drives several coordinator runs under one workflow and each of
// them must leave the record in the STARTED state recovery scans look for.
func (t *Tracker) WorkflowStarted(ctx context.Context, workflowID string) error {
	err := checkWorkflowArguments(ctx, workflowID)
	if err != nil {
		return err
	}
	err = t.store.CreateWorkflow(ctx, NewWorkflow(workflowID, t.name))
	if commonerrors.Any(err, commonerrors.ErrExists) {
		t.logger.V(1).Info("re-arming a known workflow", "workflow", workflowID)
		err = t.store.UpdateWorkflowStatus(ctx, workflowID, StatusUpdate{Status: StatusStarted})
	}
	if err != nil {
		return err
	}
	t.audit.Record(workflowID, StatusStarted, "")
	return nil
}

// WorkflowCommitted records a successful run.
func (t *Tracker) WorkflowCommitted(ctx context.Context, workflowID string) error {
	err := checkWorkflowArguments(ctx, workflowID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	err = t.store.UpdateWorkflowStatus(ctx, workflowID, StatusUpdate{Status: StatusCommitted, CompletedAt: &now})
	if err != nil {
		return err
	}
	t.audit.Record(workflowID, StatusCommitted, "")
	return nil
}

// WorkflowFailed records a run which exhausted its retries. When compensation already
// settled the record its verdict wins; FAILED would throw away the information that the
// side effects were successfully undone.
func (t *Tracker) WorkflowFailed(ctx context.Context, workflowID string, cause error) error {
	err := checkWorkflowArguments(ctx, workflowID)
	if err != nil {
		return err
	}
	current, err := t.store.GetWorkflow(ctx, workflowID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	update := StatusUpdate{Status: StatusFailed, CompletedAt: &now}
	if cause != nil {
		update.ErrorMessage = cause.Error()
	}
	if current.Status == StatusCompensated || current.Status == StatusFailedCompensation {
		update.Status = current.Status
	}
	err = t.store.UpdateWorkflowStatus(ctx, workflowID, update)
	if err != nil {
		return err
	}
	t.audit.Record(workflowID, update.Status, update.ErrorMessage)
	return nil
}

// RecordFailedStep marks which saga step failed. Orchestrators call it before the
// failure itself is recorded.
func (t *Tracker) RecordFailedStep(ctx context.Context, workflowID string, stepIndex int) error {
	err := checkWorkflowArguments(ctx, workflowID)
	if err != nil {
		return err
	}
	if stepIndex < 0 {
		return commonerrors.Newf(commonerrors.ErrInvalid, "step index [%v] cannot be negative", stepIndex)
	}
	current, err := t.store.GetWorkflow(ctx, workflowID)
	if err != nil {
		return err
	}
	return t.store.UpdateWorkflowStatus(ctx, workflowID, StatusUpdate{Status: current.Status, FailedAtStepIndex: &stepIndex})
}

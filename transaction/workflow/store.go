package workflow

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/parallelisation"
	"github.com/txkit-go/txkit/reflection"
)

//go:generate go run go.uber.org/mock/mockgen -destination=./mocks/mock_workflow.go -package=mocks github.com/txkit-go/txkit/transaction/workflow IStore
//go:generate go run go.uber.org/mock/mockgen -destination=./mock_test.go -package=workflow github.com/txkit-go/txkit/transaction/workflow IStore

// StatusUpdate carries the fields a workflow status transition touches. Status is always
// applied; CompletedAt and FailedAtStepIndex only when set; ErrorMessage only when not
// blank. Fields left out therefore keep their stored value.
type StatusUpdate struct {
	Status            Status     `json:"status"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	FailedAtStepIndex *int       `json:"failed_at_step_index,omitempty"`
	ErrorMessage      string     `json:"error_message,omitempty"`
}

// Validate checks the update describes a known transition target.
func (u StatusUpdate) Validate() error {
	err := validation.ValidateStruct(&u,
		validation.Field(&u.Status, validation.Required, validation.In(knownStatuses()...)),
	)
	if err != nil {
		return commonerrors.WrapError(commonerrors.ErrInvalid, err, "invalid status update")
	}
	return nil
}

// IStore is the contract every workflow store backend satisfies. All methods honour
// context cancellation and report failures using common errors so callers can classify
// them for retry.
type IStore interface {
	// CreateWorkflow persists a new workflow record. It returns ErrExists when the
	// identifier is already taken.
	CreateWorkflow(ctx context.Context, w *Workflow) error
	// UpdateWorkflowStatus applies update to the stored workflow. It returns
	// ErrNotFound when the workflow is unknown.
	UpdateWorkflowStatus(ctx context.Context, workflowID string, update StatusUpdate) error
	// GetWorkflow returns a copy of the stored workflow or ErrNotFound.
	GetWorkflow(ctx context.Context, workflowID string) (*Workflow, error)
	// AppendOperation journals op against its workflow and returns the sequence number
	// the store assigned, strictly increasing and gapless per workflow. The passed
	// operation is not mutated. It returns ErrNotFound when the workflow is unknown.
	AppendOperation(ctx context.Context, op *Operation) (uint64, error)
	// UpdateOperationStatus transitions one journalled operation. It returns
	// ErrNotFound when the workflow or the sequence is unknown.
	UpdateOperationStatus(ctx context.Context, workflowID string, sequence uint64, status OperationStatus) error
	// ListOperationsDescending returns the workflow's journal by strictly descending
	// sequence, the order an undo sweep consumes it in.
	ListOperationsDescending(ctx context.Context, workflowID string) ([]*Operation, error)
	// ListWorkflowsByStatus returns up to limit workflows in the given status, oldest
	// first. A non-positive limit means no cap.
	ListWorkflowsByStatus(ctx context.Context, status Status, limit int) ([]*Workflow, error)
	// DeleteCommittedBefore removes committed workflows completed before cutoff
	// together with their journals and returns how many workflows went.
	DeleteCommittedBefore(ctx context.Context, cutoff time.Time) (removed int64, err error)
}

func checkWorkflowArguments(ctx context.Context, workflowID string) error {
	err := parallelisation.DetermineContextError(ctx)
	if err != nil {
		return err
	}
	if reflection.IsEmpty(workflowID) {
		return commonerrors.New(commonerrors.ErrInvalid, "workflows must have an identifier")
	}
	return nil
}

func checkOperationStatus(status OperationStatus) error {
	err := validation.Validate(string(status), validation.Required, validation.In(string(OperationPending), string(OperationCommitted), string(OperationUndone), string(OperationFailedUndo)))
	if err != nil {
		return commonerrors.WrapErrorf(commonerrors.ErrInvalid, err, "unknown operation status [%v]", status)
	}
	return nil
}

// Package workflow persists the durable state of coordinated transactions: one Workflow
// record per run plus an append-only log of Operation rows describing every mutation a
// unit of work performed. The log is what the undo engine replays, newest first, when a
// workflow has to be compensated, and what the recovery scan re-drives after a crash.
//
// Several store backends satisfy the same IStore contract (in-memory, SQLite, file
// journal) and any of them can be wrapped with payload sealing. Writes on the hot path go
// through the asynchronous Recorder so a slow store never blocks a transaction.
package workflow

import (
	"bytes"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/hashing"
)

// Status describes where a workflow sits in its lifecycle.
type Status string

const (
	// StatusStarted marks a workflow whose unit of work is still running. Workflows
	// found in this state on startup are crash leftovers and get compensated.
	StatusStarted Status = "STARTED"
	// StatusCommitted marks a successful run.
	StatusCommitted Status = "COMMITTED"
	// StatusFailed marks a run which failed and for which compensation also reported
	// failures at the saga level.
	StatusFailed Status = "FAILED"
	// StatusCompensating marks a workflow whose undo sweep is in progress.
	StatusCompensating Status = "COMPENSATING"
	// StatusCompensated marks a failed run whose undo sweep fully succeeded.
	StatusCompensated Status = "COMPENSATED"
	// StatusFailedCompensation marks a failed run with at least one undo failure.
	// Workflows in this state need manual intervention.
	StatusFailedCompensation Status = "FAILED_COMPENSATION"
)

// Terminal states whether a workflow expects no further lifecycle transition.
func (s Status) Terminal() bool {
	switch s {
	case StatusCommitted, StatusFailed, StatusCompensated, StatusFailedCompensation:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

func knownStatuses() []any {
	return []any{StatusStarted, StatusCommitted, StatusFailed, StatusCompensating, StatusCompensated, StatusFailedCompensation}
}

// OperationKind states the nature of the mutation an operation recorded. The undo engine
// resolves compensation strategies by (kind, resource kind).
type OperationKind string

const (
	KindInsert       OperationKind = "INSERT"
	KindUpdate       OperationKind = "UPDATE"
	KindDelete       OperationKind = "DELETE"
	KindExternalCall OperationKind = "EXTERNAL_CALL"
)

func knownOperationKinds() []any {
	return []any{KindInsert, KindUpdate, KindDelete, KindExternalCall}
}

// OperationStatus tracks an operation through the undo sweep.
type OperationStatus string

const (
	OperationPending    OperationStatus = "PENDING"
	OperationCommitted  OperationStatus = "COMMITTED"
	OperationUndone     OperationStatus = "UNDONE"
	OperationFailedUndo OperationStatus = "FAILED_UNDO"
)

func knownOperationStatuses() []any {
	return []any{OperationPending, OperationCommitted, OperationUndone, OperationFailedUndo}
}

// Workflow is the durable record of one coordinated run. Only the coordinating
// components mutate it; the retention janitor is the only thing which physically
// deletes one, and then only once committed and older than the retention window.
type Workflow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	// CompletedAt is set with the first transition to a terminal status.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	// FailedAtStepIndex points at the saga step which failed, when known.
	FailedAtStepIndex *int   `json:"failed_at_step_index,omitempty"`
	ErrorMessage      string `json:"error_message,omitempty"`
}

// Validate checks the record describes a storable workflow.
func (w *Workflow) Validate() error {
	if w == nil {
		return commonerrors.UndefinedVariable("workflow")
	}
	err := validation.ValidateStruct(w,
		validation.Field(&w.ID, validation.Required),
		validation.Field(&w.Status, validation.Required, validation.In(knownStatuses()...)),
		validation.Field(&w.CreatedAt, validation.Required),
	)
	if err != nil {
		return commonerrors.WrapError(commonerrors.ErrInvalid, err, "invalid workflow record")
	}
	return nil
}

// Clone returns a deep copy so stores can hand out records without aliasing their state.
func (w *Workflow) Clone() *Workflow {
	if w == nil {
		return nil
	}
	clone := *w
	if w.CompletedAt != nil {
		completedAt := *w.CompletedAt
		clone.CompletedAt = &completedAt
	}
	if w.FailedAtStepIndex != nil {
		index := *w.FailedAtStepIndex
		clone.FailedAtStepIndex = &index
	}
	return &clone
}

// NewWorkflow returns a started workflow record stamped with the current time.
func NewWorkflow(id, name string) *Workflow {
	return &Workflow{
		ID:        id,
		Name:      name,
		Status:    StatusStarted,
		CreatedAt: time.Now().UTC(),
	}
}

// Operation is one journalled mutation. Sequence is assigned by the store at append
// time, strictly increasing and gapless per workflow; compensation replays operations
// by strictly descending sequence. ForwardData is diagnostic only whereas UndoData must
// carry everything a strategy needs to compensate the mutation.
type Operation struct {
	WorkflowID   string          `json:"workflow_id"`
	Sequence     uint64          `json:"sequence"`
	Kind         OperationKind   `json:"kind"`
	ResourceKind string          `json:"resource_kind"`
	ResourceID   string          `json:"resource_id,omitempty"`
	ForwardData  []byte          `json:"forward_data,omitempty"`
	UndoData     []byte          `json:"undo_data,omitempty"`
	Checksum     string          `json:"checksum,omitempty"`
	Status       OperationStatus `json:"status"`
	RecordedAt   time.Time       `json:"recorded_at"`
}

// Validate checks the record describes a storable operation. Sequence is not checked
// since the store assigns it at append time.
func (o *Operation) Validate() error {
	if o == nil {
		return commonerrors.UndefinedVariable("operation")
	}
	err := validation.ValidateStruct(o,
		validation.Field(&o.WorkflowID, validation.Required),
		validation.Field(&o.Kind, validation.Required, validation.In(knownOperationKinds()...)),
		validation.Field(&o.ResourceKind, validation.Required),
		validation.Field(&o.Status, validation.Required, validation.In(knownOperationStatuses()...)),
		validation.Field(&o.RecordedAt, validation.Required),
	)
	if err != nil {
		return commonerrors.WrapError(commonerrors.ErrInvalid, err, "invalid operation record")
	}
	return nil
}

// Clone returns a deep copy, payloads included.
func (o *Operation) Clone() *Operation {
	if o == nil {
		return nil
	}
	clone := *o
	clone.ForwardData = bytes.Clone(o.ForwardData)
	clone.UndoData = bytes.Clone(o.UndoData)
	return &clone
}

// ComputeChecksum returns the integrity digest of the undo payload.
func (o *Operation) ComputeChecksum() string {
	if o == nil {
		return ""
	}
	return hashing.CalculateXXHash(o.UndoData)
}

// SetChecksum stamps the operation with the digest of its current undo payload.
func (o *Operation) SetChecksum() {
	if o == nil {
		return
	}
	o.Checksum = o.ComputeChecksum()
}

// VerifyIntegrity recomputes the undo payload digest and compares it with the recorded
// checksum. An operation without a checksum carries no integrity claim and passes.
func (o *Operation) VerifyIntegrity() error {
	if o == nil {
		return commonerrors.UndefinedVariable("operation")
	}
	if o.Checksum == "" {
		return nil
	}
	if digest := o.ComputeChecksum(); digest != o.Checksum {
		return commonerrors.Newf(commonerrors.ErrInvalid, "undo payload of operation [%v/%v] does not match its recorded checksum", o.WorkflowID, o.Sequence)
	}
	return nil
}

// NewOperation returns a pending operation record stamped with the current time and the
// checksum of its undo payload.
func NewOperation(workflowID string, kind OperationKind, resourceKind, resourceID string, forwardData, undoData []byte) *Operation {
	op := &Operation{
		WorkflowID:   workflowID,
		Kind:         kind,
		ResourceKind: resourceKind,
		ResourceID:   resourceID,
		ForwardData:  bytes.Clone(forwardData),
		UndoData:     bytes.Clone(undoData),
		Status:       OperationPending,
		RecordedAt:   time.Now().UTC(),
	}
	op.SetChecksum()
	return op
}

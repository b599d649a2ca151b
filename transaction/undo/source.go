package undo

import (
	"context"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/parallelisation"
	"github.com/txkit-go/txkit/transaction/workflow"
)

// IOperationSource lists the operations a sweep must undo, newest first.
type IOperationSource interface {
	OperationsDescending(ctx context.Context, workflowID string) ([]*workflow.Operation, error)
}

type storeSource struct {
	store workflow.IStore
}

func (s *storeSource) OperationsDescending(ctx context.Context, workflowID string) ([]*workflow.Operation, error) {
	return s.store.ListOperationsDescending(ctx, workflowID)
}

// RecorderSource reads the failing run's own recorded operations and falls back to
// the store when the run recorded nothing, e.g. when a recovery scan re-drives a
// workflow after a restart. The in-run list is authoritative while rows may still
// be on their way through the recorder's ring buffer.
type RecorderSource struct {
	recorder *workflow.Recorder
	store    workflow.IStore
}

// NewRecorderSource returns a source preferring recorder's in-run operations over
// store's journalled ones.
func NewRecorderSource(recorder *workflow.Recorder, store workflow.IStore) (*RecorderSource, error) {
	if recorder == nil {
		return nil, commonerrors.UndefinedVariable("operation recorder")
	}
	if store == nil {
		return nil, commonerrors.UndefinedVariable("workflow store")
	}
	return &RecorderSource{recorder: recorder, store: store}, nil
}

func (s *RecorderSource) OperationsDescending(ctx context.Context, workflowID string) ([]*workflow.Operation, error) {
	err := parallelisation.DetermineContextError(ctx)
	if err != nil {
		return nil, err
	}
	operations := s.recorder.InRunOperationsDescending(workflowID)
	if len(operations) > 0 {
		return operations, nil
	}
	return s.store.ListOperationsDescending(ctx, workflowID)
}

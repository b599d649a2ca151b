package undo

import (
	"context"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/transaction/workflow"
)

type undoInsertStrategy struct {
	undoer IResourceUndoer
}

// NewUndoInsertStrategy returns the inverse of an insert: the written resource is
// deleted again.
func NewUndoInsertStrategy(undoer IResourceUndoer) (IUndoStrategy, error) {
	if undoer == nil {
		return nil, commonerrors.UndefinedVariable("resource undoer")
	}
	return &undoInsertStrategy{undoer: undoer}, nil
}

func (s *undoInsertStrategy) Name() string {
	return "undo-insert"
}

func (s *undoInsertStrategy) Undo(ctx context.Context, operation *workflow.Operation) error {
	err := checkUndoArguments(ctx, operation)
	if err != nil {
		return err
	}
	return s.undoer.DeleteResource(ctx, operation.ResourceKind, operation.ResourceID)
}

type undoDeleteStrategy struct {
	undoer IResourceUndoer
}

// NewUndoDeleteStrategy returns the inverse of a delete: the resource is restored
// from the previous image recorded as the operation's undo payload.
func NewUndoDeleteStrategy(undoer IResourceUndoer) (IUndoStrategy, error) {
	if undoer == nil {
		return nil, commonerrors.UndefinedVariable("resource undoer")
	}
	return &undoDeleteStrategy{undoer: undoer}, nil
}

func (s *undoDeleteStrategy) Name() string {
	return "undo-delete"
}

func (s *undoDeleteStrategy) Undo(ctx context.Context, operation *workflow.Operation) error {
	err := checkRestorableArguments(ctx, operation)
	if err != nil {
		return err
	}
	return s.undoer.InsertResource(ctx, operation.ResourceKind, operation.ResourceID, operation.UndoData)
}

type undoUpdateStrategy struct {
	undoer IResourceUndoer
}

// NewUndoUpdateStrategy returns the inverse of an update: the previous image
// recorded as the operation's undo payload is applied back.
func NewUndoUpdateStrategy(undoer IResourceUndoer) (IUndoStrategy, error) {
	if undoer == nil {
		return nil, commonerrors.UndefinedVariable("resource undoer")
	}
	return &undoUpdateStrategy{undoer: undoer}, nil
}

func (s *undoUpdateStrategy) Name() string {
	return "undo-update"
}

func (s *undoUpdateStrategy) Undo(ctx context.Context, operation *workflow.Operation) error {
	err := checkRestorableArguments(ctx, operation)
	if err != nil {
		return err
	}
	return s.undoer.UpdateResource(ctx, operation.ResourceKind, operation.ResourceID, operation.UndoData)
}

type undoExternalCallStrategy struct {
	caller IInverseCaller
}

// NewUndoExternalCallStrategy returns the inverse of an external call: caller is
// asked to revert it with the operation's undo payload.
func NewUndoExternalCallStrategy(caller IInverseCaller) (IUndoStrategy, error) {
	if caller == nil {
		return nil, commonerrors.UndefinedVariable("inverse caller")
	}
	return &undoExternalCallStrategy{caller: caller}, nil
}

func (s *undoExternalCallStrategy) Name() string {
	return "undo-external-call"
}

func (s *undoExternalCallStrategy) Undo(ctx context.Context, operation *workflow.Operation) error {
	err := checkUndoArguments(ctx, operation)
	if err != nil {
		return err
	}
	return s.caller.CallInverse(ctx, operation)
}

// checkRestorableArguments guards the strategies which cannot work without a
// previous image to put back.
func checkRestorableArguments(ctx context.Context, operation *workflow.Operation) error {
	err := checkUndoArguments(ctx, operation)
	if err != nil {
		return err
	}
	if len(operation.UndoData) == 0 {
		return commonerrors.Newf(commonerrors.ErrInvalid, "operation [%v/%v] carries no previous image to restore", operation.WorkflowID, operation.Sequence)
	}
	return nil
}

// RegisterBuiltinStrategies binds the built-in inverses kind-wide: inserts are
// deleted, deletes and updates restored from their previous image and external
// calls reverted through caller. A nil caller leaves EXTERNAL_CALL operations to
// the fallback.
func RegisterBuiltinStrategies(registry *StrategyRegistry, undoer IResourceUndoer, caller IInverseCaller) error {
	if registry == nil {
		return commonerrors.UndefinedVariable("strategy registry")
	}
	insert, err := NewUndoInsertStrategy(undoer)
	if err != nil {
		return err
	}
	remove, err := NewUndoDeleteStrategy(undoer)
	if err != nil {
		return err
	}
	update, err := NewUndoUpdateStrategy(undoer)
	if err != nil {
		return err
	}
	for kind, strategy := range map[workflow.OperationKind]IUndoStrategy{
		workflow.KindInsert: insert,
		workflow.KindDelete: remove,
		workflow.KindUpdate: update,
	} {
		err = registry.Register(kind, AnyResourceKind, strategy)
		if err != nil {
			return err
		}
	}
	if caller == nil {
		return nil
	}
	external, err := NewUndoExternalCallStrategy(caller)
	if err != nil {
		return err
	}
	return registry.Register(workflow.KindExternalCall, AnyResourceKind, external)
}

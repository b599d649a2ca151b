package parallelisation

import (
	"context"
)

// CancelFunctionStore is an execution group of context cancel functions, so that all the
// work spawned by a component can be told to stop in one call.
type CancelFunctionStore struct {
	ExecutionGroup[context.CancelFunc]
}

func (s *CancelFunctionStore) RegisterCancelFunction(cancel ...context.CancelFunc) {
	s.RegisterFunction(cancel...)
}

// RegisterCancelStore registers another store so that its functions get cancelled when this store is.
func (s *CancelFunctionStore) RegisterCancelStore(store *CancelFunctionStore) {
	if store == nil {
		return
	}
	s.RegisterFunction(store.values()...)
}

// Cancel executes the cancel functions in the store. Errors cannot happen as cancel
// functions do not report them, so Execute is only needed when the run can be interrupted.
func (s *CancelFunctionStore) Cancel() {
	_ = s.Execute(context.Background())
}

// NewCancelFunctionsStore creates a store for cancel functions. By default the functions run
// concurrently and are cleared once they have run so that cancellation only ever happens once.
func NewCancelFunctionsStore(options ...StoreOption) *CancelFunctionStore {
	return &CancelFunctionStore{
		ExecutionGroup: *NewExecutionGroup[context.CancelFunc](func(_ context.Context, cancelFunc context.CancelFunc) error {
			if cancelFunc != nil {
				cancelFunc()
			}
			return nil
		}, append([]StoreOption{ExecuteAll, Parallel, ClearAfterExecution}, options...)...),
	}
}

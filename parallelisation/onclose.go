package parallelisation

import (
	"context"
	"io"

	"github.com/txkit-go/txkit/commonerrors"
)

// CloserStore collects io.Closer implementations so a component can release everything it
// owns in one call. Closers run concurrently and stay registered, so closing the store
// twice closes them twice.
type CloserStore struct {
	ExecutionGroup[io.Closer]
}

// RegisterCloser adds closers to the store.
func (s *CloserStore) RegisterCloser(closers ...io.Closer) {
	s.RegisterFunction(closers...)
}

// Close closes every registered closer.
func (s *CloserStore) Close() error {
	return s.Execute(context.Background())
}

// NewCloserStore returns a store closing all its closers concurrently on Close. With
// stopOnFirstError the first failure interrupts the run, otherwise every closer is closed
// and the first error encountered is returned.
func NewCloserStore(stopOnFirstError bool) *CloserStore {
	behaviour := ExecuteAll
	if stopOnFirstError {
		behaviour = StopOnFirstError
	}
	return newCloserStore(behaviour, Parallel, RetainAfterExecution)
}

func newCloserStore(options ...StoreOption) *CloserStore {
	return &CloserStore{
		ExecutionGroup: *NewExecutionGroup[io.Closer](func(_ context.Context, closer io.Closer) error {
			if closer == nil {
				return commonerrors.UndefinedVariable("closer")
			}
			return closer.Close()
		}, options...),
	}
}

// CloseAll closes every closer concurrently and returns the first error encountered.
func CloseAll(closers ...io.Closer) error {
	store := NewCloserStore(false)
	store.RegisterCloser(closers...)
	return store.Close()
}

// CloseAllAndCollateErrors closes every closer concurrently and returns all the errors
// encountered, joined.
func CloseAllAndCollateErrors(closers ...io.Closer) error {
	store := newCloserStore(ExecuteAll, Parallel, JoinErrors, RetainAfterExecution)
	store.RegisterCloser(closers...)
	return store.Close()
}

package parallelisation

import (
	"context"
	"slices"

	"github.com/sasha-s/go-deadlock"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/txkit-go/txkit/commonerrors"
)

type executionOrder int

const (
	orderParallel executionOrder = iota
	orderRegistration
	orderReverse
)

// executionSettings describes how a group runs its elements: ordering, error policy and
// what happens to the elements once they have run.
type executionSettings struct {
	order            executionOrder
	stopOnFirstError bool
	joinErrors       bool
	runOnce          bool
	clearAfterRun    bool
}

// StoreOption tunes how an ExecutionGroup executes its elements. Later options win over
// earlier ones.
type StoreOption func(*executionSettings)

var (
	// Parallel runs every element concurrently. This is the default.
	Parallel StoreOption = func(s *executionSettings) { s.order = orderParallel }
	// Sequential runs the elements one by one in registration order.
	Sequential StoreOption = func(s *executionSettings) { s.order = orderRegistration }
	// SequentialInReverse runs the elements one by one, newest first.
	SequentialInReverse StoreOption = func(s *executionSettings) { s.order = orderReverse }
	// StopOnFirstError interrupts the run on the first failure. It overrides JoinErrors.
	StopOnFirstError StoreOption = func(s *executionSettings) { s.stopOnFirstError = true; s.joinErrors = false }
	// ExecuteAll runs every element whatever the failures and returns the first error.
	ExecuteAll StoreOption = func(s *executionSettings) { s.stopOnFirstError = false }
	// JoinErrors runs every element and returns all the failures, joined.
	JoinErrors StoreOption = func(s *executionSettings) { s.joinErrors = true; s.stopOnFirstError = false }
	// OnlyOnce makes every element run at most once however often the group executes.
	OnlyOnce StoreOption = func(s *executionSettings) { s.runOnce = true }
	// ClearAfterExecution empties the group after a fully successful run.
	ClearAfterExecution StoreOption = func(s *executionSettings) { s.clearAfterRun = true }
	// RetainAfterExecution keeps the elements registered after a run. This is the default.
	RetainAfterExecution StoreOption = func(s *executionSettings) { s.clearAfterRun = false }
)

func newSettings(options ...StoreOption) executionSettings {
	var settings executionSettings
	for _, option := range options {
		if option != nil {
			option(&settings)
		}
	}
	return settings
}

// ExecuteFunc runs one element of an ExecutionGroup.
type ExecuteFunc[T any] func(ctx context.Context, element T) error

// ExecutionGroup stores elements of one kind together with the function which runs them,
// so that deferred work (compensations, cancellations, closers) executes in one call
// under a consistent ordering and error policy. The zero value is usable but reports
// ErrUndefined on execution since it has no execute function.
type ExecutionGroup[T any] struct {
	mu       deadlock.RWMutex
	elements []*element[T]
	run      ExecuteFunc[T]
	settings executionSettings
}

// NewExecutionGroup returns a group running each registered element through executeFunc
// according to the given options.
func NewExecutionGroup[T any](executeFunc ExecuteFunc[T], options ...StoreOption) *ExecutionGroup[T] {
	return &ExecutionGroup[T]{
		run:      executeFunc,
		settings: newSettings(options...),
	}
}

// RegisterFunction adds elements to the group.
func (g *ExecutionGroup[T]) RegisterFunction(values ...T) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, value := range values {
		g.elements = append(g.elements, &element[T]{value: value, done: atomic.NewBool(false)})
	}
}

// Len returns the number of registered elements.
func (g *ExecutionGroup[T]) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.elements)
}

func (g *ExecutionGroup[T]) values() []T {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]T, 0, len(g.elements))
	for _, e := range g.elements {
		out = append(out, e.value)
	}
	return out
}

// Execute runs every element. The group is locked for the duration of the run, so
// registering from within an executing element would deadlock.
func (g *ExecutionGroup[T]) Execute(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.run == nil {
		return commonerrors.New(commonerrors.ErrUndefined, "the group has no execute function")
	}
	var err error
	switch g.settings.order {
	case orderParallel:
		err = g.runParallel(ctx)
	default:
		err = g.runInOrder(ctx, g.settings.order == orderReverse)
	}
	if err == nil && g.settings.clearAfterRun {
		g.elements = g.elements[:0]
	}
	return err
}

func (g *ExecutionGroup[T]) runInOrder(ctx context.Context, reverse bool) error {
	if err := DetermineContextError(ctx); err != nil {
		return err
	}
	ordered := slices.Clone(g.elements)
	if reverse {
		slices.Reverse(ordered)
	}
	var first error
	collated := make([]error, 0, len(ordered))
	for _, e := range ordered {
		if err := DetermineContextError(ctx); err != nil {
			return err
		}
		err := g.runElement(ctx, e)
		collated = append(collated, err)
		if err != nil && first == nil {
			first = err
			if g.settings.stopOnFirstError {
				return first
			}
		}
	}
	if g.settings.joinErrors {
		return commonerrors.Join(collated...)
	}
	return first
}

func (g *ExecutionGroup[T]) runParallel(ctx context.Context) error {
	runCtx := ctx
	eg, egCtx := errgroup.WithContext(ctx)
	if g.settings.stopOnFirstError {
		// The first failure cancels the run context so pending elements are skipped.
		runCtx = egCtx
	}
	collated := make([]error, len(g.elements))
	for i, e := range g.elements {
		eg.Go(func() error {
			if err := DetermineContextError(runCtx); err != nil {
				collated[i] = err
				return err
			}
			collated[i] = g.runElement(runCtx, e)
			return collated[i]
		})
	}
	err := eg.Wait()
	if g.settings.joinErrors {
		return commonerrors.Join(collated...)
	}
	return err
}

func (g *ExecutionGroup[T]) runElement(ctx context.Context, e *element[T]) error {
	if e == nil {
		return commonerrors.UndefinedVariable("group element")
	}
	if g.settings.runOnce && e.done.Swap(true) {
		return nil
	}
	return g.run(ctx, e.value)
}

// element pairs a stored value with its run state. The done flag only matters to groups
// configured with OnlyOnce and is set whether or not the run succeeded.
type element[T any] struct {
	value T
	done  *atomic.Bool
}

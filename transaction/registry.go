package transaction

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/atomic"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/parallelisation"
)

// AdapterRegistry holds the lifecycle adapters in execution order: ascending priority,
// ties in registration order. Registration is an administrative startup operation;
// phase execution works on an immutable snapshot so running adapters never holds the
// registry up.
type AdapterRegistry struct {
	mu         deadlock.RWMutex
	adapters   []IAdapter
	logger     logr.Logger
	executions *atomic.Uint64
	failures   *atomic.Uint64
}

// NewAdapterRegistry returns an empty registry logging adapter failures through logger.
func NewAdapterRegistry(logger logr.Logger) *AdapterRegistry {
	return &AdapterRegistry{
		mu:         deadlock.RWMutex{},
		adapters:   make([]IAdapter, 0),
		logger:     logger,
		executions: atomic.NewUint64(0),
		failures:   atomic.NewUint64(0),
	}
}

// Register adds an adapter to the registry.
func (r *AdapterRegistry) Register(adapter IAdapter) error {
	if adapter == nil {
		return commonerrors.UndefinedVariable("adapter")
	}
	if strings.TrimSpace(adapter.Name()) == "" {
		return commonerrors.New(commonerrors.ErrInvalid, "adapters must be named")
	}
	defer r.mu.Unlock()
	r.mu.Lock()
	r.adapters = append(r.adapters, adapter)
	slices.SortStableFunc(r.adapters, func(a, b IAdapter) int {
		return a.Priority() - b.Priority()
	})
	return nil
}

// Len returns the number of registered adapters.
func (r *AdapterRegistry) Len() int {
	defer r.mu.RUnlock()
	r.mu.RLock()
	return len(r.adapters)
}

// ExecutionCount returns how many adapter invocations the registry has performed.
func (r *AdapterRegistry) ExecutionCount() uint64 {
	return r.executions.Load()
}

// FailureCount returns how many adapter invocations have failed.
func (r *AdapterRegistry) FailureCount() uint64 {
	return r.failures.Load()
}

func (r *AdapterRegistry) snapshot(phase Phase) []IAdapter {
	defer r.mu.RUnlock()
	r.mu.RLock()
	subscribed := make([]IAdapter, 0, len(r.adapters))
	for i := range r.adapters {
		if slices.Contains(r.adapters[i].Phases(), phase) {
			subscribed = append(subscribed, r.adapters[i])
		}
	}
	return subscribed
}

// Execute runs every adapter subscribed to phase, returning one timed result per
// invocation. All adapters run even after earlier failures unless failFast is set and
// the failing adapter is critical, in which case the remainder of the phase is skipped.
// A cancelled context stops the sweep; results recorded so far stand.
func (r *AdapterRegistry) Execute(ctx context.Context, phase Phase, scope *WorkflowScope, failFast bool) (summary *PhaseExecutionSummary) {
	summary = newPhaseExecutionSummary(phase)
	adapters := r.snapshot(phase)
	for i := range adapters {
		if parallelisation.DetermineContextError(ctx) != nil {
			return
		}
		result := r.invoke(ctx, phase, scope, adapters[i])
		summary.record(result)
		if failFast && result.Critical && !result.Success {
			r.logger.Info("skipping remaining adapters after critical failure", "phase", phase, "adapter", result.AdapterName, "skipped", len(adapters)-i-1)
			return
		}
	}
	return
}

func (r *AdapterRegistry) invoke(ctx context.Context, phase Phase, scope *WorkflowScope, adapter IAdapter) (result AdapterExecutionResult) {
	result = AdapterExecutionResult{
		AdapterName: adapter.Name(),
		Phase:       phase,
		Critical:    adapter.IsCritical(),
	}
	r.executions.Inc()
	start := time.Now()
	err := executeAdapter(ctx, phase, scope, adapter)
	result.Duration = time.Since(start)
	result.Err = err
	result.Success = err == nil
	if err != nil {
		r.failures.Inc()
		r.logger.Error(err, "adapter execution failed", "adapter", result.AdapterName, "phase", phase, "critical", result.Critical, "duration", result.Duration)
	}
	return
}

// executeAdapter runs one adapter, turning a panic into an error so a misbehaving
// adapter cannot take the whole transaction runner down.
func executeAdapter(ctx context.Context, phase Phase, scope *WorkflowScope, adapter IAdapter) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = commonerrors.Newf(commonerrors.ErrUnexpected, "adapter [%v] panicked in phase [%v]: %v", adapter.Name(), phase, recovered)
		}
	}()
	err = commonerrors.ConvertContextError(adapter.Execute(ctx, phase, scope))
	return
}

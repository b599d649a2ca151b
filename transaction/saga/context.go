package saga

import (
	"slices"
	"time"

	"github.com/sasha-s/go-deadlock"

	"github.com/txkit-go/txkit/transaction/workflow"
)

// StepResult records one completed saga step.
type StepResult struct {
	// StepName is the name the step was driven under.
	StepName string
	// Result is the value the step's execution returned, handed to its compensation.
	Result any
	// CompletedAt is when the step committed.
	CompletedAt time.Time
}

// SagaContext carries the progress of one saga: its identifier, the completed steps in
// execution order, its status expressed in the workflow vocabulary and the compensation
// failures accumulated by a sweep. A context is owned by the orchestrator that created
// it and is never shared across sagas.
type SagaContext struct {
	sagaID string
	mu     deadlock.RWMutex
	steps  []StepResult
	status workflow.Status
	errs   []error
}

func newSagaContext(sagaID string) *SagaContext {
	return &SagaContext{
		sagaID: sagaID,
		status: workflow.StatusStarted,
	}
}

// SagaID returns the identifier every step's coordinator run is scoped to.
func (c *SagaContext) SagaID() string {
	return c.sagaID
}

// Status returns the saga status: STARTED while steps may still run, COMPENSATING during
// a sweep, then COMMITTED, COMPENSATED or FAILED.
func (c *SagaContext) Status() workflow.Status {
	defer c.mu.RUnlock()
	c.mu.RLock()
	return c.status
}

// Steps returns the completed steps in execution order.
func (c *SagaContext) Steps() []StepResult {
	defer c.mu.RUnlock()
	c.mu.RLock()
	return slices.Clone(c.steps)
}

// Errors returns the compensation failures recorded so far.
func (c *SagaContext) Errors() []error {
	defer c.mu.RUnlock()
	c.mu.RLock()
	return slices.Clone(c.errs)
}

func (c *SagaContext) recordStep(name string, result any) {
	defer c.mu.Unlock()
	c.mu.Lock()
	c.steps = append(c.steps, StepResult{StepName: name, Result: result, CompletedAt: time.Now()})
}

func (c *SagaContext) recordError(err error) {
	defer c.mu.Unlock()
	c.mu.Lock()
	c.errs = append(c.errs, err)
}

func (c *SagaContext) setStatus(status workflow.Status) {
	defer c.mu.Unlock()
	c.mu.Lock()
	c.status = status
}

// settleCompensation derives the sweep verdict from the recorded failures: FAILED as
// soon as one compensation failed, COMPENSATED otherwise.
func (c *SagaContext) settleCompensation() workflow.Status {
	defer c.mu.Unlock()
	c.mu.Lock()
	if len(c.errs) > 0 {
		c.status = workflow.StatusFailed
	} else {
		c.status = workflow.StatusCompensated
	}
	return c.status
}

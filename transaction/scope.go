package transaction

import (
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// WorkflowScope identifies the unit of work currently driven through the lifecycle.
// It is handed explicitly to the unit of work and to every adapter instead of being
// stashed in some ambient state, and lives for exactly one attempt: values shared
// through it do not leak into a retry.
type WorkflowScope struct {
	workflowID string
	attempt    uint
	startedAt  time.Time
	values     *xsync.MapOf[string, any]
}

// NewWorkflowScope returns the scope for one attempt against workflowID. The
// coordinator creates one per attempt; adapter implementations can create their own
// when exercised outside a coordinator run.
func NewWorkflowScope(workflowID string, attempt uint) *WorkflowScope {
	return &WorkflowScope{
		workflowID: workflowID,
		attempt:    attempt,
		startedAt:  time.Now(),
		values:     xsync.NewMapOf[string, any](),
	}
}

// WorkflowID returns the identifier of the workflow the transaction belongs to.
func (s *WorkflowScope) WorkflowID() string {
	return s.workflowID
}

// Attempt returns the 1-based number of the lifecycle attempt the scope belongs to.
func (s *WorkflowScope) Attempt() uint {
	return s.attempt
}

// StartedAt returns when the attempt started.
func (s *WorkflowScope) StartedAt() time.Time {
	return s.startedAt
}

// SetValue shares a value with the other participants in the transaction, e.g. events
// staged by the unit of work for the publishing adapter to pick up at pre-commit.
func (s *WorkflowScope) SetValue(key string, value any) {
	s.values.Store(key, value)
}

// Value returns the value shared under key, if any.
func (s *WorkflowScope) Value(key string) (any, bool) {
	return s.values.Load(key)
}

// DeleteValue removes the value shared under key.
func (s *WorkflowScope) DeleteValue(key string) {
	s.values.Delete(key)
}

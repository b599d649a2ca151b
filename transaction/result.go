package transaction

import (
	"time"

	"github.com/txkit-go/txkit/commonerrors"
)

// AdapterExecutionResult is the immutable record of one adapter invocation within a
// phase.
type AdapterExecutionResult struct {
	AdapterName string
	Phase       Phase
	Critical    bool
	Success     bool
	Err         error
	Duration    time.Duration
}

// PhaseExecutionSummary aggregates the results of one phase run, in execution order.
type PhaseExecutionSummary struct {
	Phase   Phase
	Results []AdapterExecutionResult
}

func newPhaseExecutionSummary(phase Phase) *PhaseExecutionSummary {
	return &PhaseExecutionSummary{
		Phase:   phase,
		Results: []AdapterExecutionResult{},
	}
}

func (s *PhaseExecutionSummary) record(result AdapterExecutionResult) {
	s.Results = append(s.Results, result)
}

// HasCriticalFailure states whether any critical adapter failed during the phase.
func (s *PhaseExecutionSummary) HasCriticalFailure() bool {
	for i := range s.Results {
		if s.Results[i].Critical && !s.Results[i].Success {
			return true
		}
	}
	return false
}

// CriticalFailure returns the typed error describing the first critical adapter failure
// of the phase, nil when there is none.
func (s *PhaseExecutionSummary) CriticalFailure() error {
	for i := range s.Results {
		if s.Results[i].Critical && !s.Results[i].Success {
			return NewCriticalAdapterError(s.Phase, s.Results[i].AdapterName, s.Results[i].Err)
		}
	}
	return nil
}

// Failures returns the results of every adapter which failed during the phase.
func (s *PhaseExecutionSummary) Failures() (failures []AdapterExecutionResult) {
	for i := range s.Results {
		if !s.Results[i].Success {
			failures = append(failures, s.Results[i])
		}
	}
	return
}

// NewCriticalAdapterError returns the error raised when a critical adapter fails. It
// carries the adapter name and the phase, and keeps the cause in the chain so that
// callers can still determine whether the failure is worth retrying.
func NewCriticalAdapterError(phase Phase, adapterName string, cause error) error {
	return commonerrors.WrapErrorf(commonerrors.ErrCriticalAdapter, cause, "adapter [%v] failed in phase [%v]", adapterName, phase)
}

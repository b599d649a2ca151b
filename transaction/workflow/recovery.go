package workflow

import (
	"context"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-logr/logr"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/parallelisation"
	"github.com/txkit-go/txkit/retry"
	"github.com/txkit-go/txkit/transaction"
)

const defaultScanRetries = 4

// RecoveryReport sums up one recovery pass.
type RecoveryReport struct {
	// Scanned counts the interrupted workflows the scan found.
	Scanned int
	// Recovered lists the workflows whose compensation was successfully re-driven.
	Recovered []string
	// Failed maps workflows the pass could not recover to what went wrong.
	Failed map[string]error
}

// HasFailures states whether any workflow could not be recovered.
func (r *RecoveryReport) HasFailures() bool {
	return r != nil && len(r.Failed) > 0
}

// RecoveryOption tweaks a recovery scan.
type RecoveryOption func(*RecoveryScan)

// WithScanLimit caps how many workflows per status a pass picks up. Non-positive means
// no cap.
func WithScanLimit(limit int) RecoveryOption {
	return func(s *RecoveryScan) {
		if s == nil {
			return
		}
		s.limit = limit
	}
}

// WithScanBackOff overrides how scan reads back off between retries.
func WithScanBackOff(factory func() backoff.BackOff) RecoveryOption {
	return func(s *RecoveryScan) {
		if s == nil || factory == nil {
			return
		}
		s.newBackOff = factory
	}
}

// RecoveryScan finds workflows a crash left behind, STARTED or COMPENSATING, and
// re-drives their compensation. It is meant to run at process startup, hence scan reads
// retry with exponential backoff: the store may still be coming up alongside us.
type RecoveryScan struct {
	logger      logr.Logger
	store       IStore
	compensator transaction.ICompensator
	classifier  *retry.ErrorClassifier
	limit       int
	newBackOff  func() backoff.BackOff
}

// NewRecoveryScan returns a scan recovering workflows from store through compensator.
func NewRecoveryScan(logger logr.Logger, store IStore, compensator transaction.ICompensator, options ...RecoveryOption) (*RecoveryScan, error) {
	if store == nil {
		return nil, commonerrors.UndefinedVariable("workflow store")
	}
	if compensator == nil {
		return nil, commonerrors.UndefinedVariable("compensator")
	}
	scan := &RecoveryScan{
		logger:      logger,
		store:       store,
		compensator: compensator,
		// Startup reads also retry on unexpected store failures, not just the
		// transient categories: the store may not be reachable yet.
		classifier: retry.NewErrorClassifierWithErrors([]error{commonerrors.ErrUnexpected}, nil),
		newBackOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), defaultScanRetries)
		},
	}
	for i := range options {
		options[i](scan)
	}
	return scan, nil
}

// RecoverPending re-drives compensation for every interrupted workflow it finds and
// reports per workflow outcomes. Recovery is best-effort: one stubborn workflow never
// stops the others from being swept.
func (s *RecoveryScan) RecoverPending(ctx context.Context) (*RecoveryReport, error) {
	err := parallelisation.DetermineContextError(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]*Workflow, 0)
	for _, status := range []Status{StatusStarted, StatusCompensating} {
		workflows, err := s.listWithRetry(ctx, status)
		if err != nil {
			return nil, commonerrors.WrapErrorf(commonerrors.ErrUnexpected, err, "could not scan for %v workflows", status)
		}
		pending = append(pending, workflows...)
	}
	report := &RecoveryReport{Scanned: len(pending), Failed: make(map[string]error)}
	for i := range pending {
		w := pending[i]
		err = s.recoverOne(ctx, w)
		if err != nil {
			s.logger.Error(err, "could not recover the workflow", "workflow", w.ID)
			report.Failed[w.ID] = err
			continue
		}
		report.Recovered = append(report.Recovered, w.ID)
	}
	return report, nil
}

func (s *RecoveryScan) recoverOne(ctx context.Context, w *Workflow) error {
	s.logger.Info("re-driving compensation for an interrupted workflow", "workflow", w.ID, "status", w.Status)
	err := s.store.UpdateWorkflowStatus(ctx, w.ID, StatusUpdate{Status: StatusCompensating})
	if err != nil {
		return err
	}
	// The compensator owns the terminal verdict, COMPENSATED or FAILED_COMPENSATION.
	return s.compensator.CompensateWorkflow(ctx, w.ID)
}

func (s *RecoveryScan) listWithRetry(ctx context.Context, status Status) (workflows []*Workflow, err error) {
	err = backoff.Retry(func() error {
		list, listErr := s.store.ListWorkflowsByStatus(ctx, status, s.limit)
		if listErr != nil {
			if !s.classifier.IsRetryable(listErr) {
				return backoff.Permanent(listErr)
			}
			return listErr
		}
		workflows = list
		return nil
	}, backoff.WithContext(s.newBackOff(), ctx))
	return
}

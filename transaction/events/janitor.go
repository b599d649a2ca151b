package events

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"go.uber.org/atomic"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/parallelisation"
	"github.com/txkit-go/txkit/retry"
)

// DeduplicationJanitor prunes old publication marks on a cadence so the deduplication
// store does not grow without bound. Retention must comfortably exceed the longest
// plausible retry horizon of a workflow, otherwise a pruned mark reopens the duplicate
// window.
type DeduplicationJanitor struct {
	logger      logr.Logger
	store       IDeduplicationStore
	period      time.Duration
	retention   time.Duration
	sweepRetry  *retry.RetryPolicyConfiguration
	running     *atomic.Bool
	cancelStore *parallelisation.CancelFunctionStore
}

func NewDeduplicationJanitor(logger logr.Logger, store IDeduplicationStore, period, retention time.Duration) (*DeduplicationJanitor, error) {
	if store == nil {
		return nil, commonerrors.UndefinedVariable("deduplication store")
	}
	if period <= 0 {
		return nil, commonerrors.New(commonerrors.ErrInvalid, "the janitor period must be positive")
	}
	if retention < 0 {
		return nil, commonerrors.New(commonerrors.ErrInvalid, "the retention window cannot be negative")
	}
	return &DeduplicationJanitor{
		logger:      logger,
		store:       store,
		period:      period,
		retention:   retention,
		sweepRetry:  retry.DefaultBasicRetryPolicyConfiguration(),
		running:     atomic.NewBool(false),
		cancelStore: parallelisation.NewCancelFunctionsStore(),
	}, nil
}

// Start schedules the cleanup until Stop is called or ctx is cancelled.
func (j *DeduplicationJanitor) Start(ctx context.Context) error {
	err := parallelisation.DetermineContextError(ctx)
	if err != nil {
		return err
	}
	if !j.running.CompareAndSwap(false, true) {
		return commonerrors.New(commonerrors.ErrConflict, "the janitor is already running")
	}
	scheduleCtx, cancel := context.WithCancel(ctx)
	j.cancelStore.RegisterCancelFunction(cancel)
	parallelisation.SafeSchedule(scheduleCtx, j.period, 0, func(runCtx context.Context, now time.Time) {
		if _, err := j.RunOnce(runCtx, now); err != nil {
			j.logger.Error(err, "publication mark cleanup failed")
		}
	})
	return nil
}

// RunOnce prunes the marks older than the retention window relative to now. It is the
// scheduled body of the janitor, exposed so operators can trigger a cleanup on demand.
// The store may sit across the network, so flaky sweeps are retried before the failure
// is reported.
func (j *DeduplicationJanitor) RunOnce(ctx context.Context, now time.Time) (removed int64, err error) {
	err = parallelisation.DetermineContextError(ctx)
	if err != nil {
		return
	}
	err = retry.RetryOnError(ctx, j.logger, j.sweepRetry, func() (sweepErr error) {
		removed, sweepErr = j.store.DeletePublishedBefore(ctx, now.Add(-j.retention))
		return
	}, "publication mark sweep failed", commonerrors.ErrTransient, commonerrors.ErrUnavailable, commonerrors.ErrTimeout)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		j.logger.Info("removed expired publication marks", "removed", removed)
	}
	return
}

// Stop halts the scheduled cleanup. Stopping an already stopped janitor is a no-op.
func (j *DeduplicationJanitor) Stop() {
	if !j.running.CompareAndSwap(true, false) {
		return
	}
	j.cancelStore.Cancel()
}

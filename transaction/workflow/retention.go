package workflow

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"go.uber.org/atomic"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/parallelisation"
)

// RetentionJanitor prunes committed workflows older than the retention window so the
// store only grows with live and failed work. Only COMMITTED records are ever removed;
// failed and half-compensated workflows stay until someone deals with them. The window
// should comfortably exceed any audit or inspection horizon.
type RetentionJanitor struct {
	logger      logr.Logger
	store       IStore
	period      time.Duration
	retention   time.Duration
	running     *atomic.Bool
	cancelStore *parallelisation.CancelFunctionStore
}

// NewRetentionJanitor returns a janitor pruning store every period, removing committed
// workflows which completed more than retention ago.
func NewRetentionJanitor(logger logr.Logger, store IStore, period, retention time.Duration) (*RetentionJanitor, error) {
	if store == nil {
		return nil, commonerrors.UndefinedVariable("workflow store")
	}
	if period <= 0 {
		return nil, commonerrors.New(commonerrors.ErrInvalid, "the pruning period must be positive")
	}
	if retention < 0 {
		return nil, commonerrors.New(commonerrors.ErrInvalid, "the retention window cannot be negative")
	}
	return &RetentionJanitor{
		logger:      logger,
		store:       store,
		period:      period,
		retention:   retention,
		running:     atomic.NewBool(false),
		cancelStore: parallelisation.NewCancelFunctionsStore(),
	}, nil
}

// Start schedules the pruning loop until Stop or until ctx is cancelled.
func (j *RetentionJanitor) Start(ctx context.Context) error {
	err := parallelisation.DetermineContextError(ctx)
	if err != nil {
		return err
	}
	if !j.running.CompareAndSwap(false, true) {
		return commonerrors.New(commonerrors.ErrConflict, "the janitor is already running")
	}
	scheduleCtx, cancel := context.WithCancel(ctx)
	j.cancelStore.RegisterCancelFunction(cancel)
	parallelisation.SafeSchedule(scheduleCtx, j.period, 0, func(runCtx context.Context, at time.Time) {
		_, err := j.RunOnce(runCtx, at)
		if err != nil {
			j.logger.Error(err, "workflow retention sweep failed")
		}
	})
	return nil
}

// RunOnce prunes immediately and reports how many workflows went.
func (j *RetentionJanitor) RunOnce(ctx context.Context, now time.Time) (int64, error) {
	removed, err := j.store.DeleteCommittedBefore(ctx, now.Add(-j.retention))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		j.logger.Info("pruned committed workflows", "count", removed)
	}
	return removed, nil
}

// Stop halts the pruning loop. Stopping a stopped janitor is a no-op; a stopped janitor
// can be started again.
func (j *RetentionJanitor) Stop() {
	if !j.running.CompareAndSwap(true, false) {
		return
	}
	j.cancelStore.Cancel()
}

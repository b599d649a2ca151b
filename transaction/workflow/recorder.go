package workflow

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/go-logr/logr"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog/diode"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/atomic"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/parallelisation"
)

const (
	// DefaultRecorderRingSize is how many journal rows the diode buffers before
	// dropping the oldest.
	DefaultRecorderRingSize = 1024
	// DefaultRecorderPollInterval is the diode drain cadence.
	DefaultRecorderPollInterval = 10 * time.Millisecond
)

// Recorder journals operations without blocking the transaction hot path. Rows are
// handed to a lock free diode ring buffer and drained to the store in the background;
// store failures and drops surface as log warnings, never as errors to the caller. The
// store remains the durable journal whereas a synchronous per-workflow list kept by the
// recorder makes undo within the failing attempt deterministic, immune to drain lag.
type Recorder struct {
	logger logr.Logger
	writer io.Writer
	inRun  *xsync.MapOf[string, *runLog]
	closed atomic.Bool
}

type runLog struct {
	mu           deadlock.Mutex
	operations   []*Operation
	lastSequence uint64
}

// storeWriter is the slow side of the diode: it decodes drained rows and appends them
// to the store.
type storeWriter struct {
	logger logr.Logger
	store  IStore
}

func (w *storeWriter) Write(p []byte) (int, error) {
	op := &Operation{}
	err := json.Unmarshal(p, op)
	if err != nil {
		w.logger.Error(err, "dropping an undecodable journal row")
		return len(p), nil
	}
	// The recording context is long gone once the diode drains.
	_, err = w.store.AppendOperation(context.Background(), op)
	if err != nil {
		w.logger.Error(err, "could not journal an operation", "workflow", op.WorkflowID)
	}
	return len(p), nil
}

// NewRecorder returns a recorder journalling to store. Non-positive sizes and intervals
// fall back to the defaults.
func NewRecorder(logger logr.Logger, store IStore, ringBufferSize int, pollInterval time.Duration) (*Recorder, error) {
	if store == nil {
		return nil, commonerrors.UndefinedVariable("workflow store")
	}
	if ringBufferSize <= 0 {
		ringBufferSize = DefaultRecorderRingSize
	}
	if pollInterval <= 0 {
		pollInterval = DefaultRecorderPollInterval
	}
	return &Recorder{
		logger: logger,
		writer: diode.NewWriter(&storeWriter{logger: logger, store: store}, ringBufferSize, pollInterval, func(missed int) {
			logger.Error(commonerrors.New(commonerrors.ErrCondition, "journal ring buffer overflow"), "dropped journal rows", "count", missed)
		}),
		inRun: xsync.NewMapOf[string, *runLog](),
	}, nil
}

// Record journals op. The only failures reported to the caller are an invalid record, a
// cancelled context or a closed recorder; persistence happens asynchronously.
func (r *Recorder) Record(ctx context.Context, op *Operation) error {
	err := op.Validate()
	if err != nil {
		return err
	}
	err = parallelisation.DetermineContextError(ctx)
	if err != nil {
		return err
	}
	if r.closed.Load() {
		return commonerrors.New(commonerrors.ErrConflict, "the recorder is closed")
	}
	recorded := op.Clone()
	if recorded.Checksum == "" {
		recorded.SetChecksum()
	}
	log, _ := r.inRun.LoadOrStore(recorded.WorkflowID, &runLog{})
	log.mu.Lock()
	log.lastSequence++
	recorded.Sequence = log.lastSequence
	log.operations = append(log.operations, recorded)
	line, err := json.Marshal(recorded)
	log.mu.Unlock()
	if err != nil {
		return commonerrors.WrapError(commonerrors.ErrMarshalling, err, "could not encode the operation")
	}
	// The diode drains rows in write order, so store sequences follow run order.
	_, err = r.writer.Write(line)
	if err != nil {
		r.logger.Error(err, "could not hand an operation to the journal writer", "workflow", recorded.WorkflowID)
	}
	return nil
}

// InRunOperationsDescending returns the operations recorded for workflowID by this
// recorder instance, newest first, the order an in-attempt undo consumes them in.
func (r *Recorder) InRunOperationsDescending(workflowID string) []*Operation {
	log, found := r.inRun.Load(workflowID)
	if !found {
		return nil
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	operations := make([]*Operation, 0, len(log.operations))
	for i := len(log.operations) - 1; i >= 0; i-- {
		operations = append(operations, log.operations[i].Clone())
	}
	return operations
}

// ClearRun forgets the in-run operation list of workflowID. Call it once an attempt has
// fully settled; the store keeps the durable journal.
func (r *Recorder) ClearRun(workflowID string) {
	r.inRun.Delete(workflowID)
}

// Close flushes buffered rows to the store. Subsequent calls are no-ops and subsequent
// records are refused.
func (r *Recorder) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	if closer, ok := r.writer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

package workflow

import (
	"encoding/json"
	"time"

	"github.com/DeRuina/timberjack"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/logs"
	"github.com/txkit-go/txkit/reflection"
	"github.com/txkit-go/txkit/safecast"
	sizeUnits "github.com/txkit-go/txkit/units/size"
)

const (
	auditLoggerSource = "workflow-audit"

	defaultJournalMaxSize    = 100 * sizeUnits.MiB
	defaultJournalMaxAge     = 28 * 24 * time.Hour
	defaultJournalMaxBackups = 5

	// asyncJournalPollInterval is how often the ring buffer drains into the journal file.
	asyncJournalPollInterval = 10 * time.Millisecond
)

// AuditTrail mirrors workflow lifecycle transitions to an operator facing journal, one
// structured document per transition. It is observability only: nothing reads it back
// and a failure to audit never fails the transition it describes.
type AuditTrail struct {
	loggers logs.Loggers
}

type auditRecord struct {
	WorkflowID string    `json:"workflow_id"`
	Status     Status    `json:"status"`
	At         time.Time `json:"at"`
	Detail     string    `json:"detail,omitempty"`
}

// AuditTrailOption tunes how the journal file rotates.
type AuditTrailOption func(*timberjack.Logger)

// WithJournalMaxSize caps the journal at size bytes before rotation. Sizes under a
// mebibyte are ignored as rotation is whole-mebibyte grained.
func WithJournalMaxSize(size float64) AuditTrailOption {
	return func(journal *timberjack.Logger) {
		if size >= sizeUnits.MiB {
			journal.MaxSize = safecast.ToInt(size / sizeUnits.MiB)
		}
	}
}

// WithJournalMaxAge drops rotated journals older than maxAge, rounded down to whole
// days. Ages under a day are ignored.
func WithJournalMaxAge(maxAge time.Duration) AuditTrailOption {
	return func(journal *timberjack.Logger) {
		if maxAge >= 24*time.Hour {
			journal.MaxAge = safecast.ToInt(maxAge.Hours() / 24)
		}
	}
}

// WithJournalMaxBackups keeps at most maxBackups rotated journals around.
func WithJournalMaxBackups(maxBackups int) AuditTrailOption {
	return func(journal *timberjack.Logger) {
		if maxBackups >= 0 {
			journal.MaxBackups = maxBackups
		}
	}
}

// NewAuditTrail records transitions through loggers. The trail takes ownership and
// closes them with Close.
func NewAuditTrail(loggers logs.Loggers) (*AuditTrail, error) {
	if loggers == nil {
		return nil, commonerrors.UndefinedVariable("audit loggers")
	}
	return &AuditTrail{loggers: loggers}, nil
}

// NewRollingFileAuditTrail writes the audit journal to path as JSON lines, rotating by
// size and age so the trail never grows unbounded.
func NewRollingFileAuditTrail(path string, options ...AuditTrailOption) (*AuditTrail, error) {
	writer, err := newRollingJournalWriter(path, options...)
	if err != nil {
		return nil, err
	}
	loggers, err := logs.NewJSONLogger(writer, auditLoggerSource, "audit")
	if err != nil {
		return nil, err
	}
	return NewAuditTrail(loggers)
}

// NewAsyncRollingFileAuditTrail is NewRollingFileAuditTrail with writes decoupled from
// the journal file, so recording a transition never waits on disk. Up to bufferSize
// records are held in flight; records beyond that are dropped and reported to the
// console rather than stalling the workflow.
func NewAsyncRollingFileAuditTrail(path string, bufferSize int, options ...AuditTrailOption) (*AuditTrail, error) {
	writer, err := newRollingJournalWriter(path, options...)
	if err != nil {
		return nil, err
	}
	droppedRecords, err := logs.NewStdLogger(auditLoggerSource)
	if err != nil {
		return nil, err
	}
	loggers, err := logs.NewJSONLoggerForSlowWriter(writer, bufferSize, asyncJournalPollInterval, auditLoggerSource, "audit", droppedRecords)
	if err != nil {
		return nil, err
	}
	return NewAuditTrail(loggers)
}

// NewFileHookAuditTrail writes the audit journal to path through a logrus file hook.
// The rolling JSON variant is usually the better choice; this one exists for embedders
// already shipping logrus formatted files.
func NewFileHookAuditTrail(path string) (*AuditTrail, error) {
	if reflection.IsEmpty(path) {
		return nil, commonerrors.UndefinedVariable("audit journal path")
	}
	loggers, err := logs.NewFileOnlyLogger(path, auditLoggerSource)
	if err != nil {
		return nil, err
	}
	return NewAuditTrail(loggers)
}

// Record appends one transition to the trail.
func (a *AuditTrail) Record(workflowID string, status Status, detail string) {
	if a == nil {
		return
	}
	line, err := json.Marshal(auditRecord{
		WorkflowID: workflowID,
		Status:     status,
		At:         time.Now().UTC(),
		Detail:     detail,
	})
	if err != nil {
		a.loggers.LogError("could not encode an audit record for workflow ", workflowID, ": ", err.Error())
		return
	}
	a.loggers.Log(string(line))
}

// Close flushes and closes the underlying sink.
func (a *AuditTrail) Close() error {
	if a == nil {
		return nil
	}
	return a.loggers.Close()
}

func newRollingJournalWriter(path string, options ...AuditTrailOption) (*rollingFileWriter, error) {
	if reflection.IsEmpty(path) {
		return nil, commonerrors.UndefinedVariable("audit journal path")
	}
	journal := &timberjack.Logger{
		Filename:   path,
		MaxSize:    safecast.ToInt(defaultJournalMaxSize / sizeUnits.MiB),
		MaxAge:     safecast.ToInt(defaultJournalMaxAge.Hours() / 24),
		MaxBackups: defaultJournalMaxBackups,
		LocalTime:  false,
		Compress:   false,
	}
	for _, option := range options {
		if option != nil {
			option(journal)
		}
	}
	return &rollingFileWriter{journal: journal}, nil
}

// rollingFileWriter adapts a timberjack rolling file to the writer contract the JSON
// logger expects.
type rollingFileWriter struct {
	journal *timberjack.Logger
}

func (w *rollingFileWriter) Write(p []byte) (int, error) {
	return w.journal.Write(p)
}

func (w *rollingFileWriter) Close() error {
	return w.journal.Close()
}

func (w *rollingFileWriter) SetSource(string) error {
	return nil
}

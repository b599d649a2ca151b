// Package logs provides the Loggers the engine's observability seams are written
// against: paired output/error streams over the standard library, logrus, logr and
// zerolog, plus journal files with rotation friendly writers. Destinations too slow for
// the hot path can be decoupled with the diode backed writer.
package logs

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/parallelisation"
)

// Loggers is the logging contract engine components write through: an output stream for
// progress, an error stream for failures, both tagged with where messages come from.
type Loggers interface {
	io.Closer
	// Check verifies the loggers are correctly defined.
	Check() error
	// SetLogSource tags subsequent messages with what they describe, e.g. a workflow or a resource.
	SetLogSource(source string) error
	// SetLoggerSource tags subsequent messages with the component logging them, e.g. coordinator, undo engine.
	SetLoggerSource(source string) error
	// Log writes to the output stream.
	Log(output ...interface{})
	// LogError writes to the error stream.
	LogError(err ...interface{})
}

// WriterWithSource is a log destination which can be told what its messages describe.
type WriterWithSource interface {
	io.WriteCloser
	SetSource(source string) error
}

// StreamLoggers pairs two standard library loggers into a Loggers. The zero value fails
// Check but is otherwise harmless.
type StreamLoggers struct {
	Output  *log.Logger
	Error   *log.Logger
	closers *parallelisation.CloserStore
}

// newStreamLoggers builds loggers over the given streams, closing closers when the
// loggers are closed.
func newStreamLoggers(out, errOut io.Writer, loggerSource string, closers ...io.Closer) *StreamLoggers {
	store := parallelisation.NewCloserStore(false)
	store.RegisterCloser(closers...)
	return &StreamLoggers{
		Output:  log.New(out, fmt.Sprintf("[%v] Output: ", loggerSource), log.LstdFlags),
		Error:   log.New(errOut, fmt.Sprintf("[%v] Error: ", loggerSource), log.LstdFlags),
		closers: store,
	}
}

func (l *StreamLoggers) Check() error {
	if l.Output == nil || l.Error == nil {
		return commonerrors.ErrNoLogger
	}
	return nil
}

// SetLogSource is accepted but ignored, the streams carry a fixed prefix.
func (l *StreamLoggers) SetLogSource(string) error {
	return nil
}

// SetLoggerSource is accepted but ignored, the streams carry a fixed prefix.
func (l *StreamLoggers) SetLoggerSource(string) error {
	return nil
}

// Log writes to the output stream.
func (l *StreamLoggers) Log(output ...interface{}) {
	l.Output.Println(output...)
}

// LogError writes to the error stream.
func (l *StreamLoggers) LogError(err ...interface{}) {
	l.Error.Println(err...)
}

// Close releases the underlying streams.
func (l *StreamLoggers) Close() error {
	if l.closers == nil {
		return nil
	}
	return l.closers.Close()
}

// NewStdLogger returns loggers over standard output and standard error.
func NewStdLogger(loggerSource string) (Loggers, error) {
	return newStreamLoggers(os.Stdout, os.Stderr, loggerSource), nil
}

// loggersWriter adapts Loggers into an io.Writer so standard library consumers can write
// through them.
type loggersWriter struct {
	loggers Loggers
	toError bool
}

func (w *loggersWriter) Write(p []byte) (n int, err error) {
	n = len(p)
	message := strings.TrimSuffix(string(p), "\n")
	if w.toError {
		w.loggers.LogError(message)
	} else {
		w.loggers.Log(message)
	}
	return
}

func asStdLogger(loggers Loggers) *log.Logger {
	return log.New(&loggersWriter{loggers: loggers}, "", 0)
}

package logs

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/parallelisation"
	"github.com/txkit-go/txkit/reflection"
)

// JSONLoggers writes one JSON document per message through zerolog, tagged with the
// component doing the logging ("logger") and the subject of the messages ("source").
type JSONLoggers struct {
	mu        sync.RWMutex
	component string
	subject   string
	sink      WriterWithSource
	zlog      zerolog.Logger
	closers   *parallelisation.CloserStore
}

// Check reports whether both sources are set.
func (l *JSONLoggers) Check() error {
	component, subject := l.sources()
	if reflection.IsEmpty(subject) {
		return commonerrors.ErrNoLogSource
	}
	if reflection.IsEmpty(component) {
		return commonerrors.ErrNoLoggerSource
	}
	return nil
}

// SetLogSource renames the subject of subsequent messages and forwards it to the sink.
func (l *JSONLoggers) SetLogSource(source string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subject = source
	return l.sink.SetSource(source)
}

// SetLoggerSource renames the component subsequent messages are attributed to.
func (l *JSONLoggers) SetLoggerSource(source string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.component = source
	return nil
}

func (l *JSONLoggers) sources() (component string, subject string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.component, l.subject
}

// Log writes an info document to the sink.
func (l *JSONLoggers) Log(output ...interface{}) {
	l.write(zerolog.InfoLevel, output...)
}

// LogError writes an error document to the sink.
func (l *JSONLoggers) LogError(err ...interface{}) {
	l.write(zerolog.ErrorLevel, err...)
}

func (l *JSONLoggers) write(level zerolog.Level, parts ...interface{}) {
	message := fmt.Sprint(parts...)
	// Bare newlines come from stream flushes and carry nothing worth a document.
	if message == "\n" {
		return
	}
	component, subject := l.sources()
	l.zlog.WithLevel(level).Str("logger", component).Str("source", subject).Msg(message)
}

// Close closes the sink if the loggers own it.
func (l *JSONLoggers) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closers.Close()
}

// NewJSONLogger returns JSON loggers writing to sink. The sink is closed with the
// loggers.
func NewJSONLogger(sink WriterWithSource, loggerSource string, source string) (Loggers, error) {
	return newJSONLoggers(sink, loggerSource, source, true)
}

// NewJSONLoggerWithWriter is NewJSONLogger for a sink whose lifecycle belongs to the
// caller: closing the loggers leaves the sink open.
func NewJSONLoggerWithWriter(sink WriterWithSource, loggerSource string, source string) (Loggers, error) {
	return newJSONLoggers(sink, loggerSource, source, false)
}

func newJSONLoggers(sink WriterWithSource, loggerSource string, source string, ownSink bool) (Loggers, error) {
	if sink == nil {
		return nil, commonerrors.UndefinedVariable("log sink")
	}
	closers := parallelisation.NewCloserStore(false)
	if ownSink {
		closers.RegisterCloser(sink)
	}
	loggers := &JSONLoggers{
		component: loggerSource,
		subject:   source,
		sink:      sink,
		zlog:      zerolog.New(sink).With().Timestamp().Logger(),
		closers:   closers,
	}
	if err := loggers.Check(); err != nil {
		return nil, err
	}
	if err := sink.SetSource(source); err != nil {
		return nil, err
	}
	return loggers, nil
}

// NewJSONLoggerForSlowWriter returns JSON loggers which never block on slowWriter:
// messages go through a ring buffer of ringBufferSize entries drained every pollInterval,
// and messages the buffer cannot hold are dropped and reported to droppedMessagesLogger.
// The slow writer is closed with the loggers.
func NewJSONLoggerForSlowWriter(slowWriter WriterWithSource, ringBufferSize int, pollInterval time.Duration, loggerSource string, source string, droppedMessagesLogger Loggers) (Loggers, error) {
	return NewJSONLogger(NewDiodeWriterForSlowWriter(slowWriter, ringBufferSize, pollInterval, droppedMessagesLogger), loggerSource, source)
}

package logs

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/go-logr/stdr"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/reflection"
)

// Keys under which the sources travel as logr values.
const (
	KeyLogSource    = "source"
	KeyLoggerSource = "logger-source"
)

// logrLoggers adapts any logr implementation to the Loggers contract.
type logrLoggers struct {
	mu        sync.RWMutex
	logger    logr.Logger
	component string
}

func (l *logrLoggers) Check() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.logger.GetSink() == nil {
		return commonerrors.ErrNoLogger
	}
	return nil
}

func (l *logrLoggers) SetLogSource(source string) error {
	if reflection.IsEmpty(source) {
		return commonerrors.ErrNoLogSource
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = l.logger.WithValues(KeyLogSource, source)
	return nil
}

// SetLoggerSource names the logger. Setting the same source again is a no-op so the name
// chain does not grow with repeated calls.
func (l *logrLoggers) SetLoggerSource(source string) error {
	if reflection.IsEmpty(source) {
		return commonerrors.ErrNoLoggerSource
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if source == l.component {
		return nil
	}
	l.logger = l.logger.WithName(source).WithValues(KeyLoggerSource, source)
	l.component = source
	return nil
}

func (l *logrLoggers) snapshot() logr.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.logger
}

func (l *logrLoggers) Log(output ...interface{}) {
	l.snapshot().Info(fmt.Sprint(output...))
}

func (l *logrLoggers) LogError(err ...interface{}) {
	l.snapshot().Error(nil, fmt.Sprint(err...))
}

func (l *logrLoggers) Close() error {
	return nil
}

// NewLogrLogger returns Loggers over any logr implementation
// (https://github.com/go-logr/logr).
func NewLogrLogger(logrImpl logr.Logger, loggerSource string) (Loggers, error) {
	loggers := &logrLoggers{logger: logrImpl}
	if err := loggers.SetLoggerSource(loggerSource); err != nil {
		return nil, err
	}
	return loggers, nil
}

// NewNoopLogger returns loggers dropping everything logged to them while still passing
// Check, for callers which require loggers but want silence.
func NewNoopLogger(loggerSource string) (Loggers, error) {
	return NewLogrLogger(funcr.New(func(string, string) {}, funcr.Options{}), loggerSource)
}

// NewLogrLoggerFromLoggers bridges Loggers back into a logr.Logger.
func NewLogrLoggerFromLoggers(loggers Loggers) logr.Logger {
	return stdr.New(asStdLogger(loggers))
}

// GetLogrLoggerFromContext returns the logr logger carried by ctx if any.
func GetLogrLoggerFromContext(ctx context.Context) (logr.Logger, error) {
	logger, err := logr.FromContext(ctx)
	if err != nil {
		return logr.Logger{}, commonerrors.WrapError(commonerrors.ErrNoLogger, err, "the context has no logger")
	}
	return logger, nil
}

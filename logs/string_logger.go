package logs

import (
	"strings"
	"sync"
)

// StringWriter buffers everything written to it in memory. Closing resets the buffer.
type StringWriter struct {
	mu     sync.RWMutex
	buffer strings.Builder
}

func (w *StringWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buffer.Write(p)
}

func (w *StringWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buffer.Reset()
	return nil
}

// GetFullContent returns everything written so far.
func (w *StringWriter) GetFullContent() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.buffer.String()
}

// StringLoggers collects log output in memory so tests can assert on what was logged.
type StringLoggers struct {
	StreamLoggers
	LogWriter StringWriter
}

// GetLogContent returns everything logged so far.
func (l *StringLoggers) GetLogContent() string {
	return l.LogWriter.GetFullContent()
}

// Close clears the collected content.
func (l *StringLoggers) Close() error {
	if err := l.LogWriter.Close(); err != nil {
		return err
	}
	return l.StreamLoggers.Close()
}

// NewStringLogger returns loggers writing to memory.
func NewStringLogger(loggerSource string) (*StringLoggers, error) {
	loggers := &StringLoggers{}
	loggers.StreamLoggers = *newStreamLoggers(&loggers.LogWriter, &loggers.LogWriter, loggerSource)
	return loggers, nil
}

package logs

import (
	"fmt"
	"os"
	"time"
)

// StdWriter is a WriterWithSource over standard output. Setting a source prints a banner
// so console readers know what follows.
type StdWriter struct{}

func (w *StdWriter) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (w *StdWriter) Close() error {
	return nil
}

func (w *StdWriter) SetSource(source string) error {
	_, err := fmt.Fprintf(os.Stdout, "Source: %v\n", source)
	return err
}

// NewStdWriterWithSource returns a WriterWithSource over standard output.
func NewStdWriterWithSource() WriterWithSource {
	return &StdWriter{}
}

// NewAsynchronousStdLogger returns JSON loggers to standard output which never block on
// the console. Up to ringBufferSize messages are held in flight; messages dropped on
// overflow are reported synchronously to standard error.
func NewAsynchronousStdLogger(loggerSource string, ringBufferSize int, pollInterval time.Duration, source string) (Loggers, error) {
	droppedMessages, err := NewStdLogger(loggerSource)
	if err != nil {
		return nil, err
	}
	return NewJSONLoggerForSlowWriter(NewStdWriterWithSource(), ringBufferSize, pollInterval, loggerSource, source, droppedMessages)
}

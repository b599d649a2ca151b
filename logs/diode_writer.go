package logs

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/diode"
	"go.uber.org/atomic"
)

// DiodeWriter decouples log production from a slow destination with a lock free ring
// buffer: writes land in the buffer and a background poller drains them into the sink,
// so the caller never blocks. Messages the buffer cannot hold are dropped and counted.
type DiodeWriter struct {
	buffer diode.Writer
	sink   WriterWithSource
	closed atomic.Bool
}

func (w *DiodeWriter) Write(p []byte) (int, error) {
	return w.buffer.Write(p)
}

// Close drains the ring buffer into the sink before closing it. Later calls are no-ops.
func (w *DiodeWriter) Close() error {
	if w.closed.Swap(true) {
		return nil
	}
	if err := w.buffer.Close(); err != nil {
		return err
	}
	return w.sink.Close()
}

func (w *DiodeWriter) SetSource(source string) error {
	return w.sink.SetSource(source)
}

// NewDiodeWriterForSlowWriter wraps slowWriter so writes never block: up to
// ringBufferSize messages are buffered and drained every pollInterval. Dropped messages
// are reported to droppedMessagesLogger when one is provided.
func NewDiodeWriterForSlowWriter(slowWriter WriterWithSource, ringBufferSize int, pollInterval time.Duration, droppedMessagesLogger Loggers) WriterWithSource {
	return &DiodeWriter{
		buffer: diode.NewWriter(slowWriter, ringBufferSize, pollInterval, func(missed int) {
			if droppedMessagesLogger != nil {
				droppedMessagesLogger.LogError(fmt.Sprintf("the log buffer dropped %v messages", missed))
			}
		}),
		sink: slowWriter,
	}
}

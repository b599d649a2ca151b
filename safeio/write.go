// Package safeio provides context-aware I/O primitives so that long writes stop as soon
// as the caller's context is done.
package safeio

import (
	"context"
	"io"

	"github.com/dolmen-go/contextio"
)

// Write writes p to dst, checking the context before the underlying write and
// reporting failures in the common error vocabulary.
func Write(ctx context.Context, dst io.Writer, p []byte) (int, error) {
	return ContextualWriter(ctx, dst).Write(p)
}

// WriteString is Write for strings, mirroring io.WriteString.
func WriteString(ctx context.Context, dst io.Writer, s string) (int, error) {
	return io.WriteString(ContextualWriter(ctx, dst), s)
}

// ContextualWriter returns a writer bound to ctx: the context is checked before every
// Write and any failure comes back as a common error.
func ContextualWriter(ctx context.Context, writer io.Writer) io.Writer {
	return &convertingWriter{inner: contextio.NewWriter(ctx, writer)}
}

type convertingWriter struct {
	inner io.Writer
}

func (w *convertingWriter) Write(p []byte) (int, error) {
	n, err := w.inner.Write(p)
	return n, ConvertIOError(err)
}

package logrimp

import "github.com/go-logr/logr"

// errorOnlySink forwards errors and swallows everything else.
type errorOnlySink struct {
	delegate logr.Logger
}

func (s *errorOnlySink) Init(logr.RuntimeInfo) {}

func (s *errorOnlySink) Enabled(int) bool {
	return false
}

func (s *errorOnlySink) Info(int, string, ...any) {}

func (s *errorOnlySink) Error(err error, msg string, keysAndValues ...any) {
	s.delegate.Error(err, msg, keysAndValues...)
}

func (s *errorOnlySink) WithValues(keysAndValues ...any) logr.LogSink {
	return &errorOnlySink{delegate: s.delegate.WithValues(keysAndValues...)}
}

func (s *errorOnlySink) WithName(name string) logr.LogSink {
	return &errorOnlySink{delegate: s.delegate.WithName(name)}
}

// NewQuietLogger returns a logger letting only errors through, for chatty background
// work such as retention sweeps.
func NewQuietLogger(logger logr.Logger) logr.Logger {
	return logr.New(&errorOnlySink{delegate: logger})
}

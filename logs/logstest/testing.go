// Package logstest provides the logr loggers the engine's tests run with.
package logstest

import (
	"testing"

	"github.com/bombsimon/logrusr/v4"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	logrustest "github.com/sirupsen/logrus/hooks/test"

	"github.com/txkit-go/txkit/logs/logrimp"
)

// NewTestLogger returns a logger wired to t so engine output lands in the test log.
func NewTestLogger(t *testing.T) logr.Logger {
	return testr.New(t)
}

// NewNullTestLogger returns a logger recording nothing, for tests which only need a
// logger to exist.
func NewNullTestLogger() logr.Logger {
	recorder, _ := logrustest.NewNullLogger()
	return logrusr.New(recorder)
}

// NewStdTestLogger returns a logger to standard output, for tests run by hand.
func NewStdTestLogger() logr.Logger {
	return logrimp.NewStdOutLogr()
}

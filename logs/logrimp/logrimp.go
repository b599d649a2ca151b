// Package logrimp gathers the logr implementations the engine knows how to sit on top
// of, so embedders can plug in whichever logging stack they already run.
package logrimp

import (
	"fmt"
	"log/slog"

	"github.com/bombsimon/logrusr/v4"
	"github.com/evanphx/hclogr"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/go-logr/zapr"
	"github.com/hashicorp/go-hclog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// NewZapLogger adapts a zap logger.
func NewZapLogger(logger *zap.Logger) logr.Logger {
	return zapr.NewLogger(logger)
}

// NewLogrusLogger adapts a logrus logger.
func NewLogrusLogger(logger logrus.FieldLogger, opts ...logrusr.Option) logr.Logger {
	return logrusr.New(logger, opts...)
}

// NewHclogLogger adapts an hclog logger.
func NewHclogLogger(logger hclog.Logger) logr.Logger {
	return hclogr.Wrap(logger)
}

// NewSlogLogger adapts a standard library slog logger.
func NewSlogLogger(logger *slog.Logger) logr.Logger {
	return logr.FromSlogHandler(logger.Handler())
}

// NewNoopLogger returns a logger discarding everything sent to it.
func NewNoopLogger() logr.Logger {
	return logr.Discard()
}

// NewStdOutLogr returns a plain logger to standard output.
func NewStdOutLogr() logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix == "" {
			fmt.Println(args)
		} else {
			fmt.Printf("%v: %v\n", prefix, args)
		}
	}, funcr.Options{})
}

package logs

import (
	"io"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/reflection"
)

// NewLogrusLogger returns loggers writing through logrusL, output at info level and
// errors at error level.
func NewLogrusLogger(logrusL *logrus.Logger, loggerSource string) (Loggers, error) {
	outWriter := logrusL.WriterLevel(logrus.InfoLevel)
	errWriter := logrusL.WriterLevel(logrus.ErrorLevel)
	return newStreamLoggers(outWriter, errWriter, loggerSource, outWriter, errWriter), nil
}

// NewLogrusLoggerWithFileHook mirrors every entry of logrusL to logFile through a file
// hook, whatever outputs the logger already has.
func NewLogrusLoggerWithFileHook(logrusL *logrus.Logger, loggerSource string, logFile string) (Loggers, error) {
	if reflection.IsEmpty(logFile) {
		return nil, commonerrors.New(commonerrors.ErrInvalidDestination, "missing log file destination")
	}
	paths := lfshook.PathMap{}
	for _, level := range logrus.AllLevels {
		paths[level] = logFile
	}
	logrusL.Hooks.Add(lfshook.NewHook(paths, &logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	}))
	return NewLogrusLogger(logrusL, loggerSource)
}

// NewFileOnlyLogger returns loggers writing to logFile and nowhere else, for journals
// which must not pollute the console.
func NewFileOnlyLogger(logFile string, loggerSource string) (Loggers, error) {
	underlying := logrus.New()
	underlying.SetOutput(io.Discard)
	return NewLogrusLoggerWithFileHook(underlying, loggerSource, logFile)
}

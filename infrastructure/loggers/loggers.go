package loggers

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type MultiLogger struct {
	loggers []zerolog.Logger
	exit    func(int)
}

func InitializeMultiLogger(logToStdout bool, level string) (*MultiLogger, error) {
	writers := make([]io.Writer, 0)
	if logToStdout {
		writers = append(writers, os.Stdout)
	}
	return NewMultiLogger(level, writers...)
}

// NewMultiLogger writes JSON log lines at or above level to every writer.
func NewMultiLogger(level string, writers ...io.Writer) (*MultiLogger, error) {
	zerologLevel := zerolog.InfoLevel
	if strings.TrimSpace(level) != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
		if err != nil {
			return nil, fmt.Errorf("error parsing log level='%s': %v", level, err)
		}
		zerologLevel = parsed
	}
	loggers := make([]zerolog.Logger, 0, len(writers))
	for _, writer := range writers {
		loggers = append(loggers, zerolog.New(writer).Level(zerologLevel).With().Timestamp().Logger())
	}
	return &MultiLogger{loggers: loggers, exit: os.Exit}, nil
}

func (multiLogger *MultiLogger) Info(msg string, args ...any) {
	multiLogger.doLog(zerolog.InfoLevel, msg, args...)
}

func (multiLogger *MultiLogger) Warn(msg string, args ...any) {
	multiLogger.doLog(zerolog.WarnLevel, msg, args...)
}

func (multiLogger *MultiLogger) Debug(msg string, args ...any) {
	multiLogger.doLog(zerolog.DebugLevel, msg, args...)
}

func (multiLogger *MultiLogger) Error(msg string, args ...any) {
	multiLogger.doLog(zerolog.ErrorLevel, msg, args...)
}

func (multiLogger *MultiLogger) Fatal(msg string, args ...any) {
	multiLogger.doLog(zerolog.FatalLevel, msg, args...)
}

func (multiLogger *MultiLogger) doLog(level zerolog.Level, msg string, args ...any) {
	for _, logger := range multiLogger.loggers {
		logger.WithLevel(level).Msgf(msg, args...)
	}
	if level == zerolog.FatalLevel {
		multiLogger.exit(1)
	}
}

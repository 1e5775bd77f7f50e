package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// New builds the application logger. Unknown level names fall back to info.
func New(level string, dev bool) *log.Logger {
	return NewWithWriter(os.Stderr, level, dev)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level string, dev bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    dev,
		Prefix:          "premiumgate",
	})
	logger.SetLevel(ParseLevel(level))
	if !dev {
		logger.SetFormatter(log.LogfmtFormatter)
	}
	return logger
}

// ParseLevel maps a level name to a charmbracelet/log level.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

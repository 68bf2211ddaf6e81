// Package logging configures the process logger: human-readable output on
// stderr plus JSON-formatted entries appended to a configured log file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Setup builds the logger. logFile may be empty to disable file output;
// its parent directory is created when needed. The returned closer releases
// the log file handle.
func Setup(level, logFile string) (*logrus.Logger, func() error, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	logger.SetLevel(parsed)

	closer := func() error { return nil }
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o750); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		logger.AddHook(&fileHook{file: f, formatter: &logrus.JSONFormatter{}})
		closer = f.Close
	}

	return logger, closer, nil
}

// fileHook mirrors every entry into the log file as one JSON object per
// line, independent of the console formatter.
type fileHook struct {
	file      *os.File
	formatter logrus.Formatter
}

func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fileHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.file.Write(line)
	return err
}

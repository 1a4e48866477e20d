package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// New builds the process logger. An unknown level falls back to warn and is
// reported as an error so the caller can surface it.
func New(level string, out io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.SetLevel(logrus.WarnLevel)
		return log, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetLevel(lvl)
	return log, nil
}

// Discard returns a logger that drops everything, for tests and library use
// without a configured logger.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

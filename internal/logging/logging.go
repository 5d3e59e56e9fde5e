// Package logging builds the logrus loggers used across the tool.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a text logger writing to w. quiet raises the level to error
// regardless of level.
func New(w io.Writer, level string, quiet bool) (*logrus.Logger, error) {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if quiet {
		lvl = logrus.ErrorLevel
	}
	l.SetLevel(lvl)
	return l, nil
}

// ParseLevel accepts logrus level names; the empty string means info.
func ParseLevel(s string) (logrus.Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return logrus.InfoLevel, nil
	}
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --log-level %q", s)
	}
	return lvl, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

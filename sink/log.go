// Package sink holds motion.Sink implementations that need no device: the
// log sink prints every report, and subpackages deliver to uinput or VIIPER.
package sink

import (
	"context"
	"log/slog"

	"github.com/Alia5/pawd/motion"
)

// Log writes each report at the given level. It is used for bench testing
// a sensor without an input stack.
type Log struct {
	logger *slog.Logger
	level  slog.Level
}

var _ motion.Sink = (*Log)(nil)

func NewLog(logger *slog.Logger, level slog.Level) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger, level: level}
}

func (l *Log) ReportRelative(axis motion.Axis, value int16, final bool) error {
	l.logger.Log(context.Background(), l.level, "Report", "axis", axis.String(), "value", value, "final", final)
	return nil
}

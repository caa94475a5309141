package tracelog

import (
	"github.com/sirupsen/logrus"

	"deploytrace/internal/constants"
)

// Hook forwards entries of a logrus logger into a Dispatcher so code that
// logs through core/log also reaches the trace log.
//
// Debug and Trace entries become debug messages, Warn becomes Warning,
// Error and above become Error. The "source" and "section" fields map to
// the matching tags.
type Hook struct {
	d      *Dispatcher
	levels []logrus.Level
}

// NewHook creates a Hook for all levels.
func NewHook(d *Dispatcher) *Hook {
	return &Hook{d: d, levels: logrus.AllLevels}
}

// Levels implements logrus.Hook.
func (h *Hook) Levels() []logrus.Level {
	return h.levels
}

// Fire implements logrus.Hook.
func (h *Hook) Fire(e *logrus.Entry) error {
	if _, internal := e.Data[hookBypassField]; internal {
		return nil
	}

	opts := []Option{WithSeverity(severityForLevel(e.Level))}
	if e.Level >= logrus.DebugLevel {
		opts = append(opts, AsDebug())
	}
	if source, ok := e.Data[constants.LogFieldSource].(string); ok {
		opts = append(opts, WithSource(source))
	}
	if section, ok := e.Data[constants.LogFieldSection].(string); ok {
		opts = append(opts, WithSection(section))
	}

	msg := e.Message
	if err, ok := e.Data[logrus.ErrorKey].(error); ok && err != nil {
		msg += ": " + err.Error()
	}

	h.d.Log([]string{msg}, opts...)
	return nil
}

func severityForLevel(level logrus.Level) Severity {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		return SeverityError
	case logrus.WarnLevel:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

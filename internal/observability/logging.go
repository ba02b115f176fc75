package observability

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a JSON logger writing to stderr at the given level
// (debug, info, warn, error). An empty level means info. The returned level
// can be raised or lowered after construction.
func NewLogger(level string) (*zap.Logger, zap.AtomicLevel, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, zap.AtomicLevel{}, fmt.Errorf("parsing log level %q: %w", level, err)
		}
	}
	atom := zap.NewAtomicLevelAt(lvl)

	config := zap.NewProductionConfig()
	config.Level = atom
	config.Sampling = nil
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("building logger: %w", err)
	}
	return logger, atom, nil
}

// EventLogger records named domain events as structured log entries.
type EventLogger struct {
	logger *zap.Logger
}

// NewEventLogger wraps logger. A nil logger discards everything.
func NewEventLogger(logger *zap.Logger) *EventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventLogger{logger: logger}
}

// LogEvent writes eventType with data as fields at info level.
func (l *EventLogger) LogEvent(eventType string, data map[string]any) error {
	fields := make([]zap.Field, 0, len(data)+1)
	fields = append(fields, zap.String("event", eventType))
	for k, v := range data {
		fields = append(fields, zap.Any(k, v))
	}
	l.logger.Info(eventType, fields...)
	return nil
}

package core

// EventLogger is the subset of the observability layer that core services
// need for diagnostics. Defining it here avoids importing observability.
type EventLogger interface {
	LogEvent(eventType string, data map[string]any) error
}

// logEvent reports to logger when one is configured. Failures are ignored.
func logEvent(logger EventLogger, eventType string, data map[string]any) {
	if logger == nil {
		return
	}
	_ = logger.LogEvent(eventType, data)
}

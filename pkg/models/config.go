package models

// SupersedePolicy decides what happens to an open shift when another start
// boundary is seen before its end boundary.
type SupersedePolicy string

const (
	// SupersedeAutoClose emits the open shift as closed at the superseding
	// start's timestamp.
	SupersedeAutoClose SupersedePolicy = "auto_close"
	// SupersedeDiscard drops the open shift and everything accumulated in it.
	SupersedeDiscard SupersedePolicy = "discard"
)

// MarkerConfig holds the substrings that identify untagged System events as
// shift boundaries.
type MarkerConfig struct {
	Start string `yaml:"start" mapstructure:"start"`
	End   string `yaml:"end" mapstructure:"end"`
}

// DefaultMarkers returns the boundary markers written by the shift manager.
func DefaultMarkers() MarkerConfig {
	return MarkerConfig{Start: "initialized", End: "closed"}
}

// AlertConfig configures the shift alert thresholds.
type AlertConfig struct {
	MaxShiftHours       int     `yaml:"max_shift_hours" mapstructure:"max_shift_hours"`
	PressureThreshold   float64 `yaml:"pressure_threshold" mapstructure:"pressure_threshold"`
	AlertCountThreshold int     `yaml:"alert_count_threshold" mapstructure:"alert_count_threshold"`
}

// SlackConfig holds Slack webhook settings.
type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url" mapstructure:"webhook_url"`
}

// NotificationConfig controls outbound alert notifications.
type NotificationConfig struct {
	Enabled bool        `yaml:"enabled" mapstructure:"enabled"`
	Slack   SlackConfig `yaml:"slack" mapstructure:"slack"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// GlobalConfig holds workspace settings read from .jgconfig via Viper.
type GlobalConfig struct {
	Markers         MarkerConfig       `yaml:"markers" mapstructure:"markers"`
	SupersedePolicy SupersedePolicy    `yaml:"supersede_policy" mapstructure:"supersede_policy"`
	DefaultRole     Role               `yaml:"default_role" mapstructure:"default_role"`
	Alerts          AlertConfig        `yaml:"alerts" mapstructure:"alerts"`
	Notifications   NotificationConfig `yaml:"notifications" mapstructure:"notifications"`
	Log             LogConfig          `yaml:"log" mapstructure:"log"`
}

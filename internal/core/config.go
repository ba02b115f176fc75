// Package core contains the business logic for jegere: shift reconstruction,
// the live shift lifecycle, archive and replay views, backups, validation and
// configuration.
package core

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/jegere/pkg/models"
)

// ConfigFileName is the workspace configuration file, without extension.
const ConfigFileName = ".jgconfig"

// ConfigurationManager loads and validates the workspace configuration.
type ConfigurationManager interface {
	LoadGlobalConfig() (*models.GlobalConfig, error)
	ValidateConfig(cfg *models.GlobalConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading the YAML configuration file.
type viperConfigManager struct {
	// basePath is the root directory where .jgconfig resides.
	basePath string
}

// NewConfigurationManager creates a new ConfigurationManager that reads
// configuration files relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultGlobalConfig returns a GlobalConfig populated with defaults.
func DefaultGlobalConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		Markers:         models.DefaultMarkers(),
		SupersedePolicy: models.SupersedeAutoClose,
		DefaultRole:     models.RoleManager,
		Alerts: models.AlertConfig{
			MaxShiftHours:       14,
			PressureThreshold:   8,
			AlertCountThreshold: 5,
		},
		Log: models.LogConfig{Level: "warn"},
	}
}

// LoadGlobalConfig reads .jgconfig from the base path using Viper.
// If the file does not exist, defaults are returned.
func (cm *viperConfigManager) LoadGlobalConfig() (*models.GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("markers.start", cfg.Markers.Start)
	v.SetDefault("markers.end", cfg.Markers.End)
	v.SetDefault("supersede_policy", string(cfg.SupersedePolicy))
	v.SetDefault("default_role", string(cfg.DefaultRole))
	v.SetDefault("alerts.max_shift_hours", cfg.Alerts.MaxShiftHours)
	v.SetDefault("alerts.pressure_threshold", cfg.Alerts.PressureThreshold)
	v.SetDefault("alerts.alert_count_threshold", cfg.Alerts.AlertCountThreshold)
	v.SetDefault("notifications.enabled", false)
	v.SetDefault("notifications.slack.webhook_url", "")
	v.SetDefault("log.level", cfg.Log.Level)

	v.SetEnvPrefix("JG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading %s: %w", ConfigFileName, err)
		}
	}

	cfg.Markers.Start = v.GetString("markers.start")
	cfg.Markers.End = v.GetString("markers.end")
	cfg.SupersedePolicy = models.SupersedePolicy(v.GetString("supersede_policy"))
	cfg.DefaultRole = models.Role(v.GetString("default_role"))
	cfg.Alerts.MaxShiftHours = v.GetInt("alerts.max_shift_hours")
	cfg.Alerts.PressureThreshold = v.GetFloat64("alerts.pressure_threshold")
	cfg.Alerts.AlertCountThreshold = v.GetInt("alerts.alert_count_threshold")
	cfg.Notifications.Enabled = v.GetBool("notifications.enabled")
	cfg.Notifications.Slack.WebhookURL = v.GetString("notifications.slack.webhook_url")
	cfg.Log.Level = v.GetString("log.level")

	return cfg, nil
}

var validPolicies = map[models.SupersedePolicy]bool{
	models.SupersedeAutoClose: true,
	models.SupersedeDiscard:   true,
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// ValidateConfig checks cfg for invalid values and returns an error listing
// every problem found.
func (cm *viperConfigManager) ValidateConfig(cfg *models.GlobalConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if strings.TrimSpace(cfg.Markers.Start) == "" {
		errs = append(errs, "markers.start must not be empty")
	}
	if strings.TrimSpace(cfg.Markers.End) == "" {
		errs = append(errs, "markers.end must not be empty")
	}
	if cfg.Markers.Start != "" && cfg.Markers.Start == cfg.Markers.End {
		errs = append(errs, fmt.Sprintf("markers.start and markers.end must differ, both are %q", cfg.Markers.Start))
	}

	if !validPolicies[cfg.SupersedePolicy] {
		errs = append(errs, fmt.Sprintf(
			"supersede_policy %q is invalid, must be one of: auto_close, discard",
			cfg.SupersedePolicy,
		))
	}

	if cfg.DefaultRole != "" && !cfg.DefaultRole.IsUserRole() {
		errs = append(errs, fmt.Sprintf(
			"default_role %q is invalid, must be one of: Owner, Manager, Chef, Service",
			cfg.DefaultRole,
		))
	}

	if cfg.Alerts.MaxShiftHours < 0 {
		errs = append(errs, fmt.Sprintf("alerts.max_shift_hours must be non-negative, got %d", cfg.Alerts.MaxShiftHours))
	}
	if cfg.Alerts.PressureThreshold < 0 {
		errs = append(errs, fmt.Sprintf("alerts.pressure_threshold must be non-negative, got %g", cfg.Alerts.PressureThreshold))
	}
	if cfg.Alerts.AlertCountThreshold < 0 {
		errs = append(errs, fmt.Sprintf("alerts.alert_count_threshold must be non-negative, got %d", cfg.Alerts.AlertCountThreshold))
	}

	if cfg.Notifications.Enabled && cfg.Notifications.Slack.WebhookURL == "" {
		errs = append(errs, "notifications.slack.webhook_url is required when notifications are enabled")
	}

	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level %q is invalid, must be one of: debug, info, warn, error", cfg.Log.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

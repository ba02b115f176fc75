// Package internal provides the App struct that wires all components of
// jegere together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/valter-silva-au/jegere/internal/cli"
	"github.com/valter-silva-au/jegere/internal/core"
	"github.com/valter-silva-au/jegere/internal/observability"
	"github.com/valter-silva-au/jegere/internal/storage"
	"github.com/valter-silva-au/jegere/pkg/models"
	"go.uber.org/zap"
)

// Data files kept under the base path.
const (
	EventLogFile   = "events.jsonl"
	ShiftStateFile = "current_shift.yaml"
)

// App holds all service dependencies for jegere.
type App struct {
	BasePath string
	Config   *models.GlobalConfig

	// Configuration
	ConfigMgr core.ConfigurationManager

	// Logging
	Logger   *zap.Logger
	LogLevel zap.AtomicLevel

	// Storage layer
	EventStore storage.EventStoreManager
	ShiftState storage.ShiftStateManager

	// Core services
	Reconstructor core.ShiftReconstructor
	ShiftMgr      core.ShiftManager
	Archive       core.ArchiveService
	Backups       core.BackupManager

	// Observability
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
}

// NewApp creates and wires all components of jegere. basePath is the
// directory holding .jgconfig and the data files.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadGlobalConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg

	// --- Logging ---
	app.Logger, app.LogLevel, err = observability.NewLogger(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	// --- Storage layer ---
	app.EventStore = storage.NewEventStoreManager(filepath.Join(basePath, EventLogFile), app.Logger)
	app.ShiftState = storage.NewShiftStateManager(filepath.Join(basePath, ShiftStateFile))

	// --- Core services ---
	eventLogger := observability.NewEventLogger(app.Logger)
	app.Reconstructor = core.NewShiftReconstructor(core.ReconstructorOptions{
		Markers: cfg.Markers,
		Policy:  cfg.SupersedePolicy,
		Now:     time.Now,
	})
	app.ShiftMgr = core.NewShiftManager(app.EventStore, app.ShiftState, core.ShiftManagerOptions{
		Markers: cfg.Markers,
		Logger:  eventLogger,
	})
	app.Archive = core.NewArchiveService(app.EventStore, app.Reconstructor)
	app.Backups = core.NewBackupManager(app.EventStore, app.ShiftState, eventLogger)

	// --- Observability ---
	app.MetricsCalc = observability.NewMetricsCalculator(app.Archive)
	app.AlertEngine = observability.NewAlertEngine(app.Archive, observability.ThresholdsFromConfig(cfg.Alerts), nil)
	if cfg.Notifications.Enabled && cfg.Notifications.Slack.WebhookURL != "" {
		app.Notifier = observability.NewSlackNotifier(cfg.Notifications.Slack.WebhookURL)
	}

	// --- Wire CLI package-level variables ---
	cli.ShiftMgr = app.ShiftMgr
	cli.Archive = app.Archive
	cli.Backups = app.Backups
	cli.AlertEngine = app.AlertEngine
	cli.MetricsCalc = app.MetricsCalc
	cli.Notifier = app.Notifier
	cli.Logger = app.Logger
	cli.LogLevel = app.LogLevel
	cli.EventLogPath = app.EventStore.Path()
	if cfg.DefaultRole != "" {
		cli.DefaultRole = cfg.DefaultRole
	}

	app.Logger.Debug("workspace ready", zap.String("base_path", basePath))
	return app, nil
}

// Close flushes buffered log entries.
func (a *App) Close() error {
	if a.Logger == nil {
		return nil
	}
	// Sync on a terminal stderr fails with EINVAL on some platforms.
	_ = a.Logger.Sync()
	return nil
}

// ResolveBasePath determines the jegere workspace directory. It checks the
// JG_HOME env var, then walks up from the current directory looking for
// .jgconfig, then falls back to ~/.jegere.
func ResolveBasePath() string {
	if home := os.Getenv("JG_HOME"); home != "" {
		return home
	}

	if dir, err := os.Getwd(); err == nil {
		for {
			if _, err := os.Stat(filepath.Join(dir, core.ConfigFileName)); err == nil {
				return dir
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".jegere")
}

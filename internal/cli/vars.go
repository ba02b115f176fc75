package cli

import (
	"github.com/valter-silva-au/jegere/internal/core"
	"github.com/valter-silva-au/jegere/internal/observability"
	"github.com/valter-silva-au/jegere/pkg/models"
	"go.uber.org/zap"
)

// Service instances, set during app initialization in app.go.
var (
	ShiftMgr core.ShiftManager
	Archive  core.ArchiveService
	Backups  core.BackupManager
)

// Observability service instances, set during app initialization in app.go.
var (
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
)

// Logging and workspace settings, set during app initialization in app.go.
var (
	Logger   = zap.NewNop()
	LogLevel = zap.NewAtomicLevel()

	// DefaultRole is the role assumed when --role/--as is not given.
	DefaultRole = models.RoleManager

	// EventLogPath is the event log file watched by the dashboard.
	EventLogPath string
)

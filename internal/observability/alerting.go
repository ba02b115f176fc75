package observability

import (
	"fmt"
	"strconv"
	"time"

	"github.com/valter-silva-au/jegere/pkg/models"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert conditions.
const (
	ConditionShiftTooLong = "shift_running_too_long"
	ConditionHighPressure = "shift_high_pressure"
	ConditionAlertBurst   = "shift_alert_burst"
	ConditionAutoClosed   = "shift_auto_closed"
)

// RecentWindow bounds which closed shifts are still evaluated.
const RecentWindow = 24 * time.Hour

// Alert represents a triggered alert condition.
type Alert struct {
	ID          string        `json:"id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	ShiftID     string        `json:"shift_id"`
	Message     string        `json:"message"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// AlertThresholds configures when alerts should fire. A zero threshold
// disables its rule.
type AlertThresholds struct {
	MaxShiftHours       int     `yaml:"max_shift_hours" json:"max_shift_hours"`
	PressureThreshold   float64 `yaml:"pressure_threshold" json:"pressure_threshold"`
	AlertCountThreshold int     `yaml:"alert_count_threshold" json:"alert_count_threshold"`
}

// DefaultAlertThresholds returns sensible defaults for alert thresholds.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		MaxShiftHours:       14,
		PressureThreshold:   8,
		AlertCountThreshold: 5,
	}
}

// ThresholdsFromConfig converts the alerts section of the configuration.
func ThresholdsFromConfig(cfg models.AlertConfig) AlertThresholds {
	return AlertThresholds{
		MaxShiftHours:       cfg.MaxShiftHours,
		PressureThreshold:   cfg.PressureThreshold,
		AlertCountThreshold: cfg.AlertCountThreshold,
	}
}

// AlertEngine evaluates alert conditions against reconstructed shifts.
type AlertEngine interface {
	Evaluate() ([]Alert, error)
}

type alertEngine struct {
	source     ShiftSource
	thresholds AlertThresholds
	now        func() time.Time
}

// NewAlertEngine creates an AlertEngine reading shifts from source. A nil
// now uses time.Now.
func NewAlertEngine(source ShiftSource, thresholds AlertThresholds, now func() time.Time) AlertEngine {
	if now == nil {
		now = time.Now
	}
	return &alertEngine{source: source, thresholds: thresholds, now: now}
}

// Evaluate checks the active shift and shifts closed within RecentWindow.
func (ae *alertEngine) Evaluate() ([]Alert, error) {
	shifts, err := ae.source.List(models.RoleAll)
	if err != nil {
		return nil, fmt.Errorf("reading shifts for alerts: %w", err)
	}

	now := ae.now().UTC()
	cutoff := now.Add(-RecentWindow).UnixMilli()

	var alerts []Alert
	for _, s := range shifts {
		if !s.IsActive && s.EndTime < cutoff {
			continue
		}
		alerts = append(alerts, ae.checkShift(s, now)...)
	}
	return alerts, nil
}

func (ae *alertEngine) checkShift(s models.ArchiveShift, now time.Time) []Alert {
	var alerts []Alert
	t := ae.thresholds

	if t.MaxShiftHours > 0 && s.IsActive {
		limit := time.Duration(t.MaxShiftHours) * time.Hour
		if time.Duration(s.Duration)*time.Millisecond > limit {
			alerts = append(alerts, Alert{
				ID:          "too-long-" + s.ID,
				Condition:   ConditionShiftTooLong,
				Severity:    SeverityHigh,
				ShiftID:     s.ID,
				Message:     fmt.Sprintf("shift %s has been open for more than %d hours", s.ID, t.MaxShiftHours),
				TriggeredAt: now,
			})
		}
	}

	if t.PressureThreshold > 0 && len(s.PressurePeaks) > 0 {
		if avg := mean(s.PressurePeaks); avg >= t.PressureThreshold {
			msg := fmt.Sprintf("shift %s average pressure %s is at or above %s",
				s.ID, formatAverage(s.PressurePeaks), strconv.FormatFloat(t.PressureThreshold, 'f', -1, 64))
			alerts = append(alerts, Alert{
				ID:          "pressure-" + s.ID,
				Condition:   ConditionHighPressure,
				Severity:    SeverityMedium,
				ShiftID:     s.ID,
				Message:     msg,
				TriggeredAt: now,
			})
		}
	}

	if t.AlertCountThreshold > 0 && s.Alerts >= t.AlertCountThreshold {
		alerts = append(alerts, Alert{
			ID:          "alerts-" + s.ID,
			Condition:   ConditionAlertBurst,
			Severity:    SeverityMedium,
			ShiftID:     s.ID,
			Message:     fmt.Sprintf("shift %s recorded %d alerts (threshold %d)", s.ID, s.Alerts, t.AlertCountThreshold),
			TriggeredAt: now,
		})
	}

	if s.AutoClosed {
		alerts = append(alerts, Alert{
			ID:          "auto-closed-" + s.ID,
			Condition:   ConditionAutoClosed,
			Severity:    SeverityLow,
			ShiftID:     s.ID,
			Message:     fmt.Sprintf("shift %s was never stopped and was closed when the next shift started", s.ID),
			TriggeredAt: now,
		})
	}

	return alerts
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

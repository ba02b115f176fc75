package observability

import (
	"fmt"
	"time"

	"github.com/valter-silva-au/jegere/internal/core"
	"github.com/valter-silva-au/jegere/pkg/models"
)

// ShiftSource lists reconstructed shifts, newest first.
type ShiftSource interface {
	List(role models.Role) ([]models.ArchiveShift, error)
}

// Metrics holds figures aggregated across reconstructed shifts.
type Metrics struct {
	ShiftCount         int            `json:"shift_count"`
	ClosedShifts       int            `json:"closed_shifts"`
	AutoClosedShifts   int            `json:"auto_closed_shifts"`
	ActiveShiftID      string         `json:"active_shift_id,omitempty"`
	EventCount         int            `json:"event_count"`
	AlertCount         int            `json:"alert_count"`
	AvgPressure        string         `json:"avg_pressure"`
	AvgMood            string         `json:"avg_mood"`
	AvgDurationMinutes float64        `json:"avg_duration_minutes"`
	ShiftsByRole       map[string]int `json:"shifts_by_role"`
	OldestShift        *time.Time     `json:"oldest_shift,omitempty"`
	NewestShift        *time.Time     `json:"newest_shift,omitempty"`
}

// MetricsCalculator derives metrics from the shift archive.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

type metricsCalculator struct {
	source ShiftSource
}

// NewMetricsCalculator creates a MetricsCalculator reading from source.
func NewMetricsCalculator(source ShiftSource) MetricsCalculator {
	return &metricsCalculator{source: source}
}

// Calculate aggregates every shift opened at or after since.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	shifts, err := mc.source.List(models.RoleAll)
	if err != nil {
		return nil, fmt.Errorf("reading shifts for metrics: %w", err)
	}
	return Aggregate(shifts, since), nil
}

// Aggregate computes Metrics over the shifts opened at or after since.
// Averages are weighted by reading, not by shift.
func Aggregate(shifts []models.ArchiveShift, since time.Time) *Metrics {
	m := &Metrics{ShiftsByRole: make(map[string]int)}
	sinceMs := since.UnixMilli()

	var pressures, moods []float64
	var closedDuration int64

	for _, s := range shifts {
		if s.StartTime < sinceMs {
			continue
		}
		m.ShiftCount++
		m.EventCount += len(s.Events)
		m.AlertCount += s.Alerts
		pressures = append(pressures, s.PressurePeaks...)
		moods = append(moods, s.MoodReadings...)

		switch {
		case s.IsActive:
			m.ActiveShiftID = s.ID
		default:
			m.ClosedShifts++
			closedDuration += s.Duration
			if s.AutoClosed {
				m.AutoClosedShifts++
			}
		}

		for _, r := range s.Roles {
			if r.IsUserRole() {
				m.ShiftsByRole[string(r)]++
			}
		}

		start := time.UnixMilli(s.StartTime).UTC()
		if m.OldestShift == nil || start.Before(*m.OldestShift) {
			t := start
			m.OldestShift = &t
		}
		if m.NewestShift == nil || start.After(*m.NewestShift) {
			t := start
			m.NewestShift = &t
		}
	}

	m.AvgPressure = formatAverage(pressures)
	m.AvgMood = formatAverage(moods)
	if m.ClosedShifts > 0 {
		m.AvgDurationMinutes = float64(closedDuration) / float64(m.ClosedShifts) / float64(time.Minute/time.Millisecond)
	}
	return m
}

// formatAverage renders values with the archive's rounding, "N/A" when empty.
func formatAverage(values []float64) string {
	if s, ok := core.FormatAverage(values); ok {
		return s
	}
	return models.AvgNotAvailable
}

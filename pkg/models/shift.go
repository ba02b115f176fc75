package models

// ShiftStatus is the lifecycle state of the live shift.
type ShiftStatus string

const (
	ShiftActive ShiftStatus = "active"
	ShiftClosed ShiftStatus = "closed"
)

// ShiftMetrics holds optional figures recorded against a live shift.
type ShiftMetrics struct {
	TotalCovers *int     `json:"totalCovers,omitempty" yaml:"total_covers,omitempty"`
	AvgMood     *float64 `json:"avgMood,omitempty" yaml:"avg_mood,omitempty"`
	AlertCount  *int     `json:"alertCount,omitempty" yaml:"alert_count,omitempty"`
}

// Shift is the persisted state of the most recent shift started from this
// workspace. It is written by the shift manager, not derived from the log.
type Shift struct {
	ID        string        `json:"id" yaml:"id"`
	StartTime int64         `json:"startTime" yaml:"start_time"`
	EndTime   *int64        `json:"endTime,omitempty" yaml:"end_time,omitempty"`
	Status    ShiftStatus   `json:"status" yaml:"status"`
	StartedBy Role          `json:"startedBy" yaml:"started_by"`
	Metrics   *ShiftMetrics `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// IsActive reports whether the shift is currently open.
func (s *Shift) IsActive() bool {
	return s != nil && s.Status == ShiftActive
}

// Placeholders used in ArchiveShift averages when no readings exist.
const (
	AvgNotAvailable = "N/A"
	AvgActive       = "Actif"
)

// ArchiveShift is a shift reconstructed from the event log. It is derived on
// every read and never persisted. Times are epoch milliseconds.
type ArchiveShift struct {
	ID            string             `json:"id"`
	StartTime     int64              `json:"startTime"`
	EndTime       int64              `json:"endTime"`
	Duration      int64              `json:"duration"`
	StartEvent    OperationalEvent   `json:"startEvent"`
	Events        []OperationalEvent `json:"events"`
	Alerts        int                `json:"alerts"`
	PressurePeaks []float64          `json:"pressurePeaks"`
	MoodReadings  []float64          `json:"moodReadings"`
	Roles         []Role             `json:"roles"`
	AvgPressure   string             `json:"avgPressure"`
	AvgMood       string             `json:"avgMood"`
	IsActive      bool               `json:"isActive,omitempty"`
	AutoClosed    bool               `json:"autoClosed,omitempty"`
}

// HasRole reports whether role participated in the shift.
func (s ArchiveShift) HasRole(role Role) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Replay is the read-only historical view of one shift, built from the
// events carrying its ShiftID.
type Replay struct {
	Shift  Shift              `json:"shift"`
	Events []OperationalEvent `json:"events"`
}

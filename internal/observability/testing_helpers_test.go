package observability

import (
	"errors"
	"time"

	"github.com/valter-silva-au/jegere/pkg/models"
)

type fakeShiftSource struct {
	shifts []models.ArchiveShift
	err    error
}

func (f *fakeShiftSource) List(role models.Role) ([]models.ArchiveShift, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.shifts, nil
}

var errSourceDown = errors.New("source down")

var refTime = time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC)

func ms(t time.Time) int64 { return t.UnixMilli() }

func closedShift(id string, start, end time.Time) models.ArchiveShift {
	return models.ArchiveShift{
		ID:            id,
		StartTime:     ms(start),
		EndTime:       ms(end),
		Duration:      ms(end) - ms(start),
		PressurePeaks: []float64{},
		MoodReadings:  []float64{},
		Roles:         []models.Role{models.RoleSystem},
		AvgPressure:   models.AvgNotAvailable,
		AvgMood:       models.AvgNotAvailable,
	}
}

func activeShift(id string, start, now time.Time) models.ArchiveShift {
	s := closedShift(id, start, now)
	s.IsActive = true
	s.AvgPressure = models.AvgActive
	return s
}

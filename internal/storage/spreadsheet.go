package storage

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/valter-silva-au/jegere/pkg/models"
	"github.com/xuri/excelize/v2"
)

const (
	shiftsSheet = "Shifts"
	eventsSheet = "Events"
)

var shiftColumns = []any{
	"Shift ID", "Start", "End", "Duration (min)", "Status", "Events",
	"Alerts", "Avg pressure", "Avg mood", "Roles",
}

var eventColumns = []any{
	"Shift ID", "Event ID", "Time", "Type", "Role", "Content", "Pressure", "Mood",
}

// WriteArchiveXLSX renders shifts as a workbook with one sheet of shift
// summaries and one sheet listing every event by shift.
func WriteArchiveXLSX(w io.Writer, shifts []models.ArchiveShift) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", shiftsSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(eventsSheet); err != nil {
		return fmt.Errorf("creating events sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err := writeRow(f, shiftsSheet, 1, shiftColumns); err != nil {
		return err
	}
	if err := writeRow(f, eventsSheet, 1, eventColumns); err != nil {
		return err
	}
	for _, sheet := range []string{shiftsSheet, eventsSheet} {
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return fmt.Errorf("styling %s header: %w", sheet, err)
		}
	}

	eventRow := 2
	for i, s := range shifts {
		status := "closed"
		switch {
		case s.IsActive:
			status = "active"
		case s.AutoClosed:
			status = "auto-closed"
		}
		roles := make([]string, len(s.Roles))
		for j, r := range s.Roles {
			roles[j] = string(r)
		}
		row := []any{
			s.ID, formatMillis(s.StartTime), formatMillis(s.EndTime),
			s.Duration / int64(time.Minute/time.Millisecond), status, len(s.Events),
			s.Alerts, s.AvgPressure, s.AvgMood, strings.Join(roles, ", "),
		}
		if err := writeRow(f, shiftsSheet, i+2, row); err != nil {
			return err
		}

		for _, ev := range s.Events {
			var pressure, mood any
			if p, ok := ev.Pressure(); ok {
				pressure = p
			}
			if m, ok := ev.Mood(); ok {
				mood = m
			}
			row := []any{
				s.ID, ev.ID, formatMillis(ev.Timestamp), string(ev.Type), string(ev.Role),
				ev.Content, pressure, mood,
			}
			if err := writeRow(f, eventsSheet, eventRow, row); err != nil {
				return err
			}
			eventRow++
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("addressing %s row %d: %w", sheet, row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

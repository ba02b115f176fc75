package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/jegere/pkg/models"
)

func sampleArchive() []models.ArchiveShift {
	return []models.ArchiveShift{
		{
			ID: "s-2", StartTime: ms(testStart.Add(24 * time.Hour)), EndTime: ms(testStart.Add(25 * time.Hour)),
			Duration: int64(time.Hour / time.Millisecond), Events: []models.OperationalEvent{},
			Roles: []models.Role{models.RoleSystem, models.RoleService}, AvgPressure: models.AvgActive, AvgMood: models.AvgNotAvailable, IsActive: true,
		},
		{
			ID: "s-1", StartTime: ms(testStart), EndTime: ms(testStart.Add(5 * time.Hour)),
			Duration: int64(5 * time.Hour / time.Millisecond), Events: make([]models.OperationalEvent, 3), Alerts: 1,
			Roles: []models.Role{models.RoleSystem, models.RoleChef}, AvgPressure: "7.5", AvgMood: models.AvgNotAvailable, AutoClosed: true,
		},
	}
}

func resetArchiveFlags() {
	archiveRole, archiveAs, archiveJSON, archiveXLSX = "", "", false, ""
}

func TestArchiveCmd_NilService(t *testing.T) {
	orig := Archive
	defer func() { Archive = orig }()
	Archive = nil

	err := archiveCmd.RunE(archiveCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "not initialized") {
		t.Fatalf("expected not initialized error, got %v", err)
	}
}

func TestArchiveCmd_DefaultFilterFromViewer(t *testing.T) {
	orig := Archive
	defer func() { Archive = orig; resetArchiveFlags() }()

	tests := []struct {
		as   string
		want models.Role
	}{
		{"Owner", models.RoleAll},
		{"Manager", models.RoleAll},
		{"Chef", models.RoleChef},
		{"Service", models.RoleService},
	}
	for _, tt := range tests {
		t.Run(tt.as, func(t *testing.T) {
			resetArchiveFlags()
			archiveAs = tt.as

			var got models.Role
			Archive = &archiveMock{listFn: func(role models.Role) ([]models.ArchiveShift, error) {
				got = role
				return nil, nil
			}}

			captureOutput(archiveCmd)
			if err := archiveCmd.RunE(archiveCmd, nil); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("filter = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestArchiveCmd_ExplicitRoleWins(t *testing.T) {
	orig := Archive
	defer func() { Archive = orig; resetArchiveFlags() }()
	resetArchiveFlags()
	archiveAs = "Chef"
	archiveRole = "all"

	var got models.Role
	Archive = &archiveMock{listFn: func(role models.Role) ([]models.ArchiveShift, error) {
		got = role
		return nil, nil
	}}

	out := captureOutput(archiveCmd)
	if err := archiveCmd.RunE(archiveCmd, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != models.RoleAll {
		t.Errorf("filter = %q, want All", got)
	}
	if !strings.Contains(out.String(), "No shifts found (filter: All)") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestArchiveCmd_Table(t *testing.T) {
	orig := Archive
	defer func() { Archive = orig; resetArchiveFlags() }()
	resetArchiveFlags()

	Archive = &archiveMock{listFn: func(models.Role) ([]models.ArchiveShift, error) { return sampleArchive(), nil }}

	out := captureOutput(archiveCmd)
	if err := archiveCmd.RunE(archiveCmd, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := out.String()
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, blank line and 2 rows, got %d lines:\n%s", len(lines), got)
	}
	if !strings.Contains(lines[2], "s-2") || !strings.Contains(lines[2], "ACTIVE") {
		t.Errorf("expected active shift first, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "s-1") || !strings.Contains(lines[3], "AUTO") || !strings.Contains(lines[3], "300 min") {
		t.Errorf("unexpected row %q", lines[3])
	}
	if !strings.Contains(lines[3], "pressure 7.5") || !strings.Contains(lines[3], "Chef") {
		t.Errorf("unexpected row %q", lines[3])
	}
}

func TestArchiveCmd_JSON(t *testing.T) {
	orig := Archive
	defer func() { Archive = orig; resetArchiveFlags() }()
	resetArchiveFlags()
	archiveJSON = true

	Archive = &archiveMock{listFn: func(models.Role) ([]models.ArchiveShift, error) { return sampleArchive(), nil }}

	out := captureOutput(archiveCmd)
	if err := archiveCmd.RunE(archiveCmd, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var shifts []models.ArchiveShift
	if err := json.Unmarshal(out.Bytes(), &shifts); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(shifts) != 2 || shifts[0].ID != "s-2" || !shifts[0].IsActive {
		t.Errorf("unexpected shifts %+v", shifts)
	}
}

func TestArchiveCmd_XLSX(t *testing.T) {
	orig := Archive
	defer func() { Archive = orig; resetArchiveFlags() }()
	resetArchiveFlags()
	archiveXLSX = filepath.Join(t.TempDir(), "archive.xlsx")

	Archive = &archiveMock{listFn: func(models.Role) ([]models.ArchiveShift, error) { return sampleArchive(), nil }}

	out := captureOutput(archiveCmd)
	if err := archiveCmd.RunE(archiveCmd, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(archiveXLSX)
	if err != nil {
		t.Fatalf("spreadsheet not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("spreadsheet is empty")
	}
	if !strings.Contains(out.String(), "Wrote 2 shift(s)") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestArchiveCmd_ListError(t *testing.T) {
	orig := Archive
	defer func() { Archive = orig; resetArchiveFlags() }()
	resetArchiveFlags()

	boom := errors.New("log unreadable")
	Archive = &archiveMock{listFn: func(models.Role) ([]models.ArchiveShift, error) { return nil, boom }}

	if err := archiveCmd.RunE(archiveCmd, nil); !errors.Is(err, boom) {
		t.Fatalf("expected list error, got %v", err)
	}
}

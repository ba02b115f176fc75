package cli

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/jegere/internal/core"
	"github.com/valter-silva-au/jegere/internal/observability"
	"github.com/valter-silva-au/jegere/pkg/models"
)

type shiftMgrMock struct {
	startFn   func(role models.Role) (*models.Shift, error)
	stopFn    func() (*models.Shift, error)
	currentFn func() (*models.Shift, error)
	addFn     func(ev models.OperationalEvent) (models.OperationalEvent, error)
}

func (m *shiftMgrMock) StartShift(role models.Role) (*models.Shift, error) { return m.startFn(role) }
func (m *shiftMgrMock) StopShift() (*models.Shift, error)                  { return m.stopFn() }
func (m *shiftMgrMock) CurrentShift() (*models.Shift, error)               { return m.currentFn() }

func (m *shiftMgrMock) AddEvent(ev models.OperationalEvent) (models.OperationalEvent, error) {
	return m.addFn(ev)
}

type archiveMock struct {
	listFn   func(role models.Role) ([]models.ArchiveShift, error)
	replayFn func(id string) (*models.Replay, error)
}

func (m *archiveMock) List(role models.Role) ([]models.ArchiveShift, error) { return m.listFn(role) }

func (m *archiveMock) Get(id string) (*models.ArchiveShift, error) {
	shifts, err := m.listFn(models.RoleAll)
	if err != nil {
		return nil, err
	}
	for i := range shifts {
		if shifts[i].ID == id {
			return &shifts[i], nil
		}
	}
	return nil, core.ErrShiftNotFound
}

func (m *archiveMock) Replay(id string) (*models.Replay, error) { return m.replayFn(id) }

type backupMock struct {
	exportFn func(w io.Writer) (*models.BackupData, error)
	importFn func(r io.Reader) (*models.BackupData, error)
	resets   int
}

func (m *backupMock) Export(w io.Writer) (*models.BackupData, error) { return m.exportFn(w) }
func (m *backupMock) Import(r io.Reader) (*models.BackupData, error) { return m.importFn(r) }

func (m *backupMock) FactoryReset() error {
	m.resets++
	return nil
}

type metricsMock struct {
	calcFn func(since time.Time) (*observability.Metrics, error)
}

func (m *metricsMock) Calculate(since time.Time) (*observability.Metrics, error) {
	return m.calcFn(since)
}

type alertsMock struct {
	alerts []observability.Alert
	err    error
}

func (m *alertsMock) Evaluate() ([]observability.Alert, error) { return m.alerts, m.err }

type notifierMock struct {
	sent [][]observability.Alert
	err  error
}

func (m *notifierMock) Notify(_ context.Context, alerts []observability.Alert) error {
	m.sent = append(m.sent, alerts)
	return m.err
}

// captureOutput points cmd's output at a fresh buffer.
func captureOutput(cmd *cobra.Command) *bytes.Buffer {
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	return &buf
}

func ms(t time.Time) int64 { return t.UnixMilli() }

var testStart = time.Date(2025, 3, 14, 18, 0, 0, 0, time.Local)

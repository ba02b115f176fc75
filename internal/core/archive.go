package core

import (
	"errors"
	"fmt"
	"sort"

	"github.com/valter-silva-au/jegere/pkg/models"
)

// ErrShiftNotFound is returned when no reconstructed shift has the given id.
var ErrShiftNotFound = errors.New("shift not found")

// ArchiveService serves the archive and replay views over the event log.
type ArchiveService interface {
	List(role models.Role) ([]models.ArchiveShift, error)
	Get(shiftID string) (*models.ArchiveShift, error)
	Replay(shiftID string) (*models.Replay, error)
}

type archiveService struct {
	events        EventStore
	reconstructor ShiftReconstructor
}

// NewArchiveService creates an ArchiveService that reconstructs shifts from
// the full event log on every call.
func NewArchiveService(events EventStore, reconstructor ShiftReconstructor) ArchiveService {
	return &archiveService{events: events, reconstructor: reconstructor}
}

// List returns the reconstructed shifts, newest first, keeping only those in
// which role participated (models.RoleAll keeps every shift).
func (a *archiveService) List(role models.Role) ([]models.ArchiveShift, error) {
	events, err := a.events.Read(models.EventFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing shifts: %w", err)
	}
	return FilterShiftsByRole(a.reconstructor.Reconstruct(events), role), nil
}

// Get returns the reconstructed shift with the given id.
func (a *archiveService) Get(shiftID string) (*models.ArchiveShift, error) {
	shifts, err := a.List(models.RoleAll)
	if err != nil {
		return nil, err
	}
	for i := range shifts {
		if shifts[i].ID == shiftID {
			return &shifts[i], nil
		}
	}
	return nil, fmt.Errorf("getting shift %s: %w", shiftID, ErrShiftNotFound)
}

// Replay returns the ghost-mode view of shiftID. An empty id names no shift.
func (a *archiveService) Replay(shiftID string) (*models.Replay, error) {
	if shiftID == "" {
		return nil, fmt.Errorf("replaying shift: empty id: %w", ErrShiftNotFound)
	}
	events, err := a.events.Read(models.EventFilter{ShiftID: shiftID})
	if err != nil {
		return nil, fmt.Errorf("replaying shift %s: %w", shiftID, err)
	}
	r := ReplayShift(events, shiftID)
	return &r, nil
}

// ReplayShift builds the read-only historical view of one shift from the
// events whose ShiftID matches. Start and end come from the first and last
// matching events; an unknown or empty id yields an empty replay.
func ReplayShift(events []models.OperationalEvent, shiftID string) models.Replay {
	matched := []models.OperationalEvent{}
	for _, ev := range events {
		if shiftID != "" && ev.ShiftID == shiftID {
			matched = append(matched, ev)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp < matched[j].Timestamp
	})

	ghost := models.Shift{
		ID:        shiftID,
		Status:    models.ShiftClosed,
		StartedBy: models.RoleSystem,
	}
	if len(matched) > 0 {
		end := matched[len(matched)-1].Timestamp
		ghost.StartTime = matched[0].Timestamp
		ghost.EndTime = &end
	}
	return models.Replay{Shift: ghost, Events: matched}
}

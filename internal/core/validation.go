package core

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/valter-silva-au/jegere/pkg/models"
)

// ErrInvalidBackup is returned when an imported document fails validation.
var ErrInvalidBackup = errors.New("invalid backup")

// MaxContentBytes bounds the text of a single event.
const MaxContentBytes = 64 << 10

// ValidateEvent checks the required fields of an operational event.
func ValidateEvent(ev models.OperationalEvent) error {
	var errs []string

	if ev.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if len(ev.Content) > MaxContentBytes {
		errs = append(errs, fmt.Sprintf("content is %d bytes, limit is %d", len(ev.Content), MaxContentBytes))
	}
	if !ev.Type.Valid() {
		errs = append(errs, fmt.Sprintf("type %q is not one of Log, Signal, Alert, Audio, System", ev.Type))
	}
	if !ev.Role.IsUserRole() && ev.Role != models.RoleSystem {
		errs = append(errs, fmt.Sprintf("role %q is not one of Owner, Manager, Chef, Service, System", ev.Role))
	}
	switch ev.Lifecycle {
	case "", models.LifecycleStart, models.LifecycleEnd:
	default:
		errs = append(errs, fmt.Sprintf("lifecycle %q is not one of start, end", ev.Lifecycle))
	}
	if ev.Lifecycle != "" && ev.Type != models.EventSystem {
		errs = append(errs, "lifecycle is only allowed on System events")
	}

	if len(errs) > 0 {
		return fmt.Errorf("event %q: %s", ev.ID, strings.Join(errs, "; "))
	}
	return nil
}

// Signal readings are on a 1 to 10 scale.
const (
	MinSignal = 1
	MaxSignal = 10
)

// ValidateSignals checks the pressure and mood readings of a newly recorded
// event. Stored history is not held to this range; reconstruction only
// ignores non-finite readings.
func ValidateSignals(md *models.EventMetadata) error {
	if md == nil {
		return nil
	}

	var errs []string
	for _, sig := range []struct {
		name  string
		value *float64
	}{
		{"pressure", md.Pressure},
		{"mood", md.Mood},
	} {
		if sig.value == nil {
			continue
		}
		v := *sig.value
		if math.IsNaN(v) || v < MinSignal || v > MaxSignal {
			errs = append(errs, fmt.Sprintf("%s must be between %d and %d, got %g", sig.name, MinSignal, MaxSignal, v))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("metadata: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ValidateShift checks a persisted live shift.
func ValidateShift(s *models.Shift) error {
	if s == nil {
		return fmt.Errorf("shift is nil")
	}

	var errs []string

	if s.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if s.Status != models.ShiftActive && s.Status != models.ShiftClosed {
		errs = append(errs, fmt.Sprintf("status %q is not one of active, closed", s.Status))
	}
	if !s.StartedBy.IsUserRole() {
		errs = append(errs, fmt.Sprintf("startedBy %q is not a staff role", s.StartedBy))
	}
	if s.EndTime != nil && *s.EndTime < s.StartTime {
		errs = append(errs, "endTime precedes startTime")
	}

	if len(errs) > 0 {
		return fmt.Errorf("shift %q: %s", s.ID, strings.Join(errs, "; "))
	}
	return nil
}

// ValidateBackup checks a backup document before it replaces local state.
// Every event and the current shift, when present, must be valid.
func ValidateBackup(b *models.BackupData) error {
	if b == nil {
		return fmt.Errorf("%w: document is empty", ErrInvalidBackup)
	}
	if b.Version == "" {
		return fmt.Errorf("%w: version is missing", ErrInvalidBackup)
	}
	if b.Data.Events == nil {
		return fmt.Errorf("%w: data.events is missing", ErrInvalidBackup)
	}
	for i, ev := range b.Data.Events {
		if err := ValidateEvent(ev); err != nil {
			return fmt.Errorf("%w: events[%d]: %v", ErrInvalidBackup, i, err)
		}
	}
	if b.Data.CurrentShift != nil {
		if err := ValidateShift(b.Data.CurrentShift); err != nil {
			return fmt.Errorf("%w: currentShift: %v", ErrInvalidBackup, err)
		}
	}
	return nil
}

package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/valter-silva-au/jegere/pkg/models"
)

var errStore = errors.New("store unavailable")

// memEventStore is an in-memory EventStore.
type memEventStore struct {
	events    []models.OperationalEvent
	appendErr error
	readErr   error
}

func (s *memEventStore) Append(ev models.OperationalEvent) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *memEventStore) Read(filter models.EventFilter) ([]models.OperationalEvent, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	var out []models.OperationalEvent
	for _, ev := range s.events {
		if filter.ShiftID != "" && ev.ShiftID != filter.ShiftID {
			continue
		}
		if filter.Type != "" && ev.Type != filter.Type {
			continue
		}
		if filter.Role != "" && ev.Role != filter.Role {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (s *memEventStore) Replace(events []models.OperationalEvent) error {
	s.events = append([]models.OperationalEvent(nil), events...)
	return nil
}

func (s *memEventStore) Clear() error {
	s.events = nil
	return nil
}

// memStateStore is an in-memory ShiftStateStore.
type memStateStore struct {
	shift    *models.Shift
	saveErr  error
	clearErr error
}

func (s *memStateStore) Load() (*models.Shift, error) {
	if s.shift == nil {
		return nil, nil
	}
	cp := *s.shift
	return &cp, nil
}

func (s *memStateStore) Save(shift *models.Shift) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	cp := *shift
	s.shift = &cp
	return nil
}

func (s *memStateStore) Clear() error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.shift = nil
	return nil
}

// recordingLogger captures LogEvent calls.
type recordingLogger struct {
	types []string
}

func (l *recordingLogger) LogEvent(eventType string, _ map[string]any) error {
	l.types = append(l.types, eventType)
	return nil
}

// fixedClock returns a clock frozen at t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// sequentialIDs returns a generator yielding id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// Event builders for reconstruction tests.

func startEvent(id string, ts int64) models.OperationalEvent {
	return models.OperationalEvent{ID: id, Type: models.EventSystem, Role: models.RoleSystem, Content: "Service shift initialized", Timestamp: ts}
}

func endEvent(id string, ts int64) models.OperationalEvent {
	return models.OperationalEvent{ID: id, Type: models.EventSystem, Role: models.RoleSystem, Content: "Service shift closed", Timestamp: ts}
}

func logEventAt(id string, role models.Role, ts int64) models.OperationalEvent {
	return models.OperationalEvent{ID: id, Type: models.EventLog, Role: role, Content: "note " + id, Timestamp: ts}
}

func pressureEvent(id string, role models.Role, ts int64, pressure float64) models.OperationalEvent {
	return models.OperationalEvent{
		ID: id, Type: models.EventSignal, Role: role, Content: "pressure", Timestamp: ts,
		Metadata: &models.EventMetadata{Pressure: models.Float(pressure)},
	}
}

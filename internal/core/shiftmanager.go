package core

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/valter-silva-au/jegere/pkg/models"
)

var (
	// ErrShiftActive is returned when starting a shift while one is open.
	ErrShiftActive = errors.New("a shift is already active")
	// ErrNoActiveShift is returned when stopping without an open shift.
	ErrNoActiveShift = errors.New("no active shift")
)

// ShiftManager drives the live shift lifecycle and records staff events.
type ShiftManager interface {
	StartShift(role models.Role) (*models.Shift, error)
	StopShift() (*models.Shift, error)
	CurrentShift() (*models.Shift, error)
	AddEvent(ev models.OperationalEvent) (models.OperationalEvent, error)
}

// ShiftManagerOptions configures a ShiftManager. Now and NewID default to
// time.Now and uuid.NewString.
type ShiftManagerOptions struct {
	Markers models.MarkerConfig
	Logger  EventLogger
	Now     func() time.Time
	NewID   func() string
}

type shiftManager struct {
	events  EventStore
	state   ShiftStateStore
	markers models.MarkerConfig
	logger  EventLogger
	now     func() time.Time
	newID   func() string
	mu      sync.Mutex
}

// NewShiftManager creates a ShiftManager writing to the given stores.
func NewShiftManager(events EventStore, state ShiftStateStore, opts ShiftManagerOptions) ShiftManager {
	m := &shiftManager{
		events:  events,
		state:   state,
		markers: opts.Markers,
		logger:  opts.Logger,
		now:     opts.Now,
		newID:   opts.NewID,
	}
	if m.markers.Start == "" || m.markers.End == "" {
		m.markers = models.DefaultMarkers()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}
	return m
}

// StartShift opens a new shift on behalf of role and appends its start
// boundary event.
func (m *shiftManager) StartShift(role models.Role) (*models.Shift, error) {
	if !role.IsUserRole() {
		return nil, fmt.Errorf("starting shift: role %q is not a staff role", role)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, err := m.state.Load()
	if err != nil {
		return nil, fmt.Errorf("starting shift: loading state: %w", err)
	}
	if current.IsActive() {
		return nil, fmt.Errorf("starting shift: %w (%s)", ErrShiftActive, current.ID)
	}

	now := m.now().UnixMilli()
	shift := &models.Shift{
		ID:        m.newID(),
		StartTime: now,
		Status:    models.ShiftActive,
		StartedBy: role,
	}
	if err := m.state.Save(shift); err != nil {
		return nil, fmt.Errorf("starting shift: saving state: %w", err)
	}

	start := models.OperationalEvent{
		ID:        m.newID(),
		Type:      models.EventSystem,
		Role:      models.RoleSystem,
		Content:   fmt.Sprintf("Service shift #%s %s by %s. Monitoring active.", shortID(shift.ID), m.markers.Start, role),
		Timestamp: now,
		ShiftID:   shift.ID,
		Lifecycle: models.LifecycleStart,
	}
	if err := m.events.Append(start); err != nil {
		return nil, fmt.Errorf("starting shift: appending start event: %w", m.restoreState(current, err))
	}

	logEvent(m.logger, "shift.started", map[string]any{"shift_id": shift.ID, "role": string(role)})
	return shift, nil
}

// StopShift closes the active shift and appends its end boundary event.
func (m *shiftManager) StopShift() (*models.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, err := m.state.Load()
	if err != nil {
		return nil, fmt.Errorf("stopping shift: loading state: %w", err)
	}
	if !current.IsActive() {
		return nil, fmt.Errorf("stopping shift: %w", ErrNoActiveShift)
	}

	now := m.now().UnixMilli()
	closed := *current
	closed.EndTime = &now
	closed.Status = models.ShiftClosed
	if err := m.state.Save(&closed); err != nil {
		return nil, fmt.Errorf("stopping shift: saving state: %w", err)
	}

	minutes := time.Duration(now-closed.StartTime) * time.Millisecond / time.Minute
	end := models.OperationalEvent{
		ID:        m.newID(),
		Type:      models.EventSystem,
		Role:      models.RoleSystem,
		Content:   fmt.Sprintf("Service shift #%s %s. Duration: %d min.", shortID(closed.ID), m.markers.End, minutes),
		Timestamp: now,
		ShiftID:   closed.ID,
		Lifecycle: models.LifecycleEnd,
	}
	if err := m.events.Append(end); err != nil {
		return nil, fmt.Errorf("stopping shift: appending end event: %w", m.restoreState(current, err))
	}

	logEvent(m.logger, "shift.closed", map[string]any{"shift_id": closed.ID, "duration_min": int64(minutes)})
	return &closed, nil
}

// CurrentShift returns the persisted shift state, nil if none was recorded.
func (m *shiftManager) CurrentShift() (*models.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.state.Load()
	if err != nil {
		return nil, fmt.Errorf("loading current shift: %w", err)
	}
	return s, nil
}

// AddEvent records a staff-authored event. Missing ID and Timestamp are
// filled in, and ShiftID is set to the active shift (or cleared).
func (m *shiftManager) AddEvent(ev models.OperationalEvent) (models.OperationalEvent, error) {
	if ev.Type == models.EventSystem {
		return models.OperationalEvent{}, fmt.Errorf("adding event: System events are written by the shift lifecycle")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if ev.ID == "" {
		ev.ID = m.newID()
	}
	if ev.Timestamp == 0 {
		ev.Timestamp = m.now().UnixMilli()
	}
	if err := ValidateEvent(ev); err != nil {
		return models.OperationalEvent{}, fmt.Errorf("adding event: %w", err)
	}
	if err := ValidateSignals(ev.Metadata); err != nil {
		return models.OperationalEvent{}, fmt.Errorf("adding event %q: %w", ev.ID, err)
	}

	current, err := m.state.Load()
	if err != nil {
		return models.OperationalEvent{}, fmt.Errorf("adding event: loading state: %w", err)
	}
	ev.ShiftID = ""
	if current.IsActive() {
		ev.ShiftID = current.ID
	}

	if err := m.events.Append(ev); err != nil {
		return models.OperationalEvent{}, fmt.Errorf("adding event: %w", err)
	}

	logEvent(m.logger, "event.added", map[string]any{
		"event_id": ev.ID, "type": string(ev.Type), "role": string(ev.Role), "shift_id": ev.ShiftID,
	})
	return ev, nil
}

// restoreState puts back prev after a boundary event failed to append. It
// returns cause, joined with any restore failure.
func (m *shiftManager) restoreState(prev *models.Shift, cause error) error {
	var err error
	if prev == nil {
		err = m.state.Clear()
	} else {
		err = m.state.Save(prev)
	}
	if err != nil {
		return errors.Join(cause, fmt.Errorf("restoring shift state: %w", err))
	}
	return cause
}

// shortID returns the last four characters of id, as shown to staff.
func shortID(id string) string {
	if len(id) <= 4 {
		return id
	}
	return id[len(id)-4:]
}

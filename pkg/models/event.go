package models

// EventType classifies an operational event.
type EventType string

const (
	EventLog    EventType = "Log"    // text observation
	EventSignal EventType = "Signal" // quick metric (mood, pressure)
	EventAlert  EventType = "Alert"  // critical issue
	EventAudio  EventType = "Audio"  // transcribed voice note
	EventSystem EventType = "System" // shift lifecycle marker
)

// EventTypes lists every valid EventType.
var EventTypes = []EventType{EventLog, EventSignal, EventAlert, EventAudio, EventSystem}

// Valid reports whether t belongs to the closed set of event types.
func (t EventType) Valid() bool {
	for _, v := range EventTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Role is the acting role of an event author. RoleSystem is reserved for
// lifecycle events and is not a user role.
type Role string

const (
	RoleOwner   Role = "Owner"
	RoleManager Role = "Manager"
	RoleChef    Role = "Chef"
	RoleService Role = "Service"
	RoleSystem  Role = "System"

	// RoleAll is the archive filter sentinel that matches every shift.
	RoleAll Role = "All"
)

// UserRoles lists the roles a staff member can act as.
var UserRoles = []Role{RoleOwner, RoleManager, RoleChef, RoleService}

// IsUserRole reports whether r is one of the staff roles.
func (r Role) IsUserRole() bool {
	for _, v := range UserRoles {
		if r == v {
			return true
		}
	}
	return false
}

// Lifecycle tags a System event as a shift boundary at creation time.
type Lifecycle string

const (
	LifecycleStart Lifecycle = "start"
	LifecycleEnd   Lifecycle = "end"
)

// EventMetadata is the optional signal bag attached to an event. Only
// Pressure and Mood are interpreted by shift reconstruction.
type EventMetadata struct {
	Mood                    *float64 `json:"mood,omitempty" yaml:"mood,omitempty"`
	Pressure                *float64 `json:"pressure,omitempty" yaml:"pressure,omitempty"`
	Tags                    []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	AudioLength             *float64 `json:"audioLength,omitempty" yaml:"audio_length,omitempty"`
	TranscriptionConfidence *float64 `json:"transcriptionConfidence,omitempty" yaml:"transcription_confidence,omitempty"`
}

// OperationalEvent is an immutable record in the append-only event log.
// Timestamp is epoch milliseconds. ShiftID is the id of the shift that was
// open when the event was written, empty if none was.
type OperationalEvent struct {
	ID        string         `json:"id" yaml:"id"`
	Type      EventType      `json:"type" yaml:"type"`
	Role      Role           `json:"role" yaml:"role"`
	Content   string         `json:"content" yaml:"content"`
	Timestamp int64          `json:"timestamp" yaml:"timestamp"`
	ShiftID   string         `json:"shiftId,omitempty" yaml:"shift_id,omitempty"`
	Lifecycle Lifecycle      `json:"lifecycle,omitempty" yaml:"lifecycle,omitempty"`
	Metadata  *EventMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Pressure returns the event's pressure signal, if any.
func (e OperationalEvent) Pressure() (float64, bool) {
	if e.Metadata == nil || e.Metadata.Pressure == nil {
		return 0, false
	}
	return *e.Metadata.Pressure, true
}

// Mood returns the event's mood signal, if any.
func (e OperationalEvent) Mood() (float64, bool) {
	if e.Metadata == nil || e.Metadata.Mood == nil {
		return 0, false
	}
	return *e.Metadata.Mood, true
}

// Float returns a pointer to v, for filling optional metadata fields.
func Float(v float64) *float64 {
	return &v
}

// EventFilter specifies criteria for reading events from the log.
// Zero values match everything.
type EventFilter struct {
	Since   int64 // epoch ms, inclusive
	Until   int64 // epoch ms, inclusive
	Type    EventType
	Role    Role
	ShiftID string
}

package core

import "github.com/valter-silva-au/jegere/pkg/models"

// EventStore is the append-only operational event log.
// This interface is defined locally in core to avoid importing storage.
type EventStore interface {
	Append(event models.OperationalEvent) error
	Read(filter models.EventFilter) ([]models.OperationalEvent, error)
	// Replace swaps the whole log for events. Used by backup import only.
	Replace(events []models.OperationalEvent) error
	Clear() error
}

// ShiftStateStore persists the live shift state between invocations.
// Load returns nil, nil when no shift has been recorded.
type ShiftStateStore interface {
	Load() (*models.Shift, error)
	Save(shift *models.Shift) error
	Clear() error
}

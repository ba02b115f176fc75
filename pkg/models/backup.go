package models

// BackupVersion is the format version written by backup export.
const BackupVersion = "1.0"

// BackupData is the full-dump document produced by export and consumed by
// import. Timestamp is epoch milliseconds.
type BackupData struct {
	Timestamp int64         `json:"timestamp"`
	Version   string        `json:"version"`
	Data      BackupPayload `json:"data"`
}

// BackupPayload holds the exported state.
type BackupPayload struct {
	Events       []OperationalEvent `json:"events"`
	CurrentShift *Shift             `json:"currentShift"`
	UserContext  map[string]any     `json:"userContext,omitempty"`
}

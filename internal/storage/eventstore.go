package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/valter-silva-au/jegere/pkg/models"
	"go.uber.org/zap"
)

// EventStoreManager is the append-only JSONL log of operational events.
type EventStoreManager interface {
	Append(event models.OperationalEvent) error
	Read(filter models.EventFilter) ([]models.OperationalEvent, error)
	Replace(events []models.OperationalEvent) error
	Clear() error
	Path() string
}

// jsonlEventStore implements EventStoreManager with one JSON object per line.
// Writers and readers coordinate through a flock on a sibling .lock file so
// that separate jg processes can share a workspace.
type jsonlEventStore struct {
	path   string
	logger *zap.Logger
}

// NewEventStoreManager creates an EventStoreManager backed by the JSONL file at
// path. The file is created on first append. logger may be nil.
func NewEventStoreManager(path string, logger *zap.Logger) EventStoreManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &jsonlEventStore{path: path, logger: logger}
}

func (s *jsonlEventStore) Path() string {
	return s.path
}

func (s *jsonlEventStore) lockPath() string {
	return s.path + ".lock"
}

// Append writes event as a single JSON line at the end of the log.
func (s *jsonlEventStore) Append(event models.OperationalEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating event log directory: %w", err)
	}

	unlock, err := lockFile(s.lockPath(), true)
	if err != nil {
		return fmt.Errorf("appending event: %w", err)
	}
	defer func() { _ = unlock() }()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening event log: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	return nil
}

// Read scans the log and returns the events matching filter in file order.
// Malformed lines are logged and skipped.
func (s *jsonlEventStore) Read(filter models.EventFilter) ([]models.OperationalEvent, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil, nil
	}

	unlock, err := lockFile(s.lockPath(), false)
	if err != nil {
		return nil, fmt.Errorf("reading events: %w", err)
	}
	defer func() { _ = unlock() }()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening event log for reading: %w", err)
	}
	defer func() { _ = f.Close() }()

	var events []models.OperationalEvent
	r := bufio.NewReader(f)
	lineNo := 0
	for {
		line, readErr := r.ReadBytes('\n')
		if len(line) > 0 {
			lineNo++
			if event, ok := s.decodeLine(line, lineNo); ok && matchesEventFilter(event, filter) {
				events = append(events, event)
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("reading event log line %d: %w", lineNo+1, readErr)
		}
	}

	return events, nil
}

// decodeLine parses one log line. Blank lines and records whose required
// fields do not decode are skipped; malformed optional fields are dropped and
// the rest of the record is kept.
func (s *jsonlEventStore) decodeLine(line []byte, lineNo int) (models.OperationalEvent, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return models.OperationalEvent{}, false
	}

	event, dropped, err := decodeEvent(line)
	if err != nil {
		s.logger.Warn("skipping malformed event line",
			zap.String("path", s.path), zap.Int("line", lineNo), zap.Error(err))
		return models.OperationalEvent{}, false
	}
	if len(dropped) > 0 {
		s.logger.Warn("ignoring malformed event fields",
			zap.String("path", s.path), zap.Int("line", lineNo),
			zap.String("event_id", event.ID), zap.Strings("fields", dropped))
	}
	return event, true
}

// rawEvent mirrors models.OperationalEvent with the optional fields left
// undecoded so each can be checked on its own.
type rawEvent struct {
	ID        string           `json:"id"`
	Type      models.EventType `json:"type"`
	Role      models.Role      `json:"role"`
	Content   string           `json:"content"`
	Timestamp int64            `json:"timestamp"`
	ShiftID   json.RawMessage  `json:"shiftId"`
	Lifecycle json.RawMessage  `json:"lifecycle"`
	Metadata  json.RawMessage  `json:"metadata"`
}

// decodeEvent parses a JSONL record. It returns the names of optional fields
// that were present but malformed and therefore treated as absent. An error
// means the record itself, or one of its required fields, is unreadable.
func decodeEvent(line []byte) (models.OperationalEvent, []string, error) {
	var event models.OperationalEvent
	if err := json.Unmarshal(line, &event); err == nil {
		return event, nil, nil
	}

	var raw rawEvent
	if err := json.Unmarshal(line, &raw); err != nil {
		return models.OperationalEvent{}, nil, err
	}

	event = models.OperationalEvent{
		ID:        raw.ID,
		Type:      raw.Type,
		Role:      raw.Role,
		Content:   raw.Content,
		Timestamp: raw.Timestamp,
	}
	var dropped []string
	if !decodeField(raw.ShiftID, &event.ShiftID) {
		event.ShiftID = ""
		dropped = append(dropped, "shiftId")
	}
	if !decodeField(raw.Lifecycle, &event.Lifecycle) {
		event.Lifecycle = ""
		dropped = append(dropped, "lifecycle")
	}
	if len(raw.Metadata) > 0 {
		md, bad := decodeMetadata(raw.Metadata)
		event.Metadata = md
		dropped = append(dropped, bad...)
	}
	return event, dropped, nil
}

// decodeMetadata keeps every well-formed metadata field. A value that is not
// a JSON object yields nil metadata.
func decodeMetadata(raw json.RawMessage) (*models.EventMetadata, []string) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, []string{"metadata"}
	}
	if fields == nil {
		return nil, nil
	}

	md := &models.EventMetadata{}
	var dropped []string
	floats := []struct {
		key string
		dst **float64
	}{
		{"mood", &md.Mood},
		{"pressure", &md.Pressure},
		{"audioLength", &md.AudioLength},
		{"transcriptionConfidence", &md.TranscriptionConfidence},
	}
	for _, f := range floats {
		if !decodeField(fields[f.key], f.dst) {
			*f.dst = nil
			dropped = append(dropped, "metadata."+f.key)
		}
	}
	if !decodeField(fields["tags"], &md.Tags) {
		md.Tags = nil
		dropped = append(dropped, "metadata.tags")
	}
	return md, dropped
}

// decodeField unmarshals raw into dst when present. It reports false only
// when raw is present and does not decode.
func decodeField(raw json.RawMessage, dst any) bool {
	if len(raw) == 0 {
		return true
	}
	return json.Unmarshal(raw, dst) == nil
}

// Replace atomically rewrites the log with events via a temp file and rename.
func (s *jsonlEventStore) Replace(events []models.OperationalEvent) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating event log directory: %w", err)
	}

	unlock, err := lockFile(s.lockPath(), true)
	if err != nil {
		return fmt.Errorf("replacing events: %w", err)
	}
	defer func() { _ = unlock() }()

	tmp, err := os.CreateTemp(dir, ".events-*.jsonl")
	if err != nil {
		return fmt.Errorf("creating temp event log: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("encoding event %s: %w", ev.ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("flushing temp event log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp event log: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("installing event log: %w", err)
	}
	return nil
}

// Clear removes the log file. A missing file is not an error.
func (s *jsonlEventStore) Clear() error {
	unlock, err := lockFile(s.lockPath(), true)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("clearing events: %w", err)
	}
	defer func() { _ = unlock() }()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing event log: %w", err)
	}
	return nil
}

// matchesEventFilter checks whether an event satisfies all filter criteria.
func matchesEventFilter(event models.OperationalEvent, filter models.EventFilter) bool {
	if filter.Since != 0 && event.Timestamp < filter.Since {
		return false
	}
	if filter.Until != 0 && event.Timestamp > filter.Until {
		return false
	}
	if filter.Type != "" && event.Type != filter.Type {
		return false
	}
	if filter.Role != "" && event.Role != filter.Role {
		return false
	}
	if filter.ShiftID != "" && event.ShiftID != filter.ShiftID {
		return false
	}
	return true
}

package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/valter-silva-au/jegere/pkg/models"
	"gopkg.in/yaml.v3"
)

// ShiftStateManager persists the live shift as YAML.
type ShiftStateManager interface {
	Load() (*models.Shift, error)
	Save(shift *models.Shift) error
	Clear() error
}

type fileShiftState struct {
	path string
}

// NewShiftStateManager creates a ShiftStateManager backed by the YAML file at
// path.
func NewShiftStateManager(path string) ShiftStateManager {
	return &fileShiftState{path: path}
}

// Load returns the saved shift, or nil when nothing has been saved.
func (s *fileShiftState) Load() (*models.Shift, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading shift state: %w", err)
	}

	var shift models.Shift
	if err := yaml.Unmarshal(data, &shift); err != nil {
		return nil, fmt.Errorf("parsing shift state %s: %w", s.path, err)
	}
	if shift.ID == "" {
		return nil, nil
	}
	return &shift, nil
}

// Save writes shift through a temp file so readers never see a partial file.
func (s *fileShiftState) Save(shift *models.Shift) error {
	if shift == nil {
		return s.Clear()
	}

	data, err := yaml.Marshal(shift)
	if err != nil {
		return fmt.Errorf("marshalling shift state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing shift state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("installing shift state: %w", err)
	}
	return nil
}

// Clear removes the state file. A missing file is not an error.
func (s *fileShiftState) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing shift state: %w", err)
	}
	return nil
}

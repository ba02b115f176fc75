package core

import (
	"fmt"
	"strings"

	"github.com/valter-silva-au/jegere/pkg/models"
)

// PresetsFor returns the quick-entry presets offered to role.
func PresetsFor(role models.Role) []models.Preset {
	return models.RolePresets[role]
}

// FindPreset looks up a preset of role by label, ignoring case.
func FindPreset(role models.Role, label string) (models.Preset, error) {
	for _, p := range models.RolePresets[role] {
		if strings.EqualFold(p.Label, strings.TrimSpace(label)) {
			return p, nil
		}
	}
	return models.Preset{}, fmt.Errorf("no preset %q for role %s", label, role)
}

// EventFromPreset builds an unsaved event from p authored by role.
func EventFromPreset(p models.Preset, role models.Role) models.OperationalEvent {
	ev := models.OperationalEvent{
		Type:    p.Type,
		Role:    role,
		Content: p.Content,
	}
	if p.Pressure != nil {
		ev.Metadata = &models.EventMetadata{Pressure: models.Float(*p.Pressure)}
	}
	return ev
}

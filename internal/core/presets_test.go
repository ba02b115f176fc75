package core

import (
	"testing"

	"github.com/valter-silva-au/jegere/pkg/models"
)

func TestPresetsFor(t *testing.T) {
	for _, role := range models.UserRoles {
		if len(PresetsFor(role)) == 0 {
			t.Errorf("no presets for %s", role)
		}
	}
	if got := PresetsFor(models.RoleSystem); len(got) != 0 {
		t.Errorf("System should have no presets, got %d", len(got))
	}
}

func TestFindPreset(t *testing.T) {
	p, err := FindPreset(models.RoleChef, "  coup de feu ")
	if err != nil {
		t.Fatalf("FindPreset() error = %v", err)
	}
	if p.Type != models.EventSignal || p.Pressure == nil || *p.Pressure != 9 {
		t.Errorf("unexpected preset %+v", p)
	}

	if _, err := FindPreset(models.RoleService, "Coup de Feu"); err == nil {
		t.Error("presets must be looked up within the role")
	}
}

func TestEventFromPreset(t *testing.T) {
	p, _ := FindPreset(models.RoleService, "Dans le Jus")
	ev := EventFromPreset(p, models.RoleService)

	if ev.Type != models.EventSignal || ev.Role != models.RoleService || ev.Content != p.Content {
		t.Errorf("unexpected event %+v", ev)
	}
	got, ok := ev.Pressure()
	if !ok || got != 8 {
		t.Errorf("Pressure() = %v, %v; want 8, true", got, ok)
	}

	// The event must not alias the shared preset table.
	*ev.Metadata.Pressure = 1
	if *p.Pressure != 8 {
		t.Error("modifying the event changed the preset")
	}

	plain, _ := FindPreset(models.RoleChef, "Rupture (86)")
	if ev := EventFromPreset(plain, models.RoleChef); ev.Metadata != nil {
		t.Errorf("preset without pressure should carry no metadata, got %+v", ev.Metadata)
	}
}

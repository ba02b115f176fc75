package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEventType_Valid(t *testing.T) {
	for _, typ := range EventTypes {
		if !typ.Valid() {
			t.Errorf("%q should be valid", typ)
		}
	}
	for _, typ := range []EventType{"", "log", "Note"} {
		if typ.Valid() {
			t.Errorf("%q should not be valid", typ)
		}
	}
}

func TestRole_IsUserRole(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleOwner, true},
		{RoleManager, true},
		{RoleChef, true},
		{RoleService, true},
		{RoleSystem, false},
		{RoleAll, false},
		{"", false},
		{"chef", false},
	}
	for _, tt := range tests {
		if got := tt.role.IsUserRole(); got != tt.want {
			t.Errorf("%q.IsUserRole() = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestOperationalEvent_Signals(t *testing.T) {
	var bare OperationalEvent
	if _, ok := bare.Pressure(); ok {
		t.Error("event without metadata reported a pressure")
	}
	if _, ok := bare.Mood(); ok {
		t.Error("event without metadata reported a mood")
	}

	ev := OperationalEvent{Metadata: &EventMetadata{Pressure: Float(7.5)}}
	if p, ok := ev.Pressure(); !ok || p != 7.5 {
		t.Errorf("Pressure() = %v, %v; want 7.5, true", p, ok)
	}
	if _, ok := ev.Mood(); ok {
		t.Error("mood should be absent")
	}
}

func TestOperationalEvent_JSONFieldNames(t *testing.T) {
	ev := OperationalEvent{
		ID:        "e1",
		Type:      EventSystem,
		Role:      RoleSystem,
		Content:   "Service shift #0001 initialized by Chef.",
		Timestamp: 1700000000000,
		ShiftID:   "s1",
		Lifecycle: LifecycleStart,
	}
	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(data)
	for _, want := range []string{`"shiftId":"s1"`, `"lifecycle":"start"`, `"timestamp":1700000000000`} {
		if !strings.Contains(got, want) {
			t.Errorf("%s missing %s", got, want)
		}
	}
	if strings.Contains(got, "metadata") {
		t.Errorf("nil metadata should be omitted: %s", got)
	}
}

func TestShift_IsActive(t *testing.T) {
	var none *Shift
	if none.IsActive() {
		t.Error("nil shift should not be active")
	}
	if !(&Shift{Status: ShiftActive}).IsActive() {
		t.Error("active shift reported inactive")
	}
	if (&Shift{Status: ShiftClosed}).IsActive() {
		t.Error("closed shift reported active")
	}
}

func TestArchiveShift_HasRole(t *testing.T) {
	s := ArchiveShift{Roles: []Role{RoleSystem, RoleChef}}
	if !s.HasRole(RoleChef) {
		t.Error("expected Chef")
	}
	if s.HasRole(RoleService) {
		t.Error("did not expect Service")
	}
}

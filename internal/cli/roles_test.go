package cli

import (
	"testing"

	"github.com/valter-silva-au/jegere/pkg/models"
)

func TestParseRole(t *testing.T) {
	origDefault := DefaultRole
	defer func() { DefaultRole = origDefault }()
	DefaultRole = models.RoleChef

	tests := []struct {
		in      string
		want    models.Role
		wantErr bool
	}{
		{"", models.RoleChef, false},
		{"service", models.RoleService, false},
		{" Owner ", models.RoleOwner, false},
		{"MANAGER", models.RoleManager, false},
		{"System", "", true},
		{"All", "", true},
		{"sommelier", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseRole(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRole(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseRole(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRoleFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    models.Role
		wantErr bool
	}{
		{"all", models.RoleAll, false},
		{"system", models.RoleSystem, false},
		{"chef", models.RoleChef, false},
		{"nobody", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseRoleFilter(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRoleFilter(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseRoleFilter(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

package cli

import (
	"fmt"
	"strings"

	"github.com/valter-silva-au/jegere/pkg/models"
)

// parseRole resolves a staff role name case-insensitively. An empty name
// yields DefaultRole.
func parseRole(name string) (models.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultRole, nil
	}
	for _, r := range models.UserRoles {
		if strings.EqualFold(string(r), name) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q (use Owner, Manager, Chef or Service)", name)
}

// parseRoleFilter resolves an archive filter: a staff role, System or All.
func parseRoleFilter(name string) (models.Role, error) {
	switch {
	case strings.EqualFold(name, string(models.RoleAll)):
		return models.RoleAll, nil
	case strings.EqualFold(name, string(models.RoleSystem)):
		return models.RoleSystem, nil
	}
	r, err := parseRole(name)
	if err != nil {
		return "", fmt.Errorf("unknown role filter %q (use Owner, Manager, Chef, Service, System or All)", name)
	}
	return r, nil
}

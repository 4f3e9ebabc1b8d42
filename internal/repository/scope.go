package repository

import (
	"fmt"

	"github.com/vasitha1/lebailleur-app/internal/models"
)

// scopeClause renders the row-level filter for a scope as a SQL fragment.
// The column arguments name, per role, the column that must equal the
// caller's profile id; an empty column means the role has no access to the
// resource at all.
func scopeClause(scope models.Scope, ownerCol, managerCol, tenantCol string, argPos int) (string, error) {
	var col string
	switch scope.Role {
	case models.RoleOwner:
		col = ownerCol
	case models.RoleManager:
		col = managerCol
	case models.RoleTenant:
		col = tenantCol
	}
	if col == "" {
		return "", fmt.Errorf("role %s: %w", scope.Role, ErrForbidden)
	}
	return fmt.Sprintf("%s = $%d", col, argPos), nil
}

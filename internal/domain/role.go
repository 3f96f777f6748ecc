package domain

import "fmt"

// Role is the authorization class stored on a sales account.
type Role string

const (
	RoleMember  Role = "MEMBER"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// Position is the job title label shown on a sales account.
type Position string

const (
	PositionStaff          Position = "一般"
	PositionSectionChief   Position = "課長"
	PositionDepartmentHead Position = "部長"
	PositionAdministrator  Position = "管理者"
)

// positionRoles is the single source of truth for position to role mapping.
// Renaming a position label requires touching only this table.
var positionRoles = map[Position]Role{
	PositionStaff:          RoleMember,
	PositionSectionChief:   RoleManager,
	PositionDepartmentHead: RoleAdmin,
	PositionAdministrator:  RoleAdmin,
}

// Positions lists every known position label in display order.
func Positions() []Position {
	return []Position{
		PositionStaff,
		PositionSectionChief,
		PositionDepartmentHead,
		PositionAdministrator,
	}
}

// RoleForPosition resolves the role granted by a position label.
func RoleForPosition(position string) (Role, error) {
	role, ok := positionRoles[Position(position)]
	if !ok {
		return "", fmt.Errorf("unknown position %q", position)
	}
	return role, nil
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether the role is admin-tier.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// IsManager reports whether the role is manager-tier. Admins are managers too.
func (r Role) IsManager() bool {
	return r == RoleManager || r == RoleAdmin
}

package permissions

import "strings"

// Role is a flat access level. Higher ranks include every lower role.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

var roleRank = map[Role]int{
	RoleViewer: 1,
	RoleEditor: 2,
	RoleAdmin:  3,
}

// ParseRole normalizes value and reports whether it names a known role.
func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	_, ok := roleRank[role]
	return role, ok
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// Rank returns the role's position in the hierarchy, 0 for unknown roles.
func (r Role) Rank() int { return roleRank[r] }

// HasRole reports whether actual satisfies required. An empty requirement is
// always satisfied; an unknown actual role satisfies nothing else.
func HasRole(actual, required Role) bool {
	if required == "" {
		return true
	}
	return actual.Rank() > 0 && actual.Rank() >= required.Rank()
}

// Roles lists the known roles from lowest to highest.
func Roles() []Role {
	return []Role{RoleViewer, RoleEditor, RoleAdmin}
}

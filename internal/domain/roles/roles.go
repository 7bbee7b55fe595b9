// Package roles defines the closed, ordered set of membership roles used for
// authorization decisions.
//
// The hierarchy is fixed at build time and never mutated at runtime:
//
//	employee(1) < manager(2) < hr_admin(3)
//
// Higher-privilege roles transparently satisfy "at-or-above" checks for
// lower-privilege areas, so an hr_admin can open manager and employee pages
// without per-route role lists.
package roles

import "strings"

// Role is a membership role within an organization.
type Role string

const (
	Employee Role = "employee"
	Manager  Role = "manager"
	HRAdmin  Role = "hr_admin"
)

// hierarchy is the total order over known roles. Unknown roles have no level.
var hierarchy = map[Role]int{
	Employee: 1,
	Manager:  2,
	HRAdmin:  3,
}

// All returns the known roles in ascending privilege order.
func All() []Role {
	return []Role{Employee, Manager, HRAdmin}
}

// Level returns the hierarchy level for a role and whether the role is known.
// Callers must treat ok=false as a programming error, never as an allow.
func Level(r Role) (int, bool) {
	lvl, ok := hierarchy[r]
	return lvl, ok
}

// AtLeast reports whether have sits at or above want in the hierarchy.
// Unknown roles on either side never satisfy the check.
func AtLeast(have, want Role) bool {
	hl, ok := hierarchy[have]
	if !ok {
		return false
	}
	wl, ok := hierarchy[want]
	if !ok {
		return false
	}
	return hl >= wl
}

// Valid reports whether r is one of the known roles.
func Valid(r Role) bool {
	_, ok := hierarchy[r]
	return ok
}

// Parse normalizes a raw role string (case, surrounding space) and reports
// whether it names a known role.
func Parse(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, Valid(r)
}

// String returns the role's wire value.
func (r Role) String() string { return string(r) }

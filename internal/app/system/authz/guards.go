// internal/app/system/authz/guards.go

// Package authz is the guard engine: pure decision functions over the
// request's resolved SessionUser. Guards know nothing about HTTP transport;
// they return the validated user or a typed Denial which the middleware
// adapter (Guard) translates into a redirect or status response.
//
// Checks run strictly auth → org → role and short-circuit at the first
// failure, so a user without an organization always sees NoOrganization and
// never learns which role a route would have required.
package authz

import (
	"fmt"

	"github.com/jmoreland/peopledesk/internal/app/system/auth"
	"github.com/jmoreland/peopledesk/internal/domain/roles"
)

// RequireUser asserts a verified identity is present. u may be nil (no
// session resolved for this request).
func RequireUser(u *auth.SessionUser) (*auth.SessionUser, *Denial) {
	if u == nil {
		return nil, unauthenticated()
	}
	return u, nil
}

// RequireOrg asserts the user holds a usable organization membership.
func RequireOrg(u *auth.SessionUser) *Denial {
	if u == nil {
		return unauthenticated()
	}
	if !u.HasOrg() {
		return noOrganization()
	}
	return nil
}

// RequireRole asserts the user's role is exactly required. Used where a route
// is restricted to precisely one role regardless of hierarchy.
func RequireRole(u *auth.SessionUser, required roles.Role) *Denial {
	if d := RequireOrg(u); d != nil {
		return d
	}
	if u.Role != required {
		return forbidden(fmt.Sprintf("requires role %q", required))
	}
	return nil
}

// RequireRoleOrHigher asserts the user's role is at or above required in the
// role hierarchy. A role value outside the known hierarchy, on either side,
// is an internal error and never an allow.
func RequireRoleOrHigher(u *auth.SessionUser, required roles.Role) *Denial {
	if d := RequireOrg(u); d != nil {
		return d
	}
	have, ok := roles.Level(u.Role)
	if !ok {
		return internal(fmt.Sprintf("session role %q not in hierarchy", u.Role))
	}
	want, ok := roles.Level(required)
	if !ok {
		return internal(fmt.Sprintf("required role %q not in hierarchy", required))
	}
	if have < want {
		return forbidden(fmt.Sprintf("requires role %q or higher", required))
	}
	return nil
}

// RequireAnyRole asserts the user's role is one of allowed (exact membership,
// no hierarchy).
func RequireAnyRole(u *auth.SessionUser, allowed ...roles.Role) *Denial {
	if d := RequireOrg(u); d != nil {
		return d
	}
	for _, r := range allowed {
		if u.Role == r {
			return nil
		}
	}
	return forbidden("role not in allowed set")
}

// RequireUserWithOrg sequences RequireUser and RequireOrg, returning the
// fully qualified user or the first denial.
func RequireUserWithOrg(u *auth.SessionUser) (*auth.SessionUser, *Denial) {
	user, d := RequireUser(u)
	if d != nil {
		return nil, d
	}
	if d := RequireOrg(user); d != nil {
		return nil, d
	}
	return user, nil
}

// RequireUserWithRole sequences auth, org, and a hierarchical role check.
// Hierarchical on purpose: hr_admin must reach manager and employee areas
// without per-route role lists.
func RequireUserWithRole(u *auth.SessionUser, required roles.Role) (*auth.SessionUser, *Denial) {
	user, d := RequireUserWithOrg(u)
	if d != nil {
		return nil, d
	}
	if d := RequireRoleOrHigher(user, required); d != nil {
		return nil, d
	}
	return user, nil
}

// RequireUserWithAnyRole sequences auth, org, and an exact any-of role check.
func RequireUserWithAnyRole(u *auth.SessionUser, allowed ...roles.Role) (*auth.SessionUser, *Denial) {
	user, d := RequireUserWithOrg(u)
	if d != nil {
		return nil, d
	}
	if d := RequireAnyRole(user, allowed...); d != nil {
		return nil, d
	}
	return user, nil
}

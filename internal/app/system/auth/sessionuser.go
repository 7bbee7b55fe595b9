// internal/app/system/auth/sessionuser.go
package auth

import "github.com/jmoreland/peopledesk/internal/domain/roles"

// SessionUser is the canonical per-request principal: the verified identity
// joined with directory profile and membership data. It is built once per
// request by the Resolver, cached in the request context, and discarded when
// the request ends. It is never persisted and never shared across requests.
//
// Empty strings encode absent values. OrganizationID and Role are always both
// set or both empty; guards depend on that pairing.
type SessionUser struct {
	ID        string // account ObjectID hex
	Email     string
	FullName  string
	AvatarURL string

	OrganizationID string     // current organization ObjectID hex, "" if none
	Role           roles.Role // role within the current organization, "" if none
}

// HasOrg reports whether the user has a usable organization membership.
func (u *SessionUser) HasOrg() bool {
	return u.OrganizationID != "" && u.Role != ""
}

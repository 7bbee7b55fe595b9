// internal/domain/models/membership.go
package models

import (
	"time"

	"github.com/jmoreland/peopledesk/internal/domain/roles"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership associates one account with exactly one organization and one
// role. A user may hold zero, one, or many memberships; the session resolver
// applies first-membership-wins over the store's return order.
type Membership struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	Role           roles.Role         `bson:"role" json:"role"`
	Department     string             `bson:"department,omitempty" json:"department,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// MembershipWithOrg is a membership row joined with its organization, as
// produced by the membership store's typed decode step. A membership whose
// organization join is missing decodes with a zero Organization; the
// resolver treats such a row as malformed rather than skipping past it.
type MembershipWithOrg struct {
	Membership   `bson:",inline"`
	Organization Organization `bson:"organization"`
}

// DirectoryEntry is a membership joined with the member's profile and
// account for the employee directory. Profile may be zero when the member
// has never saved one.
type DirectoryEntry struct {
	Membership `bson:",inline"`
	Profile    Profile `bson:"profile"`
	Account    Account `bson:"account"`
}

// DisplayName returns the profile full name, falling back to the account
// email when no profile exists.
func (e DirectoryEntry) DisplayName() string {
	if e.Profile.FullName != "" {
		return e.Profile.FullName
	}
	return e.Account.Email
}

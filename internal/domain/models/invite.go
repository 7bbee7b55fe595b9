// internal/domain/models/invite.go
package models

import (
	"time"

	"github.com/jmoreland/peopledesk/internal/domain/roles"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invite is an employee invitation created by an hr_admin. The token is an
// opaque uuid embedded in the emailed accept link. Accepting creates a
// membership in the invite's organization with the invite's role.
type Invite struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	Email          string             `bson:"email" json:"email"` // normalized lowercase
	Role           roles.Role         `bson:"role" json:"role"`   // employee | manager
	Token          string             `bson:"token" json:"-"`
	InvitedBy      primitive.ObjectID `bson:"invited_by" json:"invited_by"`

	ExpiresAt  time.Time  `bson:"expires_at" json:"expires_at"`
	AcceptedAt *time.Time `bson:"accepted_at,omitempty" json:"accepted_at,omitempty"`
	AcceptedBy *primitive.ObjectID `bson:"accepted_by,omitempty" json:"accepted_by,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Pending reports whether the invite can still be accepted at the given time.
func (i Invite) Pending(now time.Time) bool {
	return i.AcceptedAt == nil && now.Before(i.ExpiresAt)
}

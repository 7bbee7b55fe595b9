// internal/domain/models/profile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is the directory profile row for an account. Zero-or-one per
// account; absence is valid and is treated as an all-empty profile by the
// session resolver.
//
// The _id is the owning account's ObjectID, so lookups are point reads.
type Profile struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	FullName  string             `bson:"full_name,omitempty" json:"full_name,omitempty"`
	AvatarURL string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

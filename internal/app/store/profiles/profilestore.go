// internal/app/store/profiles/profilestore.go

// Package profilestore holds directory profile rows, keyed by account ID.
// A missing row is a valid state, not an error: the session resolver treats
// it as an all-empty profile.
package profilestore

import (
	"context"
	"errors"
	"time"

	"github.com/jmoreland/peopledesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("user_profiles")}
}

// GetByID returns the profile for the given account ID hex, nil if there is
// no row, or an error for malformed IDs and store faults. This implements
// auth.ProfileLookup.
func (s *Store) GetByID(ctx context.Context, userID string) (*models.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Upsert writes the profile row for an account, creating it if absent.
func (s *Store) Upsert(ctx context.Context, id primitive.ObjectID, fullName, avatarURL string) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"full_name":  fullName,
			"avatar_url": avatarURL,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	_, err := s.c.UpdateByID(ctx, id, update, options.Update().SetUpsert(true))
	return err
}

// internal/app/store/memberships/membershipstore.go

// Package membershipstore owns the organization_memberships collection and
// its organization join. Rows cross this boundary only as decoded
// MembershipWithOrg values; callers never see raw join shapes.
package membershipstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/jmoreland/peopledesk/internal/domain/models"
	"github.com/jmoreland/peopledesk/internal/domain/roles"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrDuplicateMembership = errors.New("user is already a member of this organization")
	errBadRole             = errors.New("role is not in the known hierarchy")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("organization_memberships")}
}

// EnsureIndexes creates the uniqueness and lookup indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "organization_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_memberships_user_org"),
		},
		{
			Keys:    bson.D{{Key: "organization_id", Value: 1}},
			Options: options.Index().SetName("idx_memberships_org"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Add creates a membership after validating the role.
func (s *Store) Add(ctx context.Context, userID, orgID primitive.ObjectID, role roles.Role, department string) (models.Membership, error) {
	if !roles.Valid(role) {
		return models.Membership{}, errBadRole
	}

	m := models.Membership{
		ID:             primitive.NewObjectID(),
		UserID:         userID,
		OrganizationID: orgID,
		Role:           role,
		Department:     department,
		CreatedAt:      time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Membership{}, ErrDuplicateMembership
		}
		return models.Membership{}, err
	}
	return m, nil
}

// SetRole changes the role on an existing membership.
func (s *Store) SetRole(ctx context.Context, userID, orgID primitive.ObjectID, role roles.Role) error {
	if !roles.Valid(role) {
		return errBadRole
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID, "organization_id": orgID},
		bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Remove deletes the membership for (userID, orgID).
func (s *Store) Remove(ctx context.Context, userID, orgID primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"user_id": userID, "organization_id": orgID})
	return err
}

// ListForUser returns the user's memberships joined with their organizations.
// This implements auth.MembershipLookup.
//
// Order is insertion order (_id ascending), made explicit so first-wins
// selection does not hinge on an unspecified server ordering. A membership
// whose organization no longer exists still comes back, with a zero
// Organization, so the resolver can apply its malformed-first-row policy.
func (s *Store) ListForUser(ctx context.Context, userID string) ([]models.MembershipWithOrg, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": oid}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "organizations",
			"localField":   "organization_id",
			"foreignField": "_id",
			"as":           "organization",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$organization",
			"preserveNullAndEmptyArrays": true,
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.MembershipWithOrg
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListForOrg returns the organization's memberships in insertion order.
func (s *Store) ListForOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Membership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"organization_id": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.Membership
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListDirectory returns the organization's members joined with their
// profiles and accounts, in insertion order. Members without a profile come
// back with a zero Profile; the directory renders them by email.
func (s *Store) ListDirectory(ctx context.Context, orgID primitive.ObjectID) ([]models.DirectoryEntry, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"organization_id": orgID}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "user_profiles",
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "profile",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$profile",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "accounts",
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "account",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$account",
			"preserveNullAndEmptyArrays": true,
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.DirectoryEntry
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// CountForOrg returns the number of members in an organization.
func (s *Store) CountForOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"organization_id": orgID})
}

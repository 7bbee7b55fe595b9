// internal/app/store/invites/invitestore.go

// Package invitestore owns the employee_invites collection.
package invitestore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"github.com/jmoreland/peopledesk/internal/domain/models"
	"github.com/jmoreland/peopledesk/internal/domain/roles"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrInviteNotFound  = errors.New("invite not found")
	ErrDuplicateInvite = errors.New("a pending invite already exists for this email")
	ErrInviteExpired   = errors.New("invite has expired")
	ErrInviteAccepted  = errors.New("invite has already been accepted")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("employee_invites")}
}

// EnsureIndexes creates the token, TTL, and one-pending-per-email indexes.
// The partial unique index only covers unaccepted invites, so an email can
// be re-invited after a previous invite was accepted.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_invites_token"),
		},
		{
			Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "email", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("idx_invites_org_email_pending").
				SetPartialFilterExpression(bson.M{"accepted_at": bson.M{"$exists": false}}),
		},
		{
			// TTL sweep only reaps unaccepted invites; accepted ones stay
			// for the record.
			Keys: bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().
				SetExpireAfterSeconds(0).
				SetName("idx_invites_ttl").
				SetPartialFilterExpression(bson.M{"accepted_at": bson.M{"$exists": false}}),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create records a new invite with a fresh uuid token. The email must
// already be normalized.
func (s *Store) Create(ctx context.Context, orgID primitive.ObjectID, email string, role roles.Role, invitedBy primitive.ObjectID, ttl time.Duration) (models.Invite, error) {
	now := time.Now().UTC()
	inv := models.Invite{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		Email:          email,
		Role:           role,
		Token:          uuid.NewString(),
		InvitedBy:      invitedBy,
		ExpiresAt:      now.Add(ttl),
		CreatedAt:      now,
	}
	if _, err := s.c.InsertOne(ctx, inv); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Invite{}, ErrDuplicateInvite
		}
		return models.Invite{}, err
	}
	return inv, nil
}

// GetByToken returns the invite for a token, accepted or not.
func (s *Store) GetByToken(ctx context.Context, token string) (models.Invite, error) {
	var inv models.Invite
	err := s.c.FindOne(ctx, bson.M{"token": token}).Decode(&inv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Invite{}, ErrInviteNotFound
	}
	if err != nil {
		return models.Invite{}, err
	}
	return inv, nil
}

// MarkAccepted stamps the invite as accepted by the given account. The
// filter excludes already-accepted and expired invites, so a raced or stale
// accept fails with a typed error instead of double-consuming the token.
func (s *Store) MarkAccepted(ctx context.Context, token string, acceptedBy primitive.ObjectID) (models.Invite, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"token":       token,
		"accepted_at": bson.M{"$exists": false},
		"expires_at":  bson.M{"$gt": now},
	}
	update := bson.M{"$set": bson.M{"accepted_at": now, "accepted_by": acceptedBy}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var inv models.Invite
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&inv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Disambiguate for the caller.
		existing, getErr := s.GetByToken(ctx, token)
		if getErr != nil {
			return models.Invite{}, getErr
		}
		if existing.AcceptedAt != nil {
			return models.Invite{}, ErrInviteAccepted
		}
		return models.Invite{}, ErrInviteExpired
	}
	if err != nil {
		return models.Invite{}, err
	}
	return inv, nil
}

// ListForOrg returns the organization's invites, newest first.
func (s *Store) ListForOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Invite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"organization_id": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var invites []models.Invite
	if err := cur.All(ctx, &invites); err != nil {
		return nil, err
	}
	return invites, nil
}

// Revoke deletes a pending invite. Accepted invites stay for the record.
func (s *Store) Revoke(ctx context.Context, orgID, inviteID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{
		"_id":             inviteID,
		"organization_id": orgID,
		"accepted_at":     bson.M{"$exists": false},
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrInviteNotFound
	}
	return nil
}

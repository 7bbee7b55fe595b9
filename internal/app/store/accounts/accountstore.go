// internal/app/store/accounts/accountstore.go

// Package accountstore is the internal auth provider's credential store.
// It verifies passwords and upserts OAuth-backed accounts; it knows nothing
// about organizations or roles.
package accountstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/jmoreland/peopledesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateEmail     = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("accounts")}
}

// EnsureIndexes creates the unique email index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("idx_accounts_email"),
	})
	return err
}

// CreatePassword creates a password-backed account. The email must already be
// normalized (lowercase, trimmed).
func (s *Store) CreatePassword(ctx context.Context, email, password string) (models.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Account{}, err
	}

	now := time.Now().UTC()
	acct := models.Account{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: string(hash),
		AuthMethod:   models.AuthMethodPassword,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.c.InsertOne(ctx, acct); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Account{}, ErrDuplicateEmail
		}
		return models.Account{}, err
	}
	return acct, nil
}

// VerifyPassword checks email+password and returns the account on success.
// Wrong email and wrong password are indistinguishable to the caller.
func (s *Store) VerifyPassword(ctx context.Context, email, password string) (models.Account, error) {
	var acct models.Account
	if err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&acct); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Account{}, ErrInvalidCredentials
		}
		return models.Account{}, err
	}
	if acct.PasswordHash == "" {
		// OAuth-only account; no password to check against.
		return models.Account{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return models.Account{}, ErrInvalidCredentials
	}
	return acct, nil
}

// GetByID returns the account with the given ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Account, error) {
	var acct models.Account
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&acct)
	return acct, err
}

// GetByEmail returns the account with the given (normalized) email, or
// mongo.ErrNoDocuments.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.Account, error) {
	var acct models.Account
	err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&acct)
	return acct, err
}

// UpsertOAuth finds or creates an account for an OAuth-verified email.
// Existing password accounts are reused as-is; only missing accounts are
// created, marked with the google auth method.
func (s *Store) UpsertOAuth(ctx context.Context, email string) (models.Account, error) {
	now := time.Now().UTC()
	filter := bson.M{"email": email}
	update := bson.M{
		"$setOnInsert": bson.M{
			"email":       email,
			"auth_method": models.AuthMethodGoogle,
			"status":      "active",
			"created_at":  now,
		},
		"$set": bson.M{"updated_at": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var acct models.Account
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&acct); err != nil {
		return models.Account{}, err
	}
	return acct, nil
}

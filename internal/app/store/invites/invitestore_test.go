package invitestore_test

import (
	"errors"
	"testing"
	"time"

	invitestore "github.com/jmoreland/peopledesk/internal/app/store/invites"
	"github.com/jmoreland/peopledesk/internal/domain/roles"
	"github.com/jmoreland/peopledesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const week = 7 * 24 * time.Hour

func TestCreate_AndGetByToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitestore.New(db)
	ctx := testutil.TestContext(t)

	orgID := primitive.NewObjectID()
	inv, err := store.Create(ctx, orgID, "hire@acme.com", roles.Employee, primitive.NewObjectID(), week)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if inv.Token == "" {
		t.Fatal("token is empty")
	}
	if !inv.Pending(time.Now().UTC()) {
		t.Error("fresh invite should be pending")
	}

	got, err := store.GetByToken(ctx, inv.Token)
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if got.ID != inv.ID || got.Email != "hire@acme.com" {
		t.Errorf("GetByToken returned %+v", got)
	}
}

func TestGetByToken_Unknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitestore.New(db)
	ctx := testutil.TestContext(t)

	if _, err := store.GetByToken(ctx, "nope"); !errors.Is(err, invitestore.ErrInviteNotFound) {
		t.Errorf("got %v, want ErrInviteNotFound", err)
	}
}

func TestCreate_DuplicatePendingSameOrgEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitestore.New(db)
	ctx := testutil.TestContext(t)

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	orgID := primitive.NewObjectID()
	inviter := primitive.NewObjectID()

	if _, err := store.Create(ctx, orgID, "hire@acme.com", roles.Employee, inviter, week); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := store.Create(ctx, orgID, "hire@acme.com", roles.Manager, inviter, week); !errors.Is(err, invitestore.ErrDuplicateInvite) {
		t.Errorf("second Create: got %v, want ErrDuplicateInvite", err)
	}

	// The same email in another org is fine.
	if _, err := store.Create(ctx, primitive.NewObjectID(), "hire@acme.com", roles.Employee, inviter, week); err != nil {
		t.Errorf("other-org Create: %v", err)
	}
}

func TestCreate_ReinviteAfterAccept(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitestore.New(db)
	ctx := testutil.TestContext(t)

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	orgID := primitive.NewObjectID()
	inviter := primitive.NewObjectID()

	first, err := store.Create(ctx, orgID, "hire@acme.com", roles.Employee, inviter, week)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.MarkAccepted(ctx, first.Token, primitive.NewObjectID()); err != nil {
		t.Fatalf("MarkAccepted: %v", err)
	}

	// The partial unique index only covers pending invites.
	if _, err := store.Create(ctx, orgID, "hire@acme.com", roles.Employee, inviter, week); err != nil {
		t.Errorf("re-invite after accept: %v", err)
	}
}

func TestMarkAccepted_StampsOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitestore.New(db)
	ctx := testutil.TestContext(t)

	inv, err := store.Create(ctx, primitive.NewObjectID(), "hire@acme.com", roles.Manager, primitive.NewObjectID(), week)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	acceptedBy := primitive.NewObjectID()
	got, err := store.MarkAccepted(ctx, inv.Token, acceptedBy)
	if err != nil {
		t.Fatalf("MarkAccepted: %v", err)
	}
	if got.AcceptedAt == nil {
		t.Error("accepted_at not set")
	}
	if got.AcceptedBy == nil || *got.AcceptedBy != acceptedBy {
		t.Error("accepted_by not set")
	}

	// A second accept is rejected with the typed error.
	if _, err := store.MarkAccepted(ctx, inv.Token, primitive.NewObjectID()); !errors.Is(err, invitestore.ErrInviteAccepted) {
		t.Errorf("second accept: got %v, want ErrInviteAccepted", err)
	}
}

func TestMarkAccepted_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitestore.New(db)
	ctx := testutil.TestContext(t)

	inv, err := store.Create(ctx, primitive.NewObjectID(), "hire@acme.com", roles.Employee, primitive.NewObjectID(), -time.Hour)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := store.MarkAccepted(ctx, inv.Token, primitive.NewObjectID()); !errors.Is(err, invitestore.ErrInviteExpired) {
		t.Errorf("got %v, want ErrInviteExpired", err)
	}
}

func TestMarkAccepted_UnknownToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitestore.New(db)
	ctx := testutil.TestContext(t)

	if _, err := store.MarkAccepted(ctx, "nope", primitive.NewObjectID()); !errors.Is(err, invitestore.ErrInviteNotFound) {
		t.Errorf("got %v, want ErrInviteNotFound", err)
	}
}

func TestListForOrg_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitestore.New(db)
	ctx := testutil.TestContext(t)

	orgID := primitive.NewObjectID()
	inviter := primitive.NewObjectID()

	older, err := store.Create(ctx, orgID, "a@acme.com", roles.Employee, inviter, week)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	newer, err := store.Create(ctx, orgID, "b@acme.com", roles.Employee, inviter, week)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	invites, err := store.ListForOrg(ctx, orgID)
	if err != nil {
		t.Fatalf("ListForOrg: %v", err)
	}
	if len(invites) != 2 {
		t.Fatalf("got %d invites, want 2", len(invites))
	}
	if invites[0].ID != newer.ID || invites[1].ID != older.ID {
		t.Error("invites not sorted newest first")
	}
}

func TestRevoke(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitestore.New(db)
	ctx := testutil.TestContext(t)

	orgID := primitive.NewObjectID()
	inv, err := store.Create(ctx, orgID, "hire@acme.com", roles.Employee, primitive.NewObjectID(), week)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.Revoke(ctx, orgID, inv.ID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := store.GetByToken(ctx, inv.Token); !errors.Is(err, invitestore.ErrInviteNotFound) {
		t.Errorf("after revoke: got %v, want ErrInviteNotFound", err)
	}

	// Revoking again reports not found.
	if err := store.Revoke(ctx, orgID, inv.ID); !errors.Is(err, invitestore.ErrInviteNotFound) {
		t.Errorf("second revoke: got %v, want ErrInviteNotFound", err)
	}
}

func TestRevoke_AcceptedInviteStays(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitestore.New(db)
	ctx := testutil.TestContext(t)

	orgID := primitive.NewObjectID()
	inv, err := store.Create(ctx, orgID, "hire@acme.com", roles.Employee, primitive.NewObjectID(), week)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.MarkAccepted(ctx, inv.Token, primitive.NewObjectID()); err != nil {
		t.Fatalf("MarkAccepted: %v", err)
	}

	if err := store.Revoke(ctx, orgID, inv.ID); !errors.Is(err, invitestore.ErrInviteNotFound) {
		t.Errorf("revoking an accepted invite: got %v, want ErrInviteNotFound", err)
	}

	// Still on the record.
	if _, err := store.GetByToken(ctx, inv.Token); err != nil {
		t.Errorf("accepted invite should remain: %v", err)
	}
}

func TestRevoke_WrongOrg(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitestore.New(db)
	ctx := testutil.TestContext(t)

	inv, err := store.Create(ctx, primitive.NewObjectID(), "hire@acme.com", roles.Employee, primitive.NewObjectID(), week)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.Revoke(ctx, primitive.NewObjectID(), inv.ID); !errors.Is(err, invitestore.ErrInviteNotFound) {
		t.Errorf("cross-org revoke: got %v, want ErrInviteNotFound", err)
	}
}

func TestEnsureIndexes_TTLSkipsAcceptedInvites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitestore.New(db)
	ctx := testutil.TestContext(t)

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	cur, err := db.Collection("employee_invites").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list indexes: %v", err)
	}
	defer cur.Close(ctx)

	type indexSpec struct {
		Name   string `bson:"name"`
		Filter bson.M `bson:"partialFilterExpression"`
	}

	var ttl *indexSpec
	for cur.Next(ctx) {
		var idx indexSpec
		if err := cur.Decode(&idx); err != nil {
			t.Fatalf("decode index: %v", err)
		}
		if idx.Name == "idx_invites_ttl" {
			ttl = &idx
		}
	}
	if ttl == nil {
		t.Fatal("idx_invites_ttl not found")
	}

	// The TTL monitor must never reap accepted invites, so the expiry index
	// has to be scoped to documents without accepted_at.
	if ttl.Filter == nil {
		t.Fatal("idx_invites_ttl has no partial filter; accepted invites would be deleted at expiry")
	}
	if _, ok := ttl.Filter["accepted_at"]; !ok {
		t.Errorf("partial filter does not reference accepted_at: %v", ttl.Filter)
	}
}

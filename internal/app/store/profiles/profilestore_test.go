package profilestore_test

import (
	"testing"

	profilestore "github.com/jmoreland/peopledesk/internal/app/store/profiles"
	"github.com/jmoreland/peopledesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGetByID_MissingProfileIsNilNotError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx := testutil.TestContext(t)

	p, err := store.GetByID(ctx, primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil for a missing profile, got %+v", p)
	}
}

func TestGetByID_MalformedID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx := testutil.TestContext(t)

	if _, err := store.GetByID(ctx, "not-hex"); err == nil {
		t.Error("expected an error for a malformed id")
	}
}

func TestUpsert_CreateThenUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx := testutil.TestContext(t)

	id := primitive.NewObjectID()
	if err := store.Upsert(ctx, id, "Maria García", ""); err != nil {
		t.Fatalf("Upsert create: %v", err)
	}

	p, err := store.GetByID(ctx, id.Hex())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if p == nil || p.FullName != "Maria García" {
		t.Fatalf("got %+v", p)
	}
	created := p.CreatedAt

	if err := store.Upsert(ctx, id, "Maria G. Smith", "https://cdn.acme.com/m.png"); err != nil {
		t.Fatalf("Upsert update: %v", err)
	}

	p, err = store.GetByID(ctx, id.Hex())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if p.FullName != "Maria G. Smith" || p.AvatarURL != "https://cdn.acme.com/m.png" {
		t.Errorf("got %+v", p)
	}
	if !p.CreatedAt.Equal(created) {
		t.Error("created_at must not change on update")
	}
	if !p.UpdatedAt.After(p.CreatedAt) && !p.UpdatedAt.Equal(p.CreatedAt) {
		t.Error("updated_at should move forward")
	}
}

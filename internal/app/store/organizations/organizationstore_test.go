package organizationstore_test

import (
	"errors"
	"testing"

	organizationstore "github.com/jmoreland/peopledesk/internal/app/store/organizations"
	"github.com/jmoreland/peopledesk/internal/testutil"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Acme Robotics", "acme-robotics"},
		{"Café  Crème", "cafe-creme"},
		{"  Spaces  Everywhere  ", "spaces-everywhere"},
		{"Already-Hyphenated", "already-hyphenated"},
		{"Ünïcode & Symbols!!", "unicode-symbols"},
		{"123 Go", "123-go"},
	}
	for _, tt := range tests {
		if got := organizationstore.Slugify(tt.name); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestCreate_DerivesSlugAndFold(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx := testutil.TestContext(t)

	org, err := store.Create(ctx, "Acme Robotics")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if org.Slug != "acme-robotics" {
		t.Errorf("slug: got %q", org.Slug)
	}
	if org.NameCI != "acme robotics" {
		t.Errorf("name_ci: got %q", org.NameCI)
	}

	got, err := store.GetBySlug(ctx, "acme-robotics")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if got.ID != org.ID {
		t.Error("GetBySlug returned a different organization")
	}
}

func TestCreate_DuplicateSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx := testutil.TestContext(t)

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	if _, err := store.Create(ctx, "Acme Robotics"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// A different spelling that folds to the same slug still collides.
	if _, err := store.Create(ctx, "ACME   Robotics"); !errors.Is(err, organizationstore.ErrDuplicateOrganization) {
		t.Errorf("duplicate: got %v, want ErrDuplicateOrganization", err)
	}
}

func TestRename_KeepsSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx := testutil.TestContext(t)

	org, err := store.Create(ctx, "Acme Robotics")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.Rename(ctx, org.ID, "Acme Industries"); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	got, err := store.GetByID(ctx, org.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Acme Industries" {
		t.Errorf("name: got %q", got.Name)
	}
	if got.Slug != "acme-robotics" {
		t.Errorf("slug must be stable across renames, got %q", got.Slug)
	}
}

package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoreland/peopledesk/internal/app/system/auth"
	"github.com/jmoreland/peopledesk/internal/domain/models"
	"github.com/jmoreland/peopledesk/internal/domain/roles"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// fakeProfiles implements auth.ProfileLookup.
type fakeProfiles struct {
	profile *models.Profile
	err     error
	calls   int
}

func (f *fakeProfiles) GetByID(ctx context.Context, userID string) (*models.Profile, error) {
	f.calls++
	return f.profile, f.err
}

// fakeMemberships implements auth.MembershipLookup.
type fakeMemberships struct {
	rows  []models.MembershipWithOrg
	err   error
	calls int
}

func (f *fakeMemberships) ListForUser(ctx context.Context, userID string) ([]models.MembershipWithOrg, error) {
	f.calls++
	return f.rows, f.err
}

func membershipRow(orgID primitive.ObjectID, role roles.Role) models.MembershipWithOrg {
	return models.MembershipWithOrg{
		Membership: models.Membership{
			ID:             primitive.NewObjectID(),
			UserID:         primitive.NewObjectID(),
			OrganizationID: orgID,
			Role:           role,
		},
		Organization: models.Organization{
			ID:   orgID,
			Name: "Test Org",
			Slug: "test-org",
		},
	}
}

func newResolver(p *fakeProfiles, m *fakeMemberships) *auth.Resolver {
	return auth.NewResolver(p, m, zap.NewNop())
}

func TestResolve_ZeroMemberships(t *testing.T) {
	rs := newResolver(
		&fakeProfiles{profile: &models.Profile{FullName: "Dana Cruz", AvatarURL: "/a.png"}},
		&fakeMemberships{},
	)

	u := rs.Resolve(context.Background(), auth.Identity{ID: "u1", Email: "dana@example.com"})

	if u.FullName != "Dana Cruz" || u.AvatarURL != "/a.png" {
		t.Errorf("profile fields not populated: %+v", u)
	}
	if u.OrganizationID != "" || u.Role != "" {
		t.Errorf("expected no org/role, got org=%q role=%q", u.OrganizationID, u.Role)
	}
}

func TestResolve_SingleMembership(t *testing.T) {
	orgID := primitive.NewObjectID()
	rs := newResolver(
		&fakeProfiles{},
		&fakeMemberships{rows: []models.MembershipWithOrg{membershipRow(orgID, roles.Manager)}},
	)

	u := rs.Resolve(context.Background(), auth.Identity{ID: "u1"})

	if u.OrganizationID != orgID.Hex() {
		t.Errorf("expected org %s, got %q", orgID.Hex(), u.OrganizationID)
	}
	if u.Role != roles.Manager {
		t.Errorf("expected role manager, got %q", u.Role)
	}
}

func TestResolve_FirstMembershipWins(t *testing.T) {
	o1 := primitive.NewObjectID()
	o2 := primitive.NewObjectID()
	rs := newResolver(
		&fakeProfiles{},
		&fakeMemberships{rows: []models.MembershipWithOrg{
			membershipRow(o1, roles.Employee),
			membershipRow(o2, roles.HRAdmin),
		}},
	)

	u := rs.Resolve(context.Background(), auth.Identity{ID: "u1"})

	if u.OrganizationID != o1.Hex() {
		t.Errorf("expected first org %s to win, got %q", o1.Hex(), u.OrganizationID)
	}
	if u.Role != roles.Employee {
		t.Errorf("expected first role employee to win, got %q", u.Role)
	}
}

func TestResolve_ProfileErrorStillResolvesMembership(t *testing.T) {
	orgID := primitive.NewObjectID()
	rs := newResolver(
		&fakeProfiles{err: errors.New("profile query timed out")},
		&fakeMemberships{rows: []models.MembershipWithOrg{membershipRow(orgID, roles.Employee)}},
	)

	u := rs.Resolve(context.Background(), auth.Identity{ID: "u1", Email: "a@b.co"})

	if u.FullName != "" || u.AvatarURL != "" {
		t.Errorf("expected empty profile fields on lookup error, got %+v", u)
	}
	if u.OrganizationID != orgID.Hex() || u.Role != roles.Employee {
		t.Errorf("membership should survive a profile fault: %+v", u)
	}
}

func TestResolve_MembershipErrorFailsOpenToNoOrg(t *testing.T) {
	rs := newResolver(
		&fakeProfiles{profile: &models.Profile{FullName: "Dana"}},
		&fakeMemberships{err: errors.New("store down")},
	)

	u := rs.Resolve(context.Background(), auth.Identity{ID: "u1"})

	if u.OrganizationID != "" || u.Role != "" {
		t.Errorf("expected no org on membership fault, got %+v", u)
	}
	if u.FullName != "Dana" {
		t.Errorf("profile should survive a membership fault: %+v", u)
	}
}

func TestResolve_MalformedFirstRow(t *testing.T) {
	tests := []struct {
		name string
		row  models.MembershipWithOrg
	}{
		{"missing organization join", models.MembershipWithOrg{
			Membership: models.Membership{ID: primitive.NewObjectID(), Role: roles.Employee},
		}},
		{"unknown role", func() models.MembershipWithOrg {
			row := membershipRow(primitive.NewObjectID(), roles.Role("owner"))
			return row
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := newResolver(&fakeProfiles{}, &fakeMemberships{rows: []models.MembershipWithOrg{tt.row}})
			u := rs.Resolve(context.Background(), auth.Identity{ID: "u1"})
			if u.OrganizationID != "" || u.Role != "" {
				t.Errorf("malformed first row must resolve without org, got %+v", u)
			}
		})
	}
}

// The org/role pairing invariant holds across every resolution path.
func TestResolve_OrgRolePairingInvariant(t *testing.T) {
	orgID := primitive.NewObjectID()
	cases := []struct {
		name string
		p    *fakeProfiles
		m    *fakeMemberships
	}{
		{"no data", &fakeProfiles{}, &fakeMemberships{}},
		{"both error", &fakeProfiles{err: errors.New("x")}, &fakeMemberships{err: errors.New("y")}},
		{"valid membership", &fakeProfiles{}, &fakeMemberships{rows: []models.MembershipWithOrg{membershipRow(orgID, roles.HRAdmin)}}},
		{"malformed row", &fakeProfiles{}, &fakeMemberships{rows: []models.MembershipWithOrg{{}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := newResolver(tc.p, tc.m).Resolve(context.Background(), auth.Identity{ID: "u1"})
			if (u.OrganizationID == "") != (u.Role == "") {
				t.Errorf("invariant violated: org=%q role=%q", u.OrganizationID, u.Role)
			}
		})
	}
}

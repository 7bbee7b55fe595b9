// internal/app/system/auth/resolver.go
package auth

import (
	"context"

	"github.com/jmoreland/peopledesk/internal/domain/models"
	"github.com/jmoreland/peopledesk/internal/domain/roles"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Identity is the verified principal returned by the auth provider for one
// request. It is immutable for the request's lifetime.
type Identity struct {
	ID    string // account ObjectID hex
	Email string
}

// ProfileLookup answers point queries for directory profile rows.
// A nil profile with a nil error means "no row", which is a valid state.
type ProfileLookup interface {
	GetByID(ctx context.Context, userID string) (*models.Profile, error)
}

// MembershipLookup lists a user's memberships joined with their organizations,
// in the store's return order. The order is treated as authoritative for
// first-membership-wins selection.
type MembershipLookup interface {
	ListForUser(ctx context.Context, userID string) ([]models.MembershipWithOrg, error)
}

// Resolver turns a verified Identity plus directory lookups into a
// SessionUser. It is read-only: it never mutates directory state.
//
// Store faults degrade to empty fields rather than failing the request.
// Authorization decisions stay with the guards; a user resolved without an
// organization simply cannot pass org/role checks.
type Resolver struct {
	Profiles    ProfileLookup
	Memberships MembershipLookup
	Log         *zap.Logger
}

// NewResolver builds a Resolver over the given directory lookups.
func NewResolver(profiles ProfileLookup, memberships MembershipLookup, logger *zap.Logger) *Resolver {
	return &Resolver{
		Profiles:    profiles,
		Memberships: memberships,
		Log:         logger,
	}
}

// Resolve constructs the SessionUser for a verified identity.
//
// The profile and membership lookups are independent and run concurrently;
// both results are in hand before the SessionUser is assembled. Either lookup
// erroring is treated as "no data" for its fields. When memberships exist,
// the first row in store order supplies the current organization and role;
// additional memberships are ignored (single-active-organization policy).
func (rs *Resolver) Resolve(ctx context.Context, ident Identity) *SessionUser {
	var (
		profile     *models.Profile
		memberships []models.MembershipWithOrg
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := rs.Profiles.GetByID(gctx, ident.ID)
		if err != nil {
			rs.Log.Warn("session resolve: profile lookup failed",
				zap.String("user_id", ident.ID), zap.Error(err))
			return nil
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		rows, err := rs.Memberships.ListForUser(gctx, ident.ID)
		if err != nil {
			rs.Log.Warn("session resolve: membership lookup failed",
				zap.String("user_id", ident.ID), zap.Error(err))
			return nil
		}
		memberships = rows
		return nil
	})
	// Lookup errors are swallowed above, so Wait only reflects ctx teardown.
	_ = g.Wait()

	u := &SessionUser{
		ID:    ident.ID,
		Email: ident.Email,
	}
	if profile != nil {
		u.FullName = profile.FullName
		u.AvatarURL = profile.AvatarURL
	}

	if len(memberships) == 0 {
		return u
	}

	// First-membership-wins: the store's return order is authoritative.
	// A malformed organization join on the first row resolves to "no org"
	// rather than guessing from later rows.
	first := memberships[0]
	if first.Organization.ID.IsZero() || !roles.Valid(first.Role) {
		rs.Log.Warn("session resolve: first membership row malformed, resolving without org",
			zap.String("user_id", ident.ID),
			zap.String("membership_id", first.Membership.ID.Hex()))
		return u
	}

	u.OrganizationID = first.Organization.ID.Hex()
	u.Role = first.Role
	return u
}

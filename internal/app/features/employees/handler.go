// internal/app/features/employees/handler.go
package employees

import (
	"time"

	uierrors "github.com/jmoreland/peopledesk/internal/app/features/errors"
	invitestore "github.com/jmoreland/peopledesk/internal/app/store/invites"
	membershipstore "github.com/jmoreland/peopledesk/internal/app/store/memberships"
	organizationstore "github.com/jmoreland/peopledesk/internal/app/store/organizations"
	profilestore "github.com/jmoreland/peopledesk/internal/app/store/profiles"
	"github.com/jmoreland/peopledesk/internal/app/system/mailer"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for the employee directory and
// invitation management.
type Handler struct {
	Organizations *organizationstore.Store
	Memberships   *membershipstore.Store
	Profiles      *profilestore.Store
	Invites       *invitestore.Store
	Mail          mailer.Mailer
	ErrLog        *uierrors.ErrorLogger
	Log           *zap.Logger

	BaseURL   string        // absolute origin used to build accept links
	InviteTTL time.Duration // how long a new invite stays acceptable
}

func NewHandler(
	organizations *organizationstore.Store,
	memberships *membershipstore.Store,
	profiles *profilestore.Store,
	invites *invitestore.Store,
	mail mailer.Mailer,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
	baseURL string,
	inviteTTL time.Duration,
) *Handler {
	if inviteTTL <= 0 {
		inviteTTL = 7 * 24 * time.Hour
	}
	return &Handler{
		Organizations: organizations,
		Memberships:   memberships,
		Profiles:      profiles,
		Invites:       invites,
		Mail:          mail,
		ErrLog:        errLog,
		Log:           logger,
		BaseURL:       baseURL,
		InviteTTL:     inviteTTL,
	}
}

// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/jmoreland/peopledesk/internal/app/features/errors"
	membershipstore "github.com/jmoreland/peopledesk/internal/app/store/memberships"
	organizationstore "github.com/jmoreland/peopledesk/internal/app/store/organizations"
	"github.com/jmoreland/peopledesk/internal/app/system/auth"
	"github.com/jmoreland/peopledesk/internal/app/system/timeouts"
	"github.com/jmoreland/peopledesk/internal/app/system/viewdata"
	"github.com/jmoreland/peopledesk/internal/domain/roles"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Organizations *organizationstore.Store
	Memberships   *membershipstore.Store
	ErrLog        *uierrors.ErrorLogger
	Log           *zap.Logger
}

func NewHandler(
	organizations *organizationstore.Store,
	memberships *membershipstore.Store,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Organizations: organizations,
		Memberships:   memberships,
		ErrLog:        errLog,
		Log:           logger,
	}
}

type dashboardData struct {
	viewdata.BaseVM
	OrgName     string
	MemberCount int64
	CanManage   bool // manager or above: sees the employee directory
	CanInvite   bool // hr_admin: sees invite management
}

// ServeDashboard handles GET /dashboard. The route guard guarantees a
// signed-in user with an organization.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	orgID, err := primitive.ObjectIDFromHex(u.OrganizationID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "parse org id", err, "A server error occurred.", "/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	org, err := h.Organizations.GetByID(ctx, orgID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load organization", err, "A server error occurred.", "/")
		return
	}

	count, err := h.Memberships.CountForOrg(ctx, orgID)
	if err != nil {
		h.Log.Warn("member count failed", zap.String("org_id", orgID.Hex()), zap.Error(err))
	}

	templates.Render(w, r, "dashboard", dashboardData{
		BaseVM:      viewdata.NewBaseVM(r, "Dashboard", "/"),
		OrgName:     org.Name,
		MemberCount: count,
		CanManage:   roles.AtLeast(u.Role, roles.Manager),
		CanInvite:   roles.AtLeast(u.Role, roles.HRAdmin),
	})
}

// internal/app/features/onboarding/handler.go
package onboarding

import (
	"context"
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/jmoreland/peopledesk/internal/app/features/errors"
	membershipstore "github.com/jmoreland/peopledesk/internal/app/store/memberships"
	organizationstore "github.com/jmoreland/peopledesk/internal/app/store/organizations"
	"github.com/jmoreland/peopledesk/internal/app/system/auth"
	"github.com/jmoreland/peopledesk/internal/app/system/htmlsanitize"
	"github.com/jmoreland/peopledesk/internal/app/system/normalize"
	"github.com/jmoreland/peopledesk/internal/app/system/timeouts"
	"github.com/jmoreland/peopledesk/internal/app/system/viewdata"
	"github.com/jmoreland/peopledesk/internal/domain/roles"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler walks a signed-in user without an organization through creating
// one. The creator becomes the organization's first hr_admin.
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

type onboardingFormData struct {
	viewdata.BaseVM
	Error   string
	OrgName string
}

// ServeOnboarding handles GET /onboarding. Users who already belong to an
// organization are bounced to their dashboard.
func (h *Handler) ServeOnboarding(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	if u != nil && u.HasOrg() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "onboarding", onboardingFormData{
		BaseVM: viewdata.NewBaseVM(r, "Create your organization", "/"),
	})
}

// HandleCreateOrg handles POST /onboarding.
func (h *Handler) HandleCreateOrg(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	if u != nil && u.HasOrg() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse onboarding form", err, "Invalid form data.", "/onboarding")
		return
	}

	name := htmlsanitize.StripTags(normalize.Name(r.FormValue("org_name")))
	if msg := validateOrgName(name); msg != "" {
		h.renderError(w, r, msg, name)
		return
	}

	userID, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "parse session user id", err, "A server error occurred.", "/onboarding")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	org, err := h.Organizations.Create(ctx, name)
	switch {
	case errors.Is(err, organizationstore.ErrDuplicateOrganization):
		h.renderError(w, r, "An organization with that name already exists.", name)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create organization", err, "A server error occurred.", "/onboarding")
		return
	}

	if _, err := h.Memberships.Add(ctx, userID, org.ID, roles.HRAdmin, ""); err != nil {
		// The org exists but the creator has no membership; surface the
		// error rather than leaving them stranded half-onboarded.
		h.ErrLog.LogServerError(w, r, "create founding membership", err, "A server error occurred.", "/onboarding")
		return
	}

	h.Log.Info("organization created",
		zap.String("org_id", org.ID.Hex()),
		zap.String("creator_id", u.ID),
		zap.String("name", org.Name),
	)

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

const (
	minOrgNameLen = 2
	maxOrgNameLen = 100
)

func validateOrgName(name string) string {
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		return "Please enter an organization name."
	case n < minOrgNameLen:
		return "Organization name must be at least 2 characters."
	case n > maxOrgNameLen:
		return "Organization name must be 100 characters or fewer."
	}
	return ""
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, msg, name string) {
	templates.Render(w, r, "onboarding", onboardingFormData{
		BaseVM:  viewdata.NewBaseVM(r, "Create your organization", "/"),
		Error:   msg,
		OrgName: name,
	})
}

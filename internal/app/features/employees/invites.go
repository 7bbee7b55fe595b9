// internal/app/features/employees/invites.go
package employees

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	invitestore "github.com/jmoreland/peopledesk/internal/app/store/invites"
	"github.com/jmoreland/peopledesk/internal/app/system/auth"
	"github.com/jmoreland/peopledesk/internal/app/system/htmlsanitize"
	"github.com/jmoreland/peopledesk/internal/app/system/mailer"
	"github.com/jmoreland/peopledesk/internal/app/system/normalize"
	"github.com/jmoreland/peopledesk/internal/app/system/timeouts"
	"github.com/jmoreland/peopledesk/internal/app/system/viewdata"
	"github.com/jmoreland/peopledesk/internal/domain/models"
	"github.com/jmoreland/peopledesk/internal/domain/roles"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type inviteRow struct {
	ID        string
	Email     string
	Role      roles.Role
	CreatedAt time.Time
	ExpiresAt time.Time
	Status    string // pending | accepted | expired
}

type invitesData struct {
	viewdata.BaseVM
	OrgName string
	Rows    []inviteRow
	Error   string
	Email   string
	Notice  string
}

// ServeInvites handles GET /employees/invites. The route guard guarantees
// an hr_admin.
func (h *Handler) ServeInvites(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	orgID, err := primitive.ObjectIDFromHex(u.OrganizationID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "parse org id", err, "A server error occurred.", "/dashboard")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data, err := h.buildInvitesData(ctx, r, orgID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list invites", err, "Could not load invitations.", "/employees")
		return
	}
	if r.URL.Query().Get("sent") == "1" {
		data.Notice = "Invitation sent."
	}

	templates.Render(w, r, "employees_invites", data)
}

// HandleCreateInvite handles POST /employees/invites.
func (h *Handler) HandleCreateInvite(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	orgID, err := primitive.ObjectIDFromHex(u.OrganizationID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "parse org id", err, "A server error occurred.", "/dashboard")
		return
	}
	inviterID, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "parse user id", err, "A server error occurred.", "/dashboard")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse invite form", err, "The form could not be read.", "/employees/invites")
		return
	}

	email := normalize.Email(r.FormValue("email"))
	roleInput := normalize.Role(r.FormValue("role"))
	message := strings.TrimSpace(r.FormValue("message"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if msg := validateInvite(email, roleInput); msg != "" {
		h.renderInviteError(ctx, w, r, orgID, msg, email)
		return
	}
	role, _ := roles.Parse(roleInput)

	inv, err := h.Invites.Create(ctx, orgID, email, role, inviterID, h.InviteTTL)
	if err != nil {
		if errors.Is(err, invitestore.ErrDuplicateInvite) {
			h.renderInviteError(ctx, w, r, orgID, "A pending invitation for this email already exists.", email)
			return
		}
		h.ErrLog.LogServerError(w, r, "create invite", err, "Could not create the invitation.", "/employees/invites")
		return
	}

	h.sendInviteEmail(ctx, r, inv, message)

	http.Redirect(w, r, "/employees/invites?sent=1", http.StatusSeeOther)
}

// HandleRevokeInvite handles POST /employees/invites/{id}/revoke. Only
// pending invites can be revoked.
func (h *Handler) HandleRevokeInvite(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	orgID, err := primitive.ObjectIDFromHex(u.OrganizationID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "parse org id", err, "A server error occurred.", "/dashboard")
		return
	}

	inviteID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse invite id", err, "That invitation does not exist.", "/employees/invites")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Invites.Revoke(ctx, orgID, inviteID); err != nil {
		if errors.Is(err, invitestore.ErrInviteNotFound) {
			h.ErrLog.LogNotFound(w, r, "revoke invite", "That invitation no longer exists or was already accepted.", "/employees/invites")
			return
		}
		h.ErrLog.LogServerError(w, r, "revoke invite", err, "Could not revoke the invitation.", "/employees/invites")
		return
	}

	http.Redirect(w, r, "/employees/invites", http.StatusSeeOther)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func validateInvite(email, roleInput string) string {
	if email == "" {
		return "Email is required."
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "Enter a valid email address."
	}
	role, ok := roles.Parse(roleInput)
	if !ok || role == roles.HRAdmin {
		return "Role must be employee or manager."
	}
	return ""
}

func (h *Handler) buildInvitesData(ctx context.Context, r *http.Request, orgID primitive.ObjectID) (invitesData, error) {
	org, err := h.Organizations.GetByID(ctx, orgID)
	if err != nil {
		return invitesData{}, err
	}

	invites, err := h.Invites.ListForOrg(ctx, orgID)
	if err != nil {
		return invitesData{}, err
	}

	now := time.Now().UTC()
	rows := make([]inviteRow, 0, len(invites))
	for _, inv := range invites {
		rows = append(rows, inviteRow{
			ID:        inv.ID.Hex(),
			Email:     inv.Email,
			Role:      inv.Role,
			CreatedAt: inv.CreatedAt,
			ExpiresAt: inv.ExpiresAt,
			Status:    inviteStatus(inv, now),
		})
	}

	return invitesData{
		BaseVM:  viewdata.NewBaseVM(r, "Invitations", "/employees"),
		OrgName: org.Name,
		Rows:    rows,
	}, nil
}

func inviteStatus(inv models.Invite, now time.Time) string {
	switch {
	case inv.AcceptedAt != nil:
		return "accepted"
	case now.After(inv.ExpiresAt):
		return "expired"
	default:
		return "pending"
	}
}

func (h *Handler) renderInviteError(ctx context.Context, w http.ResponseWriter, r *http.Request, orgID primitive.ObjectID, msg, email string) {
	data, err := h.buildInvitesData(ctx, r, orgID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list invites", err, "Could not load invitations.", "/employees")
		return
	}
	data.Error = msg
	data.Email = email
	w.WriteHeader(http.StatusUnprocessableEntity)
	templates.Render(w, r, "employees_invites", data)
}

// sendInviteEmail delivers the invite email. Delivery failures are logged
// but do not fail the request; the invite row already exists and the admin
// can revoke and retry.
func (h *Handler) sendInviteEmail(ctx context.Context, r *http.Request, inv models.Invite, message string) {
	u, _ := auth.CurrentUser(r)

	orgName := ""
	if org, err := h.Organizations.GetByID(ctx, inv.OrganizationID); err == nil {
		orgName = org.Name
	}

	inviterName := u.FullName
	if inviterName == "" {
		inviterName = u.Email
	}

	email := mailer.BuildInviteEmail(mailer.InviteEmailData{
		SiteName:    viewdata.SiteName,
		OrgName:     orgName,
		InviterName: inviterName,
		Role:        string(inv.Role),
		AcceptURL:   fmt.Sprintf("%s/invite/%s", strings.TrimRight(h.BaseURL, "/"), inv.Token),
		Message:     htmlsanitize.SanitizeToHTML(message),
		ExpiresIn:   formatTTL(h.InviteTTL),
	})
	email.To = inv.Email

	if err := h.Mail.Send(ctx, email); err != nil {
		h.logWarn("invite email delivery failed",
			zap.String("email", inv.Email),
			zap.String("org_id", inv.OrganizationID.Hex()),
			zap.Error(err))
	}
}

func formatTTL(d time.Duration) string {
	if days := int(d.Hours() / 24); days >= 1 {
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
	hours := int(d.Hours())
	if hours <= 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}

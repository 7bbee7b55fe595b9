// internal/app/features/invites/handler.go
package invites

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	uierrors "github.com/jmoreland/peopledesk/internal/app/features/errors"
	invitestore "github.com/jmoreland/peopledesk/internal/app/store/invites"
	membershipstore "github.com/jmoreland/peopledesk/internal/app/store/memberships"
	organizationstore "github.com/jmoreland/peopledesk/internal/app/store/organizations"
	"github.com/jmoreland/peopledesk/internal/app/system/auth"
	"github.com/jmoreland/peopledesk/internal/app/system/normalize"
	"github.com/jmoreland/peopledesk/internal/app/system/timeouts"
	"github.com/jmoreland/peopledesk/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the public invite accept flow reached from the emailed
// link.
type Handler struct {
	Organizations *organizationstore.Store
	Memberships   *membershipstore.Store
	Invites       *invitestore.Store
	ErrLog        *uierrors.ErrorLogger
	Log           *zap.Logger
	GoogleEnabled bool
}

func NewHandler(
	organizations *organizationstore.Store,
	memberships *membershipstore.Store,
	invites *invitestore.Store,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
	googleEnabled bool,
) *Handler {
	return &Handler{
		Organizations: organizations,
		Memberships:   memberships,
		Invites:       invites,
		ErrLog:        errLog,
		Log:           logger,
		GoogleEnabled: googleEnabled,
	}
}

type inviteData struct {
	viewdata.BaseVM
	OrgName       string
	Role          string
	Email         string
	Token         string
	ReturnURL     string
	GoogleEnabled bool

	// Exactly one of these drives the template's action section.
	CanAccept     bool
	NeedsSignin   bool
	EmailMismatch bool
	Problem       string // set when the invite cannot be accepted
}

// ServeInvite handles GET /invite/{token}. The page is public: anonymous
// visitors are prompted to sign in or sign up carrying the invite along.
func (h *Handler) ServeInvite(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	inv, err := h.Invites.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, invitestore.ErrInviteNotFound) {
			h.ErrLog.LogNotFound(w, r, "load invite", "This invitation link is not valid.", "/")
			return
		}
		h.ErrLog.LogServerError(w, r, "load invite", err, "A server error occurred.", "/")
		return
	}

	orgName := ""
	if org, err := h.Organizations.GetByID(ctx, inv.OrganizationID); err == nil {
		orgName = org.Name
	}

	data := inviteData{
		BaseVM:        viewdata.NewBaseVM(r, "Invitation", "/"),
		OrgName:       orgName,
		Role:          string(inv.Role),
		Email:         inv.Email,
		Token:         token,
		ReturnURL:     url.QueryEscape("/invite/" + token),
		GoogleEnabled: h.GoogleEnabled,
	}

	now := time.Now().UTC()
	u, signedIn := auth.CurrentUser(r)
	switch {
	case inv.AcceptedAt != nil:
		data.Problem = "This invitation has already been accepted."
	case now.After(inv.ExpiresAt):
		data.Problem = "This invitation has expired. Ask your HR administrator to send a new one."
	case !signedIn:
		data.NeedsSignin = true
	case normalize.Email(u.Email) != inv.Email:
		data.EmailMismatch = true
	default:
		data.CanAccept = true
	}

	templates.Render(w, r, "invite", data)
}

// HandleAccept handles POST /invite/{token}/accept. Accepting creates the
// membership and consumes the invite atomically on the invite side; a
// duplicate membership means the user already belongs to the organization
// and is not an error.
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login?return="+url.QueryEscape("/invite/"+token), http.StatusSeeOther)
		return
	}

	userID, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "parse user id", err, "A server error occurred.", "/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	inv, err := h.Invites.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, invitestore.ErrInviteNotFound) {
			h.ErrLog.LogNotFound(w, r, "load invite", "This invitation link is not valid.", "/")
			return
		}
		h.ErrLog.LogServerError(w, r, "load invite", err, "A server error occurred.", "/")
		return
	}

	if normalize.Email(u.Email) != inv.Email {
		h.ErrLog.LogBadRequest(w, r, "accept invite", errEmailMismatch,
			"This invitation was sent to a different email address. Sign in with the invited account to accept it.", "/")
		return
	}
	if !inv.Pending(time.Now().UTC()) {
		h.redirectWithProblem(w, r, token)
		return
	}

	if _, err := h.Memberships.Add(ctx, userID, inv.OrganizationID, inv.Role, ""); err != nil &&
		!errors.Is(err, membershipstore.ErrDuplicateMembership) {
		h.ErrLog.LogServerError(w, r, "create membership", err, "Could not join the organization.", "/invite/"+token)
		return
	}

	if _, err := h.Invites.MarkAccepted(ctx, token, userID); err != nil {
		switch {
		case errors.Is(err, invitestore.ErrInviteAccepted):
			// Lost a race with ourselves (double submit); membership exists.
		case errors.Is(err, invitestore.ErrInviteExpired):
			h.redirectWithProblem(w, r, token)
			return
		default:
			h.ErrLog.LogServerError(w, r, "mark invite accepted", err, "Could not accept the invitation.", "/invite/"+token)
			return
		}
	}

	h.Log.Info("invite accepted",
		zap.String("user_id", u.ID),
		zap.String("org_id", inv.OrganizationID.Hex()),
		zap.String("role", string(inv.Role)))

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

var errEmailMismatch = errors.New("session email does not match invite email")

// redirectWithProblem sends the user back to the invite page, which renders
// the expired/accepted explanation.
func (h *Handler) redirectWithProblem(w http.ResponseWriter, r *http.Request, token string) {
	http.Redirect(w, r, "/invite/"+token, http.StatusSeeOther)
}

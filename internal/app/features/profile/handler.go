// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/jmoreland/peopledesk/internal/app/features/errors"
	profilestore "github.com/jmoreland/peopledesk/internal/app/store/profiles"
	"github.com/jmoreland/peopledesk/internal/app/system/auth"
	"github.com/jmoreland/peopledesk/internal/app/system/htmlsanitize"
	"github.com/jmoreland/peopledesk/internal/app/system/timeouts"
	"github.com/jmoreland/peopledesk/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const maxNameLen = 120

// Handler owns the signed-in user's profile page.
type Handler struct {
	Profiles *profilestore.Store
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(profiles *profilestore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Profiles: profiles,
		ErrLog:   errLog,
		Log:      logger,
	}
}

type profileData struct {
	viewdata.BaseVM
	FullName  string
	AvatarURL string
	Email     string
	Error     string
	Saved     bool
}

// ServeProfile handles GET /profile. The route guard guarantees a
// signed-in user; an organization is not required.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data := profileData{
		BaseVM: viewdata.NewBaseVM(r, "Your profile", "/dashboard"),
		Email:  u.Email,
		Saved:  r.URL.Query().Get("saved") == "1",
	}

	p, err := h.Profiles.GetByID(ctx, u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile", err, "Could not load your profile.", "/dashboard")
		return
	}
	if p != nil {
		data.FullName = p.FullName
		data.AvatarURL = p.AvatarURL
	}

	templates.Render(w, r, "profile", data)
}

// HandleUpdate handles POST /profile.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	userID, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "parse user id", err, "A server error occurred.", "/dashboard")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse profile form", err, "The form could not be read.", "/profile")
		return
	}

	fullName := htmlsanitize.StripTags(r.FormValue("full_name"))
	avatarURL := strings.TrimSpace(r.FormValue("avatar_url"))

	if msg := validateProfile(fullName, avatarURL); msg != "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.Render(w, r, "profile", profileData{
			BaseVM:    viewdata.NewBaseVM(r, "Your profile", "/dashboard"),
			FullName:  fullName,
			AvatarURL: avatarURL,
			Email:     u.Email,
			Error:     msg,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Profiles.Upsert(ctx, userID, fullName, avatarURL); err != nil {
		h.ErrLog.LogServerError(w, r, "save profile", err, "Could not save your profile.", "/profile")
		return
	}

	http.Redirect(w, r, "/profile?saved=1", http.StatusSeeOther)
}

func validateProfile(fullName, avatarURL string) string {
	if fullName == "" {
		return "Name is required."
	}
	if len(fullName) > maxNameLen {
		return "Name is too long."
	}
	if avatarURL != "" {
		parsed, err := url.Parse(avatarURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return "Avatar URL must be an http(s) link."
		}
	}
	return ""
}

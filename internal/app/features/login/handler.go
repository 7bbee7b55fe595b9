// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"net/mail"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	uierrors "github.com/jmoreland/peopledesk/internal/app/features/errors"
	accountstore "github.com/jmoreland/peopledesk/internal/app/store/accounts"
	profilestore "github.com/jmoreland/peopledesk/internal/app/store/profiles"
	"github.com/jmoreland/peopledesk/internal/app/system/auth"
	"github.com/jmoreland/peopledesk/internal/app/system/htmlsanitize"
	"github.com/jmoreland/peopledesk/internal/app/system/normalize"
	"github.com/jmoreland/peopledesk/internal/app/system/timeouts"
	"github.com/jmoreland/peopledesk/internal/app/system/viewdata"
	"go.uber.org/zap"
)

const minPasswordLen = 8

type Handler struct {
	Accounts      *accountstore.Store
	Profiles      *profilestore.Store
	SessionMgr    *auth.SessionManager
	ErrLog        *uierrors.ErrorLogger
	Log           *zap.Logger
	GoogleEnabled bool
}

func NewHandler(
	accounts *accountstore.Store,
	profiles *profilestore.Store,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	googleEnabled bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Accounts:      accounts,
		Profiles:      profiles,
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		Log:           logger,
		GoogleEnabled: googleEnabled,
	}
}

type signinFormData struct {
	viewdata.BaseVM
	Error         string
	Email         string
	ReturnURL     string
	GoogleEnabled bool
}

type signupFormData struct {
	viewdata.BaseVM
	Error         string
	FullName      string
	Email         string
	ReturnURL     string
	GoogleEnabled bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSignin(w http.ResponseWriter, r *http.Request) {
	// Already signed in? Nothing to do here.
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "signin", signinFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		ReturnURL:     query.Get(r, "return"),
		GoogleEnabled: h.GoogleEnabled,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSigninPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse signin form", err, "Invalid form data.", "/login")
		return
	}

	email := normalize.Email(r.FormValue("email"))
	password := r.FormValue("password")
	ret := r.FormValue("return")

	if email == "" || password == "" {
		h.renderSigninError(w, r, "Please enter your email and password.", email, ret)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	acct, err := h.Accounts.VerifyPassword(ctx, email, password)
	switch {
	case errors.Is(err, accountstore.ErrInvalidCredentials):
		h.renderSigninError(w, r, "Incorrect email or password.", email, ret)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "verify password", err, "A server error occurred.", "/login")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, auth.Identity{ID: acct.ID.Hex(), Email: acct.Email}); err != nil {
		h.ErrLog.LogServerError(w, r, "sign in session save", err, "Unable to create session. Please try again.", "/login")
		return
	}

	http.Redirect(w, r, urlutil.SafeReturn(ret, "", "/dashboard"), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /signup                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "signup", signupFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Create account", "/"),
		ReturnURL:     query.Get(r, "return"),
		GoogleEnabled: h.GoogleEnabled,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /signup                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSignupPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse signup form", err, "Invalid form data.", "/signup")
		return
	}

	fullName := htmlsanitize.StripTags(normalize.Name(r.FormValue("full_name")))
	email := normalize.Email(r.FormValue("email"))
	password := r.FormValue("password")
	confirm := r.FormValue("password_confirm")
	ret := r.FormValue("return")

	if msg := validateSignup(fullName, email, password, confirm); msg != "" {
		h.renderSignupError(w, r, msg, fullName, email, ret)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	acct, err := h.Accounts.CreatePassword(ctx, email, password)
	switch {
	case errors.Is(err, accountstore.ErrDuplicateEmail):
		h.renderSignupError(w, r, "An account with that email already exists. Try signing in.", fullName, email, ret)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create account", err, "A server error occurred.", "/signup")
		return
	}

	// The profile is best-effort: the account exists either way, and the
	// resolver treats a missing profile as empty fields.
	if err := h.Profiles.Upsert(ctx, acct.ID, fullName, ""); err != nil {
		h.Log.Warn("create profile failed during signup",
			zap.String("account_id", acct.ID.Hex()),
			zap.Error(err),
		)
	}

	if err := h.SessionMgr.SignIn(w, r, auth.Identity{ID: acct.ID.Hex(), Email: acct.Email}); err != nil {
		h.ErrLog.LogServerError(w, r, "sign in session save", err, "Account created, but sign-in failed. Please sign in.", "/login")
		return
	}

	// New accounts have no membership yet; onboarding offers to create an
	// organization, and an invite link (in "return") takes precedence.
	http.Redirect(w, r, urlutil.SafeReturn(ret, "", "/onboarding"), http.StatusSeeOther)
}

func validateSignup(fullName, email, password, confirm string) string {
	if fullName == "" {
		return "Please enter your name."
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "Please enter a valid email address."
	}
	if len(password) < minPasswordLen {
		return "Password must be at least 8 characters."
	}
	if password != confirm {
		return "Passwords do not match."
	}
	return ""
}

func (h *Handler) renderSigninError(w http.ResponseWriter, r *http.Request, msg, email, ret string) {
	templates.Render(w, r, "signin", signinFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		Error:         msg,
		Email:         email,
		ReturnURL:     ret,
		GoogleEnabled: h.GoogleEnabled,
	})
}

func (h *Handler) renderSignupError(w http.ResponseWriter, r *http.Request, msg, fullName, email, ret string) {
	templates.Render(w, r, "signup", signupFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Create account", "/"),
		Error:         msg,
		FullName:      fullName,
		Email:         email,
		ReturnURL:     ret,
		GoogleEnabled: h.GoogleEnabled,
	})
}

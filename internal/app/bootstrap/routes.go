// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	authgooglefeature "github.com/jmoreland/peopledesk/internal/app/features/authgoogle"
	dashboardfeature "github.com/jmoreland/peopledesk/internal/app/features/dashboard"
	employeesfeature "github.com/jmoreland/peopledesk/internal/app/features/employees"
	errorsfeature "github.com/jmoreland/peopledesk/internal/app/features/errors"
	healthfeature "github.com/jmoreland/peopledesk/internal/app/features/health"
	homefeature "github.com/jmoreland/peopledesk/internal/app/features/home"
	invitesfeature "github.com/jmoreland/peopledesk/internal/app/features/invites"
	loginfeature "github.com/jmoreland/peopledesk/internal/app/features/login"
	logoutfeature "github.com/jmoreland/peopledesk/internal/app/features/logout"
	onboardingfeature "github.com/jmoreland/peopledesk/internal/app/features/onboarding"
	profilefeature "github.com/jmoreland/peopledesk/internal/app/features/profile"
	userinfofeature "github.com/jmoreland/peopledesk/internal/app/features/userinfo"
	accountstore "github.com/jmoreland/peopledesk/internal/app/store/accounts"
	invitestore "github.com/jmoreland/peopledesk/internal/app/store/invites"
	membershipstore "github.com/jmoreland/peopledesk/internal/app/store/memberships"
	oauthstatestore "github.com/jmoreland/peopledesk/internal/app/store/oauthstate"
	organizationstore "github.com/jmoreland/peopledesk/internal/app/store/organizations"
	profilestore "github.com/jmoreland/peopledesk/internal/app/store/profiles"
	"github.com/jmoreland/peopledesk/internal/app/system/auth"
	"github.com/jmoreland/peopledesk/internal/app/system/authz"
	"github.com/jmoreland/peopledesk/internal/app/system/mailer"
	"go.uber.org/zap"

	// Feature view sets register themselves at init time.
	_ "github.com/jmoreland/peopledesk/internal/app/features/dashboard/views"
	_ "github.com/jmoreland/peopledesk/internal/app/features/employees/views"
	_ "github.com/jmoreland/peopledesk/internal/app/features/home/views"
	_ "github.com/jmoreland/peopledesk/internal/app/features/invites/views"
	_ "github.com/jmoreland/peopledesk/internal/app/features/login/views"
	_ "github.com/jmoreland/peopledesk/internal/app/features/onboarding/views"
	_ "github.com/jmoreland/peopledesk/internal/app/features/profile/views"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. PeopleDesk initializes the session
// manager and its per-request resolver, boots the template engine, applies
// CSRF protection, and mounts feature routers for all application areas.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase
	secure := coreCfg.Env == "prod"

	// Session manager with the resolver that turns a verified identity
	// into a SessionUser (profile + first membership) on each request.
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	sessionMgr.SetResolver(auth.NewResolver(profilestore.New(db), membershipstore.New(db), logger))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	guard := authz.NewGuard(logger)

	// Outbound email: real SMTP when configured, logged otherwise.
	var mail mailer.Mailer
	if appCfg.MailSMTPHost != "" {
		mail = mailer.NewSMTP(appCfg.MailSMTPHost, appCfg.MailSMTPPort, appCfg.MailSMTPUser, appCfg.MailSMTPPass, appCfg.MailFrom, logger)
	} else {
		logger.Warn("SMTP not configured; invite emails will be logged instead of sent")
		mail = &mailer.LogMailer{Log: logger}
	}

	// Stores shared across features.
	accounts := accountstore.New(db)
	organizations := organizationstore.New(db)
	memberships := membershipstore.New(db)
	profiles := profilestore.New(db)
	invites := invitestore.New(db)
	oauthStates := oauthstatestore.New(db)

	googleEnabled := appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret != ""

	r := chi.NewRouter()

	// CSRF protection for all form posts; the token reaches templates via
	// viewdata's CSRFField.
	r.Use(csrf.Protect([]byte(appCfg.CSRFKey), csrf.Secure(secure), csrf.Path("/")))

	// Global auth middleware: resolves the SessionUser into context once
	// per request so handlers can use auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(accounts, profiles, sessionMgr, errLog, googleEnabled, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))
	r.Mount("/signup", loginfeature.SignupRoutes(loginHandler))

	googleHandler := authgooglefeature.NewHandler(accounts, profiles, sessionMgr, oauthStates, appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, guard))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Session info for client-side code
	userinfofeature.MountRoutes(r, userinfofeature.NewHandler())

	// Organization onboarding for members without one
	onboardingHandler := onboardingfeature.NewHandler(organizations, memberships, errLog, logger)
	r.Mount("/onboarding", onboardingfeature.Routes(onboardingHandler, guard))

	// Member dashboard
	dashboardHandler := dashboardfeature.NewHandler(organizations, memberships, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, guard))

	// Employee directory and invitation management
	employeesHandler := employeesfeature.NewHandler(organizations, memberships, profiles, invites, mail, errLog, logger, appCfg.BaseURL, appCfg.InviteExpiry)
	r.Mount("/employees", employeesfeature.Routes(employeesHandler, guard))

	// Public invite accept flow (reached from emailed links)
	inviteHandler := invitesfeature.NewHandler(organizations, memberships, invites, errLog, logger, googleEnabled)
	r.Mount("/invite", invitesfeature.Routes(inviteHandler))

	// Profile
	profileHandler := profilefeature.NewHandler(profiles, errLog, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, guard))

	return r, nil
}

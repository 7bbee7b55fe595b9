// internal/app/system/authz/middleware.go
package authz

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/jmoreland/peopledesk/internal/app/system/auth"
	"github.com/jmoreland/peopledesk/internal/domain/roles"
	"go.uber.org/zap"
)

// Redirect targets for browser traffic. Non-HTML callers get bare status
// codes instead.
const (
	loginURL      = "/login"
	onboardingURL = "/onboarding"
	forbiddenURL  = "/forbidden"
)

// Guard is the transport adapter over the pure guard functions: it maps
// denials onto redirects (HTML), HX-Redirect headers (HTMX), or bare status
// codes (API callers). Route files compose its methods as chi middleware.
type Guard struct {
	Log *zap.Logger
}

// NewGuard builds the middleware adapter.
func NewGuard(logger *zap.Logger) *Guard {
	return &Guard{Log: logger}
}

// RequireSignedIn admits any authenticated user.
func (g *Guard) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, _ := auth.CurrentUser(r)
		if _, d := RequireUser(u); d != nil {
			g.deny(w, r, d)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireOrg admits authenticated users who belong to an organization.
// Users without one are sent to onboarding.
func (g *Guard) RequireOrg(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, _ := auth.CurrentUser(r)
		if _, d := RequireUserWithOrg(u); d != nil {
			g.deny(w, r, d)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole admits users whose role is at or above required.
func (g *Guard) RequireRole(required roles.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, _ := auth.CurrentUser(r)
			if _, d := RequireUserWithRole(u, required); d != nil {
				g.deny(w, r, d)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireExactRole admits only users whose role matches required exactly.
func (g *Guard) RequireExactRole(required roles.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, _ := auth.CurrentUser(r)
			user, d := RequireUser(u)
			if d == nil {
				d = RequireRole(user, required)
			}
			if d != nil {
				g.deny(w, r, d)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyRole admits users whose role is one of allowed (exact match).
func (g *Guard) RequireAnyRole(allowed ...roles.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, _ := auth.CurrentUser(r)
			if _, d := RequireUserWithAnyRole(u, allowed...); d != nil {
				g.deny(w, r, d)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// deny writes the transport outcome for a denial.
//
//	Unauthenticated → 303 to /login?return=… (HTMX: HX-Redirect; API: 401)
//	NoOrganization  → 303 to /onboarding    (HTMX: HX-Redirect; API: 403)
//	Forbidden       → 303 to /forbidden     (HTMX: HX-Redirect; API: 403)
//	Internal        → 500 always
func (g *Guard) deny(w http.ResponseWriter, r *http.Request, d *Denial) {
	switch d.Kind {
	case KindUnauthenticated:
		dest := loginURL + "?return=" + url.QueryEscape(currentURI(r))
		g.redirectOrStatus(w, r, dest, http.StatusUnauthorized, "unauthorized")
	case KindNoOrganization:
		g.redirectOrStatus(w, r, onboardingURL, http.StatusForbidden, "no organization")
	case KindForbidden:
		g.redirectOrStatus(w, r, forbiddenURL, http.StatusForbidden, "forbidden")
	default:
		g.Log.Error("guard check failed",
			zap.String("kind", d.Kind.String()),
			zap.String("reason", d.Reason),
			zap.String("path", r.URL.Path))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// redirectOrStatus picks the response shape by caller type: HTMX gets an
// HX-Redirect with the API status, browsers get a 303, APIs get the bare
// status.
func (g *Guard) redirectOrStatus(w http.ResponseWriter, r *http.Request, dest string, apiStatus int, apiBody string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(apiStatus)
		return
	}
	if wantsHTML(r) {
		http.Redirect(w, r, dest, http.StatusSeeOther)
		return
	}
	http.Error(w, apiBody, apiStatus)
}

func wantsHTML(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func currentURI(r *http.Request) string {
	u := *r.URL
	return u.RequestURI()
}

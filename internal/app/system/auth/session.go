// internal/app/system/auth/session.go
package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Session value keys. Only the verified identity lives in the cookie;
// profile and membership data are re-read from the directory on every
// request so role changes take effect immediately.
const (
	isAuthKey    = "is_authenticated"
	accountIDKey = "account_id"
	emailKey     = "email"
)

// SessionManager owns the cookie session store and the per-request session
// resolution pipeline. It doubles as the request-side auth provider: the
// signed cookie is the proof of a previously verified identity.
type SessionManager struct {
	store    *sessions.CookieStore
	name     string
	resolver *Resolver
	log      *zap.Logger
}

// NewSessionManager builds a cookie-backed SessionManager.
//
// In production (secure=true) cookies are Secure with SameSite=None so they
// survive cross-site contexts over HTTPS; in local dev over http, Lax mode
// keeps the cookie accepted.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("max_age", maxAge))

	return &SessionManager{
		store: store,
		name:  name,
		log:   logger,
	}, nil
}

// SetResolver installs the session resolver used by LoadSessionUser.
// Until a resolver is set, LoadSessionUser passes requests through anonymous.
func (sm *SessionManager) SetResolver(rs *Resolver) {
	sm.resolver = rs
}

// Store exposes the underlying cookie store (logout needs its options to
// issue a matching deletion cookie).
func (sm *SessionManager) Store() *sessions.CookieStore {
	return sm.store
}

// GetSession returns the request's session, creating a new one if absent.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return sm.store.Get(r, sm.name)
}

// SignIn writes a verified identity into the cookie session. Callers must
// have verified credentials (or an OAuth assertion) first.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, ident Identity) error {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			sm.log.Warn("session cookie invalid, using fresh session",
				zap.Error(err), zap.String("account_id", ident.ID))
		} else {
			sm.log.Error("session store error during sign-in, using fresh session",
				zap.Error(err), zap.String("account_id", ident.ID))
		}
	}
	sess.Values[isAuthKey] = true
	sess.Values[accountIDKey] = ident.ID
	sess.Values[emailKey] = ident.Email
	return sess.Save(r, w)
}

// SignOut deletes the cookie session.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		// Decode failure still yields a blank session we can expire.
		sm.log.Warn("session decode failed during sign-out", zap.Error(err))
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// Identify reads the verified identity out of the cookie session. It reports
// false for anonymous requests and undecodable cookies.
func (sm *SessionManager) Identify(r *http.Request) (Identity, bool) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		return Identity{}, false
	}
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return Identity{}, false
	}
	id, _ := sess.Values[accountIDKey].(string)
	if id == "" {
		return Identity{}, false
	}
	email, _ := sess.Values[emailKey].(string)
	return Identity{ID: id, Email: email}, true
}

// LoadSessionUser resolves the session once per request and caches the result
// in the request context. Anonymous requests are cached too (as "no user"),
// so downstream guards and a second application of this middleware never
// trigger another resolution or directory query.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if alreadyResolved(r) {
			next.ServeHTTP(w, r)
			return
		}

		ident, ok := sm.Identify(r)
		if !ok || sm.resolver == nil {
			next.ServeHTTP(w, withResolved(r, nil))
			return
		}

		user := sm.resolver.Resolve(r.Context(), ident)
		next.ServeHTTP(w, withResolved(r, user))
	})
}

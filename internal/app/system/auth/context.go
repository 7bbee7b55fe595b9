// internal/app/system/auth/context.go
package auth

import (
	"context"
	"net/http"
)

type ctxKey string

const resolvedKey ctxKey = "resolvedSession"

// resolved is the write-once per-request cache entry. User is nil for
// anonymous requests; the entry's presence alone marks resolution as done,
// so repeated middleware application never re-queries the stores.
type resolved struct {
	user *SessionUser
}

// CurrentUser returns the resolved user for this request and a "found?" flag.
// It only reads the request-scoped cache; it never triggers resolution.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	res, ok := r.Context().Value(resolvedKey).(*resolved)
	if !ok || res.user == nil {
		return nil, false
	}
	return res.user, true
}

func withResolved(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), resolvedKey, &resolved{user: u}))
}

func alreadyResolved(r *http.Request) bool {
	_, ok := r.Context().Value(resolvedKey).(*resolved)
	return ok
}

// WithTestUser injects a SessionUser into the request context, bypassing the
// session middleware. Test helper only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withResolved(r, u)
}

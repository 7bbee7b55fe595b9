// internal/app/features/invites/routes.go
package invites

import "github.com/go-chi/chi/v5"

// Routes wires the public invite accept flow (mounted at /invite). The
// pages are deliberately unguarded: the GET page prompts anonymous
// visitors to sign in, and the POST handler enforces sign-in itself so it
// can send the visitor back to the invite page afterwards.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{token}", h.ServeInvite)
	r.Post("/{token}/accept", h.HandleAccept)
	return r
}

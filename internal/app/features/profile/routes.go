// internal/app/features/profile/routes.go
package profile

import (
	"github.com/go-chi/chi/v5"
	"github.com/jmoreland/peopledesk/internal/app/system/authz"
)

// Routes wires the profile page (mounted at /profile). Sign-in is enough;
// members without an organization can still edit their profile.
func Routes(h *Handler, guard *authz.Guard) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(guard.RequireSignedIn)
		pr.Get("/", h.ServeProfile)
		pr.Post("/", h.HandleUpdate)
	})

	return r
}

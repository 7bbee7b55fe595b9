// internal/app/features/onboarding/routes.go
package onboarding

import (
	"github.com/go-chi/chi/v5"
	"github.com/jmoreland/peopledesk/internal/app/system/authz"
)

// Routes wires the onboarding feature (mounted at /onboarding). Signed-in
// is required; having an organization is not, since acquiring one is the
// whole point.
func Routes(h *Handler, guard *authz.Guard) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(guard.RequireSignedIn)
		pr.Get("/", h.ServeOnboarding)
		pr.Post("/", h.HandleCreateOrg)
	})

	return r
}

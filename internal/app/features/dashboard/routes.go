// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/go-chi/chi/v5"
	"github.com/jmoreland/peopledesk/internal/app/system/authz"
)

// Routes wires the dashboard feature under whatever mount point the
// top-level router chooses (e.g. "/dashboard").
func Routes(h *Handler, guard *authz.Guard) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(guard.RequireSignedIn)
		pr.Use(guard.RequireOrg)
		pr.Get("/", h.ServeDashboard)
	})

	return r
}

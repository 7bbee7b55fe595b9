// internal/app/features/employees/routes.go
package employees

import (
	"github.com/go-chi/chi/v5"
	"github.com/jmoreland/peopledesk/internal/app/system/authz"
	"github.com/jmoreland/peopledesk/internal/domain/roles"
)

// Routes wires the employee directory and invitation management (mounted
// at /employees). The directory needs manager or above; invitations are
// hr_admin only.
func Routes(h *Handler, guard *authz.Guard) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(guard.RequireSignedIn)
		pr.Use(guard.RequireOrg)
		pr.Use(guard.RequireRole(roles.Manager))
		pr.Get("/", h.ServeDirectory)
	})

	r.Route("/invites", func(ir chi.Router) {
		ir.Use(guard.RequireSignedIn)
		ir.Use(guard.RequireOrg)
		ir.Use(guard.RequireRole(roles.HRAdmin))
		ir.Get("/", h.ServeInvites)
		ir.Post("/", h.HandleCreateInvite)
		ir.Post("/{id}/revoke", h.HandleRevokeInvite)
	})

	return r
}

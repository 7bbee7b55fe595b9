// internal/app/features/logout/routes.go
package logout

import (
	"github.com/go-chi/chi/v5"
	"github.com/jmoreland/peopledesk/internal/app/system/authz"
)

func Routes(h *Handler, guard *authz.Guard) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		// Only signed-in users can hit /logout.
		pr.Use(guard.RequireSignedIn)
		pr.Post("/", h.ServeLogout)
	})

	return r
}

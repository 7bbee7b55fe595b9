// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// Routes wires the signin routes (mounted at /login).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeSignin)
	r.Post("/", h.HandleSigninPost)
	return r
}

// SignupRoutes wires the signup routes (mounted at /signup).
func SignupRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeSignup)
	r.Post("/", h.HandleSignupPost)
	return r
}

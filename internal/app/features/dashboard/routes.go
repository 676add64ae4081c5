// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/go-chi/chi/v5"

	_ "github.com/getmeachai/getmeachai/internal/app/features/dashboard/views"
	"github.com/getmeachai/getmeachai/internal/app/system/auth"
)

// Routes mounts the dashboard behind the signed-in requirement.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeDashboard)
	r.Post("/", h.HandleUpdate)
	return r
}

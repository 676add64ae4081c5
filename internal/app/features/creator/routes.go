// internal/app/features/creator/routes.go
package creator

import (
	"github.com/go-chi/chi/v5"

	_ "github.com/getmeachai/getmeachai/internal/app/features/creator/views"
)

// MountRoutes registers the public creator pages on the parent router.
// Registered last so /{username} matches only paths no named feature
// claimed.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{username}", h.ServePage)
	r.Post("/{username}/donate", h.HandleDonate)
}

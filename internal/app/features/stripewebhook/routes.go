// internal/app/features/stripewebhook/routes.go
package stripewebhook

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeWebhook)
	return r
}

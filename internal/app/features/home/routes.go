package home

import (
	"github.com/go-chi/chi/v5"

	_ "github.com/getmeachai/getmeachai/internal/app/features/home/views"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeRoot)
	return r
}

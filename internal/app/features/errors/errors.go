// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/getmeachai/getmeachai/internal/app/system/auth"
)

// pageData is the basic view model for error pages.
type pageData struct {
	Title      string
	IsLoggedIn bool
	UserName   string
	Message    string
	BackURL    string
}

// Handler is the errors feature handler.
// No DB needed; it just renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Unauthorized renders a friendly "sign in required" page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusUnauthorized,
		"Sign in required", "Please sign in to continue.", "/login")
}

// NotFound renders a friendly "not found" page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusNotFound,
		"Not found", "That page doesn't exist.", "/")
}

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it will default to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}
	render(w, r, http.StatusUnauthorized, "Sign in required", "Please sign in to continue.", backURL)
}

// RenderNotFound shows a friendly "not found" page with a message.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	render(w, r, http.StatusNotFound, "Not found", msg, backURL)
}

// RenderRetry shows a generic "something went wrong, try again" page.
// Provider and store failures end up here; there is no automatic retry.
func RenderRetry(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	render(w, r, http.StatusInternalServerError,
		"Something went wrong", "Something went wrong on our side. Please try again.", backURL)
}

func render(w http.ResponseWriter, r *http.Request, status int, title, msg, backURL string) {
	name, signed := "", false
	if u, ok := auth.CurrentUser(r); ok {
		name, signed = u.Name, true
	}

	w.WriteHeader(status)
	templates.Render(w, r, "error_page", pageData{
		Title:      title,
		IsLoggedIn: signed,
		UserName:   name,
		Message:    msg,
		BackURL:    backURL,
	})
}

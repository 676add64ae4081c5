// internal/app/features/login/handler.go
package login

import (
	"net/http"
	"net/url"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/getmeachai/getmeachai/internal/app/system/auth"
	"github.com/getmeachai/getmeachai/internal/app/system/viewdata"
)

type Handler struct {
	Log           *zap.Logger
	GitHubEnabled bool
}

func NewHandler(githubEnabled bool, logger *zap.Logger) *Handler {
	return &Handler{
		Log:           logger,
		GitHubEnabled: githubEnabled,
	}
}

type loginData struct {
	viewdata.BaseVM
	Error         string
	ReturnURL     string
	GitHubEnabled bool
	GitHubURL     string
}

// errorMessages maps the error codes the OAuth flow redirects back with to
// something worth showing a person.
var errorMessages = map[string]string{
	"github_not_configured": "GitHub sign-in is not available right now.",
	"github_denied":         "GitHub sign-in was cancelled.",
	"invalid_state":         "The sign-in attempt expired. Please try again.",
	"invalid_code":          "The sign-in attempt was incomplete. Please try again.",
	"token_exchange":        "GitHub did not accept the sign-in. Please try again.",
	"user_info":             "Could not read your GitHub profile. Please try again.",
	"session":               "Could not start your session. Please try again.",
	"internal":              "Something went wrong. Please try again.",
}

// ServeLogin renders the sign-in page.
// GET /login
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	// Already signed in? Straight to the dashboard.
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	returnURL := query.Get(r, "return")

	githubURL := "/auth/github"
	if returnURL != "" {
		githubURL += "?return=" + url.QueryEscape(returnURL)
	}

	data := loginData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		ReturnURL:     returnURL,
		GitHubEnabled: h.GitHubEnabled,
		GitHubURL:     githubURL,
	}

	if code := r.URL.Query().Get("error"); code != "" {
		msg, ok := errorMessages[code]
		if !ok {
			msg = errorMessages["internal"]
		}
		data.Error = msg
	}

	templates.Render(w, r, "login", data)
}

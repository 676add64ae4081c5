// internal/app/features/authgithub/handler.go
package authgithub

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/getmeachai/getmeachai/internal/app/store/oauthstate"
	userstore "github.com/getmeachai/getmeachai/internal/app/store/users"
	"github.com/getmeachai/getmeachai/internal/app/system/auth"
	"github.com/getmeachai/getmeachai/internal/app/system/timeouts"
	"github.com/getmeachai/getmeachai/internal/domain/models"
)

// Handler handles GitHub OAuth authentication.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	StateStore *oauthstate.Store

	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g. "https://getmeachai.com/auth/github/callback"
}

// NewHandler creates a new GitHub OAuth handler.
func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	stateStore *oauthstate.Store,
	clientID, clientSecret, baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		SessionMgr:   sessionMgr,
		StateStore:   stateStore,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/github/callback",
	}
}

// oauth2Config returns the GitHub OAuth2 configuration.
func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes:       []string{"read:user", "user:email"},
		Endpoint:     github.Endpoint,
	}
}

// IsConfigured returns true if GitHub OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/github                                                             |
| Initiates the GitHub OAuth flow by redirecting to GitHub's consent screen.   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("GitHub OAuth not configured")
		http.Redirect(w, r, "/login?error=github_not_configured", http.StatusSeeOther)
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	returnURL := query.Get(r, "return")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := h.StateStore.Save(ctx, state, returnURL, expiresAt); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	url := h.oauth2Config().AuthCodeURL(state)

	h.Log.Debug("initiating GitHub OAuth flow",
		zap.String("return_url", returnURL))

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/github/callback                                                    |
| Exchanges the code for a token, fetches the GitHub user, finds or creates    |
| the local account, and signs the session in.                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("GitHub OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		http.Redirect(w, r, "/login?error=github_denied", http.StatusSeeOther)
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		h.Log.Warn("missing OAuth state parameter")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	returnURL, valid, err := h.StateStore.Validate(ctxTimeout, state)
	if err != nil {
		h.Log.Error("failed to validate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired OAuth state")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		http.Redirect(w, r, "/login?error=invalid_code", http.StatusSeeOther)
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		http.Redirect(w, r, "/login?error=token_exchange", http.StatusSeeOther)
		return
	}

	ghUser, err := fetchGitHubUser(ctx, token)
	if err != nil {
		h.Log.Error("failed to fetch GitHub user info", zap.Error(err))
		http.Redirect(w, r, "/login?error=user_info", http.StatusSeeOther)
		return
	}

	h.Log.Debug("GitHub user info fetched",
		zap.String("login", ghUser.Login),
		zap.String("email", ghUser.Email))

	user, err := h.findOrCreateUser(ctxTimeout, ghUser)
	if err != nil {
		h.Log.Error("failed to resolve user for GitHub login", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	h.signInAndRedirect(w, r, user, returnURL)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GitHub API                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// gitHubUser is the subset of GitHub's /user payload we need.
type gitHubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type gitHubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// fetchGitHubUser retrieves the authenticated user from GitHub. The public
// profile may hide the email, so the emails endpoint resolves it when the
// /user payload comes back without one.
func fetchGitHubUser(ctx context.Context, token *oauth2.Token) (*gitHubUser, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://api.github.com/user")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var u gitHubUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	if u.Email == "" {
		email, err := fetchPrimaryEmail(client)
		if err != nil {
			return nil, err
		}
		u.Email = email
	}
	if u.Email == "" {
		return nil, fmt.Errorf("github account has no usable email")
	}

	return &u, nil
}

func fetchPrimaryEmail(client *http.Client) (string, error) {
	resp, err := client.Get("https://api.github.com/user/emails")
	if err != nil {
		return "", fmt.Errorf("failed to fetch user emails: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code from emails endpoint: %d", resp.StatusCode)
	}

	var emails []gitHubEmail
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return "", fmt.Errorf("failed to decode user emails: %w", err)
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, nil
		}
	}
	return "", nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Account resolution                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// findOrCreateUser looks up the account by the email GitHub reports, and
// provisions one on first sign-in. The stored record stays authoritative
// afterward: a creator who renamed their page keeps that name even if their
// GitHub login differs.
func (h *Handler) findOrCreateUser(ctx context.Context, gh *gitHubUser) (*models.User, error) {
	usrStore := userstore.New(h.DB)

	user, err := usrStore.GetByEmail(ctx, gh.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, userstore.ErrNotFound) {
		return nil, err
	}

	// First sign-in: the GitHub login becomes the page handle. If someone
	// else already holds it, disambiguate with the GitHub account ID.
	name := gh.Login
	taken, err := usrStore.NameExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if taken {
		name = fmt.Sprintf("%s-%d", gh.Login, gh.ID)
	}

	created, err := usrStore.Create(ctx, models.User{
		Name:       name,
		Email:      gh.Email,
		ProfilePic: gh.AvatarURL,
	})
	if err != nil {
		// A concurrent first sign-in can beat us to the insert; fall back
		// to the record that won.
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			return usrStore.GetByEmail(ctx, gh.Email)
		}
		return nil, err
	}

	h.Log.Info("provisioned account from GitHub sign-in",
		zap.String("user_id", created.ID.Hex()),
		zap.String("name", created.Name))

	return &created, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Session creation                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) signInAndRedirect(w http.ResponseWriter, r *http.Request, u *models.User, returnURL string) {
	su := &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
	}

	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			h.Log.Warn("session cookie invalid during sign-in",
				zap.Error(err),
				zap.String("user_id", su.ID))
		} else {
			h.Log.Error("sign-in failed",
				zap.Error(err),
				zap.String("user_id", su.ID))
		}
		http.Redirect(w, r, "/login?error=session", http.StatusSeeOther)
		return
	}

	h.Log.Info("user signed in via GitHub",
		zap.String("user_id", su.ID),
		zap.String("name", su.Name))

	dest := urlutil.SafeReturn(returnURL, "", "/dashboard")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

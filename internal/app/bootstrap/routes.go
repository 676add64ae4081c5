// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/getmeachai/getmeachai/internal/app/donation"
	authgithubfeature "github.com/getmeachai/getmeachai/internal/app/features/authgithub"
	creatorfeature "github.com/getmeachai/getmeachai/internal/app/features/creator"
	dashboardfeature "github.com/getmeachai/getmeachai/internal/app/features/dashboard"
	errorsfeature "github.com/getmeachai/getmeachai/internal/app/features/errors"
	healthfeature "github.com/getmeachai/getmeachai/internal/app/features/health"
	homefeature "github.com/getmeachai/getmeachai/internal/app/features/home"
	loginfeature "github.com/getmeachai/getmeachai/internal/app/features/login"
	logoutfeature "github.com/getmeachai/getmeachai/internal/app/features/logout"
	stripewebhookfeature "github.com/getmeachai/getmeachai/internal/app/features/stripewebhook"
	"github.com/getmeachai/getmeachai/internal/app/store/oauthstate"
	paymentstore "github.com/getmeachai/getmeachai/internal/app/store/payments"
	userstore "github.com/getmeachai/getmeachai/internal/app/store/users"
	"github.com/getmeachai/getmeachai/internal/app/stripepay"
	"github.com/getmeachai/getmeachai/internal/app/system/auth"
	"github.com/getmeachai/getmeachai/internal/app/system/secrets"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// The router mounts the named features first and the public creator pages
// last, so /{username} never shadows /dashboard, /login, or the rest.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on
	// each request. A dashboard rename takes effect on the next page load.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// The sealer guards creators' stored Stripe secret keys.
	sealer, err := secrets.NewSealer(appCfg.SealingKey)
	if err != nil {
		logger.Error("sealer init failed", zap.Error(err))
		return nil, err
	}

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	// The donation service orchestrates intent creation against each
	// creator's own Stripe account.
	donations := donation.NewService(
		userstore.New(deps.MongoDatabase),
		paymentstore.New(deps.MongoDatabase),
		stripepay.New(logger),
		sealer,
		logger,
	)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Landing page
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	githubEnabled := appCfg.GitHubClientID != "" && appCfg.GitHubClientSecret != ""
	loginHandler := loginfeature.NewHandler(githubEnabled, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	stateStore := oauthstate.New(deps.MongoDatabase)
	githubHandler := authgithubfeature.NewHandler(
		deps.MongoDatabase,
		sessionMgr,
		stateStore,
		appCfg.GitHubClientID,
		appCfg.GitHubClientSecret,
		appCfg.BaseURL,
		logger,
	)
	r.Mount("/auth/github", authgithubfeature.Routes(githubHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.Get("/notfound", errorsHandler.NotFound)

	// Creator dashboard (profile + payment credentials)
	dashboardHandler := dashboardfeature.NewHandler(deps.MongoDatabase, sealer, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Stripe payment confirmations
	webhookHandler := stripewebhookfeature.NewHandler(deps.MongoDatabase, appCfg.StripeWebhookSecret, logger)
	r.Mount("/webhooks/stripe", stripewebhookfeature.Routes(webhookHandler))

	// Public creator pages, mounted last so /{username} matches only what
	// nothing above claimed.
	creatorHandler := creatorfeature.NewHandler(deps.MongoDatabase, donations, errLog, appCfg.StripePublishableKey, logger)
	creatorHandler.MountRoutes(r)

	return r, nil
}

// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where you put everything specific to YOUR application.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: getmeachai-session)
	SessionDomain string // Cookie domain (blank means current host)

	// GitHub OAuth configuration
	GitHubClientID     string
	GitHubClientSecret string

	// Stripe configuration. Each creator stores their own keys; the
	// platform publishable key is the fallback for creators who saved a
	// secret key without a matching publishable one. The webhook secret
	// verifies confirmation events.
	StripePublishableKey string
	StripeWebhookSecret  string

	// SealingKey encrypts creators' stored Stripe secret keys at rest.
	SealingKey string

	// Base URL for OAuth callbacks (e.g., "https://getmeachai.com")
	BaseURL string
}

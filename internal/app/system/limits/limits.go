// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxDonationFormSize is the maximum size for donation form submissions.
	MaxDonationFormSize = 64 << 10 // 64 KB

	// MaxProfileFormSize is the maximum size for dashboard profile form
	// submissions (names, picture URLs, Stripe keys).
	MaxProfileFormSize = 256 << 10 // 256 KB

	// MaxWebhookBodySize is the maximum Stripe webhook payload we read
	// before signature verification.
	MaxWebhookBodySize = 64 << 10 // 64 KB
)

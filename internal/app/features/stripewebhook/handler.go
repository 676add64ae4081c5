// internal/app/features/stripewebhook/handler.go
package stripewebhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	paymentstore "github.com/getmeachai/getmeachai/internal/app/store/payments"
	"github.com/getmeachai/getmeachai/internal/app/system/limits"
	"github.com/getmeachai/getmeachai/internal/app/system/timeouts"
)

// Handler receives Stripe webhook events. Confirmation events flip the
// matching payment record to done; everything else is acknowledged and
// dropped so Stripe stops retrying.
type Handler struct {
	DB             *mongo.Database
	Log            *zap.Logger
	EndpointSecret string
}

func NewHandler(db *mongo.Database, endpointSecret string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:             db,
		Log:            logger,
		EndpointSecret: endpointSecret,
	}
}

// ServeWebhook handles POST /webhooks/stripe.
func (h *Handler) ServeWebhook(w http.ResponseWriter, r *http.Request) {
	if h.EndpointSecret == "" {
		h.Log.Error("stripe webhook secret not configured")
		http.Error(w, "webhook not configured", http.StatusInternalServerError)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxWebhookBodySize)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.Log.Warn("stripe webhook: read body failed", zap.Error(err))
		http.Error(w, "could not read body", http.StatusServiceUnavailable)
		return
	}

	// Events are signed per endpoint; API version drift across the fleet of
	// creators' accounts is tolerated.
	event, err := webhook.ConstructEventWithOptions(
		payload,
		r.Header.Get("Stripe-Signature"),
		h.EndpointSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		h.Log.Warn("stripe webhook: signature verification failed", zap.Error(err))
		http.Error(w, "signature verification failed", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			h.Log.Warn("stripe webhook: parse payment intent failed",
				zap.String("event_id", event.ID),
				zap.Error(err))
			http.Error(w, "failed to parse payment intent", http.StatusBadRequest)
			return
		}
		h.markPaymentDone(w, r, event.ID, intent.ID)

	case "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err == nil {
			h.Log.Info("payment failed",
				zap.String("event_id", event.ID),
				zap.String("intent_id", intent.ID))
		}
		writeReceived(w)

	default:
		// Acknowledge unknown events to avoid retries.
		writeReceived(w)
	}
}

func (h *Handler) markPaymentDone(w http.ResponseWriter, r *http.Request, eventID, intentID string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	matched, err := paymentstore.New(h.DB).MarkDone(ctx, intentID)
	if err != nil {
		// Retryable: tell Stripe to deliver the event again.
		h.Log.Error("stripe webhook: mark payment done failed",
			zap.String("event_id", eventID),
			zap.String("intent_id", intentID),
			zap.Error(err))
		http.Error(w, "failed to record confirmation", http.StatusInternalServerError)
		return
	}
	if !matched {
		// Succeeded intent we never recorded, or a replay after rename
		// cleanup. Nothing to retry.
		h.Log.Warn("stripe webhook: no payment record for intent",
			zap.String("event_id", eventID),
			zap.String("intent_id", intentID))
	} else {
		h.Log.Info("payment confirmed",
			zap.String("event_id", eventID),
			zap.String("intent_id", intentID))
	}
	writeReceived(w)
}

func writeReceived(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(`{"status":"received"}`))
}

// internal/app/features/creator/donate.go
package creator

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/getmeachai/getmeachai/internal/app/donation"
	userstore "github.com/getmeachai/getmeachai/internal/app/store/users"
	"github.com/getmeachai/getmeachai/internal/app/system/limits"
)

// donateRequest is the JSON body posted by the creator page's payment form.
// Amount is in the currency's minor unit (paisa).
type donateRequest struct {
	Amount  int64  `json:"amount"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type donateResponse struct {
	ClientSecret   string `json:"client_secret"`
	PublishableKey string `json:"publishable_key"`
}

type donateError struct {
	Error string `json:"error"`
}

// HandleDonate starts a payment toward the creator in the URL. It validates
// the form, creates the provider intent, records the pending payment, and
// hands the client secret back so the browser can confirm the charge.
// POST /{username}/donate
func (h *Handler) HandleDonate(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxDonationFormSize)

	var req donateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Log.Warn("donate: bad request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, donateError{Error: "invalid request body"})
		return
	}

	intent, err := h.Donations.Initiate(r.Context(), req.Amount, username, donation.Form{
		Name:    req.Name,
		Message: req.Message,
	})
	if err != nil {
		h.respondDonateError(w, r, username, err)
		return
	}

	pubKey := h.publishableKeyFor(r, username)

	writeJSON(w, http.StatusOK, donateResponse{
		ClientSecret:   intent.ClientSecret,
		PublishableKey: pubKey,
	})
}

func (h *Handler) respondDonateError(w http.ResponseWriter, r *http.Request, username string, err error) {
	var provErr *donation.ProviderError

	switch {
	case errors.Is(err, donation.ErrInvalidAmount):
		writeJSON(w, http.StatusBadRequest, donateError{Error: "amount must be a positive number of paisa"})
	case errors.Is(err, donation.ErrInvalidForm):
		writeJSON(w, http.StatusBadRequest, donateError{Error: "name and message are required"})
	case errors.Is(err, donation.ErrRecipientNotFound):
		writeJSON(w, http.StatusNotFound, donateError{Error: "no such creator"})
	case errors.Is(err, donation.ErrRecipientNotConfigured):
		writeJSON(w, http.StatusConflict, donateError{Error: "this creator is not accepting payments yet"})
	case errors.As(err, &provErr):
		h.Log.Warn("donate: provider rejected intent",
			zap.String("recipient", username),
			zap.Error(err))
		writeJSON(w, http.StatusBadGateway, donateError{Error: "payment provider unavailable"})
	default:
		h.Log.Error("donate failed",
			zap.String("recipient", username),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, donateError{Error: "could not start payment"})
	}
}

// publishableKeyFor returns the key the browser should initialize Stripe.js
// with: the creator's own key when present, else the platform fallback.
func (h *Handler) publishableKeyFor(r *http.Request, username string) string {
	// The donation service already resolved the recipient; a second lookup
	// here only picks the key, so a miss just falls back to the platform key.
	user, err := userstore.New(h.DB).GetByName(r.Context(), username)
	if err == nil && user.StripePublishableKey != "" {
		return user.StripePublishableKey
	}
	return h.PlatformPublishableKey
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

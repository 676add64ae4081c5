// internal/app/features/creator/page.go
package creator

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"

	uierrors "github.com/getmeachai/getmeachai/internal/app/features/errors"
	paymentstore "github.com/getmeachai/getmeachai/internal/app/store/payments"
	userstore "github.com/getmeachai/getmeachai/internal/app/store/users"
	"github.com/getmeachai/getmeachai/internal/app/system/timeouts"
	"github.com/getmeachai/getmeachai/internal/app/system/viewdata"
)

// supporterVM is one row of the support ledger.
type supporterVM struct {
	Name    string
	Message string
	Amount  string // major units, already formatted
	When    string // RFC 3339, the canonical interchange form
	Done    bool
}

// pageData is the view model for the public creator page.
type pageData struct {
	viewdata.BaseVM

	Creator        string
	ProfilePic     string
	CoverPic       string
	SupportCount   int
	Supporters     []supporterVM
	AcceptsSupport bool
}

// ServePage renders a creator's public page: pictures, the donation form,
// and the full ledger of past support, newest first.
// GET /{username}
func (h *Handler) ServePage(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	usrStore := userstore.New(h.DB)
	user, err := usrStore.GetByName(ctx, username)
	if err != nil {
		if err == userstore.ErrNotFound {
			uierrors.RenderNotFound(w, r, fmt.Sprintf("No creator named %q here.", username), "/")
			return
		}
		h.ErrLog.LogServerError(w, r, "creator lookup failed", err, "Please try again.", "/")
		return
	}

	payStore := paymentstore.New(h.DB)
	payments, err := payStore.ListByRecipient(ctx, user.Name)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "ledger read failed", err, "Please try again.", "/")
		return
	}

	supporters := make([]supporterVM, 0, len(payments))
	for _, p := range payments {
		supporters = append(supporters, supporterVM{
			Name:    p.Name,
			Message: p.Message,
			Amount:  formatAmount(p.Amount),
			When:    p.CreatedAt.UTC().Format(time.RFC3339),
			Done:    p.Done,
		})
	}

	pubKey := user.StripePublishableKey
	if pubKey == "" {
		pubKey = h.PlatformPublishableKey
	}

	data := pageData{
		BaseVM:         viewdata.NewBaseVM(r, user.Name, "/"),
		Creator:        user.Name,
		ProfilePic:     user.ProfilePic,
		CoverPic:       user.CoverPic,
		SupportCount:   len(supporters),
		Supporters:     supporters,
		AcceptsSupport: user.HasStripeCredentials() && pubKey != "",
	}

	templates.Render(w, r, "creator_page", data)
}

// formatAmount renders a major-unit amount without trailing decimal noise
// for whole-rupee values.
func formatAmount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

// internal/app/features/dashboard/dashboard.go
package dashboard

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"

	uierrors "github.com/getmeachai/getmeachai/internal/app/features/errors"
	paymentstore "github.com/getmeachai/getmeachai/internal/app/store/payments"
	userstore "github.com/getmeachai/getmeachai/internal/app/store/users"
	"github.com/getmeachai/getmeachai/internal/app/system/auth"
	"github.com/getmeachai/getmeachai/internal/app/system/formutil"
	"github.com/getmeachai/getmeachai/internal/app/system/htmlsanitize"
	"github.com/getmeachai/getmeachai/internal/app/system/limits"
	"github.com/getmeachai/getmeachai/internal/app/system/normalize"
	"github.com/getmeachai/getmeachai/internal/app/system/timeouts"
	"github.com/getmeachai/getmeachai/internal/app/system/viewdata"
	"github.com/getmeachai/getmeachai/internal/domain/models"
)

// dashboardData is the view model for the dashboard page.
type dashboardData struct {
	formutil.Base

	PageName       string
	Email          string
	ProfilePic     string
	CoverPic       string
	StripeID       string
	PublishableKey string
	AccountID      string
	HasSecretKey   bool

	SupportCount int64
	Success      string
}

// ServeDashboard renders the profile form prefilled from the creator's
// record, plus a small summary of support received.
// GET /dashboard
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUserRecord(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	count, err := paymentstore.New(h.DB).CountByRecipient(ctx, user.Name)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "payment count failed", err, "Please try again.", "/")
		return
	}

	data := h.newDashboardData(r, user)
	data.SupportCount = count
	if r.URL.Query().Get("success") == "1" {
		data.Success = "Profile saved."
	}

	templates.Render(w, r, "dashboard", data)
}

// HandleUpdate applies the profile form. Only the fixed set of profile
// fields can change; anything else in the form body is ignored.
// POST /dashboard
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUserRecord(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxProfileFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse profile form failed", err, "Invalid form data.", "/dashboard")
		return
	}

	upd := userstore.ProfileUpdate{
		Name:                 htmlsanitize.Plain(normalize.Username(r.FormValue("name"))),
		Email:                normalize.Email(r.FormValue("email")),
		ProfilePic:           normalize.URL(r.FormValue("profilepic")),
		CoverPic:             normalize.URL(r.FormValue("coverpic")),
		StripeID:             normalize.Name(r.FormValue("stripe_id")),
		StripePublishableKey: normalize.Name(r.FormValue("publishable_key")),
		StripeAccountID:      normalize.Name(r.FormValue("account_id")),
	}

	if upd.Name == "" || upd.Email == "" {
		h.rerenderWithError(w, r, user, upd, "Name and email are required.")
		return
	}

	store := userstore.New(h.DB)

	// The store matches the update on the submitted email, so an address
	// owned by another creator would target their document. A changed
	// email must be unused before the write goes through.
	if upd.Email != user.Email {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		_, err := store.GetByEmail(ctx, upd.Email)
		cancel()
		switch {
		case err == nil:
			h.rerenderWithError(w, r, user, upd, "That email is already in use.")
			return
		case !errors.Is(err, userstore.ErrNotFound):
			h.ErrLog.LogServerError(w, r, "email lookup failed", err, "Please try again.", "/dashboard")
			return
		}
	}

	// A blank secret key field means "keep what I have"; the stored value
	// stays sealed and is never echoed back into the form.
	if raw := r.FormValue("secret_key"); raw != "" {
		sealed, err := h.Sealer.Seal(raw)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "seal secret key failed", err, "Please try again.", "/dashboard")
			return
		}
		upd.StripeSecretKey = sealed
	} else {
		upd.StripeSecretKey = user.StripeSecretKey
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := store.UpdateProfile(ctx, upd, user.Name); err != nil {
		switch {
		case errors.Is(err, userstore.ErrUsernameTaken):
			h.rerenderWithError(w, r, user, upd, "That page name is already taken.")
		case errors.Is(err, userstore.ErrDuplicateEmail):
			h.rerenderWithError(w, r, user, upd, "That email is already in use.")
		case errors.Is(err, userstore.ErrNotFound):
			uierrors.RenderNotFound(w, r, "Your account could not be found.", "/")
		default:
			h.ErrLog.LogServerError(w, r, "profile update failed", err, "Please try again.", "/dashboard")
		}
		return
	}

	http.Redirect(w, r, "/dashboard?success=1", http.StatusSeeOther)
}

// currentUserRecord loads the full user document behind the session.
func (h *Handler) currentUserRecord(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return nil, false
	}

	uid, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		uierrors.RenderUnauthorized(w, r, "/login")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := userstore.New(h.DB).GetByID(ctx, uid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Your account could not be found.", "/")
		return nil, false
	}
	return user, true
}

func (h *Handler) newDashboardData(r *http.Request, user *models.User) dashboardData {
	data := dashboardData{
		PageName:       user.Name,
		Email:          user.Email,
		ProfilePic:     user.ProfilePic,
		CoverPic:       user.CoverPic,
		StripeID:       user.StripeID,
		PublishableKey: user.StripePublishableKey,
		AccountID:      user.StripeAccountID,
		HasSecretKey:   user.StripeSecretKey != "",
	}
	data.BaseVM = viewdata.NewBaseVM(r, "Dashboard", "/")
	return data
}

// rerenderWithError shows the form again with the submitted values echoed
// back, so a rejected rename does not wipe the creator's edits.
func (h *Handler) rerenderWithError(w http.ResponseWriter, r *http.Request, user *models.User, upd userstore.ProfileUpdate, msg string) {
	data := h.newDashboardData(r, user)
	data.PageName = upd.Name
	data.Email = upd.Email
	data.ProfilePic = upd.ProfilePic
	data.CoverPic = upd.CoverPic
	data.StripeID = upd.StripeID
	data.PublishableKey = upd.StripePublishableKey
	data.AccountID = upd.StripeAccountID
	data.SetError(msg)

	w.WriteHeader(http.StatusUnprocessableEntity)
	templates.Render(w, r, "dashboard", data)
}

// Package donation orchestrates the payment-intent flow: validate the
// donor's input, create a remote intent under the recipient's own Stripe
// credentials, record the payment locally, and hand back the client
// secret the browser needs to confirm the card with Stripe directly.
// Card data never passes through this backend.
package donation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	userstore "github.com/getmeachai/getmeachai/internal/app/store/users"
	"github.com/getmeachai/getmeachai/internal/app/system/htmlsanitize"
	"github.com/getmeachai/getmeachai/internal/app/system/secrets"
	"github.com/getmeachai/getmeachai/internal/app/system/timeouts"
	"github.com/getmeachai/getmeachai/internal/domain/models"
)

// Currency for all donations. Intents are created in minor units (paise);
// the local record stores major units (rupees).
const Currency = "pkr"

var (
	// ErrRecipientNotFound means the page handle resolves to no creator.
	ErrRecipientNotFound = errors.New("recipient user not found")
	// ErrInvalidAmount means the amount was missing, zero, or negative.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidForm means the donor name or message was empty.
	ErrInvalidForm = errors.New("name and message are required")
	// ErrRecipientNotConfigured means the creator has not set up their
	// Stripe credentials yet, so their page cannot accept donations.
	ErrRecipientNotConfigured = errors.New("recipient has no payment credentials")
)

// ProviderError wraps any failure from the remote payment API. When the
// remote intent creation fails, no local record is written.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Form is the donor's input on a creator's page.
type Form struct {
	Name    string
	Message string
}

// IntentRequest describes one remote payment-intent creation. SecretKey is
// the recipient's own key, unsealed; AccountID optionally routes the charge
// to a connected account; AmountMinor is in minor currency units; Metadata
// becomes the audit trail on the remote intent.
type IntentRequest struct {
	SecretKey      string
	AccountID      string
	AmountMinor    int64
	Currency       string
	Metadata       map[string]string
	IdempotencyKey string
}

// Intent is the remote provider's handle for a pending charge.
type Intent struct {
	ID           string
	ClientSecret string
}

// IntentCreator creates payment-intents against the remote provider.
// stripepay.Client is the production implementation; tests substitute
// counting fakes.
type IntentCreator interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}

// RecipientResolver resolves a page handle to a creator. GetByName must
// return userstore.ErrNotFound when no creator owns the handle; any other
// error is treated as a store failure. Satisfied by userstore.Store.
type RecipientResolver interface {
	GetByName(ctx context.Context, name string) (*models.User, error)
}

// PaymentRecorder persists local payment records.
// Satisfied by paymentstore.Store.
type PaymentRecorder interface {
	Create(ctx context.Context, p models.Payment) (models.Payment, error)
}

// Service wires the three collaborators together. It holds no state across
// calls; every Initiate re-reads the store.
type Service struct {
	users    RecipientResolver
	payments PaymentRecorder
	intents  IntentCreator
	sealer   *secrets.Sealer
	log      *zap.Logger
}

func NewService(users RecipientResolver, payments PaymentRecorder, intents IntentCreator, sealer *secrets.Sealer, logger *zap.Logger) *Service {
	return &Service{
		users:    users,
		payments: payments,
		intents:  intents,
		sealer:   sealer,
		log:      logger,
	}
}

// Initiate validates a donation and creates the payment-intent.
//
// Validation is fail-fast and costs no I/O: amount and form are checked
// before the recipient lookup, so an invalid request never touches the
// store or the provider. The side-effect sequence after validation is
// remote intent first, local record second; it is not transactional. A
// remote failure writes nothing locally. A local failure after a
// successful remote call leaves an orphaned intent — logged and surfaced,
// but harmless, because the card has not been confirmed and no funds have
// moved.
func (s *Service) Initiate(ctx context.Context, amountMinor int64, recipientName string, form Form) (*Intent, error) {
	if amountMinor <= 0 {
		return nil, ErrInvalidAmount
	}

	donorName := htmlsanitize.Plain(form.Name)
	message := htmlsanitize.Plain(form.Message)
	if donorName == "" || message == "" {
		return nil, ErrInvalidForm
	}

	recipient, err := s.users.GetByName(ctx, recipientName)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			return nil, ErrRecipientNotFound
		}
		// A store outage is not "no such creator"; let the caller
		// surface it as a retryable server error.
		return nil, fmt.Errorf("resolve recipient: %w", err)
	}
	if !recipient.HasStripeCredentials() {
		return nil, ErrRecipientNotConfigured
	}

	secretKey, err := s.sealer.Open(recipient.StripeSecretKey)
	if err != nil {
		return nil, fmt.Errorf("unseal recipient credentials: %w", err)
	}

	// The provider call inherits the request context, capped so a slow
	// remote API cannot hold the request open indefinitely.
	pctx, cancel := context.WithTimeout(ctx, timeouts.Provider())
	defer cancel()

	intent, err := s.intents.CreateIntent(pctx, IntentRequest{
		SecretKey:   secretKey,
		AccountID:   recipient.StripeAccountID,
		AmountMinor: amountMinor,
		Currency:    Currency,
		Metadata: map[string]string{
			"to_user": recipient.Name,
			"name":    donorName,
			"message": message,
		},
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return nil, &ProviderError{Err: err}
	}

	_, err = s.payments.Create(ctx, models.Payment{
		OID:     intent.ID,
		ToUser:  recipient.Name,
		Name:    donorName,
		Message: message,
		Amount:  float64(amountMinor) / 100,
	})
	if err != nil {
		// Orphaned remote intent: no confirmation token is handed out,
		// so no funds can move against it.
		s.log.Error("payment record write failed after intent creation",
			zap.String("intent_id", intent.ID),
			zap.String("to_user", recipient.Name),
			zap.Error(err))
		return nil, fmt.Errorf("record payment: %w", err)
	}

	return intent, nil
}

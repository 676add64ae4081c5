// Package stripepay is the production donation.IntentCreator backed by
// stripe-go. Every call builds a client keyed by the recipient's own
// secret key: each creator is their own merchant of record, so there is
// no process-wide stripe.Key.
package stripepay

import (
	"context"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
	"go.uber.org/zap"

	"github.com/getmeachai/getmeachai/internal/app/donation"
)

type Client struct {
	log *zap.Logger
}

func New(logger *zap.Logger) *Client {
	return &Client{log: logger}
}

// CreateIntent creates a payment-intent with automatic payment methods
// enabled. When the recipient has a connected account, funds are routed
// there via transfer_data; otherwise they settle on the account behind
// the secret key.
func (c *Client) CreateIntent(ctx context.Context, req donation.IntentRequest) (*donation.Intent, error) {
	sc := &client.API{}
	sc.Init(req.SecretKey, nil)

	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Amount:   stripe.Int64(req.AmountMinor),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if req.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(req.IdempotencyKey)
	}
	if req.AccountID != "" {
		params.TransferData = &stripe.PaymentIntentTransferDataParams{
			Destination: stripe.String(req.AccountID),
		}
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := sc.PaymentIntents.New(params)
	if err != nil {
		c.log.Warn("payment intent creation failed",
			zap.Int64("amount_minor", req.AmountMinor),
			zap.Error(err))
		return nil, err
	}

	return &donation.Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
	}, nil
}

// Package payment wraps the external payment collaborator. The checkout
// orchestrator only sees the Provider interface; Stripe is the one real
// implementation.
package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// Intent is the collaborator's handle for an in-progress charge attempt.
// ClientSecret is handed back to the client for confirmation.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
}

// IntentRequest tags the charge with order identifiers for reconciliation.
type IntentRequest struct {
	// AmountMinor is the charge amount in minor currency units (cents).
	AmountMinor int64
	Currency    string
	OrderID     string
	OrderNumber string
	UserID      string
}

type Provider interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}

// StripeProvider creates payment intents against the Stripe API.
type StripeProvider struct{}

// NewStripeProvider sets the package-level API key and returns a provider.
// Returns an error when no key is configured so checkout can refuse card
// payments instead of failing on the first request.
func NewStripeProvider(secretKey string) (*StripeProvider, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("stripe secret key is not configured")
	}
	stripe.Key = secretKey
	return &StripeProvider{}, nil
}

func (p *StripeProvider) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountMinor),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("orderId", req.OrderID)
	params.AddMetadata("orderNumber", req.OrderNumber)
	params.AddMetadata("userId", req.UserID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
	}, nil
}

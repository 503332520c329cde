// Package payment defines the two-phase payment provider contract consumed
// by checkout, and a PayPal REST implementation of it.
package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// Intent is a provider-side payment awaiting payer approval.
type Intent struct {
	ID          string
	ApprovalURL string
}

// Provider drives an external payment gateway through a create→execute
// protocol. Implementations must bound their calls with a timeout; failures
// (declines and transport errors alike) are returned as errors wrapping
// common.ErrPaymentProvider.
type Provider interface {
	// CreateIntent submits a payment for the given amount and returns the
	// provider's payment id plus the URL the payer must visit to approve it.
	CreateIntent(ctx context.Context, amount decimal.Decimal, currency string) (*Intent, error)

	// Execute finalizes an approved payment identified by paymentID using
	// the payer confirmation token.
	Execute(ctx context.Context, paymentID, payerToken string) error
}

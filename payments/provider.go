package payments

import "context"

// LineItem is one priced cart line sent to the hosted checkout.
type LineItem struct {
	ID        string
	Title     string
	UnitPrice float64
	Quantity  int
}

// Provider creates hosted checkout sessions and resolves webhook
// notifications. Implemented by MercadoPago in production and by a fake in
// handler tests.
type Provider interface {
	// CreateCheckout opens a checkout session for the given order and returns
	// the redirect URL the customer completes payment on.
	CreateCheckout(ctx context.Context, orderRef string, items []LineItem) (string, error)

	// PaymentStatus resolves a provider payment id to the order reference it
	// was created for and whether it is approved.
	PaymentStatus(ctx context.Context, paymentID string) (orderRef string, approved bool, err error)
}

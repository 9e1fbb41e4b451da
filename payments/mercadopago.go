package payments

import (
	"context"
	"fmt"
	"strconv"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

// MercadoPago implements Provider on top of the Mercado Pago checkout-pro
// flow: a preference per order, init_point as the redirect URL.
type MercadoPago struct {
	preferences preference.Client
	payments    payment.Client

	currency   string
	successURL string
	failureURL string
}

func NewMercadoPago(accessToken, currency, successURL, failureURL string) (*MercadoPago, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPago{
		preferences: preference.NewClient(cfg),
		payments:    payment.NewClient(cfg),
		currency:    currency,
		successURL:  successURL,
		failureURL:  failureURL,
	}, nil
}

func (m *MercadoPago) CreateCheckout(ctx context.Context, orderRef string, items []LineItem) (string, error) {
	request := preference.Request{
		Items:             make([]preference.ItemRequest, 0, len(items)),
		ExternalReference: orderRef,
		BackURLs: &preference.BackURLsRequest{
			Success: m.successURL,
			Failure: m.failureURL,
			Pending: m.successURL,
		},
		AutoReturn: "approved",
	}

	for _, item := range items {
		request.Items = append(request.Items, preference.ItemRequest{
			ID:         item.ID,
			Title:      item.Title,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			CurrencyID: m.currency,
		})
	}

	resp, err := m.preferences.Create(ctx, request)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout preference: %w", err)
	}
	if resp.InitPoint == "" {
		return "", fmt.Errorf("checkout preference has no redirect URL")
	}

	return resp.InitPoint, nil
}

func (m *MercadoPago) PaymentStatus(ctx context.Context, paymentID string) (string, bool, error) {
	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return "", false, fmt.Errorf("invalid payment id %q: %w", paymentID, err)
	}

	resp, err := m.payments.Get(ctx, id)
	if err != nil {
		return "", false, fmt.Errorf("failed to fetch payment %d: %w", id, err)
	}

	return resp.ExternalReference, resp.Status == "approved", nil
}

package payments

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var mockIDPrefix = map[entities.Provider]string{
	entities.ProviderCardCheckout:  "cs_mock_",
	entities.ProviderPixBilling:    "pref_mock_",
	entities.ProviderWalletBilling: "bill_mock_",
}

// MockGateway answers locally with a synthetic pending session. Enabled with
// PAYMENT_GATEWAY_MOCK for local runs without provider credentials.
type MockGateway struct {
	provider   entities.Provider
	returnBase string
	expiry     time.Duration
	now        func() time.Time
}

var _ interfaces.IPaymentGateway = (*MockGateway)(nil)

func NewMockGateway(provider entities.Provider, returnBaseURL string) *MockGateway {
	log.Printf("[payment][mock] mock mode enabled provider=%s", provider)
	return &MockGateway{
		provider:   provider,
		returnBase: strings.TrimRight(returnBaseURL, "/"),
		expiry:     time.Hour,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (g *MockGateway) Provider() entities.Provider {
	return g.provider
}

func (g *MockGateway) CreatePayment(ctx context.Context, req entities.PaymentRequest) (entities.PaymentResult, error) {
	if err := ctx.Err(); err != nil {
		return entities.PaymentResult{}, requestError(g.provider, req.ExternalID, "create payment", err)
	}

	id := mockIDPrefix[g.provider] + strings.ReplaceAll(uuid.NewString(), "-", "")
	now := g.now()
	raw, _ := json.Marshal(map[string]any{
		"id":           id,
		"external_id":  req.ExternalID,
		"status":       "pending",
		"mock":         true,
		"date_created": now.Format(time.RFC3339Nano),
	})
	log.Printf("[payment][mock] create success provider=%s payment_id=%s external_id=%s", g.provider, id, req.ExternalID)

	return entities.PaymentResult{
		Provider:         g.provider,
		PaymentID:        id,
		Status:           entities.StatusPending,
		AmountMinorUnits: req.AmountMinorUnits,
		Currency:         req.Currency,
		RedirectURL:      g.returnBase + "/mock/checkout/" + id,
		ExpiresAt:        expiryAfter(now, g.expiry),
		Raw:              raw,
	}, nil
}

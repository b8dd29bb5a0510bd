package webhooks

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/usecase/interfaces"
)

const abacatePaySecretHeader = "X-Webhook-Secret"

var abacatePayKinds = []string{"billing.paid", "billing.refunded", "billing.expired", "billing.cancelled"}

type abacatePayNotification struct {
	ID      string `json:"id"`
	Event   string `json:"event"`
	DevMode bool   `json:"devMode"`
	Data    struct {
		Billing *struct {
			ID       string `json:"id"`
			Status   string `json:"status"`
			Products []struct {
				ExternalID string `json:"externalId"`
			} `json:"products"`
		} `json:"billing"`
	} `json:"data"`
}

// AbacatePayVerifier validates WalletBilling notifications by shape. The billing
// status is re-read from the API by the reconciler.
type AbacatePayVerifier struct {
	secret string
}

var _ interfaces.IWebhookVerifier = (*AbacatePayVerifier)(nil)

func NewAbacatePayVerifier(secret string) *AbacatePayVerifier {
	return &AbacatePayVerifier{secret: secret}
}

func (v *AbacatePayVerifier) Provider() entities.Provider {
	return entities.ProviderWalletBilling
}

func (v *AbacatePayVerifier) RecognizedKinds() []string {
	return abacatePayKinds
}

func (v *AbacatePayVerifier) Verify(rawBody []byte, headers http.Header) (entities.WebhookEvent, error) {
	var n abacatePayNotification
	if err := json.Unmarshal(rawBody, &n); err != nil {
		return entities.WebhookEvent{}, fmt.Errorf("%w: %w", entities.ErrMalformedPayload, err)
	}
	if n.ID == "" || n.Event == "" || n.Data.Billing == nil || n.Data.Billing.ID == "" {
		return entities.WebhookEvent{}, fmt.Errorf("%w: abacatepay notification without id, event or billing id", entities.ErrMalformedPayload)
	}

	if v.secret != "" {
		got := headers.Get(abacatePaySecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(v.secret)) != 1 {
			return entities.WebhookEvent{}, fmt.Errorf("%w: webhook secret mismatch", entities.ErrInvalidSignature)
		}
	}

	ev := entities.WebhookEvent{
		Provider:        v.Provider(),
		ExternalEventID: n.ID,
		SubjectID:       n.Data.Billing.ID,
		Kind:            n.Event,
		ProviderStatus:  n.Data.Billing.Status,
		OccurredAt:      time.Now().UTC(),
		Raw:             rawBody,
	}
	if len(n.Data.Billing.Products) > 0 {
		ev.Reference = n.Data.Billing.Products[0].ExternalID
	}
	return ev, nil
}

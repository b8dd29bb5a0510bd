package webhooks

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/usecase/interfaces"

	"github.com/stripe/stripe-go/v79/webhook"
)

const stripeSignatureHeader = "Stripe-Signature"

// stripeKinds maps each handled event type to how its provider status is derived.
// An empty value means the status is read from the event object itself.
var stripeKinds = map[string]string{
	"checkout.session.completed":               "",
	"checkout.session.async_payment_succeeded": "paid",
	"checkout.session.async_payment_failed":    "failed",
	"checkout.session.expired":                 "expired",
	"payment_intent.succeeded":                 "",
	"payment_intent.processing":                "",
	"payment_intent.canceled":                  "",
	"payment_intent.payment_failed":            "failed",
	"charge.refunded":                          "refunded",
}

type stripeObject struct {
	ID                string            `json:"id"`
	Object            string            `json:"object"`
	Status            string            `json:"status"`
	PaymentStatus     string            `json:"payment_status"`
	ClientReferenceID string            `json:"client_reference_id"`
	Metadata          map[string]string `json:"metadata"`
}

// StripeVerifier checks the Stripe-Signature header of CardCheckout notifications.
type StripeVerifier struct {
	secret    string
	tolerance time.Duration
}

var _ interfaces.IWebhookVerifier = (*StripeVerifier)(nil)

func NewStripeVerifier(secret string) *StripeVerifier {
	if secret == "" {
		log.Printf("[webhook][stripe] missing STRIPE_WEBHOOK_SECRET; card_checkout webhooks will be rejected")
	}
	return &StripeVerifier{secret: secret, tolerance: webhook.DefaultTolerance}
}

func (v *StripeVerifier) Provider() entities.Provider {
	return entities.ProviderCardCheckout
}

func (v *StripeVerifier) RecognizedKinds() []string {
	out := make([]string, 0, len(stripeKinds))
	for k := range stripeKinds {
		out = append(out, k)
	}
	return out
}

func (v *StripeVerifier) Verify(rawBody []byte, headers http.Header) (entities.WebhookEvent, error) {
	if v.secret == "" {
		return entities.WebhookEvent{}, fmt.Errorf("%w: stripe webhook secret is not configured", entities.ErrProviderConfiguration)
	}

	ev, err := webhook.ConstructEventWithOptions(rawBody, headers.Get(stripeSignatureHeader), v.secret, webhook.ConstructEventOptions{
		Tolerance:                v.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		if isStripeSignatureError(err) {
			return entities.WebhookEvent{}, fmt.Errorf("%w: %w", entities.ErrInvalidSignature, err)
		}
		return entities.WebhookEvent{}, fmt.Errorf("%w: %w", entities.ErrMalformedPayload, err)
	}

	if ev.ID == "" || ev.Type == "" || ev.Data == nil || len(ev.Data.Raw) == 0 {
		return entities.WebhookEvent{}, fmt.Errorf("%w: stripe event without id, type or data", entities.ErrMalformedPayload)
	}
	var obj stripeObject
	if err := json.Unmarshal(ev.Data.Raw, &obj); err != nil || obj.ID == "" {
		return entities.WebhookEvent{}, fmt.Errorf("%w: stripe event object without id", entities.ErrMalformedPayload)
	}

	out := entities.WebhookEvent{
		Provider:        v.Provider(),
		ExternalEventID: ev.ID,
		SubjectID:       obj.ID,
		Reference:       obj.ClientReferenceID,
		Kind:            string(ev.Type),
		OccurredAt:      time.Unix(ev.Created, 0).UTC(),
		Raw:             rawBody,
	}
	if out.Reference == "" {
		out.Reference = obj.Metadata["external_id"]
	}

	if fixed, known := stripeKinds[out.Kind]; known {
		switch {
		case fixed != "":
			out.ProviderStatus = fixed
		case obj.Object == "checkout.session":
			out.ProviderStatus = obj.PaymentStatus
		default:
			out.ProviderStatus = obj.Status
		}
	}
	return out, nil
}

func isStripeSignatureError(err error) bool {
	for _, target := range []error{
		webhook.ErrNotSigned,
		webhook.ErrInvalidHeader,
		webhook.ErrNoValidSignature,
		webhook.ErrTooOld,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

package interfaces

import (
	"net/http"

	"payment_gateway/internal/domain/entities"
)

//go:generate mockgen -source=webhook_verifier_interface.go -destination=mocks/webhook_verifier_interface_mock.go -package=mock_interfaces

// IWebhookVerifier authenticates and normalizes one provider's notifications.
//
// rawBody must be the exact bytes received; a re-serialized body breaks signature checks.
// Failures carry entities.ErrInvalidSignature or entities.ErrMalformedPayload.
type IWebhookVerifier interface {
	Provider() entities.Provider
	Verify(rawBody []byte, headers http.Header) (entities.WebhookEvent, error)
	// RecognizedKinds lists the event kinds that may produce a status transition.
	RecognizedKinds() []string
}

package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/usecase/interfaces"
)

const (
	mercadoPagoSignatureHeader = "X-Signature"
	mercadoPagoRequestIDHeader = "X-Request-Id"
)

var mercadoPagoKinds = []string{"payment"}

type mercadoPagoNotification struct {
	ID          flexibleID `json:"id"`
	Type        string     `json:"type"`
	Topic       string     `json:"topic"`
	Action      string     `json:"action"`
	LiveMode    bool       `json:"live_mode"`
	DateCreated string     `json:"date_created"`
	Data        struct {
		ID flexibleID `json:"id"`
	} `json:"data"`
}

// MercadoPagoVerifier validates PixBilling notifications.
//
// Mercado Pago notifications only carry the payment id; the status is always re-read
// from the API by the reconciler. When a secret is configured the x-signature
// header is checked as well.
type MercadoPagoVerifier struct {
	secret     string
	sentinelID string
}

var _ interfaces.IWebhookVerifier = (*MercadoPagoVerifier)(nil)

func NewMercadoPagoVerifier(secret, sentinelID string) *MercadoPagoVerifier {
	if sentinelID == "" {
		sentinelID = "123456"
	}
	return &MercadoPagoVerifier{secret: secret, sentinelID: sentinelID}
}

func (v *MercadoPagoVerifier) Provider() entities.Provider {
	return entities.ProviderPixBilling
}

func (v *MercadoPagoVerifier) RecognizedKinds() []string {
	return mercadoPagoKinds
}

func (v *MercadoPagoVerifier) Verify(rawBody []byte, headers http.Header) (entities.WebhookEvent, error) {
	var n mercadoPagoNotification
	if err := json.Unmarshal(rawBody, &n); err != nil {
		return entities.WebhookEvent{}, fmt.Errorf("%w: %w", entities.ErrMalformedPayload, err)
	}

	kind := n.Type
	if kind == "" {
		kind = n.Topic
	}
	subject := string(n.Data.ID)
	if subject == "" && n.Topic != "" {
		// Legacy IPN bodies put the resource id at the top level.
		subject = string(n.ID)
	}
	if kind == "" || subject == "" {
		return entities.WebhookEvent{}, fmt.Errorf("%w: mercado pago notification without type or data.id", entities.ErrMalformedPayload)
	}

	if v.secret != "" {
		if err := v.checkSignature(subject, headers); err != nil {
			return entities.WebhookEvent{}, err
		}
	}

	eventID := string(n.ID)
	if eventID == "" || eventID == subject {
		eventID = kind + ":" + n.Action + ":" + subject
	}

	ev := entities.WebhookEvent{
		Provider:        v.Provider(),
		ExternalEventID: eventID,
		SubjectID:       subject,
		Kind:            kind,
		OccurredAt:      parseProviderTime(n.DateCreated),
		Test:            subject == v.sentinelID,
		Raw:             rawBody,
	}
	return ev, nil
}

// checkSignature implements the "ts=...,v1=..." scheme: HMAC-SHA256 over
// "id:<data.id>;request-id:<x-request-id>;ts:<ts>;".
func (v *MercadoPagoVerifier) checkSignature(dataID string, headers http.Header) error {
	var ts, sig string
	for _, part := range strings.Split(headers.Get(mercadoPagoSignatureHeader), ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "ts":
			ts = val
		case "v1":
			sig = val
		}
	}
	if ts == "" || sig == "" {
		return fmt.Errorf("%w: missing x-signature", entities.ErrInvalidSignature)
	}

	manifest := "id:" + strings.ToLower(dataID) + ";"
	if rid := headers.Get(mercadoPagoRequestIDHeader); rid != "" {
		manifest += "request-id:" + rid + ";"
	}
	manifest += "ts:" + ts + ";"

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(manifest))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(sig))) {
		return fmt.Errorf("%w: x-signature mismatch", entities.ErrInvalidSignature)
	}
	return nil
}

func parseProviderTime(s string) time.Time {
	if s == "" {
		return time.Now().UTC()
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.000-07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

// flexibleID accepts ids sent either as JSON strings or numbers.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*f = flexibleID(strings.TrimSpace(str))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*f = flexibleID(num.String())
	return nil
}

package entities

import (
	"encoding/json"
	"time"
)

// PaymentRecord is the payment entity persisted by the storage collaborator.
//
// Storage model (DynamoDB):
//   - PK: id (provider payment id, e.g. Checkout Session id or preference id)
//   - GSI1 (external_id-index): external_id
//
// Provider payload:
//   - RawPayload keeps the provider creation response for traceability/audit.
//     Business logic never reads it.

type PaymentRecord struct {
	ID               string          `json:"id"`
	ExternalID       string          `json:"external_id"`
	Provider         Provider        `json:"provider"`
	Status           CanonicalStatus `json:"status"`
	AmountMinorUnits int64           `json:"amount_minor_units"`
	Currency         Currency        `json:"currency"`
	RedirectURL      string          `json:"redirect_url,omitempty"`
	ExpiresAt        *time.Time      `json:"expires_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	RawPayload json.RawMessage `json:"raw_payload,omitempty"`
}

// NewPaymentRecord builds the record stored right after a successful creation.
func NewPaymentRecord(req PaymentRequest, res PaymentResult, now time.Time) PaymentRecord {
	return PaymentRecord{
		ID:               res.PaymentID,
		ExternalID:       req.ExternalID,
		Provider:         res.Provider,
		Status:           res.Status,
		AmountMinorUnits: res.AmountMinorUnits,
		Currency:         res.Currency,
		RedirectURL:      res.RedirectURL,
		ExpiresAt:        res.ExpiresAt,
		CreatedAt:        now,
		UpdatedAt:        now,
		RawPayload:       res.Raw,
	}
}
